// Package http exposes the dashboard services as a JSON API.
//
// This file maps service errors onto HTTP statuses and writes JSON bodies.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"finboard/internal/log"
	"finboard/internal/services"
	"finboard/internal/storage"
	"finboard/internal/upstream"
)

type errorResponse struct {
	Error string `json:"error"`
}

// requestError is a client mistake detected while parsing the request.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error {
	return &requestError{msg: msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps an error onto the status, the message shown to the caller
// and the error category used in logs. Internal details are never echoed
// for 5xx statuses.
func statusFor(err error) (int, string, string) {
	var (
		reqErr    *requestError
		valErr    *services.ValidationError
		statusErr *upstream.StatusError
	)
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, reqErr.msg, log.ErrorTypeValidation
	case errors.As(err, &valErr):
		return http.StatusUnprocessableEntity, valErr.Error(), log.ErrorTypeValidation
	case errors.Is(err, upstream.ErrNoCredentials):
		return http.StatusUnauthorized, "missing Authorization header", log.ErrorTypeAuth
	case errors.Is(err, upstream.ErrUnauthorized):
		return http.StatusUnauthorized, "credentials rejected", log.ErrorTypeAuth
	case errors.Is(err, upstream.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "not found", log.ErrorTypeNotFound
	case errors.As(err, &statusErr) && statusErr.IsValidation():
		return http.StatusUnprocessableEntity, "upstream rejected the request", log.ErrorTypeValidation
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusBadGateway, "upstream service unavailable", log.ErrorTypeTimeout
	case errors.Is(err, upstream.ErrUnavailable):
		return http.StatusBadGateway, "upstream service unavailable", log.ErrorTypeNetwork
	case errors.As(err, &statusErr), errors.Is(err, upstream.ErrBadResponse):
		return http.StatusBadGateway, "upstream service unavailable", log.ErrorTypeUpstream
	default:
		return http.StatusInternalServerError, "internal error", log.ErrorTypeInternal
	}
}

// writeError logs err with the request logger and writes the mapped status.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg, errType := statusFor(err)
	logger := log.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.LogError(r.Context(), logger, "Request failed", err, op, log.NewFields().
			WithErrorType(errType).
			WithHTTPRequest(r.Method, r.URL.Path, "", ""))
	} else {
		logger.DebugContext(r.Context(), "Request rejected",
			log.FieldOperation, op,
			log.FieldStatusCode, status,
			log.FieldErrorType, errType,
			log.FieldError, err.Error())
	}
	writeErrorMessage(w, status, msg)
}
