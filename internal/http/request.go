// This file parses path parameters, query strings and JSON bodies.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"finboard/internal/core"
)

const maxBodyBytes = 1 << 20

// authorization returns the caller's Authorization header, forwarded
// verbatim to the upstream.
func authorization(r *http.Request) string {
	return r.Header.Get("Authorization")
}

// decodeJSON reads a single JSON object into dst. Unknown fields are
// rejected so typos in field names do not silently drop data. An empty
// body is accepted when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF) && allowEmpty:
			return nil
		case errors.Is(err, io.EOF):
			return badRequest("request body is required")
		case errors.As(err, &maxErr):
			return badRequest("request body too large")
		default:
			return badRequest(fmt.Sprintf("invalid JSON body: %v", err))
		}
	}
	if dec.More() {
		return badRequest("request body must contain a single JSON object")
	}
	return nil
}

// int64Param parses a positive integer URL parameter.
func int64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, badRequest(fmt.Sprintf("invalid %s %q", name, raw))
	}
	return id, nil
}

// transactionFilter reads the type, category and search query parameters.
// A missing or "all" category matches every transaction.
func transactionFilter(r *http.Request) (core.TransactionFilter, error) {
	q := r.URL.Query()
	f := core.TransactionFilter{
		Type:   strings.TrimSpace(q.Get("type")),
		Search: strings.TrimSpace(q.Get("search")),
	}
	if raw := strings.TrimSpace(q.Get("category")); raw != "" && raw != core.All {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			return f, badRequest(fmt.Sprintf("invalid category %q", raw))
		}
		f.CategoryID = &id
	}
	return f, nil
}
