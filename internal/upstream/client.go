package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"finboard/internal/core"
	"finboard/internal/log"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000/api/"

	initialBackoff = 250 * time.Millisecond
	maxBackoff     = 4 * time.Second
)

// Config configures the upstream client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client talks to the remote finance REST service on behalf of a caller,
// forwarding the caller's Authorization header verbatim.
type Client struct {
	base    *url.URL
	http    *http.Client
	retries int
	logger  *log.Logger
	backoff func(attempt int) time.Duration
}

// NewClient validates the base URL and builds a client.
func NewClient(cfg Config) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse upstream base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("upstream base URL must be http or https, got %q", base.Scheme)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Discard()
	}

	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}

	return &Client{
		base:    base,
		http:    httpClient,
		retries: retries,
		logger:  logger.WithComponent(log.ComponentUpstream),
		backoff: exponentialBackoff,
	}, nil
}

// exponentialBackoff returns 250ms, 500ms, 1s … capped at 4s.
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 5 {
		return maxBackoff
	}
	d := initialBackoff * time.Duration(1<<uint(attempt))
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

// AnalyticsOverview fetches analytics/overview/.
func (c *Client) AnalyticsOverview(ctx context.Context, auth string) (*AnalyticsOverview, error) {
	var out AnalyticsOverview
	if err := c.get(ctx, auth, "analytics/overview/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Dashboard fetches dashboard/summary/.
func (c *Client) Dashboard(ctx context.Context, auth string) (*DashboardResponse, error) {
	var out DashboardResponse
	if err := c.get(ctx, auth, "dashboard/summary/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Categories lists the caller's categories.
func (c *Client) Categories(ctx context.Context, auth string) ([]core.Category, error) {
	var out []core.Category
	if err := c.get(ctx, auth, "categories/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory posts a new category.
func (c *Client) CreateCategory(ctx context.Context, auth string, in core.CategoryInput) (*core.Category, error) {
	var out core.Category
	if err := c.send(ctx, auth, http.MethodPost, "categories/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory replaces category id.
func (c *Client) UpdateCategory(ctx context.Context, auth string, id int64, in core.CategoryInput) (*core.Category, error) {
	var out core.Category
	if err := c.send(ctx, auth, http.MethodPut, itemPath("categories", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory removes category id.
func (c *Client) DeleteCategory(ctx context.Context, auth string, id int64) error {
	return c.send(ctx, auth, http.MethodDelete, itemPath("categories", id), nil, nil)
}

// Transactions lists transactions with the server-side filters applied.
func (c *Client) Transactions(ctx context.Context, auth string, q TransactionQuery) ([]core.Transaction, error) {
	params := url.Values{}
	if q.Type != "" && q.Type != core.All {
		params.Set("type", q.Type)
	}
	if q.CategoryID != nil && *q.CategoryID != 0 {
		params.Set("category", strconv.FormatInt(*q.CategoryID, 10))
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}

	var out []core.Transaction
	if err := c.get(ctx, auth, "transactions/", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTransaction posts a new transaction.
func (c *Client) CreateTransaction(ctx context.Context, auth string, in core.TransactionInput) (*core.Transaction, error) {
	var out core.Transaction
	if err := c.send(ctx, auth, http.MethodPost, "transactions/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTransaction replaces transaction id.
func (c *Client) UpdateTransaction(ctx context.Context, auth string, id int64, in core.TransactionInput) (*core.Transaction, error) {
	var out core.Transaction
	if err := c.send(ctx, auth, http.MethodPut, itemPath("transactions", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTransaction removes transaction id.
func (c *Client) DeleteTransaction(ctx context.Context, auth string, id int64) error {
	return c.send(ctx, auth, http.MethodDelete, itemPath("transactions", id), nil, nil)
}

// Profile fetches the caller's account and display settings.
func (c *Client) Profile(ctx context.Context, auth string) (*ProfileResponse, error) {
	var out ProfileResponse
	if err := c.get(ctx, auth, "settings/profile/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile changes the caller's account and display settings.
func (c *Client) UpdateProfile(ctx context.Context, auth string, in core.ProfileUpdate) (*ProfileResponse, error) {
	var out ProfileResponse
	if err := c.send(ctx, auth, http.MethodPut, "settings/profile/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func itemPath(collection string, id int64) string {
	return collection + "/" + strconv.FormatInt(id, 10) + "/"
}

// get performs an idempotent request, retrying transport failures and
// retryable statuses.
func (c *Client) get(ctx context.Context, auth, path string, params url.Values, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := c.backoff(attempt - 1)
			c.logger.WarnContext(ctx, "Retrying upstream request",
				log.FieldEndpoint, path,
				log.FieldAttempt, attempt,
				"backoff", wait.String(),
				log.FieldError, lastErr.Error())
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("upstream GET %s: %w", path, ctx.Err())
			case <-timer.C:
			}
		}

		err := c.do(ctx, auth, http.MethodGet, path, params, nil, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(ctx, err) {
			return err
		}
	}
	return lastErr
}

func (c *Client) send(ctx context.Context, auth, method, path string, body, out any) error {
	return c.do(ctx, auth, method, path, nil, body, out)
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	var decodeErr *decodeError
	return !errors.As(err, &decodeErr) && !errors.Is(err, ErrNoCredentials)
}

type decodeError struct{ err error }

func (e *decodeError) Error() string { return "decode upstream response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }
func (e *decodeError) Is(target error) bool { return target == ErrBadResponse }

func (c *Client) do(ctx context.Context, auth, method, path string, params url.Values, body, out any) error {
	if strings.TrimSpace(auth) == "" {
		return ErrNoCredentials
	}

	ref := &url.URL{Path: path}
	if len(params) > 0 {
		ref.RawQuery = params.Encode()
	}
	target := c.base.ResolveReference(ref)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode upstream request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upstream %s %s: %w: %w", method, path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "Upstream call completed",
		log.NewFields().WithUpstream(method, path, resp.StatusCode, time.Since(start)).ToSlice()...)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: string(snippet)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &decodeError{err: err}
	}
	return nil
}
