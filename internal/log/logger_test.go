package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			t.Fatalf("decode log line: %v", err)
		}
		out = append(out, m)
	}
	return out
}

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, JSON: true, Output: &buf, Component: ComponentApp})

	logger.WithComponent(ComponentBudget).Info("alert raised", FieldTier, "warning")

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0][FieldComponent] != ComponentBudget {
		t.Errorf("component = %v, want %s", lines[0][FieldComponent], ComponentBudget)
	}
	if lines[0][FieldTier] != "warning" {
		t.Errorf("tier = %v, want warning", lines[0][FieldTier])
	}
}

func TestMiddlewareLogsStatusAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, JSON: true, Output: &buf})

	h := Middleware(logger, func(*http.Request) string { return "req_1" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()).Component() != ComponentHTTP {
			t.Errorf("expected http component logger in context")
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	line := lines[0]
	if line["level"] != "WARN" {
		t.Errorf("level = %v, want WARN", line["level"])
	}
	if line[FieldStatusCode] != float64(http.StatusNotFound) {
		t.Errorf("status = %v, want 404", line[FieldStatusCode])
	}
	if line[FieldRequestID] != "req_1" {
		t.Errorf("request id = %v, want req_1", line[FieldRequestID])
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := FromContext(req.Context()); got == nil || got.Component() != "unknown" {
		t.Fatalf("expected default logger, got %+v", got)
	}
}
