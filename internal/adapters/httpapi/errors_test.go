package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/sandys-snack-club/snack-club-api/internal/platform/logger"
)

// Not parallel: swaps the process-wide default logger for the duration.
func TestWriteAppError_LogsUnknownErrorWithRequestID(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)
	var buf bytes.Buffer
	logger.SetupDefault(&buf)

	r := httptest.NewRequest(http.MethodGet, "/profile", nil)
	r = r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, "req-42"))
	rec := httptest.NewRecorder()

	writeAppError(rec, r, errors.New("pool closed"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", rec.Code)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log entry, got error: %v\nraw: %s", err, buf.String())
	}
	if entry["level"] != "ERROR" {
		t.Errorf("level = %q, want ERROR", entry["level"])
	}
	if entry["requestId"] != "req-42" {
		t.Errorf("requestId = %q, want req-42", entry["requestId"])
	}
	if entry["code"] != "STORAGE_UNAVAILABLE" {
		t.Errorf("code = %q, want STORAGE_UNAVAILABLE", entry["code"])
	}
	if entry["error"] != "pool closed" {
		t.Errorf("error = %q, want the wrapped message", entry["error"])
	}
}
