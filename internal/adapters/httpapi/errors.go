package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/sandys-snack-club/snack-club-api/internal/app/apperr"
)

type errorBody struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	er := errorResponse{Error: errorBody{
		Code:    code,
		Message: message,
		Details: details,
	}}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(er)
}

// writeAppError maps service-layer errors onto the wire envelope. Anything
// that is not an *apperr.Error is reported as a storage failure without
// leaking its message. Every failure is logged with the request id before
// the envelope goes out; server-side failures carry the underlying error.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	rid := middleware.GetReqID(r.Context())

	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Status >= http.StatusInternalServerError {
			slog.Error("request failed",
				slog.String("requestId", rid),
				slog.String("code", ae.Code),
				slog.Int("status", ae.Status),
				slog.String("error", err.Error()),
			)
		} else {
			slog.Warn("request rejected",
				slog.String("requestId", rid),
				slog.String("code", ae.Code),
				slog.Int("status", ae.Status),
			)
		}
		writeError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}

	slog.Error("request failed",
		slog.String("requestId", rid),
		slog.String("code", apperr.CodeStorageUnavailable),
		slog.Int("status", http.StatusInternalServerError),
		slog.String("error", err.Error()),
	)
	writeError(w, r, http.StatusInternalServerError, apperr.CodeStorageUnavailable, "storage unavailable", nil)
}

// writeJSON encodes the success envelope into a buffer before committing the
// status line, so an encoding failure still produces an error envelope
// instead of a truncated success response.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	body, err := json.Marshal(struct {
		Data any `json:"data"`
	}{Data: data})
	if err != nil {
		slog.Error("response encoding failed",
			slog.String("requestId", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()),
		)
		writeError(w, r, http.StatusInternalServerError, apperr.CodeStorageUnavailable, "failed to encode response", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
