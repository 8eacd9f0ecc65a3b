package api

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/checkpoint/metrics"
	"github.com/yourusername/checkpoint/pkg/checkpoint"
)

// Handler serves the admission-controlled validation endpoint. All
// rate-limit decisions are delegated to the limiter; this layer only
// parses, branches on the result, and writes the response.
type Handler struct {
	limiter    *checkpoint.Limiter
	recorder   metrics.Recorder
	logger     *slog.Logger
	trustProxy bool
}

// NewHandler creates an API handler. Recorder may be nil when no
// metrics sink is configured.
func NewHandler(limiter *checkpoint.Limiter, recorder metrics.Recorder, logger *slog.Logger, trustProxy bool) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		limiter:    limiter,
		recorder:   recorder,
		logger:     logger,
		trustProxy: trustProxy,
	}
}

// SecurityRequest is the incoming validation request.
type SecurityRequest struct {
	UserID   string `json:"userId"`
	Input    string `json:"input"`
	Category string `json:"category"`
}

// SecurityResponse is the wire shape shared by every outcome.
// SanitizedOutput is a pointer so rejections serialize it as null.
type SecurityResponse struct {
	Blocked         bool    `json:"blocked"`
	Reason          string  `json:"reason"`
	SanitizedOutput *string `json:"sanitizedOutput"`
	RetryAfter      int     `json:"retryAfter,omitempty"`
	Confidence      float64 `json:"confidence"`
}

// ValidateSecurity handles POST /security/validate.
func (h *Handler) ValidateSecurity(w http.ResponseWriter, r *http.Request) {
	var req SecurityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeInvalidRequest(w)
		return
	}
	if req.UserID == "" || req.Input == "" || req.Category == "" {
		h.writeInvalidRequest(w)
		return
	}

	key := checkpoint.DeriveKey(req.UserID, h.clientAddress(r))
	admitted, retryAfter := h.limiter.CheckAndConsume(key)

	if h.recorder != nil {
		_ = h.recorder.Record(r.Context(), metrics.Event{
			Key:               key,
			Allowed:           admitted,
			RetryAfterSeconds: retryAfter,
			At:                time.Now(),
		})
	}

	if !admitted {
		h.logger.Info("security_event",
			slog.String("event_type", "RATE_LIMIT_BLOCK"),
			slog.String("user_id", req.UserID),
			slog.Int("retry_after", retryAfter),
		)

		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		writeJSON(w, http.StatusTooManyRequests, SecurityResponse{
			Blocked:    true,
			Reason:     "Too many requests. Please retry later.",
			RetryAfter: retryAfter,
			Confidence: 0.99,
		})
		return
	}

	writeJSON(w, http.StatusOK, SecurityResponse{
		Blocked:         false,
		Reason:          "Input passed all security checks",
		SanitizedOutput: &req.Input,
		Confidence:      0.95,
	})
}

func (h *Handler) writeInvalidRequest(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, SecurityResponse{
		Blocked:    true,
		Reason:     "Invalid request format",
		Confidence: 0.98,
	})
}

// Recoverer converts a panic anywhere below it into the generic
// internal-error response, keeping the core free of catch-all fault
// handling.
func (h *Handler) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error("security_event",
					slog.String("event_type", "SYSTEM_ERROR"),
					slog.Any("panic", rec),
				)
				writeJSON(w, http.StatusInternalServerError, SecurityResponse{
					Blocked:    true,
					Reason:     "Internal validation error",
					Confidence: 0.90,
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// clientAddress returns the transport peer address for key derivation.
// Proxy headers are only consulted when the deployment declared them
// trustworthy.
func (h *Handler) clientAddress(r *http.Request) string {
	if h.trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// The first entry is the original client.
			if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
				return ip
			}
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
