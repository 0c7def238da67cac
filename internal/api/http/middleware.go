package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ishant212/NFT-AirBnB/internal/domain"
	"github.com/ishant212/NFT-AirBnB/internal/logger"
	"github.com/ishant212/NFT-AirBnB/internal/security"
)

type contextKey string

const (
	callerKey    contextKey = "caller"
	requestIDKey contextKey = "request_id"
)

// CallerFromContext returns the authenticated caller address, if any.
func CallerFromContext(ctx context.Context) (domain.Address, bool) {
	addr, ok := ctx.Value(callerKey).(domain.Address)
	return addr, ok
}

// RequestIDMiddleware tags every request with a uuid for log correlation.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// LoggingMiddleware logs method, path, status and latency per request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		id, _ := r.Context().Value(requestIDKey).(string)
		logger.Info("HTTP request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// AuthMiddleware resolves the caller identity from a Bearer token and stores
// it on the request context. Requests without a valid token are rejected.
func AuthMiddleware(tokens security.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
				return
			}
			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
				return
			}
			ctx := context.WithValue(r.Context(), callerKey, domain.Address(claims.Address))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
