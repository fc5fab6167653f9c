package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jkirker/Page-Exec-Timer/internal/annotate"
	"github.com/jkirker/Page-Exec-Timer/internal/errors"
	"github.com/jkirker/Page-Exec-Timer/internal/logfields"
	"github.com/jkirker/Page-Exec-Timer/internal/metrics"
	"github.com/jkirker/Page-Exec-Timer/internal/querytrack"
)

type contextKey string

const requestIDContextKey contextKey = "request_id"

// RequestIDFromContext returns the request ID assigned by the context
// middleware, or an empty string outside a request.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDContextKey).(string); ok {
		return id
	}
	return ""
}

// Chain applies the standard middleware stack: request context seeding on
// the outside, then logging, then panic recovery closest to the handler.
func Chain(logger *slog.Logger, adapter *errors.HTTPErrorAdapter, recorder metrics.Recorder) func(http.Handler) http.Handler {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return func(next http.Handler) http.Handler {
		return requestContextMiddleware(
			loggingMiddleware(logger, recorder,
				panicRecoveryMiddleware(logger, adapter, next)))
	}
}

// requestContextMiddleware seeds everything downstream consumers read from
// the context: the request ID, the start-time marker the annotator resolves
// first, and the query counter storage writes accumulate into.
func requestContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := uuid.NewString()
		ctx = context.WithValue(ctx, requestIDContextKey, id)
		ctx = annotate.WithStartTime(ctx, time.Now())
		ctx = querytrack.WithCounter(ctx)

		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs method, path, status, duration, user agent, and
// remote addr, and feeds the request duration histogram.
func loggingMiddleware(logger *slog.Logger, recorder metrics.Recorder, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start)

		recorder.ObserveRequestDuration(routeLabel(r.URL.Path), duration)
		logger.Info("HTTP request",
			logfields.Method(r.Method),
			logfields.Path(r.URL.Path),
			logfields.Status(wrapped.statusCode),
			slog.Duration("duration", duration),
			logfields.RequestID(RequestIDFromContext(r.Context())),
			logfields.UserAgent(r.UserAgent()),
			logfields.RemoteAddr(r.RemoteAddr))
	})
}

// panicRecoveryMiddleware recovers from handler panics and writes a
// structured error response.
func panicRecoveryMiddleware(logger *slog.Logger, adapter *errors.HTTPErrorAdapter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("HTTP handler panic",
					slog.Any("panic", rec),
					logfields.Path(r.URL.Path),
					logfields.Method(r.Method),
					logfields.RemoteAddr(r.RemoteAddr))

				panicErr := errors.New(errors.CategoryInternal, errors.SeverityError, "internal server error").
					WithContext("path", r.URL.Path).
					WithContext("method", r.Method)

				adapter.WriteErrorResponse(w, r, panicErr)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// routeLabel keeps histogram label cardinality bounded: fixed endpoints keep
// their path, everything else is a content page.
func routeLabel(path string) string {
	switch path {
	case "/health", "/healthz", "/ready", "/readyz", "/metrics", "/api/status":
		return path
	}
	if strings.HasPrefix(path, "/api/") {
		return "/api/*"
	}
	return "/:page"
}

// responseWriter remembers the written status so the access log can report it.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
