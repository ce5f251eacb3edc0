package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"movextransfer/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = iota

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func requestLogger(r *http.Request, log logger.ILogger) logger.ILogger {
	if id := RequestIDFromContext(r.Context()); id != "" {
		return log.With(logger.String("request_id", id))
	}
	return log
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogging tags every request with an id (reusing an incoming
// X-Request-ID) and logs one line per request once it completes.
func RequestLogging(log logger.ILogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey, id))

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			log.Info("http request",
				logger.String("request_id", id),
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", rec.status),
				logger.Duration("duration", time.Since(start)),
			)
		})
	}
}

// CORS admits every origin, as the static front end may be served from
// several hosts, but warns about origins missing from the configured list.
func CORS(allowed []string, log logger.ILogger) func(http.Handler) http.Handler {
	known := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		known[o] = true
	}
	return handlers.CORS(
		handlers.AllowedOriginValidator(func(origin string) bool {
			if !known[origin] {
				log.Warning("request from unlisted origin", logger.String("origin", origin))
			}
			return true
		}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", RequestIDHeader}),
		handlers.AllowCredentials(),
	)
}
