package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tomasen/realip"
	"go.uber.org/zap"
)

type ctxKey int

const loggerKey ctxKey = iota

const requestIDHeader = "X-Request-ID"

func loggerFrom(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return fallback
}

// requestID tags each request with an id, reusing one sent by the client.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), loggerKey, s.logger.With(zap.String("request_id", id)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				loggerFrom(r.Context(), s.logger).Error("panic recovered",
					zap.Any("panic", err),
					zap.Stack("stack"),
				)
				w.Header().Set("Connection", "close")
				s.serverErrorResponse(w, r, fmt.Errorf("%v", err))
			}
		}()
		next.ServeHTTP(w, r)
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

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		loggerFrom(r.Context(), s.logger).Info("request handled",
			zap.String("method", r.Method),
			zap.String("uri", r.URL.RequestURI()),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// rateLimit counts requests per client IP in fixed one-minute windows.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Limiter == nil || s.deps.RequestLimit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		client := realip.FromRequest(r)
		count, err := s.deps.Limiter.IncrementClientRateLimit(r.Context(), client)
		if err != nil {
			// allow request on error
			loggerFrom(r.Context(), s.logger).Warn("rate limit check failed", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		remaining := s.deps.RequestLimit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(s.deps.RequestLimit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if int(count) > s.deps.RequestLimit {
			loggerFrom(r.Context(), s.logger).Warn("rate limit exceeded",
				zap.String("client", client),
				zap.Int64("count", count),
			)
			s.rateLimitExceededResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
