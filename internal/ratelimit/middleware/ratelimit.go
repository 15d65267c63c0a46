package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"triplist/internal/ratelimit/models"
	dErrors "triplist/pkg/domain-errors"
	"triplist/pkg/platform/httputil"
	metadata "triplist/pkg/platform/middleware/metadata"
	"triplist/pkg/requestcontext"
)

type RateLimiter interface {
	CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error)
}

type Middleware struct {
	limiter  RateLimiter
	logger   *slog.Logger
	disabled bool
}

type Option func(*Middleware)

// WithDisabled disables rate limiting entirely.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func New(limiter RateLimiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		limiter: limiter,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimit limits every request through it against class.
func (m *Middleware) RateLimit(class models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.serve(w, r, next, class)
		})
	}
}

// ByMethod picks the class from the request method: reads for GET and HEAD,
// writes for everything else.
func (m *Middleware) ByMethod(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.serve(w, r, next, models.ClassForMethod(r.Method))
	})
}

func (m *Middleware) serve(w http.ResponseWriter, r *http.Request, next http.Handler, class models.EndpointClass) {
	if m.disabled {
		next.ServeHTTP(w, r)
		return
	}

	ctx := r.Context()
	ip := requestcontext.ClientIP(ctx)
	if ip == "" {
		ip = metadata.ClientIPFromRequest(r)
	}

	result, err := m.limiter.CheckIP(ctx, ip, class)
	if err != nil {
		// Fail open: a broken bucket store must not take the API down.
		m.logger.ErrorContext(ctx, "failed to check IP rate limit",
			"error", err,
			"client_ip", ip,
			"request_id", requestcontext.RequestID(ctx),
		)
		next.ServeHTTP(w, r)
		return
	}

	addRateLimitHeaders(w, result)

	if !result.Allowed {
		writeRateLimitExceeded(w, result)
		return
	}

	next.ServeHTTP(w, r)
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited,
		"too many requests from this IP address, retry after "+strconv.Itoa(result.RetryAfter)+"s"))
}
