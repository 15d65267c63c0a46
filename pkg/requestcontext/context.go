// Package requestcontext holds request-scoped values that middleware sets and
// services read: request id, client address and user agent, and the request's
// notion of "now". It has no net/http dependency so stores and services can
// import it freely.
//
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//	ctx = requestcontext.WithClientMetadata(ctx, ip, userAgent)
//	ctx = requestcontext.WithTime(ctx, fixedTime) // tests
//
//	requestcontext.RequestID(ctx)
//	requestcontext.Now(ctx)
package requestcontext

import (
	"context"
	"time"
)

type key int

const (
	requestIDKey key = iota
	clientIPKey
	userAgentKey
	requestTimeKey
)

func value[T any](ctx context.Context, k key) (T, bool) {
	v, ok := ctx.Value(k).(T)
	return v, ok
}

// RequestID returns the id assigned by the RequestID middleware, or "".
func RequestID(ctx context.Context) string {
	v, _ := value[string](ctx, requestIDKey)
	return v
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ClientIP returns the caller address resolved by the ClientMetadata
// middleware, or "" outside an HTTP request.
func ClientIP(ctx context.Context) string {
	v, _ := value[string](ctx, clientIPKey)
	return v
}

func UserAgent(ctx context.Context) string {
	v, _ := value[string](ctx, userAgentKey)
	return v
}

func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey, clientIP)
	return context.WithValue(ctx, userAgentKey, userAgent)
}

// Now returns the time pinned for this request. Outside a request (workers,
// tests without WithTime) it falls back to the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := value[time.Time](ctx, requestTimeKey); ok {
		return t
	}
	return time.Now()
}

// WithTime pins "now" for everything downstream; checklist and item
// timestamps taken within one request then agree.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}
