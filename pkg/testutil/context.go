package testutil

import (
	"net/http"

	"triplist/pkg/requestcontext"
)

// WithRequestID adds a request ID to the request context, as the RequestID
// middleware would.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithClientIP adds client metadata to the request context.
func WithClientIP(req *http.Request, clientIP string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), clientIP, req.UserAgent()))
}
