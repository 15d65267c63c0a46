// Package httputil holds the response envelope and request decoding helpers
// shared by every HTTP handler.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hay-kot/criterio"

	dErrors "triplist/pkg/domain-errors"
)

// maxBodyBytes bounds request bodies; checklist payloads are a few hundred bytes.
const maxBodyBytes = 1 << 20

// Metadata accompanies every successful response.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Count     *int      `json:"count,omitempty"`
}

// SuccessResponse is the envelope for 2xx responses.
type SuccessResponse struct {
	Success  bool     `json:"success"`
	Data     any      `json:"data"`
	Metadata Metadata `json:"metadata"`
}

// FieldDetail describes a single rejected input field.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorBody is the error portion of the failure envelope.
type ErrorBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []FieldDetail `json:"details,omitempty"`
}

// ErrorResponse is the envelope for 4xx/5xx responses.
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     ErrorBody `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// Validatable is implemented by request bodies that check and normalize themselves.
type Validatable interface {
	Validate() error
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData wraps data in the success envelope.
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, SuccessResponse{
		Success:  true,
		Data:     data,
		Metadata: Metadata{Timestamp: time.Now().UTC()},
	})
}

// WriteList wraps a collection in the success envelope and reports its size.
func WriteList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	count := len(items)
	WriteJSON(w, http.StatusOK, SuccessResponse{
		Success:  true,
		Data:     items,
		Metadata: Metadata{Timestamp: time.Now().UTC(), Count: &count},
	})
}

// StatusOf returns the HTTP status WriteError would answer err with.
func StatusOf(err error) int {
	if de, ok := dErrors.As(err); ok {
		return dErrors.ToHTTPStatus(de.Code)
	}
	return http.StatusInternalServerError
}

// WriteError maps err onto a status code and writes the failure envelope.
// Errors without a domain code are reported as internal errors, and internal
// errors never expose their message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	message := "internal server error"
	if de, ok := dErrors.As(err); ok {
		code = de.Code
		if code != dErrors.CodeInternal {
			message = de.Message
		}
	}

	WriteJSON(w, dErrors.ToHTTPStatus(code), ErrorResponse{
		Success: false,
		Error: ErrorBody{
			Code:    string(code),
			Message: message,
			Details: fieldDetails(err),
		},
		Timestamp: time.Now().UTC(),
	})
}

func fieldDetails(err error) []FieldDetail {
	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	details := make([]FieldDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, FieldDetail{Field: fe.Field, Message: fe.Err.Error()})
	}
	return details
}

// DecodeAndPrepare decodes a JSON body into T and runs its Validate method when
// present. On failure it writes the error response and returns false.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body is required"))
			return nil, false
		}
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON request body"))
		return nil, false
	}

	if v, ok := any(&req).(Validatable); ok {
		if err := v.Validate(); err != nil {
			logger.WarnContext(ctx, "request validation failed",
				"request_id", requestID,
				"error", err,
			)
			WriteError(w, err)
			return nil, false
		}
	}
	return &req, true
}

// ValidationError wraps criterio field errors in a coded validation error so
// WriteError can report per-field details.
func ValidationError(err error) error {
	if err == nil {
		return nil
	}
	return dErrors.Wrap(err, dErrors.CodeValidation, "validation failed")
}
