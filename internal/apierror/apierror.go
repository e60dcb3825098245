// Package apierror holds the error envelopes of the HTTP API. Every 4xx/5xx
// body goes through it so internal details (stack traces, SQL errors) never
// reach the client.
package apierror

// Machine-readable error codes for the SPA. Empty for plain messages.
const (
	CodeNotFound      = "not_found"
	CodeConflict      = "conflict"
	CodeInvalidState  = "invalid_state"
	CodeInvalidInput  = "invalid_input"
	CodeUnauthorized  = "unauthorized"
	CodeForbidden     = "forbidden"
	CodeValidation    = "validation_failed"
	CodeInternalError = "internal"
)

// APIError is the canonical error envelope: {"detail": "...", "code": "..."}.
type APIError struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// WithCode builds an error carrying one of the Code constants.
func WithCode(code, msg string) *APIError {
	return &APIError{Detail: msg, Code: code}
}

// ValidationError lists the failing rule per request field.
type ValidationError struct {
	Detail string            `json:"detail"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Validation failed", Code: CodeValidation, Fields: fields}
}
