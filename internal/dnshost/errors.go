package dnshost

import "fmt"

// CallErrorKind classifies a failed vendor call
type CallErrorKind string

const (
	ErrKindConnection CallErrorKind = "connection_error"
	ErrKindTimeout    CallErrorKind = "timeout"
	ErrKindHTTP       CallErrorKind = "http_error"
	ErrKindRedirects  CallErrorKind = "too_many_redirects"
	ErrKindRequest    CallErrorKind = "request_error"
	ErrKindUnexpected CallErrorKind = "unexpected_error"

	// ErrKindVendor marks a 2xx response whose envelope carried success=false
	ErrKindVendor CallErrorKind = "vendor_error"
)

// APIError is raised by the vendor resource functions when the underlying
// client call did not succeed. It carries the client's failure kind so
// callers can distinguish transport problems from vendor-side rejections.
type APIError struct {
	Kind       CallErrorKind
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("vendor API error [%s] (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("vendor API error [%s]: %s", e.Kind, e.Message)
}

// newAPIError converts a failed CallResult into an APIError
func newAPIError(res CallResult) *APIError {
	return &APIError{
		Kind:       res.Error,
		StatusCode: res.StatusCode,
		Message:    res.Message,
	}
}
