package modeladapter

import "fmt"

// MissingKeyError is returned when a provider's credential environment
// variable is absent or empty. No request is attempted.
type MissingKeyError struct {
	Provider string
	EnvVar   string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s is not set in the environment", e.EnvVar)
}

// RequestError is a network-level failure: the request never produced an HTTP
// response, or its body could not be decoded.
type RequestError struct {
	Provider string
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// APIError is an HTTP-level failure: the provider answered with a non-2xx
// status. Body carries the raw response text for diagnostics.
type APIError struct {
	Provider string
	Status   int
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.Provider, e.Status, e.Body)
}

// EmptyResponseError is returned when the call succeeded but the provider
// produced no usable assistant content. It is never retried.
type EmptyResponseError struct {
	Provider string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("%s response did not contain message content", e.Provider)
}
