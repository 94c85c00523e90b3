// Package modeladapter holds the shared state and transport plumbing for LLM
// provider implementations: auth, request building, the retry/backoff
// executor, and the provider error taxonomy.
package modeladapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Auth holds authentication settings for an LLM provider API.
type Auth struct {
	Key    string // API key value.
	Header string // Header name (default: "Authorization").
	Scheme string // Scheme prefix (default: "Bearer" when Header is "Authorization").
}

// ModelAdapter holds shared state for LLM provider implementations. Embed it
// in concrete provider structs to get HTTP helpers, auth, custom headers, and
// retried JSON calls. Concrete types define their own Ask method on top.
type ModelAdapter struct {
	Provider string            // Provider identity carried on errors (e.g. "openai").
	Name     string            // Model identifier (e.g. "gpt-4o-mini").
	Auth     Auth              // Authentication settings.
	Endpoint string            // Full request URL.
	Client   *http.Client      // HTTP client; falls back to http.DefaultClient.
	Headers  map[string]string // Extra headers applied to every request.
	Timeout  time.Duration     // Per-attempt timeout; zero means none.
	Retry    Policy            // Retry/backoff policy for PostJSON.
}

// New creates a ModelAdapter with the given settings.
// A nil client falls back to http.DefaultClient at call time.
func New(endpoint string, auth Auth, client *http.Client) ModelAdapter {
	return ModelAdapter{
		Auth:     auth,
		Endpoint: endpoint,
		Client:   client,
	}
}

// httpClient returns the configured client or http.DefaultClient. Per-attempt
// timeouts come from the Timeout field, not the client.
func (a *ModelAdapter) httpClient() *http.Client {
	if a.Client != nil {
		return a.Client
	}
	return http.DefaultClient
}

// NewRequest builds an *http.Request against the adapter's endpoint with
// auth and custom headers already applied.
func (a *ModelAdapter) NewRequest(ctx context.Context, method string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.Endpoint, body)
	if err != nil {
		return nil, err
	}

	// Apply auth.
	if a.Auth.Key != "" {
		header := a.Auth.Header
		if header == "" {
			header = "Authorization"
		}

		value := a.Auth.Key
		if header == "Authorization" {
			scheme := a.Auth.Scheme
			if scheme == "" {
				scheme = "Bearer"
			}

			value = scheme + " " + value
		} else if a.Auth.Scheme != "" {
			value = a.Auth.Scheme + " " + value
		}

		req.Header.Set(header, value)
	}

	// Apply custom headers.
	for k, v := range a.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// PostJSON marshals payload as JSON and POSTs it to the adapter's endpoint
// under the retry policy: each attempt gets its own timeout, 429/5xx and
// transport failures are retried with exponential backoff, other statuses
// fail immediately. On a 2xx response the body is unmarshaled into dest
// (discarded when dest is nil). Failures come back as *RequestError or
// *APIError carrying the adapter's provider identity.
func (a *ModelAdapter) PostJSON(ctx context.Context, payload any, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &RequestError{Provider: a.Provider, Err: fmt.Errorf("marshal payload: %w", err)}
	}

	_, err = Do(ctx, a.Retry, func(ctx context.Context) (struct{}, Outcome, error) {
		return a.postOnce(ctx, body, dest)
	})

	return err
}

// postOnce performs a single attempt and classifies its outcome for the
// retry executor.
func (a *ModelAdapter) postOnce(ctx context.Context, body []byte, dest any) (struct{}, Outcome, error) {
	attemptCtx := ctx
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	req, err := a.NewRequest(attemptCtx, http.MethodPost, bytes.NewReader(body))
	if err != nil {
		return struct{}{}, Fatal, &RequestError{Provider: a.Provider, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient().Do(req)
	if err != nil {
		outcome := Fatal
		if RetryableTransportErr(ctx, err) {
			outcome = Retryable
		}
		return struct{}{}, outcome, &RequestError{Provider: a.Provider, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{Provider: a.Provider, Status: resp.StatusCode, Body: string(respBody)}

		outcome := Fatal
		if RetryableStatus(resp.StatusCode) {
			outcome = Retryable
		}
		return struct{}{}, outcome, apiErr
	}

	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			// The call succeeded but the body is unusable; retrying won't help.
			return struct{}{}, Fatal, &RequestError{Provider: a.Provider, Err: fmt.Errorf("decode response: %w", err)}
		}
	}

	return struct{}{}, Success, nil
}
