package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/germanamz/mpipe/pkg/providers/provider"
)

// Format selects how the final answer is rendered.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
)

// ParseFormat matches raw case-insensitively against the known formats,
// naming the offending source on failure.
func ParseFormat(raw, source string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "text":
		return Text, nil
	case "json":
		return JSON, nil
	}
	return "", fmt.Errorf("invalid %s %q: supported values are text, json", source, strings.TrimSpace(raw))
}

// Inputs carries the explicit per-invocation values (the top precedence
// tier). Nil fields fall through to the next tier.
type Inputs struct {
	Provider    *provider.ID
	Model       *string
	Temperature *float64
	MaxTokens   *int
	Timeout     *int
	Retries     *int
	RetryDelay  *int
	Output      *Format
	ShowUsage   bool
	System      *string
}

// Request is the resolved, validated configuration for one ask invocation.
// Exactly one Request is built per run; nil fields stay absent on the wire.
type Request struct {
	Provider    provider.ID
	Model       string
	Temperature *float64
	MaxTokens   *int
	Timeout     *int // seconds
	Retries     int
	RetryDelay  int // milliseconds
	Output      Format
	ShowUsage   bool
	System      string
}

// DefaultRetryDelay is the hardcoded retry delay in milliseconds.
const DefaultRetryDelay = 500

// source is one tier in a field's precedence chain. The lookup reports
// whether the tier defines the field; a parse failure aborts the whole
// resolution.
type source[T any] struct {
	name string
	get  func() (T, bool, error)
}

// fromPtr defines the field when v is non-nil.
func fromPtr[T any](name string, v *T) source[T] {
	return source[T]{name: name, get: func() (T, bool, error) {
		if v == nil {
			var zero T
			return zero, false, nil
		}
		return *v, true, nil
	}}
}

// fromEnv defines the field when the variable is set to a non-blank value,
// parsing it with parse. Parse failures name the variable.
func fromEnv[T any](key string, parse func(string) (T, error)) source[T] {
	return source[T]{name: key, get: func() (T, bool, error) {
		var zero T

		raw, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(raw) == "" {
			return zero, false, nil
		}

		v, err := parse(strings.TrimSpace(raw))
		if err != nil {
			return zero, false, fmt.Errorf("invalid %s %q: %w", key, strings.TrimSpace(raw), err)
		}
		return v, true, nil
	}}
}

// firstOf tries the tiers in order and returns the first defined value along
// with the defining tier's name.
func firstOf[T any](sources ...source[T]) (T, string, bool, error) {
	for _, s := range sources {
		v, ok, err := s.get()
		if err != nil {
			var zero T
			return zero, s.name, false, err
		}
		if ok {
			return v, s.name, true, nil
		}
	}

	var zero T
	return zero, "", false, nil
}

// Resolve merges the precedence tiers into one validated Request. Fields
// resolve independently: a missing explicit value falls through per-field,
// not per-bundle. Any violation fails the whole resolution.
func Resolve(in Inputs, prof Profile, file *File) (Request, error) {
	var r Request

	// Provider resolves first; the provider-defaults tier is keyed by its
	// result, so that tier cannot define the provider itself.
	prov, err := resolveProvider(in, prof)
	if err != nil {
		return Request{}, err
	}
	r.Provider = prov

	defs := file.ProviderDefaultsFor(prov)

	model, _, ok, err := firstOf(
		fromPtr("--model", nonEmpty(in.Model)),
		fromEnv("MP_MODEL", parseString),
		fromPtr("profile model", nonEmpty(prof.Model)),
		fromPtr("provider defaults model", nonEmpty(defs.Model)),
	)
	if err != nil {
		return Request{}, err
	}
	if !ok {
		return Request{}, fmt.Errorf("no model provided: use --model or set MP_MODEL")
	}
	r.Model = model

	temp, tier, ok, err := firstOf(
		fromPtr("--temperature", in.Temperature),
		fromEnv("MP_TEMPERATURE", parseFloat),
		fromPtr("profile temperature", prof.Temperature),
		fromPtr("provider defaults temperature", defs.Temperature),
	)
	if err != nil {
		return Request{}, err
	}
	if ok {
		if err := validTemperature(temp); err != nil {
			return Request{}, fmt.Errorf("%s: %w", tier, err)
		}
		r.Temperature = &temp
	}

	maxTokens, tier, ok, err := firstOf(
		fromPtr("--max-tokens", in.MaxTokens),
		fromEnv("MP_MAX_TOKENS", parseInt),
		fromPtr("profile max_tokens", prof.MaxTokens),
		fromPtr("provider defaults max_tokens", defs.MaxTokens),
	)
	if err != nil {
		return Request{}, err
	}
	if ok {
		if err := validMaxTokens(maxTokens); err != nil {
			return Request{}, fmt.Errorf("%s: %w", tier, err)
		}
		r.MaxTokens = &maxTokens
	}

	timeout, tier, ok, err := firstOf(
		fromPtr("--timeout", in.Timeout),
		fromEnv("MP_TIMEOUT", parseInt),
		fromPtr("profile timeout", prof.Timeout),
		fromPtr("provider defaults timeout", defs.Timeout),
	)
	if err != nil {
		return Request{}, err
	}
	if ok {
		if err := validTimeout(timeout); err != nil {
			return Request{}, fmt.Errorf("%s: %w", tier, err)
		}
		r.Timeout = &timeout
	}

	retries, tier, ok, err := firstOf(
		fromPtr("--retries", in.Retries),
		fromEnv("MP_RETRIES", parseInt),
		fromPtr("profile retries", prof.Retries),
		fromPtr("provider defaults retries", defs.Retries),
	)
	if err != nil {
		return Request{}, err
	}
	if ok {
		if err := validRetries(retries); err != nil {
			return Request{}, fmt.Errorf("%s: %w", tier, err)
		}
		r.Retries = retries
	}

	delay, tier, ok, err := firstOf(
		fromPtr("--retry-delay", in.RetryDelay),
		fromEnv("MP_RETRY_DELAY", parseInt),
		fromPtr("profile retry_delay", prof.RetryDelay),
		fromPtr("provider defaults retry_delay", defs.RetryDelay),
	)
	if err != nil {
		return Request{}, err
	}
	if !ok {
		delay = DefaultRetryDelay
		tier = "default"
	}
	if err := validRetryDelay(delay); err != nil {
		return Request{}, fmt.Errorf("%s: %w", tier, err)
	}
	r.RetryDelay = delay

	output, err := resolveOutput(in, prof, defs)
	if err != nil {
		return Request{}, err
	}
	r.Output = output

	r.ShowUsage = resolveShowUsage(in, prof, defs)
	r.System = resolveSystem(in, prof, defs)

	return r, nil
}

func resolveProvider(in Inputs, prof Profile) (provider.ID, error) {
	if in.Provider != nil {
		return *in.Provider, nil
	}

	if raw, ok := os.LookupEnv("MP_PROVIDER"); ok && strings.TrimSpace(raw) != "" {
		return provider.Parse(raw, "MP_PROVIDER")
	}

	if prof.Provider != nil {
		return provider.Parse(*prof.Provider, "profile provider")
	}

	return provider.OpenAI, nil
}

func resolveOutput(in Inputs, prof, defs Profile) (Format, error) {
	if in.Output != nil {
		return *in.Output, nil
	}

	if prof.Output != nil {
		return ParseFormat(*prof.Output, "profile output")
	}

	if defs.Output != nil {
		return ParseFormat(*defs.Output, "provider defaults output")
	}

	return Text, nil
}

func resolveShowUsage(in Inputs, prof, defs Profile) bool {
	if in.ShowUsage {
		return true
	}

	if prof.ShowUsage != nil {
		return *prof.ShowUsage
	}

	if defs.ShowUsage != nil {
		return *defs.ShowUsage
	}

	return false
}

func resolveSystem(in Inputs, prof, defs Profile) string {
	for _, v := range []*string{in.System, prof.System, defs.System} {
		if v != nil && strings.TrimSpace(*v) != "" {
			return *v
		}
	}
	return ""
}

// nonEmpty hides pointer string values that trim to empty, so blank entries
// fall through to the next tier.
func nonEmpty(v *string) *string {
	if v == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseString(raw string) (string, error) {
	return raw, nil
}

func parseFloat(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("must be a number")
	}
	return v, nil
}

func parseInt(raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("must be an integer")
	}
	return v, nil
}
