package config_test

import (
	"testing"

	"github.com/germanamz/mpipe/pkg/config"
	"github.com/germanamz/mpipe/pkg/providers/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// clearEnv blanks every MP_* resolution variable so ambient state cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"MP_PROVIDER", "MP_MODEL", "MP_TEMPERATURE", "MP_MAX_TOKENS",
		"MP_TIMEOUT", "MP_RETRIES", "MP_RETRY_DELAY", "MP_CONFIG",
	} {
		t.Setenv(key, "")
	}
}

func TestResolve_HardcodedDefaults(t *testing.T) {
	clearEnv(t)

	req, err := config.Resolve(config.Inputs{Model: ptr("gpt-4o-mini")}, config.Profile{}, nil)
	require.NoError(t, err)

	assert.Equal(t, provider.OpenAI, req.Provider)
	assert.Equal(t, "gpt-4o-mini", req.Model)
	assert.Nil(t, req.Temperature)
	assert.Nil(t, req.MaxTokens)
	assert.Nil(t, req.Timeout)
	assert.Equal(t, 0, req.Retries)
	assert.Equal(t, config.DefaultRetryDelay, req.RetryDelay)
	assert.Equal(t, config.Text, req.Output)
	assert.False(t, req.ShowUsage)
	assert.Equal(t, "", req.System)
}

func TestResolve_MissingModelFails(t *testing.T) {
	clearEnv(t)

	_, err := config.Resolve(config.Inputs{}, config.Profile{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no model provided")
}

func TestResolve_ExplicitOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MP_MODEL", "env-model")
	t.Setenv("MP_TEMPERATURE", "1.5")

	req, err := config.Resolve(config.Inputs{
		Model:       ptr("flag-model"),
		Temperature: ptr(0.1),
	}, config.Profile{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "flag-model", req.Model)
	assert.Equal(t, 0.1, *req.Temperature)
}

func TestResolve_FieldsFallThroughIndependently(t *testing.T) {
	clearEnv(t)
	t.Setenv("MP_TEMPERATURE", "1.2")

	prof := config.Profile{
		Model:   ptr("profile-model"),
		Retries: ptr(3),
	}

	// Model from the profile, temperature from the environment, retry delay
	// from the hardcoded default, all in the same run.
	req, err := config.Resolve(config.Inputs{}, prof, nil)
	require.NoError(t, err)

	assert.Equal(t, "profile-model", req.Model)
	assert.Equal(t, 1.2, *req.Temperature)
	assert.Equal(t, 3, req.Retries)
	assert.Equal(t, config.DefaultRetryDelay, req.RetryDelay)
}

func TestResolve_EnvOverridesProfile(t *testing.T) {
	clearEnv(t)
	t.Setenv("MP_MODEL", "env-model")
	t.Setenv("MP_RETRIES", "4")

	prof := config.Profile{Model: ptr("profile-model"), Retries: ptr(1)}

	req, err := config.Resolve(config.Inputs{}, prof, nil)
	require.NoError(t, err)

	assert.Equal(t, "env-model", req.Model)
	assert.Equal(t, 4, req.Retries)
}

func loadFile(t *testing.T, content string) *config.File {
	t.Helper()

	f, err := config.Load(writeConfig(t, content))
	require.NoError(t, err)

	return f
}

func TestResolve_ProviderDefaultsBelowProfile(t *testing.T) {
	clearEnv(t)

	f := loadFile(t, `
[providers.openai.defaults]
model = "gpt-4o-mini"
temperature = 0.7
max_tokens = 512
`)

	prof := config.Profile{Temperature: ptr(0.2)}

	req, err := config.Resolve(config.Inputs{}, prof, f)
	require.NoError(t, err)

	// Model and max_tokens come from the provider defaults; the profile's
	// temperature wins over the provider default.
	assert.Equal(t, "gpt-4o-mini", req.Model)
	assert.Equal(t, 0.2, *req.Temperature)
	assert.Equal(t, 512, *req.MaxTokens)
}

func TestResolve_ProviderDefaultsKeyedByResolvedProvider(t *testing.T) {
	clearEnv(t)

	f := loadFile(t, `
[providers.openai.defaults]
model = "gpt-4o-mini"

[providers.Fireworks.defaults]
model = "accounts/fireworks/models/kimi-k2-instruct-0905"
`)

	fw := provider.Fireworks
	req, err := config.Resolve(config.Inputs{Provider: &fw}, config.Profile{}, f)
	require.NoError(t, err)

	assert.Equal(t, provider.Fireworks, req.Provider)
	assert.Equal(t, "accounts/fireworks/models/kimi-k2-instruct-0905", req.Model)
}

func TestResolve_ProviderFromEnvAndProfile(t *testing.T) {
	clearEnv(t)
	t.Setenv("MP_PROVIDER", "Fireworks")

	req, err := config.Resolve(config.Inputs{Model: ptr("m")}, config.Profile{Provider: ptr("openai")}, nil)
	require.NoError(t, err)
	assert.Equal(t, provider.Fireworks, req.Provider)

	t.Setenv("MP_PROVIDER", "")
	req, err = config.Resolve(config.Inputs{Model: ptr("m")}, config.Profile{Provider: ptr("fireworks")}, nil)
	require.NoError(t, err)
	assert.Equal(t, provider.Fireworks, req.Provider)
}

func TestResolve_InvalidProviderNamesTier(t *testing.T) {
	clearEnv(t)
	t.Setenv("MP_PROVIDER", "claude")

	_, err := config.Resolve(config.Inputs{Model: ptr("m")}, config.Profile{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MP_PROVIDER")

	t.Setenv("MP_PROVIDER", "")
	_, err = config.Resolve(config.Inputs{Model: ptr("m")}, config.Profile{Provider: ptr("claude")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile provider")
}

func TestResolve_InvalidTemperatureAtAnyTier(t *testing.T) {
	clearEnv(t)

	_, err := config.Resolve(config.Inputs{Model: ptr("m"), Temperature: ptr(2.5)}, config.Profile{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--temperature")
	assert.Contains(t, err.Error(), "[0.0, 2.0]")

	t.Setenv("MP_TEMPERATURE", "2.5")
	_, err = config.Resolve(config.Inputs{Model: ptr("m")}, config.Profile{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MP_TEMPERATURE")

	t.Setenv("MP_TEMPERATURE", "")
	_, err = config.Resolve(config.Inputs{Model: ptr("m")}, config.Profile{Temperature: ptr(-0.1)}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile temperature")
}

func TestResolve_EnvParseFailuresNameVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv("MP_MAX_TOKENS", "lots")

	_, err := config.Resolve(config.Inputs{Model: ptr("m")}, config.Profile{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MP_MAX_TOKENS")
	assert.Contains(t, err.Error(), "must be an integer")
}

func TestResolve_NumericDomains(t *testing.T) {
	clearEnv(t)

	_, err := config.Resolve(config.Inputs{Model: ptr("m"), MaxTokens: ptr(0)}, config.Profile{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max tokens")

	_, err = config.Resolve(config.Inputs{Model: ptr("m"), Timeout: ptr(0)}, config.Profile{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")

	_, err = config.Resolve(config.Inputs{Model: ptr("m"), Retries: ptr(-1)}, config.Profile{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retries")

	_, err = config.Resolve(config.Inputs{Model: ptr("m"), RetryDelay: ptr(0)}, config.Profile{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry delay")
}

func TestResolve_OutputAndShowUsageTiers(t *testing.T) {
	clearEnv(t)

	prof := config.Profile{Output: ptr("JSON"), ShowUsage: ptr(true)}

	req, err := config.Resolve(config.Inputs{Model: ptr("m")}, prof, nil)
	require.NoError(t, err)
	assert.Equal(t, config.JSON, req.Output)
	assert.True(t, req.ShowUsage)

	text := config.Text
	req, err = config.Resolve(config.Inputs{Model: ptr("m"), Output: &text}, prof, nil)
	require.NoError(t, err)
	assert.Equal(t, config.Text, req.Output)
}

func TestResolve_BlankModelFallsThrough(t *testing.T) {
	clearEnv(t)
	t.Setenv("MP_MODEL", "   ")

	prof := config.Profile{Model: ptr("  ")}
	f := loadFile(t, `
[providers.openai.defaults]
model = "gpt-4o-mini"
`)

	req, err := config.Resolve(config.Inputs{Model: ptr(" ")}, prof, f)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", req.Model)
}

func TestParseFormat(t *testing.T) {
	f, err := config.ParseFormat("Text", "--output")
	require.NoError(t, err)
	assert.Equal(t, config.Text, f)

	_, err = config.ParseFormat("yaml", "profile output")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile output")
}
