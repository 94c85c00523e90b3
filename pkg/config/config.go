// Package config loads the mpipe config file and resolves per-request
// settings from explicit inputs, MP_* environment variables, named profiles,
// and provider-level defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/germanamz/mpipe/pkg/providers/provider"
)

// Profile is one bundle of request defaults, loaded from the config file.
// Nil fields are undefined and fall through to the next precedence tier.
type Profile struct {
	Provider    *string  `toml:"provider"`
	Model       *string  `toml:"model"`
	System      *string  `toml:"system"`
	Temperature *float64 `toml:"temperature"`
	MaxTokens   *int     `toml:"max_tokens"`
	Timeout     *int     `toml:"timeout"`
	Retries     *int     `toml:"retries"`
	RetryDelay  *int     `toml:"retry_delay"`
	Output      *string  `toml:"output"`
	ShowUsage   *bool    `toml:"show_usage"`
}

// ProviderDefaults is a per-provider bundle applied below the profile tier.
type ProviderDefaults struct {
	Defaults Profile `toml:"defaults"`
}

// File is the parsed config file. Read-only after Load.
type File struct {
	Profiles  map[string]Profile          `toml:"profiles"`
	Providers map[string]ProviderDefaults `toml:"providers"`

	path string
}

// Path returns where Load reads from: MP_CONFIG when set, else
// $XDG_CONFIG_HOME/mpipe/config.toml, else $HOME/.config/mpipe/config.toml.
func Path() (string, error) {
	if p := strings.TrimSpace(os.Getenv("MP_CONFIG")); p != "" {
		return p, nil
	}

	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "mpipe", "config.toml"), nil
	}

	home := os.Getenv("HOME")
	if home == "" {
		return "", errors.New("cannot resolve config path: set MP_CONFIG or HOME/XDG_CONFIG_HOME")
	}

	return filepath.Join(home, ".config", "mpipe", "config.toml"), nil
}

// Load reads and parses the config file at path and validates every declared
// profile and provider-defaults section, selected or not, so a malformed
// unrelated section still blocks execution.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var f File
	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	f.path = path

	for name, prof := range f.Profiles {
		if err := validateProfile(prof, fmt.Sprintf("profile %q", name)); err != nil {
			return nil, fmt.Errorf("config file %q: %w", path, err)
		}
	}

	for name, pd := range f.Providers {
		if _, err := provider.Parse(name, "provider section"); err != nil {
			return nil, fmt.Errorf("config file %q: %w", path, err)
		}
		if err := validateProfile(pd.Defaults, fmt.Sprintf("providers.%s.defaults", strings.ToLower(strings.TrimSpace(name)))); err != nil {
			return nil, fmt.Errorf("config file %q: %w", path, err)
		}
	}

	return &f, nil
}

// LoadProfile resolves the config path, loads the file, and returns the
// named profile together with the whole file for provider-defaults lookup.
// An empty name skips the file entirely and returns an all-default bundle.
func LoadProfile(name string) (Profile, *File, error) {
	if name == "" {
		return Profile{}, nil, nil
	}

	path, err := Path()
	if err != nil {
		return Profile{}, nil, err
	}

	f, err := Load(path)
	if err != nil {
		return Profile{}, nil, err
	}

	prof, ok := f.Profiles[name]
	if !ok {
		return Profile{}, nil, fmt.Errorf("profile %q not found in config file %q", name, path)
	}

	return prof, f, nil
}

// ProviderDefaultsFor returns the defaults bundle whose section key matches
// id case-insensitively, or a zero bundle. Safe on a nil receiver so callers
// that never loaded a file need no special case.
func (f *File) ProviderDefaultsFor(id provider.ID) Profile {
	if f == nil {
		return Profile{}
	}

	for name, pd := range f.Providers {
		if strings.EqualFold(strings.TrimSpace(name), id.String()) {
			return pd.Defaults
		}
	}

	return Profile{}
}

// validateProfile applies the per-field domain checks to a declared bundle.
// The section label names the offending location.
func validateProfile(p Profile, section string) error {
	if p.Provider != nil {
		if _, err := provider.Parse(*p.Provider, section+" provider"); err != nil {
			return err
		}
	}

	if p.Temperature != nil {
		if err := validTemperature(*p.Temperature); err != nil {
			return fmt.Errorf("%s: %w", section, err)
		}
	}

	if p.MaxTokens != nil {
		if err := validMaxTokens(*p.MaxTokens); err != nil {
			return fmt.Errorf("%s: %w", section, err)
		}
	}

	if p.Timeout != nil {
		if err := validTimeout(*p.Timeout); err != nil {
			return fmt.Errorf("%s: %w", section, err)
		}
	}

	if p.Retries != nil {
		if err := validRetries(*p.Retries); err != nil {
			return fmt.Errorf("%s: %w", section, err)
		}
	}

	if p.RetryDelay != nil {
		if err := validRetryDelay(*p.RetryDelay); err != nil {
			return fmt.Errorf("%s: %w", section, err)
		}
	}

	if p.Output != nil {
		if _, err := ParseFormat(*p.Output, section+" output"); err != nil {
			return err
		}
	}

	return nil
}

func validTemperature(v float64) error {
	if v < 0.0 || v > 2.0 {
		return fmt.Errorf("invalid temperature %v: must be within [0.0, 2.0]", v)
	}
	return nil
}

func validMaxTokens(v int) error {
	if v <= 0 {
		return fmt.Errorf("invalid max tokens %d: must be > 0", v)
	}
	return nil
}

func validTimeout(v int) error {
	if v <= 0 {
		return fmt.Errorf("invalid timeout %d: must be > 0 seconds", v)
	}
	return nil
}

func validRetries(v int) error {
	if v < 0 {
		return fmt.Errorf("invalid retries %d: must be >= 0", v)
	}
	return nil
}

func validRetryDelay(v int) error {
	if v <= 0 {
		return fmt.Errorf("invalid retry delay %d: must be > 0 milliseconds", v)
	}
	return nil
}
