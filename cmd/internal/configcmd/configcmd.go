// Package configcmd implements the `config` subcommand: sanity checks on the
// local config file.
package configcmd

import (
	"flag"
	"fmt"
	"io"

	"github.com/germanamz/mpipe/pkg/config"
)

// Run executes `config <subcommand>`. The only subcommand today is `check`,
// which loads the config file, validates every declared section, and
// optionally verifies a profile exists.
func Run(args []string, stdout io.Writer) error {
	if len(args) == 0 || args[0] != "check" {
		return fmt.Errorf("usage: mpipe config check [--profile NAME]")
	}

	fs := flag.NewFlagSet("config check", flag.ContinueOnError)
	profile := fs.String("profile", "", "profile name to verify")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	path, err := config.Path()
	if err != nil {
		return err
	}

	f, err := config.Load(path)
	if err != nil {
		return err
	}

	if *profile != "" {
		if _, ok := f.Profiles[*profile]; !ok {
			return fmt.Errorf("profile %q not found in config file %q", *profile, path)
		}
	}

	fmt.Fprintf(stdout, "config OK: %s\n", path)

	return nil
}
