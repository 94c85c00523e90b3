// Package fileout writes rendered output files atomically: the content goes
// to a temporary file in the target directory and is renamed into place, so
// readers never observe a partial file.
package fileout

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Write writes content to path atomically, creating parent directories as
// needed. On rename failure the temporary file is removed.
func Write(path string, content []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %q: %w", dir, err)
		}
	}

	name := filepath.Base(path)
	if name == "" || name == "." {
		name = "mpipe"
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.tmp.%d.%d", name, os.Getpid(), time.Now().UnixNano()))

	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("failed to write output file %q: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace output file %q: %w", path, err)
	}

	return nil
}
