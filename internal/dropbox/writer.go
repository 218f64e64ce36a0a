package dropbox

import (
	"fmt"
	"os"
	"path/filepath"

	"midrender/internal/descriptor"
)

// TempSuffix marks in-flight writes. The monitor only picks up *.json names,
// so staged files are invisible to it.
const TempSuffix = ".tmp"

// renameFile is swapped out by tests to simulate a crash before the rename.
var renameFile = os.Rename

// EnsureDir creates the dropbox directory if absent.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dropbox directory %q: %w", dir, err)
	}
	return nil
}

// Write validates desc and atomically places it in dir under its canonical
// filename, returning the final path. On failure nothing exists at the final
// name; a staged temp file may remain and is left for the monitor to ignore.
func Write(desc descriptor.Descriptor, dir string) (string, error) {
	if err := desc.Validate(); err != nil {
		return "", fmt.Errorf("invalid descriptor: %w", err)
	}
	data, err := desc.Encode()
	if err != nil {
		return "", err
	}

	final := filepath.Join(dir, desc.Filename())
	tmp := final + TempSuffix

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("stage descriptor: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write descriptor: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("flush descriptor: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close descriptor: %w", err)
	}

	if err := renameFile(tmp, final); err != nil {
		return "", fmt.Errorf("publish descriptor: %w", err)
	}
	return final, nil
}
