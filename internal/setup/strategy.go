package setup

import (
	"fmt"
	"os"
	"path/filepath"
)

// Strategy is one way of loading the hook in interactive bash.
type Strategy interface {
	// Name identifies the strategy in messages.
	Name() string
	// Supported reports whether the user's startup files allow it.
	Supported() bool
	// HookFile is the file holding the hook code.
	HookFile() string
	// Installed reports whether the hook is wired in.
	Installed() bool
	// Current reports whether the installed hook matches the wanted one.
	Current() bool
	// Install writes the hook and returns what was done.
	Install() ([]string, error)
	// Uninstall removes the hook and returns what was done.
	Uninstall() ([]string, error)
}

// writeFileAtomic replaces path through a temporary file in the same
// directory. An existing file keeps its permissions.
func writeFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".bft-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	name := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(name)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(name, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	committed = true
	return nil
}
