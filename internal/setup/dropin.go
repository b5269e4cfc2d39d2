package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// dropIn writes the hook to ~/.bashrc.d/bft.sh for a .bashrc that
// sources that directory, as Fedora's does.
type dropIn struct {
	dir    string
	rcFile string
	hook   string
}

func newDropIn(home, rcFile, hook string) *dropIn {
	return &dropIn{dir: filepath.Join(home, ".bashrc.d"), rcFile: rcFile, hook: hook}
}

func (s *dropIn) Name() string { return "drop-in" }

func (s *dropIn) HookFile() string { return filepath.Join(s.dir, "bft.sh") }

func (s *dropIn) Supported() bool {
	data, err := os.ReadFile(s.rcFile)
	return err == nil && strings.Contains(string(data), ".bashrc.d")
}

func (s *dropIn) Installed() bool {
	_, err := os.Stat(s.HookFile())
	return err == nil
}

func (s *dropIn) Current() bool {
	data, err := os.ReadFile(s.HookFile())
	return err == nil && string(data) == s.hook
}

func (s *dropIn) Install() ([]string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.dir, err)
	}
	if err := writeFileAtomic(s.HookFile(), []byte(s.hook)); err != nil {
		return nil, err
	}
	return []string{
		"Hook installed to " + s.HookFile(),
		s.rcFile + " already sources " + s.dir + ", left unchanged",
	}, nil
}

func (s *dropIn) Uninstall() ([]string, error) {
	if err := os.Remove(s.HookFile()); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove %s: %w", s.HookFile(), err)
	}
	return []string{"Removed " + s.HookFile()}, nil
}
