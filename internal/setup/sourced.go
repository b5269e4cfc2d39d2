package setup

import (
	"fmt"
	"os"
	"path/filepath"
)

// sourced writes the hook to ~/.config/bft/hook.bash and sources it from
// a marked block in .bashrc. It works with any .bashrc.
type sourced struct {
	hookFile string
	rcFile   string
	hook     string
}

func newSourced(home, rcFile, hook string) *sourced {
	return &sourced{
		hookFile: filepath.Join(home, ".config", "bft", "hook.bash"),
		rcFile:   rcFile,
		hook:     hook,
	}
}

func (s *sourced) Name() string { return "sourced hook file" }

func (s *sourced) HookFile() string { return s.hookFile }

func (s *sourced) Supported() bool { return true }

func (s *sourced) readRC() (string, error) {
	data, err := os.ReadFile(s.rcFile)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read %s: %w", s.rcFile, err)
	}
	return string(data), nil
}

func (s *sourced) Installed() bool {
	if _, err := os.Stat(s.hookFile); err != nil {
		return false
	}
	content, err := s.readRC()
	return err == nil && hookBlock.in(content)
}

func (s *sourced) Current() bool {
	data, err := os.ReadFile(s.hookFile)
	return err == nil && string(data) == s.hook
}

func (s *sourced) Install() ([]string, error) {
	if err := os.MkdirAll(filepath.Dir(s.hookFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := writeFileAtomic(s.hookFile, []byte(s.hook)); err != nil {
		return nil, err
	}
	done := []string{"Hook written to " + s.hookFile}

	content, err := s.readRC()
	if err != nil {
		return nil, err
	}
	if hookBlock.in(content) {
		return append(done, s.rcFile+" already configured"), nil
	}

	line := fmt.Sprintf("[ -f %[1]s ] && source %[1]s", s.hookFile)
	if err := writeFileAtomic(s.rcFile, []byte(hookBlock.appendTo(content, line))); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", s.rcFile, err)
	}
	return append(done, "Added source block to "+s.rcFile), nil
}

func (s *sourced) Uninstall() ([]string, error) {
	if err := os.Remove(s.hookFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove %s: %w", s.hookFile, err)
	}
	done := []string{"Removed " + s.hookFile}

	content, err := s.readRC()
	if err != nil {
		return nil, err
	}
	if !hookBlock.in(content) {
		return done, nil
	}
	if err := writeFileAtomic(s.rcFile, []byte(hookBlock.strip(content))); err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", s.rcFile, err)
	}
	return append(done, "Removed source block from "+s.rcFile), nil
}
