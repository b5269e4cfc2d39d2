// Package setup installs the bft hook into the user's bash startup files.
package setup

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/NikitaCOEUR/bft/internal/quoting"
)

const (
	// HookMarkerStart is the starting marker for the bft hook in RC files
	HookMarkerStart = "# bft shell hook - START"
	// HookMarkerEnd is the ending marker for the bft hook in RC files
	HookMarkerEnd = "# bft shell hook - END"
)

// Result represents the result of a setup operation
type Result struct {
	RCFile   string
	HookFile string
	Strategy string
	Updated  bool
	Message  string
}

// HookCode returns the snippet installed in the user's shell startup. It
// renders the init script at shell start so upgrades need no reinstall.
func HookCode(binary string) string {
	bin := quoting.Quote(binary)
	return fmt.Sprintf("# Installed by `bft setup`\nif command -v %s >/dev/null 2>&1; then\n  eval \"$(%s init bash)\"\nfi\n", bin, bin)
}

// Installer installs the bash hook under a home directory.
type Installer struct {
	home string
	hook string
}

// NewInstaller creates an installer for the hook running binary.
func NewInstaller(home, binary string) *Installer {
	return &Installer{home: home, hook: HookCode(binary)}
}

// RCFile returns the bash RC file path
func (i *Installer) RCFile() string {
	return filepath.Join(i.home, ".bashrc")
}

// strategies are listed by preference; the last one is always supported.
func (i *Installer) strategies() []Strategy {
	return []Strategy{
		newDropIn(i.home, i.RCFile(), i.hook),
		newSourced(i.home, i.RCFile(), i.hook),
	}
}

// Strategy returns the preferred supported strategy.
func (i *Installer) Strategy() Strategy {
	strategies := i.strategies()
	for _, s := range strategies {
		if s.Supported() {
			return s
		}
	}
	return strategies[len(strategies)-1]
}

// Install installs or refreshes the hook with the preferred strategy and
// removes an install made by another one.
func (i *Installer) Install() (*Result, error) {
	strategy := i.Strategy()
	result := &Result{RCFile: i.RCFile(), HookFile: strategy.HookFile(), Strategy: strategy.Name()}

	var done []string
	for _, s := range i.strategies() {
		if s.HookFile() == strategy.HookFile() || !s.Installed() {
			continue
		}
		lines, err := s.Uninstall()
		if err != nil {
			return nil, fmt.Errorf("failed to remove previous hook: %w", err)
		}
		done = append(done, lines...)
	}

	if strategy.Installed() && strategy.Current() && len(done) == 0 {
		result.Message = "✓ bft hook is up to date"
		return result, nil
	}

	lines, err := strategy.Install()
	if err != nil {
		return nil, fmt.Errorf("failed to install hook: %w", err)
	}
	result.Updated = true
	result.Message = checklist(append(done, lines...))
	return result, nil
}

// IsInstalled checks if the hook is installed by any strategy
func (i *Installer) IsInstalled() bool {
	for _, s := range i.strategies() {
		if s.Installed() {
			return true
		}
	}
	return false
}

// Uninstall removes the hook installed by any strategy
func (i *Installer) Uninstall() (*Result, error) {
	result := &Result{RCFile: i.RCFile()}

	var done []string
	for _, s := range i.strategies() {
		if !s.Installed() {
			continue
		}
		lines, err := s.Uninstall()
		if err != nil {
			return nil, fmt.Errorf("failed to uninstall: %w", err)
		}
		result.Updated = true
		result.HookFile = s.HookFile()
		result.Strategy = s.Name()
		done = append(done, lines...)
	}

	if !result.Updated {
		result.Message = "✓ bft is not installed"
		return result, nil
	}
	result.Message = checklist(done)
	return result, nil
}

func checklist(lines []string) string {
	return "✓ " + strings.Join(lines, "\n✓ ")
}
