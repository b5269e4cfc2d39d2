package completion

import (
	"context"
	"os"
	"sort"

	"github.com/samber/lo"

	"github.com/NikitaCOEUR/bft/internal/bash"
	"github.com/NikitaCOEUR/bft/internal/compspec"
)

// Shell generates raw candidates the way bash does. *bash.Client
// implements it.
type Shell interface {
	Generate(ctx context.Context, spec *compspec.Spec, req bash.Request) ([]string, error)
	Commands(ctx context.Context, prefix string) ([]string, error)
}

// BashSource runs the generators of a registered or default spec.
type BashSource struct {
	shell Shell
}

// NewBashSource creates a spec-driven source.
func NewBashSource(shell Shell) *BashSource {
	return &BashSource{shell: shell}
}

// Name implements Source.
func (b *BashSource) Name() string { return "bash" }

// Supports implements Source.
func (b *BashSource) Supports(_ Context, spec *compspec.Spec) bool {
	if spec == nil {
		return false
	}
	return spec.Strategy == compspec.StrategyRegistered || spec.Strategy == compspec.StrategyDefault
}

// Complete implements Source.
func (b *BashSource) Complete(ctx context.Context, c Context, spec *compspec.Spec) ([]Suggestion, error) {
	values, err := b.shell.Generate(ctx, spec, c.Request())
	if err != nil {
		return nil, err
	}
	return suggestions(b.Name(), values), nil
}

// CommandSource completes command names: builtins, keywords, aliases,
// functions and executables on PATH.
type CommandSource struct {
	shell Shell
	path  func() string
}

// NewCommandSource creates a command-name source. shell may be nil, in
// which case only PATH is searched.
func NewCommandSource(shell Shell) *CommandSource {
	return &CommandSource{
		shell: shell,
		path:  func() string { return os.Getenv("PATH") },
	}
}

// Name implements Source.
func (s *CommandSource) Name() string { return "command" }

// Supports implements Source.
func (s *CommandSource) Supports(_ Context, spec *compspec.Spec) bool {
	return spec != nil && spec.Strategy == compspec.StrategyCommand
}

// Complete returns the matching command names, deduplicated and sorted. It
// falls back to a PATH scan when bash cannot be run.
func (s *CommandSource) Complete(ctx context.Context, c Context, _ *compspec.Spec) ([]Suggestion, error) {
	var names []string
	var err error
	if s.shell != nil {
		names, err = s.shell.Commands(ctx, c.Current)
	}
	if s.shell == nil || err != nil {
		names = bash.PathCommands(c.Current, s.path())
	}

	names = lo.Uniq(names)
	sort.Strings(names)
	return suggestions(s.Name(), names), nil
}
