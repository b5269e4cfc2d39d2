package completion

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/NikitaCOEUR/bft/internal/bash"
	"github.com/NikitaCOEUR/bft/internal/compspec"
)

const generateCompletionFlag = "--generate-shell-completion"

// UrfaveCliSource completes tools built with github.com/urfave/cli through
// the --generate-shell-completion flag.
type UrfaveCliSource struct {
	commands map[string]bool
	exec     execFunc
}

// NewUrfaveCliSource creates a source for the listed commands.
func NewUrfaveCliSource(commands []string) *UrfaveCliSource {
	return &UrfaveCliSource{
		commands: lo.SliceToMap(commands, func(c string) (string, bool) { return c, true }),
		exec:     runTool,
	}
}

// Name implements Source.
func (u *UrfaveCliSource) Name() string { return "urfave" }

// Supports implements Source.
func (u *UrfaveCliSource) Supports(c Context, spec *compspec.Spec) bool {
	if spec == nil || !u.commands[c.Command] {
		return false
	}
	return spec.Strategy == compspec.StrategyRegistered || spec.Strategy == compspec.StrategyDefault
}

// Complete runs `tool args... --generate-shell-completion`. The word being
// typed is left out and used to filter the answer, since urfave/cli
// completes the next word of what it is given. Lines are "value:description"
// as zsh mode prints them, or plain values.
func (u *UrfaveCliSource) Complete(ctx context.Context, c Context, _ *compspec.Spec) ([]Suggestion, error) {
	args := c.CommandArgs()
	if len(args) > 0 {
		args = args[:len(args)-1]
	}
	if strings.HasPrefix(c.Current, "-") {
		args = append(args, "-")
	}
	args = append(args, generateCompletionFlag)

	output, err := u.exec(ctx, nil, c.Command, args...)
	if err != nil {
		return nil, err
	}

	var out []Suggestion
	for _, line := range bash.Lines(output) {
		value, desc := splitDescription(line)
		if value == "" || !strings.HasPrefix(value, c.Current) {
			continue
		}
		out = append(out, Suggestion{Value: value, Description: desc})
	}
	return out, nil
}

// splitDescription splits "value:description", honoring \: escapes in value.
func splitDescription(line string) (string, string) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case ':':
			return strings.ReplaceAll(line[:i], `\:`, ":"), strings.TrimSpace(line[i+1:])
		}
	}
	return strings.ReplaceAll(line, `\:`, ":"), ""
}
