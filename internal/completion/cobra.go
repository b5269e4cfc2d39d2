package completion

import (
	"context"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/NikitaCOEUR/bft/internal/bash"
	"github.com/NikitaCOEUR/bft/internal/compspec"
)

// Cobra shell completion directives (from spf13/cobra)
const (
	ShellCompDirectiveError         = 1  // Error occurred
	ShellCompDirectiveNoSpace       = 2  // Don't add space after completion
	ShellCompDirectiveNoFileComp    = 4  // Don't suggest files
	ShellCompDirectiveFilterFileExt = 8  // Filter files by extension (suggestions are extensions)
	ShellCompDirectiveFilterDirs    = 16 // Only show directories
	ShellCompDirectiveKeepOrder     = 32 // Keep completion order
)

// CobraSource completes Cobra-based CLIs (kubectl, helm, etc.) through
// their hidden __complete command.
type CobraSource struct {
	commands map[string]bool
	exec     execFunc
}

// NewCobraSource creates a source for the listed commands.
func NewCobraSource(commands []string) *CobraSource {
	return &CobraSource{
		commands: lo.SliceToMap(commands, func(c string) (string, bool) { return c, true }),
		exec:     runTool,
	}
}

// Name implements Source.
func (c *CobraSource) Name() string { return "cobra" }

// Supports implements Source.
func (c *CobraSource) Supports(ctx Context, spec *compspec.Spec) bool {
	if spec == nil || !c.commands[ctx.Command] {
		return false
	}
	return spec.Strategy == compspec.StrategyRegistered || spec.Strategy == compspec.StrategyDefault
}

// Complete executes `tool __complete args... current` and parses the output.
func (c *CobraSource) Complete(ctx context.Context, cc Context, _ *compspec.Spec) ([]Suggestion, error) {
	args := append([]string{"__complete"}, cc.CommandArgs()...)

	output, err := c.exec(ctx, nil, cc.Command, args...)
	if err != nil {
		return nil, err
	}

	suggestions, directive := parseCobraOutput(output)
	if directive&ShellCompDirectiveError != 0 {
		return []Suggestion{}, nil
	}

	switch {
	case directive&ShellCompDirectiveFilterFileExt != 0:
		suggestions = completeFilesWithExtensions(suggestions, cc.Current)
	case directive&ShellCompDirectiveFilterDirs != 0:
		suggestions = listEntries(dirArgument(suggestions, cc.Current), nil)
	}

	if directive&ShellCompDirectiveNoSpace != 0 {
		for i := range suggestions {
			suggestions[i].NoSpace = true
		}
	}
	return suggestions, nil
}

// parseCobraOutput splits a __complete answer into "value<TAB>desc"
// suggestions and the trailing ":N" directive. Cobra's debug lines on
// stdout are skipped.
func parseCobraOutput(output []byte) ([]Suggestion, int) {
	directive := 0
	var lines []string
	for _, line := range bash.Lines(output) {
		trimmed := strings.TrimSpace(line)
		if d, ok := strings.CutPrefix(trimmed, ":"); ok {
			if n, err := strconv.Atoi(d); err == nil {
				directive = n
			}
			continue
		}
		if strings.Contains(trimmed, "Completion ended") || strings.Contains(trimmed, "ShellCompDirective") {
			continue
		}
		lines = append(lines, line)
	}
	return tabbed(lines), directive
}

// completeFilesWithExtensions lists files matching the given extensions
// extensions are provided as suggestions (e.g., "json", "yaml", "yml")
func completeFilesWithExtensions(extensionSuggestions []Suggestion, word string) []Suggestion {
	extensions := lo.Map(extensionSuggestions, func(s Suggestion, _ int) string {
		return "." + strings.TrimPrefix(s.Value, ".")
	})

	return listEntries(word, func(name string) bool {
		return lo.SomeBy(extensions, func(ext string) bool { return strings.HasSuffix(name, ext) })
	})
}

// dirArgument returns the directory a FilterDirs response restricts to.
// Cobra passes it as the single suggestion; without one the typed word is
// listed.
func dirArgument(suggestions []Suggestion, word string) string {
	if len(suggestions) == 1 && suggestions[0].Value != "" {
		return strings.TrimSuffix(suggestions[0].Value, "/") + "/" + word
	}
	return word
}
