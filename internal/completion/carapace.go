package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/NikitaCOEUR/bft/internal/compspec"
)

// CarapaceSource asks the carapace completion engine for suggestions.
type CarapaceSource struct {
	binary    string
	exec      execFunc
	available func(string) bool
}

type carapaceItem struct {
	Value       string `json:"value"`
	Display     string `json:"display"`
	Description string `json:"description,omitempty"`
	Style       string `json:"style,omitempty"`
}

type carapaceOutput struct {
	Nospace string         `json:"nospace,omitempty"`
	Values  []carapaceItem `json:"values"`
}

// NewCarapaceSource creates a source running binary, "carapace" when empty.
func NewCarapaceSource(binary string) *CarapaceSource {
	if binary == "" {
		binary = "carapace"
	}
	return &CarapaceSource{binary: binary, exec: runTool, available: lookPath}
}

// Name implements Source.
func (s *CarapaceSource) Name() string { return "carapace" }

// Supports implements Source.
func (s *CarapaceSource) Supports(c Context, spec *compspec.Spec) bool {
	if spec == nil || c.Command == "" {
		return false
	}
	if spec.Strategy != compspec.StrategyRegistered && spec.Strategy != compspec.StrategyDefault {
		return false
	}
	return s.available(s.binary)
}

// Complete runs `carapace CMD export CMD ARGS...` with the arguments of the
// command segment up to the cursor.
func (s *CarapaceSource) Complete(ctx context.Context, c Context, _ *compspec.Spec) ([]Suggestion, error) {
	args := append([]string{c.Command, "export"}, c.SegmentWords()...)

	output, err := s.exec(ctx, nil, s.binary, args...)
	if err != nil {
		return nil, err
	}
	return parseCarapaceOutput(output)
}

func parseCarapaceOutput(output []byte) ([]Suggestion, error) {
	var out carapaceOutput
	if err := json.Unmarshal(output, &out); err != nil {
		return nil, fmt.Errorf("failed to parse carapace output: %w", err)
	}

	suggestions := make([]Suggestion, 0, len(out.Values))
	for _, item := range out.Values {
		if item.Value == "" {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Value:       item.Value,
			Description: item.Description,
			NoSpace:     nospaceFor(out.Nospace, item.Value),
		})
	}
	return suggestions, nil
}

// nospaceFor applies carapace's nospace field, the set of trailing
// characters after which no space is wanted ("*" for all).
func nospaceFor(chars, value string) bool {
	if chars == "" || value == "" {
		return false
	}
	if chars == "*" {
		return true
	}
	last := []rune(value)
	return strings.ContainsRune(chars, last[len(last)-1])
}
