package completion

import (
	"context"

	"github.com/NikitaCOEUR/bft/internal/compspec"
)

// Suggestion represents a single completion suggestion
type Suggestion struct {
	Value       string // The actual value to complete
	Description string // Optional description/help text
	Source      string // Name of the source that produced it
	// ReplaceLine makes Value replace the whole line instead of the
	// current word.
	ReplaceLine bool
	// NoSpace asks for no separator after insertion.
	NoSpace bool
}

// Source produces suggestions for a completion request.
type Source interface {
	// Name identifies the source in configuration and logs.
	Name() string
	// Supports reports whether the source applies to the request.
	Supports(c Context, spec *compspec.Spec) bool
	// Complete returns the suggestions for the request. An empty result
	// is not an error.
	Complete(ctx context.Context, c Context, spec *compspec.Spec) ([]Suggestion, error)
}

func suggestions(source string, values []string) []Suggestion {
	out := make([]Suggestion, 0, len(values))
	for _, v := range values {
		out = append(out, Suggestion{Value: v, Source: source})
	}
	return out
}

// Values returns the suggestion values in order.
func Values(sugs []Suggestion) []string {
	out := make([]string, len(sugs))
	for i, s := range sugs {
		out[i] = s.Value
	}
	return out
}
