package completion

import (
	"context"
	"regexp"

	"github.com/NikitaCOEUR/bft/internal/compspec"
	"github.com/NikitaCOEUR/bft/internal/derrors"
)

var variableRef = regexp.MustCompile(`^\$\{?[A-Za-z0-9_]*$`)

// IsVariableReference reports whether word is a $NAME or ${NAME reference
// still being typed.
func IsVariableReference(word string) bool {
	return variableRef.MatchString(word)
}

// Resolver picks the completion strategy for a context.
type Resolver struct {
	registry compspec.Registry
	// noDefault disables the filename fallback for commands with no spec.
	noDefault bool
}

// NewResolver creates a resolver backed by registry. When noDefault is set,
// a command with no registered spec yields a NoCompleterError instead of
// filename completion.
func NewResolver(registry compspec.Registry, noDefault bool) *Resolver {
	return &Resolver{registry: registry, noDefault: noDefault}
}

// Resolve returns the spec for the word under the cursor. The first rule
// that applies wins: variable reference, command position, registered
// spec, filename default. A registry error is treated as no record.
func (r *Resolver) Resolve(ctx context.Context, c Context) (*compspec.Spec, error) {
	if IsVariableReference(c.Current) {
		return &compspec.Spec{Name: c.Command, Strategy: compspec.StrategyVariable}, nil
	}

	if c.IsCommandPosition() {
		return &compspec.Spec{Name: c.Command, Strategy: compspec.StrategyCommand}, nil
	}

	if r.registry != nil && c.Command != "" {
		spec, err := r.registry.Lookup(ctx, c.Command)
		if err == nil && spec != nil {
			spec = spec.Clone()
			spec.Strategy = compspec.StrategyRegistered
			return spec, nil
		}
	}

	if r.noDefault {
		return nil, derrors.NewNoCompleterError(c.Command)
	}
	return compspec.Default(c.Command), nil
}
