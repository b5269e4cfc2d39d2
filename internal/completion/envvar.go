package completion

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/NikitaCOEUR/bft/internal/compspec"
)

// EnvVarSource completes $NAME and ${NAME references from the environment.
type EnvVarSource struct {
	environ func() []string
}

// NewEnvVarSource creates a source reading os.Environ.
func NewEnvVarSource() *EnvVarSource {
	return &EnvVarSource{environ: os.Environ}
}

// Name implements Source.
func (e *EnvVarSource) Name() string { return "envvar" }

// Supports implements Source.
func (e *EnvVarSource) Supports(c Context, spec *compspec.Spec) bool {
	if spec != nil && spec.Strategy == compspec.StrategyVariable {
		return true
	}
	return IsVariableReference(c.Current)
}

// Complete matches variable names case-insensitively against the typed
// prefix. Names keep the form they were typed in: $NAME, or ${NAME} when
// a brace was opened.
func (e *EnvVarSource) Complete(_ context.Context, c Context, _ *compspec.Spec) ([]Suggestion, error) {
	typed := strings.TrimPrefix(c.Current, "$")
	brace := strings.HasPrefix(typed, "{")
	prefix := strings.ToLower(strings.TrimPrefix(typed, "{"))

	names := lo.FilterMap(e.environ(), func(kv string, _ int) (string, bool) {
		name, _, _ := strings.Cut(kv, "=")
		return name, name != "" && strings.HasPrefix(strings.ToLower(name), prefix)
	})
	names = lo.Uniq(names)
	sort.Strings(names)

	return lo.Map(names, func(name string, _ int) Suggestion {
		if brace {
			return Suggestion{Value: "${" + name + "}", Source: e.Name()}
		}
		return Suggestion{Value: "$" + name, Source: e.Name()}
	}), nil
}
