package completion

import (
	"strings"

	"github.com/NikitaCOEUR/bft/internal/candidate"
	"github.com/NikitaCOEUR/bft/internal/compspec"
	"github.com/NikitaCOEUR/bft/internal/quoting"
)

// Outcome is the final list offered to the user.
type Outcome struct {
	// Suggestions holds the processed word candidates followed by the
	// whole-line ones.
	Suggestions []Suggestion
	// NoSpace is set by the spec or by a partial common-prefix collapse.
	NoSpace bool
	// ConsumedPrefixLen is the number of codepoints left of the cursor
	// replaced by a word candidate.
	ConsumedPrefixLen int
	// Diagnostics are the conditions absorbed by the pipeline.
	Diagnostics []error
}

// Finalize runs the candidate pipeline over the word suggestions, carries
// their descriptions over to the processed values and appends the
// suggestions that replace the whole line.
func Finalize(sugs []Suggestion, c Context, spec *compspec.Spec, opts candidate.Options) Outcome {
	if spec == nil {
		spec = &compspec.Spec{}
	}

	var words, lines []Suggestion
	for _, s := range sugs {
		if s.ReplaceLine {
			lines = append(lines, s)
		} else {
			words = append(words, s)
		}
	}

	res := candidate.Process(Values(words), candidate.Input{Word: c.Current, Raw: c.CurrentRaw}, spec, opts)

	byValue := make(map[string]Suggestion, len(words))
	for _, s := range words {
		if _, ok := byValue[s.Value]; !ok {
			byValue[s.Value] = s
		}
	}

	out := Outcome{
		NoSpace:           res.NoSpace || spec.Options.NoSpace,
		ConsumedPrefixLen: res.ConsumedPrefixLen,
		Diagnostics:       res.Diagnostics,
	}
	for _, v := range res.Candidates {
		s, _ := lookupProcessed(v, byValue, spec)
		s.Value = v
		out.Suggestions = append(out.Suggestions, s)
	}
	out.Suggestions = append(out.Suggestions, lines...)
	return out
}

// lookupProcessed finds the raw suggestion a processed candidate came from
// by undoing directory marking, quoting and decoration.
func lookupProcessed(v string, byValue map[string]Suggestion, spec *compspec.Spec) (Suggestion, bool) {
	if s, ok := byValue[v]; ok {
		return s, true
	}

	candidates := []string{strings.TrimSuffix(v, "/")}
	if spec.Options.Filenames && !spec.Options.NoQuote {
		candidates = append(candidates, quoting.Unquote(v), quoting.Unquote(strings.TrimSuffix(v, "/")))
	}
	for _, c := range candidates {
		c = strings.TrimSuffix(strings.TrimPrefix(c, spec.Prefix), spec.Suffix)
		if s, ok := byValue[c]; ok {
			return s, true
		}
	}
	return Suggestion{}, false
}
