// Package candidate turns the raw candidates of a completion source into
// the final list offered to the user. Every stage is deterministic: the
// same input always yields the same output.
package candidate

import (
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/NikitaCOEUR/bft/internal/compspec"
	"github.com/NikitaCOEUR/bft/internal/derrors"
	"github.com/NikitaCOEUR/bft/internal/quoting"
)

// Input is the word being completed.
type Input struct {
	// Word is the unquoted current word.
	Word string
	// Raw is the current word as typed, up to the cursor.
	Raw string
}

// StatFunc reports file information; os.Stat by default.
type StatFunc func(name string) (os.FileInfo, error)

// Options toggles the optional parts of the pipeline.
type Options struct {
	// AutoCommonPrefix enables the common-prefix collapse.
	AutoCommonPrefix bool
	// AutoCommonPrefixPart also collapses when candidates only share a
	// prefix instead of being identical.
	AutoCommonPrefixPart bool
	// Homes resolves ~ and ~user; SystemHome when nil.
	Homes quoting.HomeLookup
	// Stat is used for directory marking; os.Stat when nil.
	Stat StatFunc
}

// Result is the output of Process.
type Result struct {
	Candidates []string
	// NoSpace asks the caller not to append a separator after insertion.
	NoSpace bool
	// ConsumedPrefixLen is the number of codepoints before the cursor
	// that the inserted candidate replaces.
	ConsumedPrefixLen int
	// Diagnostics holds conditions absorbed by the pipeline, such as an
	// invalid filter pattern.
	Diagnostics []error
}

// Process runs filter, decoration, quoting, directory marking and
// dedup/sort in that order, then the optional common-prefix collapse.
// An empty result is valid and means there is nothing to offer.
func Process(raw []string, in Input, spec *compspec.Spec, opts Options) Result {
	if spec == nil {
		spec = &compspec.Spec{}
	}
	homes := opts.Homes
	if homes == nil {
		homes = quoting.SystemHome{}
	}
	stat := opts.Stat
	if stat == nil {
		stat = os.Stat
	}

	res := Result{ConsumedPrefixLen: utf8.RuneCountInString(in.Raw)}

	cands, err := Filter(raw, spec.Filter, in.Word)
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, err)
	}

	cands = Decorate(cands, spec.Prefix, spec.Suffix)

	quoted := spec.Options.Filenames && !spec.Options.NoQuote
	if quoted {
		cands = QuoteAll(cands)
	}

	if spec.TreatsAsFilenames() {
		cands = MarkDirectories(cands, homes, stat)
	}

	if !spec.Options.NoSort {
		cands = DedupSort(cands)
	}

	if opts.AutoCommonPrefix {
		if quoted {
			cands, res.NoSpace = collapse(cands, in.Word, opts.AutoCommonPrefixPart, quoting.Unquote)
		} else {
			cands, res.NoSpace = CollapseCommonPrefix(cands, in.Word, opts.AutoCommonPrefixPart)
		}
	}

	res.Candidates = cands
	return res
}

// Filter keeps the candidates matching pattern. Each & in pattern stands
// for word and \& for a literal &. A leading ! excludes matches instead.
// An invalid pattern filters nothing and is reported as a PatternError.
func Filter(cands []string, pattern, word string) ([]string, error) {
	if pattern == "" {
		return cands, nil
	}

	pat := expandAmpersand(pattern, word)
	invert := strings.HasPrefix(pat, "!")
	if invert {
		pat = pat[1:]
	}

	re, err := compileGlob(pat)
	if err != nil {
		return cands, derrors.NewPatternError(pattern, err)
	}

	return lo.Filter(cands, func(c string, _ int) bool {
		return re.MatchString(c) != invert
	}), nil
}

func expandAmpersand(pattern, word string) string {
	if !strings.Contains(pattern, "&") {
		return pattern
	}
	var sb strings.Builder
	for i := 0; i < len(pattern); i++ {
		switch {
		case pattern[i] == '\\' && i+1 < len(pattern) && pattern[i+1] == '&':
			sb.WriteByte('&')
			i++
		case pattern[i] == '&':
			sb.WriteString(word)
		default:
			sb.WriteByte(pattern[i])
		}
	}
	return sb.String()
}

// Decorate adds prefix and suffix to every candidate.
func Decorate(cands []string, prefix, suffix string) []string {
	if prefix == "" && suffix == "" {
		return cands
	}
	return lo.Map(cands, func(c string, _ int) string {
		return prefix + c + suffix
	})
}

// QuoteAll shell-quotes every candidate, leaving ~ prefixes unescaped.
func QuoteAll(cands []string) []string {
	return lo.Map(cands, func(c string, _ int) string {
		return quoting.QuoteFilename(c)
	})
}

// MarkDirectories appends a / to candidates naming a directory. Quoted
// candidates are unquoted and ~ prefixes expanded before the check.
// Applying it twice gives the same result as applying it once.
func MarkDirectories(cands []string, homes quoting.HomeLookup, stat StatFunc) []string {
	return lo.Map(cands, func(c string, _ int) string {
		if strings.HasSuffix(c, "/") {
			return c
		}
		path, ok := localPath(c, homes)
		if !ok || strings.HasSuffix(path, "/") {
			return c
		}
		info, err := stat(path)
		if err != nil || !info.IsDir() {
			return c
		}
		return c + "/"
	})
}

// localPath returns the filesystem path a candidate refers to.
func localPath(c string, homes quoting.HomeLookup) (string, bool) {
	if c == "" {
		return "", false
	}
	name, rest, ok := quoting.SplitTilde(c)
	if !ok {
		return quoting.Unquote(c), true
	}
	path, err := quoting.ExpandTilde("~"+name+quoting.Unquote(rest), homes)
	if err != nil {
		return "", false
	}
	return path, true
}

// DedupSort removes duplicates, keeping the first occurrence, then sorts.
func DedupSort(cands []string) []string {
	out := lo.Uniq(cands)
	sort.Strings(out)
	return out
}

// LongestCommonPrefix returns the longest prefix shared by all candidates,
// cut on a codepoint boundary.
func LongestCommonPrefix(cands []string) string {
	if len(cands) == 0 {
		return ""
	}
	prefix := cands[0]
	for _, c := range cands[1:] {
		n := 0
		for n < len(prefix) && n < len(c) {
			r1, s1 := utf8.DecodeRuneInString(prefix[n:])
			r2, s2 := utf8.DecodeRuneInString(c[n:])
			if r1 != r2 || s1 != s2 {
				break
			}
			n += s1
		}
		prefix = prefix[:n]
		if prefix == "" {
			break
		}
	}
	return prefix
}

// CollapseCommonPrefix replaces the candidates with their common prefix
// when it is longer than word and either all candidates equal it or
// partial collapsing is allowed. nospace is set when more than one
// candidate contributed to the prefix.
func CollapseCommonPrefix(cands []string, word string, partial bool) (out []string, nospace bool) {
	return collapse(cands, word, partial, func(s string) string { return s })
}

// collapse compares word against value(prefix), so quoted candidates are
// measured by what they expand to rather than by their quoting.
func collapse(cands []string, word string, partial bool, value func(string) string) ([]string, bool) {
	if len(cands) == 0 {
		return cands, false
	}

	prefix := LongestCommonPrefix(cands)
	if utf8.RuneCountInString(value(prefix)) <= utf8.RuneCountInString(word) {
		return cands, false
	}

	allEqual := lo.EveryBy(cands, func(c string) bool { return c == prefix })
	if !allEqual && !partial {
		return cands, false
	}
	return []string{prefix}, len(cands) > 1
}
