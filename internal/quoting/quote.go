// Package quoting escapes candidates for reinsertion into a bash line and
// resolves tilde prefixes.
package quoting

import (
	"strings"

	"github.com/NikitaCOEUR/bft/internal/parser"
	"mvdan.cc/sh/v3/syntax"
)

// Quote returns s quoted so that bash reads it back as a single word with
// the same value. Strings that need no quoting are returned unchanged.
func Quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return fallbackQuote(s)
	}
	return q
}

// fallbackQuote single-quotes s; only reached for input syntax.Quote rejects.
func fallbackQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Unquote is the inverse of Quote.
func Unquote(s string) string {
	return parser.Unquote(s)
}

// QuoteFilename quotes a path while keeping a leading ~ or ~user/ prefix
// unescaped so bash still performs tilde expansion on it.
func QuoteFilename(s string) string {
	if !strings.HasPrefix(s, "~") {
		return Quote(s)
	}
	i := strings.IndexByte(s, '/')
	if i < 0 || i == len(s)-1 {
		return s
	}
	return s[:i+1] + Quote(s[i+1:])
}
