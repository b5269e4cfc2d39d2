package candidate

import (
	"errors"
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/pattern"
)

var errNegatedGroup = errors.New("!(...) groups are not supported")

// compileGlob turns a bash glob into a regexp matching whole strings.
// Extglob groups ?( ) *( ) +( ) @( ) are supported; the plain parts are
// translated by mvdan.cc/sh's pattern package.
func compileGlob(pat string) (*regexp.Regexp, error) {
	expr, err := globExpr(pat)
	if err != nil {
		return nil, err
	}
	return regexp.Compile("^(?:" + expr + ")$")
}

func globExpr(pat string) (string, error) {
	var sb strings.Builder
	lit := 0

	flush := func(end int) error {
		if lit >= end {
			return nil
		}
		re, err := pattern.Regexp(pat[lit:end], 0)
		if err != nil {
			return err
		}
		sb.WriteString(re)
		return nil
	}

	for i := 0; i < len(pat); i++ {
		switch c := pat[i]; {
		case c == '\\':
			i++
		case c == '[':
			if end := bracketEnd(pat, i); end > 0 {
				i = end
			}
		case strings.IndexByte("?*+@!", c) >= 0 && i+1 < len(pat) && pat[i+1] == '(':
			end := groupEnd(pat, i+1)
			if end < 0 {
				return "", errors.New("unterminated extglob group in " + pat)
			}
			if c == '!' {
				return "", errNegatedGroup
			}
			if err := flush(i); err != nil {
				return "", err
			}

			var alts []string
			for _, alt := range splitAlternatives(pat[i+2 : end]) {
				re, err := globExpr(alt)
				if err != nil {
					return "", err
				}
				alts = append(alts, re)
			}
			sb.WriteString("(?:" + strings.Join(alts, "|") + ")")
			switch c {
			case '?':
				sb.WriteByte('?')
			case '*':
				sb.WriteByte('*')
			case '+':
				sb.WriteByte('+')
			}

			i = end
			lit = end + 1
		}
	}
	if err := flush(len(pat)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// bracketEnd returns the index of the ] closing the bracket expression
// opened at i, or -1.
func bracketEnd(pat string, i int) int {
	j := i + 1
	if j < len(pat) && (pat[j] == '!' || pat[j] == '^') {
		j++
	}
	if j < len(pat) && pat[j] == ']' {
		j++
	}
	for ; j < len(pat); j++ {
		switch pat[j] {
		case '\\':
			j++
		case ']':
			return j
		}
	}
	return -1
}

// groupEnd returns the index of the ) matching the ( at open, or -1.
func groupEnd(pat string, open int) int {
	depth := 0
	for j := open; j < len(pat); j++ {
		switch pat[j] {
		case '\\':
			j++
		case '[':
			if end := bracketEnd(pat, j); end > 0 {
				j = end
			}
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// splitAlternatives splits on | outside nested groups and brackets.
func splitAlternatives(s string) []string {
	var parts []string
	depth, start := 0, 0
	for j := 0; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '[':
			if end := bracketEnd(s, j); end > 0 {
				j = end
			}
		case '(':
			depth++
		case ')':
			depth--
		case '|':
			if depth == 0 {
				parts = append(parts, s[start:j])
				start = j + 1
			}
		}
	}
	return append(parts, s[start:])
}
