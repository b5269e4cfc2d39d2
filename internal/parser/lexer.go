// Package parser tokenizes a partially typed bash command line and locates
// the word under the cursor.
//
// The scanner never fails: unterminated quotes and substitutions are the
// normal state of a line being typed, so they are absorbed into the last
// word instead of being reported.
package parser

import (
	"sort"
	"strings"
)

// Kind tags a lexeme.
type Kind int

const (
	// KindWord is a shell word (possibly quoted).
	KindWord Kind = iota
	// KindOperator is an unquoted shell operator such as | or &&.
	KindOperator
)

func (k Kind) String() string {
	if k == KindOperator {
		return "operator"
	}
	return "word"
}

// Lexeme is one element of the flat token stream.
// Start and End are codepoint offsets into the scanned line, End exclusive.
type Lexeme struct {
	Kind  Kind
	Raw   string
	Value string
	Start int
	End   int
	// Open is set when a quote or substitution was still unterminated at end of input.
	Open bool
}

// frame is one entry of the quote stack.
type frame int

const (
	frameSingle frame = iota + 1
	frameDouble
	frameANSI
	frameSubst
	frameBacktick
	frameParam
	frameGroup
)

// verbatim frames copy their content into the word value untouched.
func (f frame) verbatim() bool {
	return f >= frameSubst
}

var operators = func() []string {
	ops := []string{
		"&>>", "<<<", "<<-",
		"&&", "||", ";;", "<<", ">>", "|&", "&>", ">|", ">&", "<&", "<>",
		"|", "&", ";", "<", ">", "\n",
	}
	sort.SliceStable(ops, func(i, j int) bool { return len(ops[i]) > len(ops[j]) })
	return ops
}()

var controlOperators = map[string]bool{
	"|": true, "|&": true, "||": true, "&&": true,
	"&": true, ";": true, ";;": true, "\n": true,
	"(": true, "{": true,
}

// IsControlOperator reports whether op ends one command and starts another.
func IsControlOperator(op string) bool {
	return controlOperators[op]
}

// IsPipe reports whether op is a pipe.
func IsPipe(op string) bool {
	return op == "|" || op == "|&"
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r'
}

func isOperatorRune(r rune) bool {
	switch r {
	case '|', '&', ';', '<', '>', '\n':
		return true
	}
	return false
}

func isExtglobRune(r rune) bool {
	switch r {
	case '?', '*', '+', '@', '!':
		return true
	}
	return false
}

type scanner struct {
	src      []rune
	pos      int
	stack    []frame
	brackets []rune
	// greedy scanning treats unquoted blanks and operators as literal text.
	greedy   bool
	cmdStart bool
}

// Lex splits line into words and operators.
func Lex(line string) []Lexeme {
	s := &scanner{src: []rune(line), cmdStart: true}
	return s.run()
}

func (s *scanner) run() []Lexeme {
	var out []Lexeme
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case isBlank(c):
			s.pos++
		case c == '\\' && s.peek(1) == '\n':
			s.pos += 2
		case isOperatorRune(c):
			out = append(out, s.operator())
		case c == '(':
			s.brackets = append(s.brackets, '(')
			out = append(out, s.single("("))
			s.cmdStart = true
		case c == ')' && s.topBracket() == '(':
			s.brackets = s.brackets[:len(s.brackets)-1]
			out = append(out, s.single(")"))
			s.cmdStart = false
		default:
			lx := s.word()
			switch {
			case lx.Raw == "{" && s.cmdStart:
				s.brackets = append(s.brackets, '{')
				lx.Kind = KindOperator
				s.cmdStart = true
			case lx.Raw == "}" && s.cmdStart && s.topBracket() == '{':
				s.brackets = s.brackets[:len(s.brackets)-1]
				lx.Kind = KindOperator
				s.cmdStart = false
			default:
				s.cmdStart = false
			}
			out = append(out, lx)
		}
	}
	return out
}

func (s *scanner) peek(n int) rune {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func (s *scanner) hasPrefix(p string) bool {
	i := s.pos
	for _, r := range p {
		if i >= len(s.src) || s.src[i] != r {
			return false
		}
		i++
	}
	return true
}

func (s *scanner) topBracket() rune {
	if len(s.brackets) == 0 {
		return 0
	}
	return s.brackets[len(s.brackets)-1]
}

func (s *scanner) top() frame {
	if len(s.stack) == 0 {
		return 0
	}
	return s.stack[len(s.stack)-1]
}

func (s *scanner) push(f frame) { s.stack = append(s.stack, f) }

func (s *scanner) pop() { s.stack = s.stack[:len(s.stack)-1] }

func (s *scanner) inVerbatim() bool {
	for _, f := range s.stack {
		if f.verbatim() {
			return true
		}
	}
	return false
}

func (s *scanner) single(op string) Lexeme {
	lx := Lexeme{Kind: KindOperator, Raw: op, Value: op, Start: s.pos, End: s.pos + 1}
	s.pos++
	return lx
}

func (s *scanner) operator() Lexeme {
	start := s.pos
	for _, op := range operators {
		if s.hasPrefix(op) {
			s.pos += len([]rune(op))
			s.cmdStart = IsControlOperator(op)
			return Lexeme{Kind: KindOperator, Raw: op, Value: op, Start: start, End: s.pos}
		}
	}
	// unreachable: every operator rune is itself an operator
	s.pos++
	return Lexeme{Kind: KindOperator, Raw: string(s.src[start]), Value: string(s.src[start]), Start: start, End: s.pos}
}

// word scans one word starting at s.pos.
func (s *scanner) word() Lexeme {
	start := s.pos
	var val strings.Builder

loop:
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch s.top() {
		case 0:
			if !s.greedy {
				if isBlank(c) || isOperatorRune(c) {
					break loop
				}
				if c == ')' && s.topBracket() == '(' {
					break loop
				}
			}
			s.unquoted(&val, start)
		case frameSingle:
			s.inSingle(&val)
		case frameDouble:
			s.inDouble(&val)
		case frameANSI:
			s.inANSI(&val)
		case frameSubst, frameGroup:
			s.inNested(&val, ')')
		case frameParam:
			s.inNested(&val, '}')
		case frameBacktick:
			s.inBacktick(&val)
		}
	}

	lx := Lexeme{
		Kind:  KindWord,
		Raw:   string(s.src[start:s.pos]),
		Value: val.String(),
		Start: start,
		End:   s.pos,
		Open:  len(s.stack) > 0,
	}
	s.stack = s.stack[:0]
	return lx
}

func (s *scanner) unquoted(val *strings.Builder, start int) {
	c := s.src[s.pos]
	switch {
	case c == '\\':
		switch {
		case s.pos+1 >= len(s.src):
			s.pos++
		case s.src[s.pos+1] == '\n':
			s.pos += 2
		default:
			val.WriteRune(s.src[s.pos+1])
			s.pos += 2
		}
	case c == '\'':
		s.push(frameSingle)
		s.pos++
	case c == '"':
		s.push(frameDouble)
		s.pos++
	case c == '`':
		s.push(frameBacktick)
		val.WriteRune(c)
		s.pos++
	case c == '$' && s.peek(1) == '\'':
		s.push(frameANSI)
		s.pos += 2
	case c == '$' && s.peek(1) == '"':
		s.push(frameDouble)
		s.pos += 2
	case c == '$' && s.peek(1) == '(':
		s.push(frameSubst)
		val.WriteString("$(")
		s.pos += 2
	case c == '$' && s.peek(1) == '{':
		s.push(frameParam)
		val.WriteString("${")
		s.pos += 2
	case c == '(' && s.pos > start && isExtglobRune(s.src[s.pos-1]):
		s.push(frameGroup)
		val.WriteRune(c)
		s.pos++
	default:
		val.WriteRune(c)
		s.pos++
	}
}

func (s *scanner) inSingle(val *strings.Builder) {
	c := s.src[s.pos]
	s.pos++
	if c == '\'' {
		s.pop()
		if s.inVerbatim() {
			val.WriteRune(c)
		}
		return
	}
	val.WriteRune(c)
}

func (s *scanner) inDouble(val *strings.Builder) {
	c := s.src[s.pos]
	verbatim := s.inVerbatim()
	switch {
	case c == '"':
		s.pop()
		if verbatim {
			val.WriteRune(c)
		}
		s.pos++
	case c == '\\' && s.pos+1 < len(s.src):
		next := s.src[s.pos+1]
		switch next {
		case '$', '`', '"', '\\':
			if verbatim {
				val.WriteRune(c)
			}
			val.WriteRune(next)
			s.pos += 2
		case '\n':
			if verbatim {
				val.WriteRune(c)
				val.WriteRune(next)
			}
			s.pos += 2
		default:
			val.WriteRune(c)
			s.pos++
		}
	case c == '$' && s.peek(1) == '(':
		s.push(frameSubst)
		val.WriteString("$(")
		s.pos += 2
	case c == '$' && s.peek(1) == '{':
		s.push(frameParam)
		val.WriteString("${")
		s.pos += 2
	case c == '`':
		s.push(frameBacktick)
		val.WriteRune(c)
		s.pos++
	default:
		val.WriteRune(c)
		s.pos++
	}
}

func (s *scanner) inANSI(val *strings.Builder) {
	c := s.src[s.pos]
	verbatim := s.inVerbatim()
	switch {
	case c == '\'':
		s.pop()
		if verbatim {
			val.WriteRune(c)
		}
		s.pos++
	case c == '\\':
		end := ansiEscapeEnd(s.src, s.pos)
		if verbatim {
			val.WriteString(string(s.src[s.pos:end]))
		} else {
			decodeANSIEscape(val, s.src[s.pos:end])
		}
		s.pos = end
	default:
		val.WriteRune(c)
		s.pos++
	}
}

// inNested handles $( ), ${ } and extglob groups. Content is copied raw,
// only quoting and nesting are tracked to find the closer.
func (s *scanner) inNested(val *strings.Builder, closer rune) {
	c := s.src[s.pos]
	switch {
	case c == closer:
		s.pop()
		val.WriteRune(c)
		s.pos++
	case c == '\\':
		val.WriteRune(c)
		s.pos++
		if s.pos < len(s.src) {
			val.WriteRune(s.src[s.pos])
			s.pos++
		}
	case c == '(' && closer == ')':
		s.push(frameGroup)
		val.WriteRune(c)
		s.pos++
	case c == '\'':
		s.push(frameSingle)
		val.WriteRune(c)
		s.pos++
	case c == '"':
		s.push(frameDouble)
		val.WriteRune(c)
		s.pos++
	case c == '`':
		s.push(frameBacktick)
		val.WriteRune(c)
		s.pos++
	case c == '$' && s.peek(1) == '\'':
		s.push(frameANSI)
		val.WriteString("$'")
		s.pos += 2
	case c == '$' && s.peek(1) == '(':
		s.push(frameSubst)
		val.WriteString("$(")
		s.pos += 2
	case c == '$' && s.peek(1) == '{':
		s.push(frameParam)
		val.WriteString("${")
		s.pos += 2
	default:
		val.WriteRune(c)
		s.pos++
	}
}

func (s *scanner) inBacktick(val *strings.Builder) {
	c := s.src[s.pos]
	val.WriteRune(c)
	s.pos++
	switch c {
	case '`':
		s.pop()
	case '\\':
		if s.pos < len(s.src) {
			val.WriteRune(s.src[s.pos])
			s.pos++
		}
	}
}
