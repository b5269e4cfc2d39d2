package parser

// Span is a codepoint range [Start, End) in the parsed line.
type Span struct {
	Start int
	End   int
}

// Len returns the span length in codepoints.
func (s Span) Len() int {
	return s.End - s.Start
}

// ParsedLine is the word-level view of a command line around the cursor.
// Words and RawWords always have the same length; Index points into both.
type ParsedLine struct {
	Words    []string
	RawWords []string
	Spans    []Span
	Cursor   int
	Index    int

	// CommandStart is the index of the first word of the command segment
	// holding the cursor, i.e. the word after the last control operator.
	CommandStart int
	// Separator is the control operator that opened that segment ("" for the first one).
	Separator string
	// PrevCommandStart is the first word of the preceding segment, or -1.
	PrevCommandStart int
	// CommandEnd is one past the last word of the segment holding the cursor.
	CommandEnd int

	Lexemes []Lexeme
	// Fallback is set when the line was split by the degraded whitespace splitter.
	Fallback bool
}

// CurrentWord returns the unquoted word under the cursor.
func (p ParsedLine) CurrentWord() string {
	if p.Index >= 0 && p.Index < len(p.Words) {
		return p.Words[p.Index]
	}
	return ""
}

// CurrentRaw returns the original text of the word under the cursor.
func (p ParsedLine) CurrentRaw() string {
	if p.Index >= 0 && p.Index < len(p.RawWords) {
		return p.RawWords[p.Index]
	}
	return ""
}

// CurrentSpan returns the span of the word under the cursor.
func (p ParsedLine) CurrentSpan() Span {
	if p.Index >= 0 && p.Index < len(p.Spans) {
		return p.Spans[p.Index]
	}
	return Span{Start: p.Cursor, End: p.Cursor}
}

// AfterPipe reports whether the cursor sits in a command fed by a pipe.
func (p ParsedLine) AfterPipe() bool {
	return IsPipe(p.Separator)
}

func (p *ParsedLine) add(word, raw string, span Span) {
	p.Words = append(p.Words, word)
	p.RawWords = append(p.RawWords, raw)
	p.Spans = append(p.Spans, span)
}

// Parse tokenizes line and locates the word holding cursor, a codepoint
// offset. It never fails: if the scanner breaks down the line is split on
// whitespace instead.
//
// A cursor inside a word or at its last character belongs to that word. A
// cursor in a gap between words, after trailing whitespace or before the
// first word gets a new empty word inserted at that position.
func Parse(line string, cursor int) (parsed ParsedLine) {
	n := len([]rune(line))
	if cursor < 0 {
		cursor = 0
	}
	if cursor > n {
		cursor = n
	}

	defer func() {
		if r := recover(); r != nil {
			parsed = Fallback(line, cursor)
		}
	}()

	return locate(Lex(line), cursor)
}

func locate(lexemes []Lexeme, cursor int) ParsedLine {
	p := ParsedLine{
		Cursor:           cursor,
		Index:            -1,
		PrevCommandStart: -1,
		CommandEnd:       -1,
		Lexemes:          lexemes,
	}

	for _, lx := range lexemes {
		if lx.Kind == KindOperator {
			if p.Index < 0 && cursor < lx.End {
				p.Index = len(p.Words)
				p.add("", "", Span{Start: cursor, End: cursor})
			}
			if !IsControlOperator(lx.Raw) {
				continue
			}
			switch {
			case lx.End <= cursor:
				if len(p.Words) > p.CommandStart {
					p.PrevCommandStart = p.CommandStart
				}
				p.CommandStart = len(p.Words)
				p.Separator = lx.Raw
			case p.CommandEnd < 0:
				p.CommandEnd = len(p.Words)
			}
			continue
		}

		if p.Index < 0 {
			switch {
			case cursor < lx.Start:
				p.Index = len(p.Words)
				p.add("", "", Span{Start: cursor, End: cursor})
			case cursor <= lx.End:
				p.Index = len(p.Words)
			}
		}
		p.add(lx.Value, lx.Raw, Span{Start: lx.Start, End: lx.End})
	}

	if p.Index < 0 {
		p.Index = len(p.Words)
		p.add("", "", Span{Start: cursor, End: cursor})
	}
	if p.CommandEnd < 0 {
		p.CommandEnd = len(p.Words)
	}

	return p
}

// Unquote removes shell quoting from a single word: quotes, backslash
// escapes and $'...' sequences. Blanks and operators are taken literally.
func Unquote(raw string) string {
	if raw == "" {
		return ""
	}
	s := &scanner{src: []rune(raw), greedy: true}
	return s.word().Value
}

// CommandWords returns the words of the command segment holding the cursor.
func (p ParsedLine) CommandWords() []string {
	end := p.CommandEnd
	if end < 0 || end > len(p.Words) {
		end = len(p.Words)
	}
	if p.CommandStart >= end {
		return nil
	}
	return p.Words[p.CommandStart:end]
}
