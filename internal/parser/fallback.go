package parser

// Fallback splits line on unquoted whitespace, keeping quoted spans
// together. Words are returned as typed (no unquoting) and operators are
// not recognized. It is only used when the scanner cannot be trusted.
func Fallback(line string, cursor int) ParsedLine {
	src := []rune(line)
	p := ParsedLine{
		Cursor:           cursor,
		Index:            -1,
		PrevCommandStart: -1,
		Fallback:         true,
	}

	var spans []Span
	start := -1
	var quote rune
	escaped := false

	for i, c := range src {
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
			if start < 0 {
				start = i
			}
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
			if start < 0 {
				start = i
			}
		case isBlank(c) || c == '\n':
			if start >= 0 {
				spans = append(spans, Span{Start: start, End: i})
				start = -1
			}
		default:
			if start < 0 {
				start = i
			}
		}
	}
	if start >= 0 {
		spans = append(spans, Span{Start: start, End: len(src)})
	}

	for _, sp := range spans {
		if p.Index < 0 {
			switch {
			case cursor < sp.Start:
				p.Index = len(p.Words)
				p.add("", "", Span{Start: cursor, End: cursor})
			case cursor <= sp.End:
				p.Index = len(p.Words)
			}
		}
		text := string(src[sp.Start:sp.End])
		p.add(text, text, sp)
	}
	if p.Index < 0 {
		p.Index = len(p.Words)
		p.add("", "", Span{Start: cursor, End: cursor})
	}
	p.CommandEnd = len(p.Words)
	return p
}
