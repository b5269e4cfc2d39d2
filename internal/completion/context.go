// Package completion builds the completion context for a parsed line,
// resolves the completion strategy and gathers suggestions from the
// configured sources.
package completion

import (
	"github.com/NikitaCOEUR/bft/internal/bash"
	"github.com/NikitaCOEUR/bft/internal/parser"
)

// Context is the view of one completion request. It is built once and
// never modified.
type Context struct {
	// Words and RawWords cover the whole line.
	Words    []string
	RawWords []string
	// Index is the word holding the cursor.
	Index int
	Line  string
	// Cursor is a codepoint offset into Line.
	Cursor int

	// Command is the unquoted first word of the command segment holding
	// the cursor.
	Command string
	// Word is the whole unquoted word under the cursor.
	Word string
	// Current is the unquoted part of Word left of the cursor.
	Current string
	// CurrentRaw is the part of the raw word left of the cursor, as typed.
	CurrentRaw string
	// Previous is the word before the current one in the same segment.
	Previous    string
	HasPrevious bool

	// CommandStart and CommandEnd bound the command segment in Words.
	CommandStart int
	CommandEnd   int
	// AfterPipe is set when the segment is fed by a pipe.
	AfterPipe bool
	// PreviousCommand is the command of the segment before a pipe.
	PreviousCommand string

	segmentStart int
}

// BuildContext derives the completion context from a parsed line.
func BuildContext(p parser.ParsedLine, line string) Context {
	c := Context{
		Words:        p.Words,
		RawWords:     p.RawWords,
		Index:        p.Index,
		Line:         line,
		Cursor:       p.Cursor,
		CommandStart: p.CommandStart,
		CommandEnd:   p.CommandEnd,
		AfterPipe:    p.AfterPipe(),
		Word:         p.CurrentWord(),
	}
	if c.CommandEnd < c.CommandStart {
		c.CommandEnd = len(c.Words)
	}

	if c.CommandStart < len(c.Words) {
		c.Command = c.Words[c.CommandStart]
	}
	if c.CommandStart < len(p.Spans) {
		c.segmentStart = p.Spans[c.CommandStart].Start
	}
	if c.AfterPipe && p.PrevCommandStart >= 0 && p.PrevCommandStart < len(c.Words) {
		c.PreviousCommand = c.Words[p.PrevCommandStart]
	}
	if c.Index > c.CommandStart {
		c.Previous = c.Words[c.Index-1]
		c.HasPrevious = true
	}

	raw := []rune(p.CurrentRaw())
	n := c.Cursor - p.CurrentSpan().Start
	switch {
	case n <= 0:
		c.Current, c.CurrentRaw = "", ""
	case n >= len(raw):
		c.Current, c.CurrentRaw = c.Word, string(raw)
	default:
		c.CurrentRaw = string(raw[:n])
		c.Current = parser.Unquote(c.CurrentRaw)
	}
	if p.Fallback {
		// The fallback splitter does not unquote.
		c.Current = parser.Unquote(c.CurrentRaw)
	}

	return c
}

// IsCommandPosition reports whether the cursor word is the command name.
func (c Context) IsCommandPosition() bool {
	return c.Index == c.CommandStart
}

// SegmentWords returns the words of the command segment up to the cursor
// word, which is cut at the cursor.
func (c Context) SegmentWords() []string {
	if c.CommandStart > c.Index || c.Index >= len(c.Words) {
		return nil
	}
	words := append([]string(nil), c.Words[c.CommandStart:c.Index]...)
	return append(words, c.Current)
}

// CommandArgs returns the arguments of the command segment up to the cursor.
func (c Context) CommandArgs() []string {
	words := c.SegmentWords()
	if len(words) < 2 {
		return []string{}
	}
	return words[1:]
}

// Request returns the command segment as a bash completion function
// expects it.
func (c Context) Request() bash.Request {
	req := bash.Request{
		Command: c.Command,
		CWord:   c.Index - c.CommandStart,
		Cur:     c.Current,
		Prev:    c.Previous,
	}
	if end := min(c.CommandEnd, len(c.RawWords)); c.CommandStart < end {
		req.Words = append([]string(nil), c.RawWords[c.CommandStart:end]...)
	}

	runes := []rune(c.Line)
	start := c.segmentStart
	if start < 0 || start > c.Cursor || c.Cursor > len(runes) {
		start = 0
	}
	req.Line = string(runes[start:])
	if c.Cursor <= len(runes) {
		req.Point = len(string(runes[start:c.Cursor]))
	}
	return req
}
