// Package readline converts between the READLINE_LINE / READLINE_POINT
// variables bash exports to a `bind -x` command and the codepoint view
// the completion core works with.
package readline

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/NikitaCOEUR/bft/internal/quoting"
)

const (
	// LineVar holds the line being edited.
	LineVar = "READLINE_LINE"
	// PointVar holds the cursor as a byte offset into the line.
	PointVar = "READLINE_POINT"
)

// State is an edited line with its cursor as a codepoint offset.
type State struct {
	Line   string
	Cursor int
}

// FromEnv reads the state bash exports to a bind -x command.
func FromEnv(getenv func(string) string) State {
	line := getenv(LineVar)
	point, err := strconv.Atoi(strings.TrimSpace(getenv(PointVar)))
	if err != nil {
		point = len(line)
	}
	return State{Line: line, Cursor: RuneOffset(line, point)}
}

// FromArgs builds the state from LINE [POINT] arguments. POINT is a byte
// offset like READLINE_POINT and defaults to the end of the line.
func FromArgs(args []string) (State, error) {
	if len(args) == 0 {
		return State{}, fmt.Errorf("missing line argument")
	}
	line := args[0]
	point := len(line)
	if len(args) > 1 {
		p, err := strconv.Atoi(args[1])
		if err != nil {
			return State{}, fmt.Errorf("invalid point %q: %w", args[1], err)
		}
		point = p
	}
	return State{Line: line, Cursor: RuneOffset(line, point)}, nil
}

// RuneOffset converts a byte offset into a codepoint offset. An offset
// inside a multi-byte sequence is moved back to its start; offsets out of
// range are clamped.
func RuneOffset(line string, point int) int {
	if point <= 0 {
		return 0
	}
	n := 0
	for i := 0; i < len(line); n++ {
		_, size := utf8.DecodeRuneInString(line[i:])
		if i+size > point {
			return n
		}
		i += size
	}
	return n
}

// ByteOffset converts a codepoint offset into a byte offset.
func ByteOffset(line string, cursor int) int {
	if cursor <= 0 {
		return 0
	}
	n := 0
	for i := range line {
		if n == cursor {
			return i
		}
		n++
	}
	return len(line)
}

// Edit is the new content of the line.
type Edit struct {
	Line string
	// Point is a byte offset, as READLINE_POINT expects.
	Point int
}

// Splice replaces the consumed codepoints left of cursor with insert. A
// space is added after insert unless nospace is set or insert ends in /.
// Text right of the cursor is kept.
func Splice(s State, consumed int, insert string, nospace bool) Edit {
	runes := []rune(s.Line)
	cursor := min(max(s.Cursor, 0), len(runes))
	start := min(max(cursor-consumed, 0), cursor)

	if !nospace && !strings.HasSuffix(insert, "/") {
		insert += " "
	}

	before := string(runes[:start]) + insert
	return Edit{
		Line:  before + string(runes[cursor:]),
		Point: len(before),
	}
}

// Replace swaps the whole line, leaving the cursor at its end.
func Replace(line string) Edit {
	return Edit{Line: line, Point: len(line)}
}

// Unchanged reports whether the edit leaves s as it is.
func (e Edit) Unchanged(s State) bool {
	return e.Line == s.Line && e.Point == ByteOffset(s.Line, s.Cursor)
}

// Assignments renders the edit as shell assignments for the bind -x
// wrapper to eval.
func (e Edit) Assignments() string {
	return fmt.Sprintf("%s=%s\n%s=%d\n", LineVar, quoting.Quote(e.Line), PointVar, e.Point)
}
