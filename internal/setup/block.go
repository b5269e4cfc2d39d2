package setup

import "strings"

// block is a section of a startup file delimited by marker lines.
type block struct {
	start, end string
}

var hookBlock = block{start: HookMarkerStart, end: HookMarkerEnd}

// bounds returns the byte range of the block, end exclusive.
func (b block) bounds(content string) (int, int, bool) {
	i := strings.Index(content, b.start)
	if i < 0 {
		return 0, 0, false
	}
	j := strings.Index(content[i:], b.end)
	if j < 0 {
		return 0, 0, false
	}
	return i, i + j + len(b.end), true
}

func (b block) in(content string) bool {
	_, _, ok := b.bounds(content)
	return ok
}

// appendTo adds the block holding body at the end of content, separated
// by a blank line.
func (b block) appendTo(content, body string) string {
	if content != "" {
		content = strings.TrimRight(content, "\n") + "\n\n"
	}
	return content + b.start + "\n" + strings.TrimRight(body, "\n") + "\n" + b.end + "\n"
}

// strip removes the block and the blank lines around it.
func (b block) strip(content string) string {
	i, j, ok := b.bounds(content)
	if !ok {
		return content
	}
	before := strings.TrimRight(content[:i], "\n")
	after := strings.TrimLeft(content[j:], "\n")

	switch {
	case before != "" && after != "":
		return before + "\n" + after
	case before != "":
		return before + "\n"
	default:
		return after
	}
}
