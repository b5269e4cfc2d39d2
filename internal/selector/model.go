package selector

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rivo/uniseg"
	"github.com/sahilm/fuzzy"

	"github.com/NikitaCOEUR/bft/internal/completion"
)

var (
	promptStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	countStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// labels implements fuzzy.Source over suggestion values.
type labels []completion.Suggestion

func (l labels) String(i int) string { return l[i].Value }
func (l labels) Len() int            { return len(l) }

// model is the builtin selector state, independent of the terminal.
type model struct {
	items   []completion.Suggestion
	opts    Options
	query   []rune
	matches []int
	cursor  int
	offset  int
	rows    int
}

func newModel(items []completion.Suggestion, opts Options, rows int) *model {
	m := &model{items: items, opts: opts, query: []rune(opts.Query), rows: max(rows, 1)}
	m.filter()
	return m
}

// filter ranks items against the query. An empty query keeps input order.
func (m *model) filter() {
	m.matches = m.matches[:0]
	if len(m.query) == 0 {
		for i := range m.items {
			m.matches = append(m.matches, i)
		}
	} else {
		for _, match := range fuzzy.FindFrom(string(m.query), labels(m.items)) {
			m.matches = append(m.matches, match.Index)
		}
	}
	m.cursor = 0
	m.offset = 0
}

func (m *model) move(delta int) {
	if len(m.matches) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.matches)) % len(m.matches)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.rows {
		m.offset = m.cursor - m.rows + 1
	}
}

// handle applies a key. done is set when the selection is over; the
// selected suggestion is nil on cancel or when nothing matches.
func (m *model) handle(k key) (done bool, selected *completion.Suggestion) {
	switch k.kind {
	case keyUp:
		m.move(-1)
	case keyDown:
		m.move(1)
	case keyEnter:
		if len(m.matches) == 0 {
			return true, nil
		}
		s := m.items[m.matches[m.cursor]]
		return true, &s
	case keyCancel:
		return true, nil
	case keyBackspace:
		if len(m.query) > 0 {
			m.query = m.query[:len(m.query)-1]
			m.filter()
		}
	case keyRune:
		m.query = append(m.query, k.r)
		m.filter()
	}
	return false, nil
}

// lines renders the prompt line followed by the visible rows, each cut to
// width columns.
func (m *model) lines(width int) []string {
	out := make([]string, 0, m.rows+2)
	if m.opts.Header != "" {
		out = append(out, headerStyle.Render(truncate(m.opts.Header, width)))
	}

	prompt := m.opts.Prompt + string(m.query)
	count := countStyle.Render(fmt.Sprintf(" %d/%d", len(m.matches), len(m.items)))
	out = append(out, promptStyle.Render(truncate(prompt, width))+count)

	end := min(m.offset+m.rows, len(m.matches))
	for i := m.offset; i < end; i++ {
		it := m.items[m.matches[i]]
		text := truncate(it.Value, width)
		if it.Description != "" {
			if room := width - uniseg.StringWidth(text) - 2; room > 0 {
				text += "  " + descStyle.Render(truncate(it.Description, room))
			}
		}
		if i == m.cursor {
			text = selectedStyle.Render(truncate(it.Value, width))
		}
		out = append(out, text)
	}
	return out
}

// truncate cuts s to at most width terminal columns on grapheme
// boundaries, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > width-1 {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	b.WriteString("…")
	return b.String()
}
