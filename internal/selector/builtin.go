package selector

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/NikitaCOEUR/bft/internal/completion"
	"github.com/NikitaCOEUR/bft/internal/derrors"
)

const (
	ttyPath       = "/dev/tty"
	defaultHeight = "40%"
	minRows       = 3
)

// Builtin is an inline fuzzy list drawn below the prompt on /dev/tty.
type Builtin struct {
	open func() (*os.File, error)
}

// NewBuiltin returns the builtin selector.
func NewBuiltin() *Builtin {
	return &Builtin{open: func() (*os.File, error) {
		return os.OpenFile(ttyPath, os.O_RDWR, 0)
	}}
}

// Name implements Selector.
func (b *Builtin) Name() string { return KindBuiltin }

// Select implements Selector.
func (b *Builtin) Select(ctx context.Context, items []completion.Suggestion, opts Options) (*completion.Suggestion, error) {
	if len(items) == 0 {
		return nil, nil
	}

	tty, err := b.open()
	if err != nil {
		return nil, derrors.NewSelectorError(KindBuiltin, "cannot open terminal", err)
	}
	defer func() { _ = tty.Close() }()

	fd := int(tty.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, derrors.NewSelectorError(KindBuiltin, "cannot enter raw mode", err)
	}
	defer func() { _ = term.Restore(fd, state) }()

	width, height, err := term.GetSize(fd)
	if err != nil {
		width, height = 80, 24
	}

	rows := listRows(opts.Height, height)
	if opts.Header != "" {
		rows--
	}
	m := newModel(items, opts, rows)

	// ctx cancellation cannot interrupt a blocking tty read; the deadline
	// is checked between keys.
	return run(ctx, m, bufio.NewReader(tty), tty, width)
}

// run drives the model until a key ends the selection. The block of rows
// is reserved first so that later redraws never scroll the screen.
func run(ctx context.Context, m *model, in *bufio.Reader, out io.Writer, width int) (*completion.Suggestion, error) {
	total := m.rows + 1
	if m.opts.Header != "" {
		total++
	}
	fmt.Fprint(out, strings.Repeat("\n", total)+fmt.Sprintf("\x1b[%dA", total)+"\x1b7")
	defer fmt.Fprint(out, "\x1b8\r\n\x1b[J\x1b8")

	for {
		draw(out, m.lines(width))
		k, err := readKey(in)
		if err != nil {
			return nil, derrors.NewSelectorError(KindBuiltin, "cannot read terminal", err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if done, selected := m.handle(k); done {
			return selected, nil
		}
	}
}

func draw(out io.Writer, lines []string) {
	var b strings.Builder
	b.WriteString("\x1b8\r\n\x1b[J")
	b.WriteString(strings.Join(lines, "\r\n"))
	fmt.Fprint(out, b.String())
}

// listRows converts a height such as "40%" or "10" into the number of list
// rows for a terminal of termHeight lines.
func listRows(height string, termHeight int) int {
	if height == "" {
		height = defaultHeight
	}
	n := 0
	if pct, ok := strings.CutSuffix(height, "%"); ok {
		if p, err := strconv.Atoi(pct); err == nil {
			n = termHeight * p / 100
		}
	} else if v, err := strconv.Atoi(height); err == nil {
		n = v
	}
	// One row is the prompt line.
	n--
	return max(min(n, termHeight-2), minRows)
}
