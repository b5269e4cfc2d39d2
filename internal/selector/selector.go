// Package selector lets the user pick one completion among several.
package selector

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/mattn/go-isatty"

	"github.com/NikitaCOEUR/bft/internal/completion"
)

// Selector kinds accepted by New.
const (
	KindAuto    = "auto"
	KindFzf     = "fzf"
	KindBuiltin = "builtin"
	KindNone    = "none"
)

// Options configures one selection.
type Options struct {
	// Prompt is shown before the query.
	Prompt string
	// Height is a row count or a percentage of the terminal, e.g. "40%".
	Height string
	// Query pre-fills the filter, usually with the word being completed.
	Query string
	// Header is a line shown above the list.
	Header string
}

// Selector presents suggestions and returns the chosen one, or nil when
// the user cancels.
type Selector interface {
	Name() string
	Select(ctx context.Context, items []completion.Suggestion, opts Options) (*completion.Suggestion, error)
}

// New returns the selector for kind. Unknown kinds are an error.
func New(kind string) (Selector, error) {
	switch kind {
	case "", KindAuto:
		return Auto(exec.LookPath, hasTTY), nil
	case KindFzf:
		return NewFzf("fzf"), nil
	case KindBuiltin:
		return NewBuiltin(), nil
	case KindNone:
		return None{}, nil
	}
	return nil, fmt.Errorf("unknown selector %q", kind)
}

// Auto prefers fzf when it is installed, the builtin list when a terminal
// is attached, and no selection otherwise.
func Auto(lookPath func(string) (string, error), tty func() bool) Selector {
	if path, err := lookPath("fzf"); err == nil {
		return NewFzf(path)
	}
	if tty() {
		return NewBuiltin()
	}
	return None{}
}

func hasTTY() bool {
	for _, f := range []*os.File{os.Stdin, os.Stderr} {
		if isatty.IsTerminal(f.Fd()) {
			return true
		}
	}
	return false
}

// None never selects anything.
type None struct{}

// Name implements Selector.
func (None) Name() string { return KindNone }

// Select implements Selector.
func (None) Select(context.Context, []completion.Suggestion, Options) (*completion.Suggestion, error) {
	return nil, nil
}
