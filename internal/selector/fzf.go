package selector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/NikitaCOEUR/bft/internal/completion"
	"github.com/NikitaCOEUR/bft/internal/derrors"
)

// fzf exits with 1 when nothing matched and 130 on Esc or Ctrl-C.
const (
	fzfNoMatch     = 1
	fzfInterrupted = 130
)

type runFunc func(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error)

// Fzf runs the fzf binary. fzf draws on /dev/tty, so it works from a
// readline binding whose stdout is captured.
type Fzf struct {
	binary string
	run    runFunc
}

// NewFzf returns a selector running binary.
func NewFzf(binary string) *Fzf {
	return &Fzf{binary: binary, run: runCommand}
}

// Name implements Selector.
func (f *Fzf) Name() string { return KindFzf }

// Select implements Selector.
func (f *Fzf) Select(ctx context.Context, items []completion.Suggestion, opts Options) (*completion.Suggestion, error) {
	if len(items) == 0 {
		return nil, nil
	}

	out, err := f.run(ctx, f.binary, fzfArgs(opts), strings.NewReader(fzfInput(items)))
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			switch exitErr.ExitCode() {
			case fzfNoMatch, fzfInterrupted:
				return nil, nil
			}
		}
		return nil, derrors.NewSelectorError(KindFzf, "fzf failed", err)
	}

	line := strings.TrimRight(string(out), "\r\n")
	if line == "" {
		return nil, nil
	}
	idx, _, _ := strings.Cut(line, "\t")
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 || i >= len(items) {
		return nil, derrors.NewSelectorError(KindFzf, fmt.Sprintf("unexpected fzf output %q", line), err)
	}
	selected := items[i]
	return &selected, nil
}

func fzfArgs(opts Options) []string {
	args := []string{
		"--delimiter", "\t",
		"--with-nth", "2..",
		"--nth", "1",
		"--reverse",
		"--select-1",
		"--exit-0",
	}
	if opts.Height != "" {
		args = append(args, "--height", opts.Height)
	}
	if opts.Prompt != "" {
		args = append(args, "--prompt", opts.Prompt)
	}
	if opts.Query != "" {
		args = append(args, "--query", opts.Query)
	}
	if opts.Header != "" {
		args = append(args, "--header", opts.Header)
	}
	return args
}

// fzfInput writes one "index<TAB>value<TAB>description" line per item.
// Tabs and newlines inside fields would break the framing.
func fzfInput(items []completion.Suggestion) string {
	clean := strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")
	var b strings.Builder
	for i, it := range items {
		fmt.Fprintf(&b, "%d\t%s", i, clean.Replace(it.Value))
		if it.Description != "" {
			fmt.Fprintf(&b, "\t%s", clean.Replace(it.Description))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func runCommand(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stderr = os.Stderr
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	err := cmd.Run()
	return stdout.Bytes(), err
}
