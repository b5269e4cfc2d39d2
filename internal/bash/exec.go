// Package bash talks to a bash subprocess: it reads registered compspecs,
// runs compgen and calls completion functions the way readline would.
package bash

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/NikitaCOEUR/bft/internal/derrors"
)

// DefaultTimeout bounds a subprocess started without a context deadline.
const DefaultTimeout = 3 * time.Second

// MaxOutput caps what is read from a subprocess.
const MaxOutput = 1 << 20

// Runner executes a bash script and returns its standard output.
type Runner interface {
	Run(ctx context.Context, script string) ([]byte, error)
}

// ExecRunner runs scripts with a non-interactive bash that skips the
// user's startup files.
type ExecRunner struct {
	// Path is the bash executable, "bash" when empty.
	Path string
	// Env replaces the inherited environment when non-nil.
	Env []string
}

func (r *ExecRunner) binary() string {
	if r.Path == "" {
		return "bash"
	}
	return r.Path
}

func (r *ExecRunner) Run(ctx context.Context, script string) ([]byte, error) {
	return Exec(ctx, r.Env, r.binary(), "--norc", "--noprofile", "-c", script)
}

// Available reports whether the bash binary can be found.
func (r *ExecRunner) Available() bool {
	_, err := exec.LookPath(r.binary())
	return err == nil
}

// Exec runs tool and returns its stdout, truncated to MaxOutput. A nil
// env inherits the current environment. Failures are ExecutionErrors.
func Exec(ctx context.Context, env []string, tool string, args ...string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Env = env

	out, err := cmd.Output()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return nil, derrors.NewExecutionError(tool, "command timed out", err)
	case errors.As(err, &exitErr):
		return nil, derrors.NewExecutionError(tool, fmt.Sprintf("exit status %d", exitErr.ExitCode()), err)
	default:
		return nil, derrors.NewExecutionError(tool, "failed to run", err)
	}

	if len(out) > MaxOutput {
		out = out[:MaxOutput]
	}
	return out, nil
}

// Lines splits output into its non-blank lines, dropping a trailing \r.
// Other surrounding whitespace is kept since a completion may end in a
// space.
func Lines(output []byte) []string {
	lines := []string{}
	sc := bufio.NewScanner(bytes.NewReader(output))
	sc.Buffer(make([]byte, 0, 64*1024), MaxOutput)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
