package bash

import (
	"context"
	"errors"
	"fmt"

	"github.com/NikitaCOEUR/bft/internal/compspec"
)

// Request is the command line as a completion function sees it.
type Request struct {
	// Command is the name the spec was resolved for.
	Command string
	// Words are the raw words of the command segment (COMP_WORDS).
	Words []string
	// CWord indexes the word being completed (COMP_CWORD).
	CWord int
	// Line and Point become COMP_LINE and COMP_POINT.
	Line  string
	Point int
	// Cur and Prev are the current and previous words, unquoted.
	Cur  string
	Prev string
}

// Client runs bash to answer completion questions.
type Client struct {
	runner     Runner
	frameworks []string
	scriptDirs func(string) []string
}

// NewClient creates a client that runs scripts through runner.
func NewClient(runner Runner) *Client {
	return &Client{
		runner:     runner,
		frameworks: frameworkPaths,
		scriptDirs: completionScriptPaths,
	}
}

// Lookup implements compspec.Registry by asking bash for `complete -p`,
// after loading bash-completion and any per-command script.
func (c *Client) Lookup(ctx context.Context, command string) (*compspec.Spec, error) {
	script, err := render("lookup", scriptData{
		Frameworks:  c.frameworks,
		ScriptPaths: c.scriptDirs(command),
		Command:     command,
	})
	if err != nil {
		return nil, err
	}

	output, err := c.runner.Run(ctx, script)
	if err != nil {
		return nil, err
	}

	spec, err := compspec.ParseComplete(string(output))
	if err != nil || spec == nil {
		return nil, err
	}
	// `complete -p` prints the command as registered, which may be a path.
	spec.Name = command
	return spec, nil
}

// Compgen runs `compgen FLAGS -- word`.
func (c *Client) Compgen(ctx context.Context, word string, flags ...string) ([]string, error) {
	script, err := render("compgen", scriptData{Flags: flags, Word: word})
	if err != nil {
		return nil, err
	}

	output, err := c.runner.Run(ctx, script)
	if err != nil {
		return nil, err
	}
	return Lines(output), nil
}

// CallFunction runs a -F completion function and returns COMPREPLY.
func (c *Client) CallFunction(ctx context.Context, function string, req Request) ([]string, error) {
	script, err := render("function", scriptData{
		Frameworks:  c.frameworks,
		ScriptPaths: c.scriptDirs(req.Command),
		Command:     req.Command,
		Function:    function,
		Words:       req.Words,
		CWord:       req.CWord,
		Line:        req.Line,
		Point:       req.Point,
		Cur:         req.Cur,
		Prev:        req.Prev,
	})
	if err != nil {
		return nil, err
	}

	output, err := c.runner.Run(ctx, script)
	if err != nil {
		return nil, fmt.Errorf("completion function %s: %w", function, err)
	}
	return Lines(output), nil
}

// RunCommand runs a -C completion command with the usual arguments.
func (c *Client) RunCommand(ctx context.Context, command string, req Request) ([]string, error) {
	script, err := render("command", scriptData{
		Exec:    command,
		Command: req.Command,
		Line:    req.Line,
		Point:   req.Point,
		Cur:     req.Cur,
		Prev:    req.Prev,
	})
	if err != nil {
		return nil, err
	}

	output, err := c.runner.Run(ctx, script)
	if err != nil {
		return nil, err
	}
	return Lines(output), nil
}

// Generate produces the raw candidates for spec, following the order bash
// uses: function, wordlist, command, glob and actions, then directories for
// plusdirs. When nothing matched, dirnames and default fall back to
// directory and filename completion.
func (c *Client) Generate(ctx context.Context, spec *compspec.Spec, req Request) ([]string, error) {
	var (
		out  []string
		errs []error
	)
	collect := func(words []string, err error) {
		if err != nil {
			errs = append(errs, err)
			return
		}
		out = append(out, words...)
	}

	if spec.Function != "" {
		collect(c.CallFunction(ctx, spec.Function, req))
	}
	if spec.Wordlist != "" {
		collect(c.Compgen(ctx, req.Cur, "-W", spec.Wordlist))
	}
	if spec.Command != "" {
		collect(c.RunCommand(ctx, spec.Command, req))
	}
	if spec.GlobPattern != "" {
		collect(c.Compgen(ctx, req.Cur, "-G", spec.GlobPattern))
	}
	for _, action := range spec.Actions {
		collect(c.Compgen(ctx, req.Cur, "-A", action))
	}
	if spec.Options.PlusDirs {
		collect(c.Compgen(ctx, req.Cur, "-d"))
	}

	if len(out) == 0 && spec.Options.Dirnames {
		collect(c.Compgen(ctx, req.Cur, "-d"))
	}
	if len(out) == 0 && (spec.Options.Default || spec.Options.BashDefault) {
		collect(c.Compgen(ctx, req.Cur, "-f"))
	}

	if len(out) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Commands lists command names starting with prefix: builtins, keywords,
// functions and executables on PATH.
func (c *Client) Commands(ctx context.Context, prefix string) ([]string, error) {
	return c.Compgen(ctx, prefix, "-c")
}

// Variables lists shell variable names starting with prefix.
func (c *Client) Variables(ctx context.Context, prefix string) ([]string, error) {
	return c.Compgen(ctx, prefix, "-v")
}
