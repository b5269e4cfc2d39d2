package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NikitaCOEUR/bft/internal/bash"
	"github.com/NikitaCOEUR/bft/internal/cache"
	"github.com/NikitaCOEUR/bft/internal/candidate"
	"github.com/NikitaCOEUR/bft/internal/completion"
	"github.com/NikitaCOEUR/bft/internal/compspec"
	"github.com/NikitaCOEUR/bft/internal/config"
	"github.com/NikitaCOEUR/bft/internal/derrors"
	"github.com/NikitaCOEUR/bft/internal/logger"
	"github.com/NikitaCOEUR/bft/internal/parser"
	"github.com/NikitaCOEUR/bft/internal/readline"
	"github.com/NikitaCOEUR/bft/internal/selector"
	"github.com/NikitaCOEUR/bft/internal/status"
	"github.com/NikitaCOEUR/bft/internal/timing"
	"github.com/NikitaCOEUR/bft/internal/trace"
)

// CompspecsEnv carries the output of `complete -p` from the calling shell.
const CompspecsEnv = "BFT_COMPSPECS"

// Completer runs one completion request from the edited line to the
// edit that bash applies.
type Completer struct {
	Registry compspec.Registry
	Sources  []completion.Source
	Selector selector.Selector
	Options  candidate.Options
	Timeout  time.Duration
	// NoEmptyCmdCompletion skips blank lines.
	NoEmptyCmdCompletion bool
	Prompt               string
	Height               string
	Log                  *logger.Logger
}

// CompleteResult describes what a request produced.
type CompleteResult struct {
	Context  completion.Context
	Spec     *compspec.Spec
	Outcome  completion.Outcome
	Selected *completion.Suggestion
	// Edit is nil when the line stays as it is.
	Edit *readline.Edit
}

// Run completes the word under the cursor of s. With several candidates
// left the selector picks one; no pick means no edit.
func (c *Completer) Run(ctx context.Context, s readline.State) (*CompleteResult, error) {
	log := c.Log
	if log == nil {
		log = logger.Discard()
	}
	timer := timing.NewTimer()
	defer timer.Log(log)

	result := &CompleteResult{}
	if c.NoEmptyCmdCompletion && strings.TrimSpace(s.Line) == "" {
		log.Debug().Msg("Empty command line, skipping completion")
		return result, nil
	}

	endParse := trace.Region(ctx, "parse")
	result.Context = completion.BuildContext(parser.Parse(s.Line, s.Cursor), s.Line)
	endParse()
	timer.Mark("parse")

	cc := result.Context
	log.Debug().
		Str("command", cc.Command).
		Str("current", cc.Current).
		Int("index", cc.Index).
		Bool("after_pipe", cc.AfterPipe).
		Msg("Completion context")

	endResolve := trace.Region(ctx, "resolve")
	spec, err := completion.NewResolver(c.Registry, false).Resolve(ctx, cc)
	endResolve()
	timer.Mark("resolve")
	if err != nil {
		if derrors.IsNoCompleter(err) {
			log.Debug().Str("command", cc.Command).Msg("No completer")
			return result, nil
		}
		return nil, err
	}
	result.Spec = spec
	log.Debug().Str("strategy", spec.Strategy.String()).Str("spec", spec.String()).Msg("Resolved compspec")

	endSources := trace.Region(ctx, "sources")
	res := completion.NewEngine(c.Timeout, log, c.Sources...).Complete(ctx, cc, spec)
	endSources()
	timer.Mark("sources")
	for _, e := range res.Errors {
		log.Debug().Err(e).Msg("Source failed")
	}

	result.Outcome = completion.Finalize(res.Suggestions, cc, spec, c.Options)
	timer.Mark("pipeline")
	for _, d := range result.Outcome.Diagnostics {
		log.Warn().Err(d).Msg("Candidate pipeline")
	}

	sugs := result.Outcome.Suggestions
	log.Debug().Int("candidates", len(sugs)).Strs("sources", res.Sources).Msg("Candidates ready")

	switch {
	case len(sugs) == 0:
		return result, nil
	case len(sugs) == 1:
		result.Selected = &sugs[0]
	default:
		if c.Selector == nil {
			return result, nil
		}
		endSelect := trace.Region(ctx, "select")
		selected, err := c.Selector.Select(ctx, sugs, selector.Options{
			Prompt: c.Prompt,
			Height: c.Height,
			Query:  cc.Current,
			Header: s.Line,
		})
		endSelect()
		timer.Mark("select")
		if err != nil {
			return nil, err
		}
		result.Selected = selected
	}

	if result.Selected == nil {
		log.Debug().Msg("No completion selected")
		return result, nil
	}

	var edit readline.Edit
	if result.Selected.ReplaceLine {
		edit = readline.Replace(result.Selected.Value)
	} else {
		nospace := result.Outcome.NoSpace || result.Selected.NoSpace
		edit = readline.Splice(s, result.Outcome.ConsumedPrefixLen, result.Selected.Value, nospace)
	}
	if !edit.Unchanged(s) {
		result.Edit = &edit
	}
	return result, nil
}

// CompleteParams holds parameters for the Complete function
type CompleteParams struct {
	ConfigPath string
	LogLevel   string
	LogFile    string
	// Args is LINE [POINT]; READLINE_LINE/READLINE_POINT are read when empty.
	Args    []string
	DryRun  bool
	Version string
	Getenv  func(string) string
	Out     io.Writer
}

// Complete answers a completion request from the bash binding: it prints
// the READLINE_LINE/READLINE_POINT assignments to eval, or nothing.
func Complete(ctx context.Context, params CompleteParams) error {
	ctx, endTask := trace.Task(ctx, "complete")
	defer endTask()

	getenv := params.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	out := params.Out
	if out == nil {
		out = os.Stdout
	}

	cfg, err := config.New().Load(params.ConfigPath)
	if err != nil {
		return derrors.NewConfigurationError(params.ConfigPath, "failed to load config", err)
	}

	log, closer, err := logger.Open(firstNonEmpty(params.LogLevel, cfg.LogLevel), firstNonEmpty(params.LogFile, cfg.LogFile))
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	var state readline.State
	if len(params.Args) > 0 {
		state, err = readline.FromArgs(params.Args)
		if err != nil {
			return err
		}
	} else {
		state = readline.FromEnv(getenv)
	}
	log.Debug().Str("line", state.Line).Int("cursor", state.Cursor).Msg("Received completion request")

	shell := bash.NewClient(&bash.ExecRunner{})
	registry, save := buildRegistry(cfg, shell, getenv(CompspecsEnv), params.Version, log)
	defer func() {
		if err := save(); err != nil {
			log.Warn().Err(err).Msg("Failed to save compspec cache")
		}
	}()

	sources, err := buildSources(cfg, shell)
	if err != nil {
		return err
	}

	completer := &Completer{
		Registry: registry,
		Sources:  sources,
		Options: candidate.Options{
			AutoCommonPrefix:     cfg.AutoCommonPrefix,
			AutoCommonPrefixPart: cfg.AutoCommonPrefixPart,
		},
		Timeout:              cfg.Timeout,
		NoEmptyCmdCompletion: cfg.NoEmptyCmdCompletion,
		Prompt:               cfg.Prompt,
		Height:               cfg.SelectorHeight,
		Log:                  log,
	}
	if !params.DryRun {
		completer.Selector, err = selector.New(cfg.Selector)
		if err != nil {
			return derrors.NewConfigurationError(params.ConfigPath, "invalid selector", err)
		}
		log.Debug().Str("selector", completer.Selector.Name()).Msg("Selector ready")
	}

	result, err := completer.Run(ctx, state)
	if err != nil {
		return err
	}

	if params.DryRun {
		for _, s := range result.Outcome.Suggestions {
			if s.Description != "" {
				_, _ = fmt.Fprintf(out, "%s\t%s\n", s.Value, s.Description)
			} else {
				_, _ = fmt.Fprintln(out, s.Value)
			}
		}
		return nil
	}

	if result.Edit != nil {
		_, _ = fmt.Fprint(out, result.Edit.Assignments())
	}
	return nil
}

// buildRegistry chains the compspecs of the calling shell, the registry
// file, the remote registry and a cached lookup in a fresh bash. The
// returned function persists the cache.
func buildRegistry(cfg *config.Config, shell *bash.Client, compspecs, version string, log *logger.Logger) (compspec.Registry, func() error) {
	var chain compspec.Chain
	if compspecs != "" {
		live := compspec.ParseCompleteList(compspecs)
		log.Debug().Int("count", live.Len()).Msg("Loaded compspecs from the shell")
		chain = append(chain, live)
	}

	if cfg.RegistryFile != "" {
		if reg, err := compspec.LoadRegistryFile(cfg.RegistryFile); err != nil {
			log.Warn().Err(err).Str("path", cfg.RegistryFile).Msg("Failed to load registry file")
		} else {
			chain = append(chain, reg)
		}
	}

	save := func() error { return nil }
	cacheDir, err := cfg.CachePath()
	if err != nil {
		log.Warn().Err(err).Msg("No cache directory")
		return append(chain, shell), save
	}

	if cfg.RegistryURL != "" {
		if reg, err := compspec.LoadRemoteRegistry(cfg.RegistryURL, cacheDir, cfg.CacheTTL); err != nil {
			log.Warn().Err(err).Str("url", cfg.RegistryURL).Msg("Failed to load remote registry")
		} else {
			chain = append(chain, reg)
		}
	}

	store, err := cache.New(filepath.Join(cacheDir, status.CacheFileName))
	if err != nil {
		log.Warn().Err(err).Msg("Compspec cache disabled")
		return append(chain, shell), save
	}
	cached := cache.NewRegistry(shell, store, cfg.CacheTTL, version)
	return append(chain, cached), cached.Save
}

// buildSources creates the sources in configuration order.
func buildSources(cfg *config.Config, shell completion.Shell) ([]completion.Source, error) {
	sources := make([]completion.Source, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		switch p.Type {
		case config.ProviderCommand:
			sources = append(sources, completion.NewCommandSource(shell))
		case config.ProviderBash:
			sources = append(sources, completion.NewBashSource(shell))
		case config.ProviderHistory:
			sources = append(sources, completion.NewHistorySource("", p.Limit))
		case config.ProviderCarapace:
			sources = append(sources, completion.NewCarapaceSource(cfg.CarapaceBinary))
		case config.ProviderEnvVar:
			sources = append(sources, completion.NewEnvVarSource())
		case config.ProviderCobra:
			sources = append(sources, completion.NewCobraSource(cfg.CobraCommands))
		case config.ProviderUrfave:
			sources = append(sources, completion.NewUrfaveCliSource(cfg.UrfaveCommands))
		default:
			return nil, derrors.NewConfigurationError("", fmt.Sprintf("unknown provider %q", p.Type), nil)
		}
	}
	return sources, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
