package completion

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/NikitaCOEUR/bft/internal/compspec"
	"github.com/NikitaCOEUR/bft/internal/logger"
)

// DefaultTimeout bounds a whole engine run.
const DefaultTimeout = 3 * time.Second

// Engine runs the configured sources concurrently and merges their results.
type Engine struct {
	sources []Source
	timeout time.Duration
	log     *logger.Logger
}

// Result is the merged output of an engine run.
type Result struct {
	Suggestions []Suggestion
	// Sources lists the sources that contributed, in configuration order.
	Sources []string
	// Errors holds the failures of individual sources.
	Errors []error
}

// NewEngine creates an engine over sources, kept in priority order.
func NewEngine(timeout time.Duration, log *logger.Logger, sources ...Source) *Engine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.New("error", io.Discard)
	}
	return &Engine{sources: sources, timeout: timeout, log: log}
}

// Sources returns the source names in priority order.
func (e *Engine) Sources() []string {
	return lo.Map(e.sources, func(s Source, _ int) string { return s.Name() })
}

// sourceResult holds the result of one source run
type sourceResult struct {
	suggestions []Suggestion
	err         error
	ran         bool
}

// Complete asks every supporting source in parallel. Results are merged in
// source order and deduplicated by value, the first source winning. A
// failing or timed-out source is logged and skipped.
func (e *Engine) Complete(ctx context.Context, c Context, spec *compspec.Spec) *Result {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	results := make([]sourceResult, len(e.sources))
	var wg sync.WaitGroup

	for i, src := range e.sources {
		if !src.Supports(c, spec) {
			continue
		}
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()

			start := time.Now()
			sugs, err := src.Complete(ctx, c, spec)
			results[i] = sourceResult{suggestions: sugs, err: err, ran: true}

			e.log.Debug().
				Str("source", src.Name()).
				Int("count", len(sugs)).
				Dur("duration_ms", time.Since(start)).
				Err(err).
				Msg("Source finished")
		}(i, src)
	}

	wg.Wait()

	res := &Result{}
	var merged []Suggestion
	for i, r := range results {
		if !r.ran {
			continue
		}
		name := e.sources[i].Name()
		if r.err != nil {
			e.log.Warn().Str("source", name).Err(r.err).Msg("Completion source failed")
			res.Errors = append(res.Errors, r.err)
			continue
		}
		if len(r.suggestions) == 0 {
			continue
		}
		for _, s := range r.suggestions {
			if s.Source == "" {
				s.Source = name
			}
			merged = append(merged, s)
		}
		res.Sources = append(res.Sources, name)
	}

	res.Suggestions = lo.UniqBy(merged, func(s Suggestion) string { return s.Value })
	return res
}
