package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/revio/internal/aireview"
	"github.com/scan-io-git/revio/internal/analyzers/heuristic"
	"github.com/scan-io-git/revio/internal/analyzers/radon"
	"github.com/scan-io-git/revio/internal/analyzers/ruff"
	"github.com/scan-io-git/revio/internal/baseline"
	"github.com/scan-io-git/revio/internal/findings"
	"github.com/scan-io-git/revio/internal/git"
	"github.com/scan-io-git/revio/internal/llm"
	"github.com/scan-io-git/revio/internal/runner"
	"github.com/scan-io-git/revio/internal/vcs"
	"github.com/scan-io-git/revio/pkg/shared/config"
	"github.com/scan-io-git/revio/pkg/shared/vcsurl"
)

// PathAnalyzer produces findings for a file or directory.
type PathAnalyzer interface {
	Analyze(ctx context.Context, path string) ([]findings.Finding, error)
}

// ComplexityAnalyzer produces findings for blocks graded at or above a threshold.
type ComplexityAnalyzer interface {
	Analyze(ctx context.Context, path string, minGrade radon.Grade) ([]findings.Finding, error)
}

// Summarizer writes the AI narrative of a review.
type Summarizer interface {
	GenerateReview(ctx context.Context, fs []findings.Finding, changed []vcs.ChangedFile) llm.Completion
}

// FetcherFactory returns the changed-files fetcher of a provider.
type FetcherFactory func(provider vcsurl.VCSType) (vcs.Fetcher, error)

// MetadataCollector describes the repository a local path belongs to.
type MetadataCollector func(path string) (*git.RepositoryMetadata, error)

// Engine runs the analyzers against a review target and assembles the sealed report.
type Engine struct {
	logger     hclog.Logger
	cfg        config.Review
	style      PathAnalyzer
	complexity ComplexityAnalyzer
	heuristics PathAnalyzer
	summarizer Summarizer
	fetchers   FetcherFactory
	metadata   MetadataCollector
}

// Option customizes an Engine.
type Option func(*Engine)

// WithStyleAnalyzer replaces the ruff analyzer.
func WithStyleAnalyzer(a PathAnalyzer) Option { return func(e *Engine) { e.style = a } }

// WithComplexityAnalyzer replaces the radon analyzer.
func WithComplexityAnalyzer(a ComplexityAnalyzer) Option { return func(e *Engine) { e.complexity = a } }

// WithHeuristicAnalyzer replaces the syntax tree heuristics.
func WithHeuristicAnalyzer(a PathAnalyzer) Option { return func(e *Engine) { e.heuristics = a } }

// WithSummarizer replaces the AI reviewer.
func WithSummarizer(s Summarizer) Option { return func(e *Engine) { e.summarizer = s } }

// WithFetcherFactory replaces the pull request fetchers.
func WithFetcherFactory(f FetcherFactory) Option { return func(e *Engine) { e.fetchers = f } }

// WithMetadataCollector replaces git metadata collection.
func WithMetadataCollector(m MetadataCollector) Option { return func(e *Engine) { e.metadata = m } }

// NewEngine wires the default collaborators from configuration.
func NewEngine(logger hclog.Logger, cfg *config.Config, opts ...Option) *Engine {
	executor := runner.New(logger.Named("runner"))
	e := &Engine{
		logger:     logger,
		cfg:        cfg.Review,
		style:      ruff.New(logger.Named("ruff"), executor, cfg.Analyzers),
		complexity: radon.New(logger.Named("radon"), executor, cfg.Analyzers),
		heuristics: heuristic.New(logger.Named("heuristic")),
		summarizer: aireview.New(
			logger.Named("aireview"),
			llm.NewClient(logger.Named("llm"), cfg),
			aireview.LimitsFromConfig(cfg.Review),
		),
		fetchers: func(provider vcsurl.VCSType) (vcs.Fetcher, error) {
			return vcs.NewFetcher(logger.Named("vcs"), cfg, provider)
		},
		metadata: git.CollectRepositoryMetadata,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Options common to every review flow.
type Options struct {
	ReviewID            string
	ComplexityThreshold string
	UseAI               bool

	// Baseline is an earlier report of the same target. Local path reviews only.
	Baseline *findings.ReviewReport
	// NewOnly keeps only findings absent from Baseline.
	NewOnly bool
}

// reviewLogger tags every log line of one review with its id.
func (e *Engine) reviewLogger(id string) hclog.Logger {
	if id == "" {
		id = uuid.New().String()
	}
	return e.logger.With("review_id", id)
}

func (e *Engine) threshold(letter string) (radon.Grade, error) {
	return radon.ParseGrade(config.SetThen(letter, config.SetThen(e.cfg.ComplexityThreshold, config.DefaultComplexityThreshold)))
}

// runAnalyzers runs style, complexity and heuristic analysis in that order and collects the results.
func (e *Engine) runAnalyzers(ctx context.Context, logger hclog.Logger, path string, minGrade radon.Grade) ([]findings.Finding, error) {
	steps := []struct {
		name string
		run  func() ([]findings.Finding, error)
	}{
		{findings.ToolRuff, func() ([]findings.Finding, error) { return e.style.Analyze(ctx, path) }},
		{findings.ToolRadon, func() ([]findings.Finding, error) { return e.complexity.Analyze(ctx, path, minGrade) }},
		{findings.ToolHeuristic, func() ([]findings.Finding, error) { return e.heuristics.Analyze(ctx, path) }},
	}

	var all []findings.Finding
	for _, step := range steps {
		fs, err := step.run()
		if err != nil {
			return nil, fmt.Errorf("%s analysis failed: %w", step.name, err)
		}
		logger.Debug("analyzer finished", "tool", step.name, "findings", len(fs))
		all = append(all, fs...)
	}
	return all, nil
}

// applyBaseline records how fs relates to the baseline and returns the findings to report.
func applyBaseline(logger hclog.Logger, report *findings.ReviewReport, fs []findings.Finding, opts Options) ([]findings.Finding, error) {
	if opts.Baseline == nil {
		return fs, nil
	}
	diff := baseline.Compare(fs, opts.Baseline.Findings())
	logger.Info("compared with baseline", "new", len(diff.New), "known", len(diff.Known), "fixed", len(diff.Fixed))

	for k, v := range map[string]interface{}{
		"baseline_target": opts.Baseline.Target(),
		"baseline_new":    len(diff.New),
		"baseline_known":  len(diff.Known),
		"baseline_fixed":  len(diff.Fixed),
	} {
		if err := report.SetMetadata(k, v); err != nil {
			return nil, err
		}
	}
	if opts.NewOnly {
		return diff.New, nil
	}
	return fs, nil
}

// summarize attaches the AI narrative. Unavailability is stored as text, never returned.
func (e *Engine) summarize(ctx context.Context, logger hclog.Logger, report *findings.ReviewReport, changed []vcs.ChangedFile) error {
	completion := e.summarizer.GenerateReview(ctx, report.Findings(), changed)
	if completion.Unavailable {
		logger.Warn("ai summary unavailable", "reason", completion.Reason)
	}
	return report.SetAISummary(completion.String())
}

func (e *Engine) attachRepositoryMetadata(logger hclog.Logger, report *findings.ReviewReport, path string) error {
	md, err := e.metadata(path)
	if err != nil {
		if errors.Is(err, git.ErrNotRepository) {
			logger.Debug("target is not inside a git repository", "path", path)
		} else {
			logger.Warn("failed to collect repository metadata", "path", path, "error", err)
		}
		return nil
	}
	for k, v := range md.Fields() {
		if err := report.SetMetadata(k, v); err != nil {
			return err
		}
	}
	return nil
}
