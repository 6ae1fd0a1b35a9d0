package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/agenthands/lexigraph/internal/config"
	"github.com/agenthands/lexigraph/internal/core/metrics"
	"github.com/agenthands/lexigraph/internal/core/model"
	"github.com/agenthands/lexigraph/internal/core/synthesis"
	"github.com/agenthands/lexigraph/internal/driver"
	"github.com/agenthands/lexigraph/internal/logger"
)

// ErrMissingInput is returned by Evaluate when the nodes or edges artifact does not exist.
var ErrMissingInput = errors.New("missing evaluation input")

type Lexigraph struct {
	Driver      driver.SnapshotDriver
	Synthesizer *synthesis.Synthesizer
	Aggregator  *metrics.Aggregator
	Logger      *logger.Logger
	Seed        uint64
}

func NewLexigraph(d driver.SnapshotDriver, cfg *config.Config, log *logger.Logger) *Lexigraph {
	if log == nil {
		log = logger.Nop()
	}
	return &Lexigraph{
		Driver:      d,
		Synthesizer: synthesis.NewSynthesizer(cfg.Synthesis, log),
		Aggregator:  metrics.NewAggregator(cfg.Evaluation),
		Logger:      log,
		Seed:        cfg.Seed,
	}
}

// BuildOptions tune one synthesis pass. A zero Seed uses the configured seed.
type BuildOptions struct {
	Seed   uint64
	Rotate bool
}

// Build loads the cleaned records, synthesizes the network and persists it. With Rotate
// the edges being replaced are kept as the prior snapshot.
func (l *Lexigraph) Build(ctx context.Context, opts BuildOptions) (synthesis.Result, error) {
	vocab, skippedVocab, err := l.Driver.LoadVocabulary(ctx)
	if err != nil {
		return synthesis.Result{}, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	grammar, skippedGrammar, err := l.Driver.LoadGrammar(ctx)
	if err != nil {
		return synthesis.Result{}, fmt.Errorf("failed to load grammar: %w", err)
	}
	if skipped := skippedVocab + skippedGrammar; skipped > 0 {
		l.Logger.Warn("Skipped malformed records", "vocabulary", skippedVocab, "grammar", skippedGrammar)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = l.Seed
	}
	res := l.Synthesizer.Run(vocab, grammar, seed)
	res.Summary.SkippedRecords = skippedVocab + skippedGrammar

	if err := ctx.Err(); err != nil {
		return synthesis.Result{}, err
	}
	if opts.Rotate {
		if err := l.Driver.RotatePrevious(ctx); err != nil {
			return synthesis.Result{}, fmt.Errorf("failed to rotate previous edges: %w", err)
		}
	}
	if err := l.Driver.SaveSnapshot(ctx, model.Snapshot{Nodes: res.Nodes, Edges: res.Edges}); err != nil {
		return synthesis.Result{}, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return res, nil
}

// Evaluate scores the persisted snapshot against the prior edges, if any.
func (l *Lexigraph) Evaluate(ctx context.Context) (metrics.Report, error) {
	snap, err := l.Driver.LoadSnapshot(ctx)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return metrics.Report{}, fmt.Errorf("%w: %w", ErrMissingInput, err)
		}
		return metrics.Report{}, fmt.Errorf("failed to load snapshot: %w", err)
	}
	prev, hasPrev, err := l.Driver.LoadPrevious(ctx)
	if err != nil {
		return metrics.Report{}, fmt.Errorf("failed to load previous edges: %w", err)
	}
	return l.EvaluateSnapshot(snap, prev, hasPrev), nil
}

// EvaluateSnapshot scores an in-memory snapshot.
func (l *Lexigraph) EvaluateSnapshot(snap model.Snapshot, previous []model.Edge, hasPrevious bool) metrics.Report {
	report := l.Aggregator.Compute(metrics.Input{
		Nodes:       snap.Nodes,
		Edges:       snap.Edges,
		Previous:    previous,
		HasPrevious: hasPrevious,
	})
	l.Logger.Info("Evaluation complete",
		"nodes", report.NodeCount,
		"edges", len(snap.Edges),
		"precision", report.Precision,
		"edge_jaccard", report.EdgeJaccard,
	)
	return report
}
