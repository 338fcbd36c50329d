// Package pipeline runs a batch of raw lead rows through normalization, rule
// scoring, AI adjustment and classification.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/revenueradar/radar/internal/advisor"
	"github.com/revenueradar/radar/internal/model"
	"github.com/revenueradar/radar/internal/normalize"
	"github.com/revenueradar/radar/internal/scorer"
)

// DefaultConcurrency is the number of AI calls allowed in flight.
const DefaultConcurrency = 5

// ErrNoRows is returned (inside an IngestionError) for an empty batch.
var ErrNoRows = eris.New("no data rows")

// Pipeline orchestrates per-lead analysis for a batch.
type Pipeline struct {
	scorer      *scorer.Scorer
	adjuster    advisor.Adjuster
	concurrency int
}

// New creates a Pipeline. A non-positive concurrency uses DefaultConcurrency.
func New(sc *scorer.Scorer, adj advisor.Adjuster, concurrency int) *Pipeline {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if adj == nil {
		adj = advisor.Offline{}
	}
	return &Pipeline{scorer: sc, adjuster: adj, concurrency: concurrency}
}

type scored struct {
	lead model.Lead
	rule model.RuleScore
}

// Run analyzes rows numbered by their position. See RunRecords.
func (p *Pipeline) Run(ctx context.Context, rows []model.RawRow) (*model.BatchResult, error) {
	recs := make([]model.Record, len(rows))
	for i, row := range rows {
		recs[i] = model.Record{Line: i + 1, Row: row}
	}
	return p.RunRecords(ctx, recs)
}

// RunRecords analyzes recs and returns results in input order. Records that
// fail normalization are reported in Skipped under their source line. A
// failed AI call degrades only its own lead. If ctx is cancelled the partial
// results are discarded and the context error is returned.
func (p *Pipeline) RunRecords(ctx context.Context, recs []model.Record) (*model.BatchResult, error) {
	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))
	start := time.Now()

	if len(recs) == 0 {
		return nil, &model.IngestionError{Err: ErrNoRows}
	}

	leads := make([]scored, 0, len(recs))
	skipped := make([]model.SkippedRow, 0)
	for i, rec := range recs {
		line := rec.Line
		if line <= 0 {
			line = i + 1
		}
		lead, err := normalize.Lead(rec.Row)
		if err != nil {
			var verr *model.ValidationError
			if !errors.As(err, &verr) {
				return nil, eris.Wrapf(err, "pipeline: normalize row %d", line)
			}
			log.Warn("pipeline: skipping row", zap.Int("row", line), zap.Error(err))
			skipped = append(skipped, model.SkippedRow{Row: line, Reason: verr.Error()})
			continue
		}
		leads = append(leads, scored{lead: lead, rule: p.scorer.Score(lead)})
	}

	log.Info("pipeline: batch started",
		zap.Int("rows", len(recs)),
		zap.Int("leads", len(leads)),
		zap.Int("skipped", len(skipped)),
		zap.Int("concurrency", p.concurrency),
	)

	results := make([]model.LeadAnalysis, len(leads))

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, s := range leads {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			adj := p.adjuster.Adjust(ctx, s.lead, s.rule)
			results[i] = scorer.Analyze(s.lead, s.rule, adj)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		log.Warn("pipeline: batch cancelled, discarding partial results", zap.Error(err))
		return nil, eris.Wrap(err, "pipeline: batch cancelled")
	}

	summary := model.Summarize(results)
	log.Info("pipeline: batch complete",
		zap.Int("hot", summary.Hot),
		zap.Int("warm", summary.Warm),
		zap.Int("degraded", summary.Degraded),
		zap.Float64("average_score", summary.AverageScore),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &model.BatchResult{
		RunID:      runID,
		Results:    results,
		TotalLeads: len(results),
		Skipped:    skipped,
		Summary:    summary,
	}, nil
}
