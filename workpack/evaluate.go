package workpack

import (
	"aviation-ops/advisor"
	"aviation-ops/models"
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result is the review of one work pack. Err is set when the evaluator
// failed; Evaluation then holds the evaluator's fallback.
type Result struct {
	WorkPackID string            `json:"workPackId"`
	Evaluation models.Evaluation `json:"evaluation"`
	Err        error             `json:"-"`
}

// Evaluate reviews a single pack.
func Evaluate(ctx context.Context, ev advisor.Evaluator, pack models.WorkPack) Result {
	eval, err := ev.EvaluateWorkPack(ctx, pack)
	return Result{WorkPackID: pack.ID, Evaluation: eval, Err: err}
}

// EvaluateAll reviews packs with at most limit evaluations in flight and
// returns results in input order. A failed evaluation does not stop the
// others; the returned error is only set when ctx ends first.
func EvaluateAll(ctx context.Context, ev advisor.Evaluator, packs []models.WorkPack, limit int, logger *zap.Logger) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]Result, len(packs))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, pack := range packs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Evaluate(gctx, ev, pack)
			if results[i].Err != nil {
				logger.Warn("Work pack evaluation failed", zap.String("id", pack.ID), zap.Error(results[i].Err))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
