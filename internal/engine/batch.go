package engine

import (
	"context"

	"github.com/mverett/fabula/pkg/schema"
)

// DefaultBatchPoolSize is the default concurrency for batch evaluation.
const DefaultBatchPoolSize = 8

// BatchEvaluator evaluates a condition set against many runs in
// parallel. This is the one explicitly opt-in parallel path in the
// engine: it is safe because each run's variable block is disjoint
// from every other run's and is only read during the batch. Callers
// must not advance any of the runs while a batch is in flight.
type BatchEvaluator struct {
	pool *WorkerPool
}

// NewBatchEvaluator creates an evaluator with its own worker pool.
func NewBatchEvaluator(poolSize int) *BatchEvaluator {
	if poolSize <= 0 {
		poolSize = DefaultBatchPoolSize
	}
	return &BatchEvaluator{pool: NewWorkerPool(poolSize)}
}

// Evaluate returns results[i][j] = whether conds[j] holds in runs[i].
// Evaluation is fail-closed per condition, like the sequential path.
func (b *BatchEvaluator) Evaluate(ctx context.Context, runs []*Context, conds []schema.Condition) [][]bool {
	results := make([][]bool, len(runs))
	for i := range runs {
		results[i] = make([]bool, len(conds))
	}

	for i := range runs {
		i := i
		run := runs[i]
		err := b.pool.Submit(ctx, func(context.Context) error {
			for j, cond := range conds {
				results[i][j] = run.EvaluateCondition(cond)
			}
			return nil
		})
		if err != nil {
			// Cancelled or shut down: remaining rows stay false.
			break
		}
	}

	b.pool.Wait()
	return results
}

// Close shuts the evaluator's pool down.
func (b *BatchEvaluator) Close() {
	b.pool.Shutdown()
}
