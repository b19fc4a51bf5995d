package worker

import (
	"context"
	"time"

	"github.com/ppiankov/oneiro/internal/model"
)

// Analyzer interprets one dream, optionally with a reflection
type Analyzer interface {
	Analyze(ctx context.Context, dream string) model.InterpretationResult
}

// DreamJob interprets a single dream of a batch
type DreamJob struct {
	Index    int
	Dream    string
	Analyzer Analyzer
}

// Execute runs the interpretation unless the batch was cancelled
func (j *DreamJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &DreamResult{Index: j.Index, Dream: j.Dream, Error: err}
	}

	start := time.Now()
	result := j.Analyzer.Analyze(ctx, j.Dream)
	return &DreamResult{
		Index:    j.Index,
		Dream:    j.Dream,
		Result:   &result,
		Duration: time.Since(start),
	}
}

// DreamResult is the outcome of one DreamJob
type DreamResult struct {
	Index    int
	Dream    string
	Result   *model.InterpretationResult
	Duration time.Duration
	Error    error
}

// GetError returns the error from the dream result
func (r *DreamResult) GetError() error {
	return r.Error
}

// BatchProcessor interprets many dreams concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessDreams interprets dreams and returns one result per dream, in input order.
// Dreams not reached before ctx is cancelled carry ctx's error.
func (b *BatchProcessor) ProcessDreams(ctx context.Context, dreams []string) []*DreamResult {
	out := make([]*DreamResult, len(dreams))
	if len(dreams) == 0 {
		return out
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, dream := range dreams {
		if !pool.Submit(&DreamJob{Index: i, Dream: dream, Analyzer: b.analyzer}) {
			break
		}
	}

	for _, res := range pool.Wait() {
		dr := res.(*DreamResult)
		out[dr.Index] = dr
	}

	for i, dr := range out {
		if dr == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &DreamResult{Index: i, Dream: dreams[i], Error: err}
		}
	}

	return out
}
