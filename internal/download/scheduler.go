package download

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/suno-downloader/internal/model"
)

// Processor turns one record into an outcome. *Engine implements it.
type Processor interface {
	Process(ctx context.Context, rec model.Record) model.Outcome
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, rec model.Record) model.Outcome

// Process calls f(ctx, rec).
func (f ProcessorFunc) Process(ctx context.Context, rec model.Record) model.Outcome {
	return f(ctx, rec)
}

// Scheduler runs a Processor over many records with bounded concurrency.
type Scheduler struct {
	processor Processor
	workers   int
}

// NewScheduler creates a Scheduler running at most workers records at a
// time. Values below one are treated as one.
func NewScheduler(processor Processor, workers int) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	return &Scheduler{processor: processor, workers: workers}
}

// Workers returns the concurrency limit.
func (s *Scheduler) Workers() int {
	return s.workers
}

// Run processes every record and returns one outcome per record, where
// outcomes[i] belongs to records[i].
//
// Individual failures never stop the run. Records that have not started
// when ctx is cancelled are reported as failed with the context error.
func (s *Scheduler) Run(ctx context.Context, records []model.Record) []model.Outcome {
	outcomes := make([]model.Outcome, len(records))

	var g errgroup.Group
	g.SetLimit(s.workers)

	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			outcomes[i] = s.process(ctx, rec)
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}

func (s *Scheduler) process(ctx context.Context, rec model.Record) (outcome model.Outcome) {
	if err := ctx.Err(); err != nil {
		return model.Failed(rec, err)
	}

	defer func() {
		if r := recover(); r != nil {
			outcome = model.Failed(rec, fmt.Errorf("panic while processing %s: %v", rec.Filename, r))
		}
	}()

	return s.processor.Process(ctx, rec)
}
