package qfis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

// Job is one set of crisp inputs waiting for inference.
type Job struct {
	Index  int
	Inputs []float64
}

// BatchResult pairs a job with the outcome of its run.
type BatchResult struct {
	Job    Job
	Result *Result
	Err    error
}

/*
Batch runs many independent inferences over a fixed set of workers. Runs share
the pipeline, which is safe because a Pipeline holds no state between runs.
When its sampler can fork, each job samples on a stream of its own, chosen by
its index, so a seeded batch gives the same values whatever the scheduling.
*/
type Batch struct {
	pipeline *Pipeline
	workers  int
}

func NewBatch(pipeline *Pipeline, workers int) *Batch {
	if workers < 1 {
		workers = 1
	}
	return &Batch{pipeline: pipeline, workers: workers}
}

/*
Run infers every entry of inputs and returns the results in input order. A
failing job does not stop the others; its error is kept on its BatchResult.
Once ctx is done, jobs that have not started report ctx.Err().

Parameters:
  - ctx: Cancels jobs that have not started yet
  - inputs: One set of crisp inputs per job

Returns:
  - []BatchResult: One entry per input, in order
*/
func (b *Batch) Run(ctx context.Context, inputs [][]float64) []BatchResult {
	startTime := time.Now()

	results := make([]BatchResult, len(inputs))
	jobs := make(chan Job, b.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		worker := &Worker{pipeline: b.pipeline, jobs: jobs, results: results}
		go func() {
			defer wg.Done()
			worker.start(ctx)
		}()
	}

	for idx, in := range inputs {
		jobs <- Job{Index: idx, Inputs: in}
	}
	close(jobs)
	wg.Wait()

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}

	errnie.Info(
		"batch of %d jobs on %d workers finished in %v, %d failed",
		len(inputs), b.workers, time.Since(startTime), failed,
	)
	return results
}

// Worker takes jobs off the queue until it is drained.
type Worker struct {
	pipeline *Pipeline
	jobs     <-chan Job
	results  []BatchResult
}

func (w *Worker) start(ctx context.Context) {
	for job := range w.jobs {
		// Each worker writes only the indices it received.
		w.results[job.Index] = w.processJob(ctx, job)
	}
}

func (w *Worker) processJob(ctx context.Context, job Job) BatchResult {
	if err := ctx.Err(); err != nil {
		return BatchResult{Job: job, Err: fmt.Errorf("job %d: %w", job.Index, err)}
	}

	// A sampler stream per job keeps seeded batches reproducible.
	result, err := w.pipeline.fork(uint64(job.Index)).Run(ctx, job.Inputs)
	if err != nil {
		err = fmt.Errorf("job %d: %w", job.Index, err)
	}
	return BatchResult{Job: job, Result: result, Err: err}
}
