package worker

import (
	"context"
	"sync"

	"github.com/martinsuchenak/advisorctl/internal/log"
)

// Job is one read that contributes to a snapshot
type Job struct {
	ID      string
	Handler func(context.Context) error
}

// Gather runs all jobs concurrently on at most maxWorkers goroutines and waits for every
// one of them to settle. The returned slice holds each job's error at the job's index.
// A failing job does not cancel the others.
func Gather(ctx context.Context, maxWorkers int, jobs ...Job) []error {
	errs := make([]error, len(jobs))
	if len(jobs) == 0 {
		return errs
	}
	if maxWorkers <= 0 || maxWorkers > len(jobs) {
		maxWorkers = len(jobs)
	}

	queue := make(chan int, len(jobs))
	for i := range jobs {
		queue <- i
	}
	close(queue)

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := range queue {
				log.Trace("Worker executing job", "worker_id", worker, "job_id", jobs[i].ID)
				errs[i] = jobs[i].Handler(ctx)
			}
		}(w)
	}
	wg.Wait()

	return errs
}

// FirstError returns the first non-nil error in job order
func FirstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
