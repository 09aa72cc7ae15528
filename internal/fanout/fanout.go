// Package fanout runs the per-partition emission step of the engine across
// a fixed pool of goroutines, merging results back in partition order so
// the engine's output is independent of goroutine scheduling. Adapted from
// the worker-pool idiom in Chapter07/pipeline: fixed workers pull from a
// shared job channel and report onto a shared error channel, but unlike the
// pipeline (which streams payloads through ordered stages) fanout only
// needs one stage, so results are collected into a pre-sized slice indexed
// by the job's original position rather than threaded through further
// channels.
package fanout

import (
	"context"
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Run executes fn(items[i]) for every i concurrently across workers
// goroutines (runtime.NumCPU() when workers <= 0, never more than
// len(items), at least 1),
// and returns the results indexed exactly like items — the order results
// are computed in never affects the order they're returned in. If any fn
// call errors, Run still runs every item (first-class for "no partial
// success": callers get the full set of errors from Validate up front and
// see here instead whether that set is empty) and returns a *multierror.Error
// aggregating every failure.
func Run[I any, O any](ctx context.Context, items []I, workers int, fn func(context.Context, I) (O, error)) ([]O, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(items) {
		workers = len(items)
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]O, len(items))
	errs := make([]error, len(items))

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				out, err := fn(ctx, items[idx])
				results[idx] = out
				errs[idx] = err
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var merged error
	for _, e := range errs {
		if e != nil {
			merged = multierror.Append(merged, e)
		}
	}
	return results, merged
}
