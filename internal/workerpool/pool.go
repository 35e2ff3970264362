package workerpool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkerCount is the pool size used when callers request a non-positive worker count.
const DefaultWorkerCount = 5

// Run submits every item to at most workerCount concurrent workers and blocks until the pool drains.
//
// Work functions report per-item failures inside their result, never as
// errors. The sink receives results one at a time from a single goroutine.
//
// Cancelling the context stops scheduling further items; units already running
// finish and are delivered to the sink before Run returns the context error.
func Run[Item any, Result any](executionContext context.Context, items []Item, workerCount int, work func(context.Context, Item) Result, sink func(Result)) error {
	if executionContext == nil {
		executionContext = context.Background()
	}
	if workerCount <= 0 {
		workerCount = DefaultWorkerCount
	}

	results := make(chan Result)
	sinkDone := make(chan struct{})
	go func() {
		defer close(sinkDone)
		for result := range results {
			if sink != nil {
				sink(result)
			}
		}
	}()

	var group errgroup.Group
	group.SetLimit(workerCount)
	for _, item := range items {
		if executionContext.Err() != nil {
			break
		}
		currentItem := item
		group.Go(func() error {
			results <- work(executionContext, currentItem)
			return nil
		})
	}

	waitError := group.Wait()
	close(results)
	<-sinkDone

	if waitError != nil {
		return waitError
	}
	return executionContext.Err()
}
