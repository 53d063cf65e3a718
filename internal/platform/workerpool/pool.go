package workerpool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/panics"
)

// Result is the outcome of one task. Err is set when the task failed or
// panicked; Value is then the zero value.
type Result[T any] struct {
	Index int
	Value T
	Err   error
}

// Stats counts task outcomes of one Run.
type Stats struct {
	Succeeded int
	Failed    int
}

// Run executes fn for every input on a bounded ants pool and blocks until all
// tasks finished. A failing or panicking task does not stop its siblings.
// onDone, when set, is called once per finished task.
func Run[In, Out any](
	ctx context.Context,
	size int,
	inputs []In,
	fn func(ctx context.Context, in In) (Out, error),
	onDone func(Result[Out]),
) ([]Result[Out], Stats, error) {
	if len(inputs) == 0 {
		return nil, Stats{}, nil
	}
	if size <= 0 || size > len(inputs) {
		size = len(inputs)
	}

	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan Result[Out], len(inputs))
	var succeeded atomic.Int32
	var failed atomic.Int32

	var workers sync.WaitGroup
	for i, in := range inputs {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := Result[Out]{Index: i}
			var catcher panics.Catcher
			catcher.Try(func() {
				row.Value, row.Err = fn(ctx, in)
			})
			if recovered := catcher.Recovered(); recovered != nil {
				var zero Out
				row.Value = zero
				row.Err = fmt.Errorf("task %d panicked: %w", i, recovered.AsError())
			}

			if row.Err != nil {
				failed.Add(1)
			} else {
				succeeded.Add(1)
			}
			if onDone != nil {
				onDone(row)
			}
			results <- row
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, Stats{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	out := make([]Result[Out], len(inputs))
	for row := range results {
		out[row.Index] = row
	}
	return out, Stats{Succeeded: int(succeeded.Load()), Failed: int(failed.Load())}, nil
}
