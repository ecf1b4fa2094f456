package parallel

import (
	"context"
	"fmt"
	"runtime/debug"
)

// PanicError is a panic recovered from one item of ForEach.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// ForEach calls fn(ctx, i) for i in [0, n) on a pool of the given size and
// waits for all calls. The returned slice has one slot per item: nil on
// success, the returned error, or a *PanicError if fn panicked. Items not
// yet started when ctx is done get ctx.Err(). A failing item never stops
// the others.
func ForEach(ctx context.Context, workers, n int, fn func(ctx context.Context, i int) error) ([]error, error) {
	pool, err := NewWorkerPool(workers)
	if err != nil {
		return nil, err
	}

	errs := make([]error, n)
	for i := range n {
		err := pool.Submit(ctx, func() {
			defer func() {
				if r := recover(); r != nil {
					errs[i] = &PanicError{Value: r, Stack: debug.Stack()}
				}
			}()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			errs[i] = fn(ctx, i)
		})
		if err != nil {
			errs[i] = err
		}
	}
	pool.Close()
	return errs, nil
}
