package processing

import "context"

// Task is a submission that resolves exactly once.
type Task[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task resolves or ctx ends. Giving up on the wait does
// not cancel the task; cancel the context passed to Submit for that.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Submit starts fn for formID. If the form already has a task in flight the
// returned task is resolved with ErrSubmissionInFlight and fn never runs.
// fn runs once the processor has a free slot; if ctx ends first the task
// resolves with ctx.Err() and fn never runs. The form is released after fn
// returns and before the task resolves.
func Submit[T any](ctx context.Context, p *Processor, formID string, fn func(context.Context) (T, error)) *Task[T] {
	task := &Task[T]{done: make(chan struct{})}

	release, err := p.begin(formID)
	if err != nil {
		task.err = err
		close(task.done)
		return task
	}

	go func() {
		defer close(task.done)
		defer release()

		free, err := p.acquire(ctx)
		if err != nil {
			task.err = err
			return
		}
		defer free()

		task.value, task.err = fn(ctx)
	}()

	return task
}
