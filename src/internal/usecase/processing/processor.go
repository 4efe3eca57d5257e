package processing

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

var ErrSubmissionInFlight = errors.New("a submission for this form is already being processed")

// Processor runs form submissions as asynchronous tasks. A form instance may
// have at most one task in flight, and at most maxConcurrent tasks hold a
// processing slot at once. Settle stands in for the processing time of a real
// core banking call.
type Processor struct {
	delay time.Duration
	slots *semaphore.Weighted

	mu    sync.Mutex
	forms map[string]struct{}
}

// NewProcessor returns a processor whose tasks wait delay in Settle. A
// maxConcurrent of zero or less leaves the number of running tasks unbounded.
func NewProcessor(delay time.Duration, maxConcurrent int64) *Processor {
	p := &Processor{
		delay: delay,
		forms: make(map[string]struct{}),
	}
	if maxConcurrent > 0 {
		p.slots = semaphore.NewWeighted(maxConcurrent)
	}
	return p
}

// Settle blocks for the configured delay. It returns ctx.Err() if the context
// ends first.
func (p *Processor) Settle(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// InFlight reports whether formID currently has a running task.
func (p *Processor) InFlight(formID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.forms[formID]
	return ok
}

func (p *Processor) begin(formID string) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.forms[formID]; ok {
		return nil, ErrSubmissionInFlight
	}
	p.forms[formID] = struct{}{}

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.forms, formID)
	}, nil
}

// acquire blocks until a processing slot is free or ctx ends.
func (p *Processor) acquire(ctx context.Context) (func(), error) {
	if p.slots == nil {
		return func() {}, nil
	}
	if err := p.slots.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { p.slots.Release(1) }, nil
}
