package aisx

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Future is a pending value: it settles exactly once, with a value or an error.
// Futures are safe for concurrent use; any number of goroutines may await one.
type Future struct {
	once  sync.Once
	done  chan struct{}
	value any
	err   error
}

// NewFuture creates an unsettled Future. Settle it with Complete.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Go runs fn on a new goroutine and settles the Future with its result.
// A panic inside fn settles the Future with an error.
func Go(fn func() (any, error)) *Future {
	f := NewFuture()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.Complete(nil, errors.Join(errors.New(ErrMsgFuturePanicked), panicError(r)))
			}
		}()
		f.Complete(fn())
	}()
	return f
}

// Resolved creates a Future already settled with v.
// It still counts as pending content for rendering purposes.
func Resolved(v any) *Future {
	f := NewFuture()
	f.Complete(v, nil)
	return f
}

// Rejected creates a Future already settled with err.
func Rejected(err error) *Future {
	if err == nil {
		err = errors.New(ErrMsgNilRejection)
	}
	f := NewFuture()
	f.Complete(nil, err)
	return f
}

// After creates a Future that settles with v once d has elapsed.
func After(d time.Duration, v any) *Future {
	f := NewFuture()
	time.AfterFunc(d, func() { f.Complete(v, nil) })
	return f
}

// Complete settles the Future. Only the first call has any effect;
// it reports whether this call settled the Future.
func (f *Future) Complete(v any, err error) bool {
	settled := false
	f.once.Do(func() {
		f.value = v
		f.err = err
		close(f.done)
		settled = true
	})
	return settled
}

// Done returns a channel closed once the Future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Settled is a non-blocking check: true once the Future has a value or an error.
func (f *Future) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await blocks until the Future settles or ctx is done.
// A ctx error does not cancel the underlying computation.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// suspension is the panic value used by Suspend.
type suspension struct {
	future *Future
}

// Suspend aborts the calling component and asks the renderer to wait for f;
// the settled value becomes the component's output. It must only be called
// from inside a ComponentFunc.
func Suspend(f *Future) {
	panic(suspension{future: f})
}
