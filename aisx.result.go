package aisx

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/itsatony/go-aisx/internal"
	"go.opentelemetry.io/otel/trace"
)

// Result is the outcome of Render: ready text, or a deferred value that must
// be awaited. Reading the text of a deferred result before it settled is an
// error (PendingError) carrying the render tree for diagnosis.
type Result struct {
	pass   *renderPass
	text   string
	future *Future

	start        time.Time
	span         trace.Span
	completeOnce sync.Once
	awaited      atomic.Bool
}

// IsPending reports, without blocking, whether the result is still waiting
// on pending values.
func (r *Result) IsPending() bool {
	return r.future != nil && !r.future.Settled()
}

// IsDeferred reports whether the render took the deferred path, settled or not.
func (r *Result) IsDeferred() bool {
	return r.future != nil
}

// Done returns a channel closed once the result has settled.
func (r *Result) Done() <-chan struct{} {
	if r.future == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return r.future.Done()
}

// Text returns the rendered markup. If the result is still pending it returns
// a PendingError listing the validator issues and the render tree; the error
// is also logged and reported to HookPendingError.
func (r *Result) Text() (string, error) {
	if r.IsPending() {
		return internal.StringValueEmpty, r.pass.engine.pendingError(r.pass)
	}
	if err := r.strictCheck(); err != nil {
		return internal.StringValueEmpty, err
	}
	return r.settledText(), nil
}

// MustText returns the rendered markup and panics with the PendingError
// if the result has not settled.
func (r *Result) MustText() string {
	text, err := r.Text()
	if err != nil {
		panic(err)
	}
	return text
}

// Await blocks until the result settles or ctx is done. Cancelling ctx stops
// the wait only; the pending values keep running.
func (r *Result) Await(ctx context.Context) (string, error) {
	return r.awaitText(ctx)
}

func (r *Result) awaitText(ctx context.Context) (string, error) {
	if r.future == nil {
		return r.text, nil
	}
	if _, err := r.future.Await(ctx); err != nil {
		return internal.StringValueEmpty, NewRenderError(ErrMsgAwaitInterrupted, r.pass.root, err)
	}
	r.awaited.Store(true)
	return r.settledText(), nil
}

// strictCheck fails a deferred result that is read without ever having been
// awaited, when the engine validates strictly and the tree has async mismatches.
func (r *Result) strictCheck() error {
	if !r.pass.engine.config.strict || r.awaited.Load() {
		return nil
	}
	validation := r.pass.tree.Validate()
	if validation.Valid {
		return nil
	}
	return NewRenderTreeError(validation.Issues, r.pass.tree.Dump())
}

// Dump returns the current render tree as indented text.
func (r *Result) Dump() string {
	return r.pass.tree.Dump()
}

// Issues returns the current async mismatches of the render tree.
func (r *Result) Issues() []string {
	return r.pass.tree.Validate().Issues
}

// Nodes returns the number of nodes in the render tree.
func (r *Result) Nodes() int {
	return r.pass.tree.Len()
}

// Snapshot returns a detached copy of the render tree.
func (r *Result) Snapshot() *NodeSnapshot {
	return newNodeSnapshot(r.pass.tree.Snapshot(r.pass.tree.Root()))
}

// settledText returns the text of a result that is known to have settled.
func (r *Result) settledText() string {
	if r.future == nil {
		return r.text
	}
	return part{future: r.future}.await(context.Background())
}

// NodeSnapshot is a detached copy of one render-tree node and its subtree.
type NodeSnapshot struct {
	Name        string
	IsAsync     bool
	HasPromises bool
	Depth       int
	Props       Attrs
	Children    []*NodeSnapshot
}

// Find returns the first node named name in depth-first order, or nil.
func (s *NodeSnapshot) Find(name string) *NodeSnapshot {
	if s == nil {
		return nil
	}
	if s.Name == name {
		return s
	}
	for _, child := range s.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

func newNodeSnapshot(s *internal.Snapshot) *NodeSnapshot {
	if s == nil {
		return nil
	}
	props, _ := s.Props.(Attrs)
	out := &NodeSnapshot{
		Name:        s.Name,
		IsAsync:     s.IsAsync,
		HasPromises: s.HasPromises,
		Depth:       s.Depth,
		Props:       props,
		Children:    make([]*NodeSnapshot, 0, len(s.Children)),
	}
	for _, child := range s.Children {
		out.Children = append(out.Children, newNodeSnapshot(child))
	}
	return out
}
