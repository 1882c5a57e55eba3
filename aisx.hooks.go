package aisx

import (
	"context"
	"errors"
	"sync"
)

// HookPoint identifies when a hook is called during rendering.
type HookPoint string

// Hook points for render lifecycle events.
const (
	// HookBeforeRender is called before a root render starts.
	// An error aborts the render.
	HookBeforeRender HookPoint = "before_render"

	// HookAfterRender is called once the root result has settled (success or failure).
	HookAfterRender HookPoint = "after_render"

	// HookPromiseRejected is called when a pending value fails and is swallowed.
	HookPromiseRejected HookPoint = "promise_rejected"

	// HookPendingError is called when a deferred root result is inspected before it settled.
	HookPendingError HookPoint = "pending_error"
)

// Hook is a function called at specific points during rendering.
// Return an error to abort the operation (for "before" hooks).
// Errors from other hooks are logged but don't affect the render.
type Hook func(ctx context.Context, point HookPoint, data *HookData) error

// HookData carries context information to hooks.
type HookData struct {
	// Mode is ModeSync for Render and ModeAsync for RenderAsync.
	Mode string

	// Root is the display name of the rendered element.
	Root string

	// Node is the render-tree path of the failing node (promise_rejected).
	Node string

	// Result is the rendered text (after_render, may be empty on error).
	Result string

	// Error is any error that occurred.
	Error error

	// Issues lists validator findings (after_render, pending_error).
	Issues []string

	// RenderTree is the tree dump at the time of the event.
	RenderTree string

	// Metadata allows hooks to pass data to each other.
	Metadata map[string]any
}

// NewHookData creates a new HookData for a render in the given mode.
func NewHookData(mode, root string) *HookData {
	return &HookData{
		Mode:     mode,
		Root:     root,
		Metadata: make(map[string]any),
	}
}

// WithResult sets the rendered text.
func (d *HookData) WithResult(result string) *HookData {
	d.Result = result
	return d
}

// WithError sets the error.
func (d *HookData) WithError(err error) *HookData {
	d.Error = err
	return d
}

// WithNode sets the node path.
func (d *HookData) WithNode(node string) *HookData {
	d.Node = node
	return d
}

// WithIssues sets the validator findings.
func (d *HookData) WithIssues(issues []string) *HookData {
	d.Issues = issues
	return d
}

// WithRenderTree sets the tree dump.
func (d *HookData) WithRenderTree(tree string) *HookData {
	d.RenderTree = tree
	return d
}

// SetMetadata sets a metadata value.
func (d *HookData) SetMetadata(key string, value any) {
	if d.Metadata == nil {
		d.Metadata = make(map[string]any)
	}
	d.Metadata[key] = value
}

// GetMetadata gets a metadata value.
func (d *HookData) GetMetadata(key string) (any, bool) {
	if d.Metadata == nil {
		return nil, false
	}
	v, ok := d.Metadata[key]
	return v, ok
}

// HookRegistry manages hook registration and execution.
type HookRegistry struct {
	mu    sync.RWMutex
	hooks map[HookPoint][]Hook
}

// NewHookRegistry creates a new hook registry.
func NewHookRegistry() *HookRegistry {
	return &HookRegistry{
		hooks: make(map[HookPoint][]Hook),
	}
}

// Register adds a hook for the specified point.
func (r *HookRegistry) Register(point HookPoint, hook Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[point] = append(r.hooks[point], hook)
}

// RegisterMultiple adds a hook for multiple points.
func (r *HookRegistry) RegisterMultiple(hook Hook, points ...HookPoint) {
	for _, point := range points {
		r.Register(point, hook)
	}
}

// Clear removes all hooks for a specific point.
func (r *HookRegistry) Clear(point HookPoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.hooks, point)
}

// ClearAll removes all hooks.
func (r *HookRegistry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = make(map[HookPoint][]Hook)
}

// Count returns the number of hooks registered for a point.
func (r *HookRegistry) Count(point HookPoint) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks[point])
}

// Run executes all hooks for the specified point.
// For "before" hooks, the first error stops execution and returns the error.
// For other hooks, all hooks are executed and errors are joined.
func (r *HookRegistry) Run(ctx context.Context, point HookPoint, data *HookData) error {
	r.mu.RLock()
	hooks := append([]Hook(nil), r.hooks[point]...)
	r.mu.RUnlock()

	if len(hooks) == 0 {
		return nil
	}

	isBefore := isBeforeHook(point)

	var errs []error
	for _, hook := range hooks {
		if err := hook(ctx, point, data); err != nil {
			if isBefore {
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func isBeforeHook(point HookPoint) bool {
	return point == HookBeforeRender
}

// HasHooks checks if any hooks are registered for a point.
func (r *HookRegistry) HasHooks(point HookPoint) bool {
	return r.Count(point) > 0
}

// LoggingHook creates a hook that reports render events to logFn.
func LoggingHook(logFn func(point HookPoint, data *HookData)) Hook {
	return func(ctx context.Context, point HookPoint, data *HookData) error {
		logFn(point, data)
		return nil
	}
}
