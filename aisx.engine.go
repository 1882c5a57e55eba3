package aisx

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/itsatony/go-aisx/internal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Engine renders element trees to markup. It is safe for concurrent use:
// every render call owns its own render tree and shares nothing mutable.
type Engine struct {
	registry *internal.Registry
	hooks    *HookRegistry
	config   *engineConfig
	logger   *zap.Logger
	metrics  *renderMetrics
	tracer   trace.Tracer
}

// New creates a new aisx Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		registry: internal.NewRegistry(logger),
		hooks:    NewHookRegistry(),
		config:   config,
		logger:   logger,
		metrics:  newRenderMetrics(config.registerer, config.metricsNamespace),
		tracer:   newTracer(config.tracerProvider),
	}
	logger.Debug(LogMsgEngineCreated)
	return e, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Hooks returns the engine's hook registry.
func (e *Engine) Hooks() *HookRegistry {
	return e.hooks
}

// MaxDepth returns the configured maximum nesting depth.
func (e *Engine) MaxDepth() int {
	return e.config.maxDepth
}

// RegisterComponent makes a component available to element documents by name.
// Returns an error if a component with the same name is already registered,
// or if the component has no render function.
func (e *Engine) RegisterComponent(c *Component) error {
	if c == nil {
		return NewComponentInvalidError(internal.StringValueEmpty, internal.NewRegistryError(internal.ErrMsgNilEntry, internal.StringValueEmpty))
	}
	if err := e.registry.Register(c); err != nil {
		var regErr *internal.RegistryError
		if errors.As(err, &regErr) && regErr.Collision() {
			return NewComponentExistsError(c.Name(), err)
		}
		return NewComponentInvalidError(c.Name(), err)
	}
	return nil
}

// MustRegisterComponent registers a component and panics on error.
func (e *Engine) MustRegisterComponent(c *Component) {
	if err := e.RegisterComponent(c); err != nil {
		panic(err)
	}
}

// LookupComponent retrieves a registered component by name.
func (e *Engine) LookupComponent(name string) (*Component, bool) {
	entry, ok := e.registry.Get(name)
	if !ok {
		return nil, false
	}
	c, ok := entry.(*Component)
	return c, ok
}

// ListComponents returns all registered component names in sorted order.
func (e *Engine) ListComponents() []string {
	return e.registry.List()
}

// Render converts an element value to markup without blocking.
// The Result is ready when nothing in the tree was pending; otherwise it must
// be awaited. Failures on the synchronous path are returned as errors.
func (e *Engine) Render(ctx context.Context, element any) (*Result, error) {
	res, err := e.render(ctx, ModeSync, element)
	if err != nil {
		return nil, err
	}
	if res.future == nil {
		e.complete(res)
	} else {
		go e.completeWhenSettled(res)
	}
	return res, nil
}

// RenderAsync renders an element value and waits for every pending value in
// the tree. The caller has committed to waiting, so no PendingError is raised.
func (e *Engine) RenderAsync(ctx context.Context, element any) (string, error) {
	res, err := e.render(ctx, ModeAsync, element)
	if err != nil {
		return "", err
	}

	text, err := res.awaitText(ctx)
	if err != nil {
		go e.completeWhenSettled(res)
		return "", err
	}

	e.complete(res)
	return text, nil
}

// Stringify converts a single value with the engine's content rules,
// waiting for pending values. isAttr selects attribute-context rules.
func (e *Engine) Stringify(ctx context.Context, value any, isAttr bool) string {
	pass := e.newPass(ctx, ModeAsync, FragmentName)
	root := pass.tree.AddRoot(internal.NodeSpec{Name: FragmentName, Kind: internal.NodeKindFragment, Async: true})

	p, err := pass.valuePart(root, value, isAttr, 0)
	if err != nil {
		pass.warn(root, err)
		return ""
	}
	return p.await(ctx)
}

// render runs the synchronous part of a root render.
func (e *Engine) render(ctx context.Context, mode string, element any) (*Result, error) {
	start := time.Now()
	rootEl := rootElement(element)
	rootName := rootDisplayName(element)

	if err := e.hooks.Run(ctx, HookBeforeRender, NewHookData(mode, rootName)); err != nil {
		return nil, err
	}

	ctx, span := e.startRenderSpan(ctx, mode, rootName)
	pass := e.newPass(ctx, mode, rootName)

	e.logger.Debug(LogMsgRenderStart,
		zap.String(LogFieldMode, mode),
		zap.String(LogFieldNode, rootName),
	)

	p, err := pass.renderElement(internal.NoNode, rootEl)
	if err != nil {
		endRenderSpan(span, PathImmediate, pass.tree.Len(), 0, err)
		e.runHook(pass.ctx, HookAfterRender, NewHookData(mode, rootName).WithError(err).WithRenderTree(pass.tree.Dump()))
		return nil, err
	}

	return &Result{
		pass:   pass,
		text:   p.text,
		future: p.future,
		start:  start,
		span:   span,
	}, nil
}

// complete records metrics, tracing and hooks for a settled result.
// It runs at most once per result.
func (e *Engine) complete(res *Result) {
	res.completeOnce.Do(func() {
		pass := res.pass
		text := res.settledText()
		issues := pass.tree.Validate().Issues

		path := PathImmediate
		if res.future != nil {
			path = PathDeferred
		}
		elapsed := time.Since(res.start)

		if pass.declaredAsync {
			for _, issue := range issues {
				e.logger.Warn(LogMsgValidationIssue, zap.String(LogFieldIssue, issue))
			}
			e.metrics.addIssues(len(issues))
		}
		e.metrics.observeRender(pass.mode, path, elapsed)

		if path == PathDeferred {
			e.logger.Debug(LogMsgRenderSettled,
				zap.String(LogFieldMode, pass.mode),
				zap.Int(LogFieldNodes, pass.tree.Len()),
				zap.Duration(LogFieldDuration, elapsed),
			)
		} else {
			e.logger.Debug(LogMsgRenderImmediate,
				zap.String(LogFieldMode, pass.mode),
				zap.Int(LogFieldNodes, pass.tree.Len()),
			)
		}

		endRenderSpan(res.span, path, pass.tree.Len(), len(issues), nil)
		e.runHook(pass.ctx, HookAfterRender, NewHookData(pass.mode, pass.root).
			WithResult(text).
			WithIssues(issues))
	})
}

// completeWhenSettled waits for a deferred result and completes it.
func (e *Engine) completeWhenSettled(res *Result) {
	e.logger.Debug(LogMsgRenderDeferred,
		zap.String(LogFieldMode, res.pass.mode),
		zap.String(LogFieldNode, res.pass.root),
	)
	<-res.future.Done()
	e.complete(res)
}

// pendingError builds, reports and returns the PendingError for a result
// inspected before it settled.
func (e *Engine) pendingError(pass *renderPass) error {
	validation := pass.tree.Validate()
	dump := pass.tree.Dump()
	err := NewPendingError(validation.Issues, dump)

	e.logger.Error(LogMsgPendingError,
		zap.String(LogFieldErrorType, ErrorTypePending),
		zap.String(LogFieldRenderTree, dump),
		zap.Strings(LogFieldIssue, validation.Issues),
	)
	e.metrics.incPendingError()
	e.metrics.addIssues(len(validation.Issues))
	e.runHook(pass.ctx, HookPendingError, NewHookData(pass.mode, pass.root).
		WithError(err).
		WithIssues(validation.Issues).
		WithRenderTree(dump))
	return err
}

// runHook runs non-aborting hooks and logs their errors.
func (e *Engine) runHook(ctx context.Context, point HookPoint, data *HookData) {
	if !e.hooks.HasHooks(point) {
		return
	}
	if err := e.hooks.Run(ctx, point, data); err != nil {
		e.logger.Warn(LogMsgHookFailed,
			zap.String(LogFieldHookPoint, string(point)),
			zap.Error(err),
		)
	}
}

// rootElement returns the element that becomes the render root. An element
// is its own root; lists and plain values are wrapped in a fragment.
func rootElement(element any) *Element {
	switch v := element.(type) {
	case *Element:
		if v != nil {
			return v
		}
	case []any:
		return Frag(v...)
	}
	return Frag(element)
}

func rootDisplayName(element any) string {
	if el, ok := element.(*Element); ok && el != nil {
		return el.displayName()
	}
	return FragmentName
}

var defaultEngine = sync.OnceValue(func() *Engine {
	return MustNew()
})

// Render renders with a default engine (no logger, no metrics).
func Render(ctx context.Context, element any) (*Result, error) {
	return defaultEngine().Render(ctx, element)
}

// RenderAsync renders with a default engine and waits for the result.
func RenderAsync(ctx context.Context, element any) (string, error) {
	return defaultEngine().RenderAsync(ctx, element)
}

// Format cleans a raw markup string: join artifacts next to tag boundaries
// are removed, whitespace runs collapse to one space, and the ends are trimmed.
func Format(raw string) string {
	return internal.Format(raw)
}
