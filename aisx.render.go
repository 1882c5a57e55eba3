package aisx

import (
	"context"
	"reflect"
	"strconv"
	"strings"

	"github.com/itsatony/go-aisx/internal"
	"go.uber.org/zap"
)

// renderPass owns the state of one root render: its tree and the context
// deferred branches wait with. Nothing in a pass is shared with other renders.
type renderPass struct {
	engine        *Engine
	ctx           context.Context
	tree          *internal.Tree
	mode          string
	root          string
	declaredAsync bool
}

// part is the outcome of evaluating one value: ready text, or a future that
// settles with text. Part futures never fail; failures become empty text.
type part struct {
	text   string
	future *Future
}

func readyPart(text string) part {
	return part{text: text}
}

func (p part) pending() bool {
	return p.future != nil
}

// await blocks until the part has text. Interrupted waits yield "".
func (p part) await(ctx context.Context) string {
	if p.future == nil {
		return p.text
	}
	v, err := p.future.Await(ctx)
	if err != nil {
		return internal.StringValueEmpty
	}
	s, _ := v.(string)
	return s
}

func (e *Engine) newPass(ctx context.Context, mode, root string) *renderPass {
	return &renderPass{
		engine:        e,
		ctx:           context.WithoutCancel(ctx),
		tree:          internal.NewTree(),
		mode:          mode,
		root:          root,
		declaredAsync: mode == ModeAsync,
	}
}

// addNode inserts a node under parent, or the root when parent is NoNode.
func (r *renderPass) addNode(parent internal.NodeID, spec internal.NodeSpec) internal.NodeID {
	if parent == internal.NoNode {
		return r.tree.AddRoot(spec)
	}
	return r.tree.AddChild(parent, spec)
}

// markDeferred records that node takes the deferred path. The root fragment
// of a non-awaiting render is left unmarked so the validator reports it.
func (r *renderPass) markDeferred(node internal.NodeID, isRoot bool) {
	r.tree.MarkPending(node)
	if !isRoot || r.declaredAsync {
		r.tree.MarkAsync(node)
	}
}

// spawn starts fn on its own goroutine and returns its pending part.
// A panic inside fn settles the part with "" and a warning.
func (r *renderPass) spawn(node internal.NodeID, fn func() string) part {
	f := NewFuture()
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.warn(node, NewRenderError(ErrMsgDeferredPanicked, r.path(node), panicError(rec)))
				f.Complete(internal.StringValueEmpty, nil)
			}
		}()
		f.Complete(fn(), nil)
	}()
	return part{future: f}
}

// derive maps a part's text through fn, keeping the part ready when possible.
func (r *renderPass) derive(node internal.NodeID, p part, fn func(string) string) part {
	if !p.pending() {
		return readyPart(fn(p.text))
	}
	return r.spawn(node, func() string {
		return fn(p.await(r.ctx))
	})
}

// join concatenates parts in source order, waiting for each in turn.
// Pending parts already run concurrently, so this is an all-settled fan-in.
func (r *renderPass) join(parts []part) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.await(r.ctx))
	}
	return sb.String()
}

func joinReady(parts []part) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.text)
	}
	return sb.String()
}

func anyPending(parts []part) bool {
	for _, p := range parts {
		if p.pending() {
			return true
		}
	}
	return false
}

func (r *renderPass) path(node internal.NodeID) string {
	return strings.Join(r.tree.Path(node), internal.TreePathSep)
}

// renderElement dispatches on the element kind after the depth check.
func (r *renderPass) renderElement(parent internal.NodeID, el *Element) (part, error) {
	if el == nil {
		return readyPart(internal.StringValueEmpty), nil
	}

	depth := 0
	if parent != internal.NoNode {
		depth = r.tree.Depth(parent) + 1
	}
	if maxDepth := r.engine.config.maxDepth; maxDepth > 0 && depth > maxDepth {
		return part{}, NewMaxDepthError(el.displayName(), depth, maxDepth)
	}

	switch el.Kind {
	case KindLiteral:
		return r.renderLiteral(parent, el)
	case KindFragment:
		return r.renderFragment(parent, el)
	case KindComponent:
		return r.renderComponent(parent, el)
	default:
		return part{}, NewRenderError(ErrMsgUnknownKind, el.displayName(), nil)
	}
}

// renderLiteral renders <tag attrs>content</tag>. With nothing pending the
// markup is produced immediately; otherwise assembly waits for every part.
func (r *renderPass) renderLiteral(parent internal.NodeID, el *Element) (part, error) {
	attrs := el.Attrs.Serializable()
	content := el.content()
	node := r.addNode(parent, internal.NodeSpec{
		Name:     el.Tag,
		Kind:     internal.NodeKindTag,
		Children: content,
		Props:    attrs,
	})

	attrParts := make([]part, 0, len(attrs))
	for _, attr := range attrs {
		attrParts = append(attrParts, r.attrPart(node, attr))
	}
	contentParts, err := r.contentParts(node, content)
	if err != nil {
		return part{}, err
	}

	tag := el.Tag
	if !anyPending(attrParts) && !anyPending(contentParts) {
		return readyPart(internal.Format(assembleTag(tag, joinReady(attrParts), joinReady(contentParts)))), nil
	}

	r.markDeferred(node, parent == internal.NoNode)
	return r.spawn(node, func() string {
		attrText := r.join(attrParts)
		contentText := r.join(contentParts)
		return internal.Format(assembleTag(tag, attrText, contentText))
	}), nil
}

func assembleTag(tag, attrText, content string) string {
	var sb strings.Builder
	sb.Grow(len(tag)*2 + len(attrText) + len(content) + 5)
	sb.WriteString(markupOpen)
	sb.WriteString(tag)
	sb.WriteString(attrText)
	sb.WriteString(markupClose)
	sb.WriteString(content)
	sb.WriteString(markupCloseOpen)
	sb.WriteString(tag)
	sb.WriteString(markupClose)
	return sb.String()
}

// attrPart renders one serialized attribute including its leading space.
// Booleans, also once resolved from a pending value, render bare or not at all.
func (r *renderPass) attrPart(node internal.NodeID, attr Attr) part {
	if b, ok := attr.Value.(bool); ok {
		return readyPart(boolAttr(attr.Key, b))
	}

	if f, ok := attr.Value.(*Future); ok && f != nil {
		r.tree.MarkPending(node)
		return r.spawn(node, func() string {
			v, ok := r.settle(node, f, ErrMsgPromiseRejected)
			if !ok {
				return valueAttr(attr.Key, internal.StringValueEmpty)
			}
			if b, ok := v.(bool); ok {
				return boolAttr(attr.Key, b)
			}
			return valueAttr(attr.Key, r.stringify(node, v, true))
		})
	}

	p, err := r.valuePart(node, attr.Value, true, 0)
	if err != nil {
		r.warn(node, err)
		return readyPart(valueAttr(attr.Key, internal.StringValueEmpty))
	}
	return r.derive(node, p, func(text string) string {
		return valueAttr(attr.Key, text)
	})
}

func boolAttr(key string, value bool) string {
	if !value {
		return internal.StringValueEmpty
	}
	return markupSpace + key
}

func valueAttr(key, text string) string {
	return markupSpace + key + markupAssign + text + markupQuote
}

// contentParts evaluates content items in order. Pending items start
// running immediately.
func (r *renderPass) contentParts(node internal.NodeID, items []any) ([]part, error) {
	parts := make([]part, 0, len(items))
	for i, item := range items {
		p, err := r.valuePart(node, item, false, i)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, nil
}

// renderFragment concatenates its content with no wrapping tag.
func (r *renderPass) renderFragment(parent internal.NodeID, el *Element) (part, error) {
	content := el.content()
	isRoot := parent == internal.NoNode
	node := r.addNode(parent, internal.NodeSpec{
		Name:     FragmentName,
		Kind:     internal.NodeKindFragment,
		Async:    isRoot && r.declaredAsync,
		Children: content,
	})
	if len(content) == 0 {
		return readyPart(internal.StringValueEmpty), nil
	}

	parts, err := r.contentParts(node, content)
	if err != nil {
		return part{}, err
	}
	if !anyPending(parts) {
		return readyPart(internal.Format(joinReady(parts))), nil
	}

	r.markDeferred(node, isRoot)
	return r.spawn(node, func() string {
		return internal.Format(r.join(parts))
	}), nil
}

// renderComponent invokes the component's render function with its props.
func (r *renderPass) renderComponent(parent internal.NodeID, el *Element) (part, error) {
	c := el.Component
	name := c.Name()
	content := el.content()
	node := r.addNode(parent, internal.NodeSpec{
		Name:     name,
		Kind:     internal.NodeKindComponent,
		Async:    c.IsAsync(),
		Children: content,
		Props:    el.Attrs.withoutReserved(),
	})
	if c == nil || c.render == nil {
		return part{}, NewRenderError(ErrMsgNilComponent, r.path(node), nil)
	}

	out, suspended, err := invokeComponent(c, Props{Attrs: el.Attrs, Children: content})
	if err != nil {
		return part{}, err
	}
	if suspended != nil {
		r.engine.logger.Debug(LogMsgComponentSuspended, zap.String(LogFieldNode, r.path(node)))
		return r.componentResult(node, name, suspended, ErrMsgSuspendRejected), nil
	}
	if f, ok := out.(*Future); ok && f != nil {
		return r.componentResult(node, name, f, ErrMsgComponentReject), nil
	}

	pendingProps := pendingValues(el.Attrs, content)
	p, err := r.valuePart(node, out, false, 0)
	if err != nil {
		return part{}, err
	}
	if len(pendingProps) == 0 && !p.pending() {
		return readyPart(internal.Format(p.text)), nil
	}

	r.markDeferred(node, false)
	return r.spawn(node, func() string {
		r.settleAll(pendingProps)
		return internal.Format(p.await(r.ctx))
	}), nil
}

// componentResult waits for a component's pending output and renders it
// under a "<Name>Result" node.
func (r *renderPass) componentResult(node internal.NodeID, name string, f *Future, rejectMsg string) part {
	r.markDeferred(node, false)
	return r.spawn(node, func() string {
		v, ok := r.settle(node, f, rejectMsg)
		if !ok {
			return internal.StringValueEmpty
		}
		resultNode := r.tree.AddChild(node, internal.NodeSpec{
			Name:  name + ComponentResultSuffix,
			Kind:  internal.NodeKindSynthetic,
			Async: true,
		})
		return internal.Format(r.stringify(resultNode, v, false))
	})
}

// invokeComponent calls the render function. A Suspend panic is returned as
// the future to wait for; any other panic becomes an error.
func invokeComponent(c *Component, props Props) (out any, suspended *Future, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if s, ok := rec.(suspension); ok && s.future != nil {
				suspended = s.future
				return
			}
			err = NewComponentPanicError(c.Name(), rec)
		}
	}()
	return c.render(props), nil, nil
}

// pendingValues collects the top-level pending attribute values and content items.
func pendingValues(attrs Attrs, content []any) []*Future {
	var futures []*Future
	for _, attr := range attrs {
		if f, ok := attr.Value.(*Future); ok && f != nil {
			futures = append(futures, f)
		}
	}
	for _, item := range content {
		if f, ok := item.(*Future); ok && f != nil {
			futures = append(futures, f)
		}
	}
	return futures
}

// settleAll waits for every future; outcomes are ignored.
func (r *renderPass) settleAll(futures []*Future) {
	for _, f := range futures {
		_, _ = f.Await(r.ctx)
	}
}

// settle waits for f. A failure is reported as a promise rejection and
// reported back as !ok.
func (r *renderPass) settle(node internal.NodeID, f *Future, rejectMsg string) (any, bool) {
	v, err := f.Await(r.ctx)
	if err != nil {
		r.reject(node, rejectMsg, err)
		return nil, false
	}
	return v, true
}

// stringify converts v to text, blocking until it is available.
// Only call it from a spawned goroutine.
func (r *renderPass) stringify(node internal.NodeID, v any, isAttr bool) string {
	p, err := r.valuePart(node, v, isAttr, 0)
	if err != nil {
		r.warn(node, err)
		return internal.StringValueEmpty
	}
	return p.await(r.ctx)
}

// valuePart is the synchronous-first value stringifier. Values that need no
// waiting yield ready text at once; pending values yield a running part.
// In content context, synthetic nodes are added under node for inspection.
func (r *renderPass) valuePart(node internal.NodeID, value any, isAttr bool, index int) (part, error) {
	switch v := value.(type) {
	case nil:
		return readyPart(internal.StringValueEmpty), nil
	case *Element:
		return r.renderElement(node, v)
	case *Future:
		if v == nil {
			return readyPart(internal.StringValueEmpty), nil
		}
		return r.futurePart(node, v, isAttr), nil
	case *Result:
		if v == nil {
			return readyPart(internal.StringValueEmpty), nil
		}
		return r.resultPart(node, v), nil
	case *Component:
		return r.renderElement(node, v.El(nil))
	case ComponentFunc:
		return r.renderElement(node, Comp(v, nil))
	case func(Props) any:
		return r.renderElement(node, Comp(v, nil))
	}

	if text, ok := internal.ScalarText(value, isAttr); ok {
		if !isAttr && text != internal.StringValueEmpty {
			r.tree.AddChild(node, internal.NodeSpec{
				Name:     TextNodePrefix + strconv.Itoa(index),
				Kind:     internal.NodeKindSynthetic,
				Children: value,
			})
		}
		return readyPart(text), nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return r.arrayPart(node, rv, isAttr, index)
	case reflect.Func:
		if rv.Type().NumIn() == 0 {
			return r.callablePart(node, rv, isAttr, index)
		}
	}
	return r.objectPart(node, value, isAttr, index), nil
}

// futurePart waits for a pending value and stringifies what it resolves to,
// recursively, so nested pending values unwrap transparently.
func (r *renderPass) futurePart(node internal.NodeID, f *Future, isAttr bool) part {
	target := node
	if isAttr {
		r.tree.MarkPending(node)
	} else {
		target = r.tree.AddChild(node, internal.NodeSpec{
			Name:     AsyncContentName,
			Kind:     internal.NodeKindSynthetic,
			Async:    true,
			Pending:  true,
			Children: f,
		})
	}
	return r.spawn(target, func() string {
		v, ok := r.settle(target, f, ErrMsgPromiseRejected)
		if !ok {
			return internal.StringValueEmpty
		}
		return r.stringify(target, v, isAttr)
	})
}

// resultPart embeds the output of another render.
func (r *renderPass) resultPart(node internal.NodeID, res *Result) part {
	if res.future == nil {
		return readyPart(res.text)
	}
	r.tree.MarkPending(node)
	return r.spawn(node, func() string {
		return part{future: res.future}.await(r.ctx)
	})
}

// arrayPart stringifies every element in order and concatenates the results.
// Elements settle independently; a failure only empties its own slot.
func (r *renderPass) arrayPart(node internal.NodeID, rv reflect.Value, isAttr bool, index int) (part, error) {
	target := node
	if !isAttr {
		target = r.tree.AddChild(node, internal.NodeSpec{
			Name:     ArrayNodePrefix + strconv.Itoa(index),
			Kind:     internal.NodeKindSynthetic,
			Children: rv.Interface(),
		})
	}

	parts := make([]part, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		p, err := r.valuePart(target, rv.Index(i).Interface(), isAttr, i)
		if err != nil {
			return part{}, err
		}
		parts = append(parts, p)
	}
	if !anyPending(parts) {
		return readyPart(joinReady(parts)), nil
	}
	return r.spawn(target, func() string {
		return r.join(parts)
	}), nil
}

// callablePart invokes a zero-argument function and stringifies its result.
// A panic or a returned error is a warning and renders empty.
func (r *renderPass) callablePart(node internal.NodeID, fn reflect.Value, isAttr bool, index int) (part, error) {
	target := node
	if !isAttr {
		target = r.tree.AddChild(node, internal.NodeSpec{
			Name: ChildNodePrefix + strconv.Itoa(index),
			Kind: internal.NodeKindSynthetic,
		})
	}

	out, suspended, err := invokeCallable(fn)
	if err != nil {
		r.warn(target, NewRenderError(ErrMsgCallablePanicked, r.path(target), err))
		return readyPart(internal.StringValueEmpty), nil
	}
	if suspended != nil {
		return r.futurePart(target, suspended, isAttr), nil
	}
	return r.valuePart(target, out, isAttr, 0)
}

func invokeCallable(fn reflect.Value) (out any, suspended *Future, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if s, ok := rec.(suspension); ok && s.future != nil {
				suspended = s.future
				return
			}
			err = panicError(rec)
		}
	}()

	results := fn.Call(nil)
	switch len(results) {
	case 0:
		return nil, nil, nil
	case 1:
		return results[0].Interface(), nil, nil
	default:
		last := results[len(results)-1]
		if callErr, ok := last.Interface().(error); ok && callErr != nil {
			return nil, nil, NewRenderError(ErrMsgCallableFailed, internal.StringValueEmpty, callErr)
		}
		return results[0].Interface(), nil, nil
	}
}

// objectPart serializes structured values as JSON. Unserializable values
// are a warning and render empty.
func (r *renderPass) objectPart(node internal.NodeID, value any, isAttr bool, index int) part {
	target := node
	if !isAttr {
		target = r.tree.AddChild(node, internal.NodeSpec{
			Name:     ChildNodePrefix + strconv.Itoa(index),
			Kind:     internal.NodeKindSynthetic,
			Children: value,
		})
	}

	text, err := internal.ObjectText(value)
	if err != nil {
		r.warn(target, NewRenderError(ErrMsgObjectStringify, r.path(target), err))
		return readyPart(internal.StringValueEmpty)
	}
	return readyPart(text)
}
