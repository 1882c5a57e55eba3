package aisx

import (
	"reflect"
	"runtime"
	"sort"
	"strings"
)

// Kind discriminates the three tag kinds an Element can carry.
type Kind uint8

const (
	KindLiteral   Kind = iota // <tag attrs>content</tag>
	KindFragment              // content only, no wrapping tag
	KindComponent             // render function invoked with props
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "Literal"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// Element is one declaratively composed template element.
// Children may hold any content value: text, numbers, nested elements,
// arrays, zero-argument functions, or pending values (*Future).
type Element struct {
	Kind      Kind
	Tag       string     // literal tag name (KindLiteral)
	Component *Component // render function (KindComponent)
	Attrs     Attrs
	Children  []any
}

// Attr is a single attribute. Value may be pending.
type Attr struct {
	Key   string
	Value any
}

// Attrs is an ordered attribute list; output follows this order.
type Attrs []Attr

// A creates an attribute.
func A(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// AttrsFromMap converts a map to Attrs sorted by key, since map order is random.
func AttrsFromMap(m map[string]any) Attrs {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make(Attrs, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, Attr{Key: k, Value: m[k]})
	}
	return attrs
}

// Get returns the value of the first attribute named key.
func (a Attrs) Get(key string) (any, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return nil, false
}

// Has reports whether an attribute named key exists.
func (a Attrs) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Serializable returns the attributes that are written into markup:
// reserved keys and nil ("undefined") values are dropped.
func (a Attrs) Serializable() Attrs {
	out := make(Attrs, 0, len(a))
	for _, attr := range a {
		if attr.Value == nil || isReservedAttr(attr.Key) {
			continue
		}
		out = append(out, attr)
	}
	return out
}

// withoutReserved drops the reserved keys and keeps everything else,
// nil values included.
func (a Attrs) withoutReserved() Attrs {
	var out Attrs
	for _, attr := range a {
		if !isReservedAttr(attr.Key) {
			out = append(out, attr)
		}
	}
	return out
}

func isReservedAttr(key string) bool {
	switch key {
	case AttrKey, AttrRef, AttrChildren:
		return true
	}
	return false
}

// Props is what a component receives: its attributes and content.
type Props struct {
	Attrs    Attrs
	Children []any
}

// Get returns the attribute value for key.
func (p Props) Get(key string) (any, bool) {
	return p.Attrs.Get(key)
}

// GetString returns the attribute value for key if it is a string.
func (p Props) GetString(key string) string {
	v, _ := p.Attrs.Get(key)
	s, _ := v.(string)
	return s
}

// GetInt returns the attribute value for key if it is an int.
func (p Props) GetInt(key string) int {
	v, _ := p.Attrs.Get(key)
	i, _ := v.(int)
	return i
}

// ComponentFunc renders props into content: a string, an *Element, an array,
// or a pending value. A component may also Suspend on a pending value.
type ComponentFunc func(props Props) any

// Component is a named render function.
type Component struct {
	name   string
	render ComponentFunc
	async  bool
}

// NewComponent creates a named synchronous component.
func NewComponent(name string, fn ComponentFunc) *Component {
	return &Component{name: name, render: fn}
}

// AsyncComponent creates a component declared asynchronous: its node is
// marked async before it runs, as for functions that always return pending values.
func AsyncComponent(name string, fn ComponentFunc) *Component {
	return &Component{name: name, render: fn, async: true}
}

// Name returns the component's display name.
func (c *Component) Name() string {
	if c == nil || c.name == "" {
		return AnonymousComponentName
	}
	return c.name
}

// IsAsync reports whether the component was declared asynchronous.
func (c *Component) IsAsync() bool {
	return c != nil && c.async
}

// Renderable reports whether the component has a render function.
func (c *Component) Renderable() bool {
	return c != nil && c.render != nil
}

// El creates an element invoking this component.
func (c *Component) El(attrs Attrs, children ...any) *Element {
	return &Element{Kind: KindComponent, Component: c, Attrs: attrs, Children: children}
}

// El creates a literal tag element.
func El(tag string, attrs Attrs, children ...any) *Element {
	return &Element{Kind: KindLiteral, Tag: tag, Attrs: attrs, Children: children}
}

// Tag creates a literal tag element without attributes.
func Tag(tag string, children ...any) *Element {
	return &Element{Kind: KindLiteral, Tag: tag, Children: children}
}

// Frag creates a fragment: its content is concatenated with no wrapping tag.
func Frag(children ...any) *Element {
	return &Element{Kind: KindFragment, Children: children}
}

// Comp creates an element from an inline component function; the name is
// taken from the function symbol.
func Comp(fn ComponentFunc, attrs Attrs, children ...any) *Element {
	return NewComponent(funcName(fn), fn).El(attrs, children...)
}

// content returns the element's content: positional children, or the
// reserved "children" attribute when no positional children were given.
func (e *Element) content() []any {
	if len(e.Children) > 0 {
		return e.Children
	}
	if v, ok := e.Attrs.Get(AttrChildren); ok && v != nil {
		if list, ok := v.([]any); ok {
			return list
		}
		return []any{v}
	}
	return nil
}

// displayName is the render-tree name for the element.
func (e *Element) displayName() string {
	switch e.Kind {
	case KindLiteral:
		return e.Tag
	case KindFragment:
		return FragmentName
	case KindComponent:
		return e.Component.Name()
	default:
		return e.Kind.String()
	}
}

// funcName derives a component name from a function symbol.
// Closures have no useful symbol and fall back to AnonymousComponent.
func funcName(fn ComponentFunc) string {
	if fn == nil {
		return AnonymousComponentName
	}
	rf := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if rf == nil {
		return AnonymousComponentName
	}
	name := rf.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if name == "" || strings.Contains(name, ".func") || strings.HasPrefix(name, "func") {
		return AnonymousComponentName
	}
	return name
}
