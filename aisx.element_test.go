package aisx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Literal", KindLiteral.String())
	assert.Equal(t, "Fragment", KindFragment.String())
	assert.Equal(t, "Component", KindComponent.String())
	assert.Equal(t, "Unknown", Kind(9).String())
}

func TestAttrs(t *testing.T) {
	attrs := Attrs{A("id", "x"), A(AttrKey, "k"), A("nothing", nil), A("flag", false)}

	v, ok := attrs.Get("id")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
	assert.True(t, attrs.Has("nothing"))
	assert.False(t, attrs.Has("missing"))

	assert.Equal(t, Attrs{A("id", "x"), A("flag", false)}, attrs.Serializable())
}

func TestAttrsFromMap_Sorted(t *testing.T) {
	attrs := AttrsFromMap(map[string]any{"b": 2, "c": 3, "a": 1})
	assert.Equal(t, Attrs{A("a", 1), A("b", 2), A("c", 3)}, attrs)
}

func TestProps(t *testing.T) {
	p := Props{Attrs: Attrs{A("name", "Ada"), A("n", 3), A("f", 1.5)}}

	assert.Equal(t, "Ada", p.GetString("name"))
	assert.Equal(t, "", p.GetString("n"))
	assert.Equal(t, 3, p.GetInt("n"))
	assert.Equal(t, 0, p.GetInt("f"))

	v, ok := p.Get("f")
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)
}

func namedTestComponent(Props) any { return "named" }

func TestComponent_Names(t *testing.T) {
	assert.Equal(t, "Card", NewComponent("Card", nil).Name())
	assert.Equal(t, AnonymousComponentName, NewComponent("", nil).Name())

	var nilComponent *Component
	assert.Equal(t, AnonymousComponentName, nilComponent.Name())
	assert.False(t, nilComponent.IsAsync())

	assert.False(t, NewComponent("A", nil).IsAsync())
	assert.True(t, AsyncComponent("B", nil).IsAsync())

	assert.Equal(t, "namedTestComponent", Comp(namedTestComponent, nil).Component.Name())
	assert.Equal(t, AnonymousComponentName, Comp(func(Props) any { return nil }, nil).Component.Name())
}

func TestElement_Constructors(t *testing.T) {
	el := El("t", Attrs{A("id", 1)}, "a", "b")
	assert.Equal(t, KindLiteral, el.Kind)
	assert.Equal(t, "t", el.displayName())
	assert.Equal(t, []any{"a", "b"}, el.content())

	assert.Equal(t, FragmentName, Frag().displayName())
	assert.Nil(t, Frag().content())

	c := NewComponent("Card", func(Props) any { return nil })
	assert.Equal(t, "Card", c.El(nil).displayName())

	withChildrenAttr := El("t", Attrs{A(AttrChildren, []any{"x", "y"})})
	assert.Equal(t, []any{"x", "y"}, withChildrenAttr.content())

	positionalWins := El("t", Attrs{A(AttrChildren, "ignored")}, "kept")
	assert.Equal(t, []any{"kept"}, positionalWins.content())
}
