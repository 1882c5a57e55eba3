package aisx

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func renderAsync(t *testing.T, element any, opts ...Option) string {
	t.Helper()
	engine := MustNew(opts...)
	text, err := engine.RenderAsync(context.Background(), element)
	require.NoError(t, err)
	return text
}

func renderSync(t *testing.T, element any) *Result {
	t.Helper()
	res, err := MustNew().Render(context.Background(), element)
	require.NoError(t, err)
	return res
}

func hasLog(logs *observer.ObservedLogs, msg string) bool {
	for _, entry := range logs.All() {
		if entry.Message == msg {
			return true
		}
	}
	return false
}

func TestRender_StaticTree(t *testing.T) {
	tests := []struct {
		name     string
		element  any
		expected string
	}{
		{
			name:     "empty tag",
			element:  Tag("empty"),
			expected: "<empty></empty>",
		},
		{
			name:     "fragment of three tags",
			element:  Frag(Tag("a", "1"), Tag("b", "2"), Tag("c", "3")),
			expected: "<a>1</a><b>2</b><c>3</c>",
		},
		{
			name:     "nested tags with attributes",
			element:  El("prompt", Attrs{A("id", "p1")}, Tag("system", "be brief"), Tag("user", "hello there")),
			expected: `<prompt id="p1"><system>be brief</system><user>hello there</user></prompt>`,
		},
		{
			name:     "numbers",
			element:  Tag("n", 1, 2.5, int64(-3)),
			expected: "<n>12.5-3</n>",
		},
		{
			name:     "booleans and nil render nothing in content",
			element:  Tag("x", true, false, nil, "kept"),
			expected: "<x>kept</x>",
		},
		{
			name:     "arrays are concatenated in order",
			element:  Tag("list", []any{Tag("i", "a"), Tag("i", "b")}, []string{"c", "d"}),
			expected: "<list><i>a</i><i>b</i>cd</list>",
		},
		{
			name:     "children attribute when no positional children",
			element:  El("x", Attrs{A(AttrChildren, "kid")}),
			expected: "<x>kid</x>",
		},
		{
			name:     "zero-argument function is invoked",
			element:  Tag("x", func() string { return "called" }),
			expected: "<x>called</x>",
		},
		{
			name:     "maps serialize as JSON",
			element:  Tag("data", map[string]any{"a": 1}),
			expected: `<data>{"a":1}</data>`,
		},
		{
			name:     "dates are ISO UTC",
			element:  Tag("at", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
			expected: "<at>2024-01-02T03:04:05.000Z</at>",
		},
		{
			name:     "whitespace between tags is removed",
			element:  Frag(Tag("a", "x"), "\n   ", Tag("b", "y")),
			expected: "<a>x</a><b>y</b>",
		},
		{
			name:     "empty fragment",
			element:  Frag(),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := renderSync(t, tt.element)
			assert.False(t, res.IsPending())
			assert.False(t, res.IsDeferred())

			text, err := res.Text()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, text)
		})
	}
}

func TestRender_Attributes(t *testing.T) {
	tests := []struct {
		name     string
		attrs    Attrs
		expected string
	}{
		{"string and number", Attrs{A("id", "x"), A("n", 1.5)}, `<t id="x" n="1.5"></t>`},
		{"true renders bare flag", Attrs{A("flag", true)}, `<t flag></t>`},
		{"false is omitted", Attrs{A("hidden", false), A("id", "y")}, `<t id="y"></t>`},
		{"nil is dropped", Attrs{A("skip", nil), A("id", "z")}, `<t id="z"></t>`},
		{"reserved keys are not serialized", Attrs{A(AttrKey, "k"), A(AttrRef, 1), A("id", "r")}, `<t id="r"></t>`},
		{"order follows declaration", Attrs{A("b", 2), A("a", 1)}, `<t b="2" a="1"></t>`},
		{"values are verbatim", Attrs{A("q", `a<b>"c"`)}, `<t q="a<b>"c""></t>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := renderSync(t, El("t", tt.attrs))
			assert.Equal(t, tt.expected, res.MustText())
		})
	}
}

func TestRenderAsync_PendingContentKeepsSourceOrder(t *testing.T) {
	element := []any{
		"static",
		After(20*time.Millisecond, "async"),
		"123",
		After(5*time.Millisecond, "456"),
	}

	assert.Equal(t, "staticasync123456", renderAsync(t, element))
}

func TestRenderAsync_PendingAttributes(t *testing.T) {
	element := El("test-element", Attrs{
		A("id", After(10*time.Millisecond, "test-id")),
		A("value", After(5*time.Millisecond, 42)),
		A("flag", After(1*time.Millisecond, true)),
		A("off", Resolved(false)),
	})

	assert.Equal(t, `<test-element id="test-id" value="42" flag></test-element>`, renderAsync(t, element))
}

func TestRenderAsync_NestedPendingValues(t *testing.T) {
	inner := After(5*time.Millisecond, After(5*time.Millisecond, "deep value"))
	element := Tag("outer", Tag("inner", inner))

	assert.Equal(t, "<outer><inner>deep value</inner></outer>", renderAsync(t, element))
}

func TestRenderAsync_PendingElement(t *testing.T) {
	element := Tag("outer", Go(func() (any, error) {
		return Tag("made", "later"), nil
	}))

	assert.Equal(t, "<outer><made>later</made></outer>", renderAsync(t, element))
}

func TestRenderAsync_PendingArrayItems(t *testing.T) {
	element := Tag("list", []any{
		After(15*time.Millisecond, Tag("i", "first")),
		Tag("i", "second"),
		After(1*time.Millisecond, Tag("i", "third")),
	})

	assert.Equal(t, "<list><i>first</i><i>second</i><i>third</i></list>", renderAsync(t, element))
}

func TestRenderAsync_RejectionIsIsolated(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	element := Tag("list",
		Tag("a", "before"),
		Rejected(errors.New("boom")),
		Tag("b", After(5*time.Millisecond, "after")),
	)

	text := renderAsync(t, element, WithLogger(zap.New(core)))
	assert.Equal(t, "<list><a>before</a><b>after</b></list>", text)
	assert.True(t, hasLog(logs, LogMsgPromiseRejected))

	for _, entry := range logs.FilterMessage(LogMsgPromiseRejected).All() {
		fields := entry.ContextMap()
		assert.Equal(t, ErrorTypePromiseRejection, fields[LogFieldErrorType])
		assert.Contains(t, fields[LogFieldRenderTree], AsyncContentName)
	}
}

func TestRenderAsync_RejectedAttributeRendersEmpty(t *testing.T) {
	element := El("t", Attrs{A("v", Rejected(errors.New("nope"))), A("w", "ok")})
	assert.Equal(t, `<t v="" w="ok"></t>`, renderAsync(t, element))
}

func TestRender_CallableFailuresAreWarnings(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	engine := MustNew(WithLogger(zap.New(core)))

	element := Tag("x",
		func() string { panic("bad callable") },
		func() (string, error) { return "", errors.New("failed") },
		func() (string, error) { return "fine", nil },
	)

	res, err := engine.Render(context.Background(), element)
	require.NoError(t, err)
	assert.Equal(t, "<x>fine</x>", res.MustText())
	assert.Len(t, logs.FilterMessage(LogMsgRenderWarning).All(), 2)
}

func TestRender_UnserializableObjectIsWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	engine := MustNew(WithLogger(zap.New(core)))

	res, err := engine.Render(context.Background(), Tag("x", map[string]any{"ch": make(chan int)}, "rest"))
	require.NoError(t, err)
	assert.Equal(t, "<x>rest</x>", res.MustText())
	assert.True(t, hasLog(logs, LogMsgRenderWarning))
}

func TestRender_StringerIsCanonicalText(t *testing.T) {
	res := renderSync(t, Tag("d", 1500*time.Millisecond))
	assert.Equal(t, "<d>1.5s</d>", res.MustText())
}

func TestRender_Components(t *testing.T) {
	greeting := NewComponent("Greeting", func(p Props) any {
		return Tag("greeting", "Hello, ", p.GetString("name"))
	})
	wrapper := NewComponent("Wrapper", func(p Props) any {
		return El("wrap", Attrs{A("n", p.GetInt("n"))}, p.Children...)
	})

	t.Run("attributes become props", func(t *testing.T) {
		res := renderSync(t, greeting.El(Attrs{A("name", "Ada")}))
		assert.Equal(t, "<greeting>Hello, Ada</greeting>", res.MustText())
	})

	t.Run("children are passed through", func(t *testing.T) {
		res := renderSync(t, wrapper.El(Attrs{A("n", 2)}, Tag("inner", "x")))
		assert.Equal(t, `<wrap n="2"><inner>x</inner></wrap>`, res.MustText())
	})

	t.Run("string output is formatted", func(t *testing.T) {
		plain := NewComponent("Plain", func(Props) any { return "  spaced   out  " })
		res := renderSync(t, plain.El(nil))
		assert.Equal(t, "spaced out", res.MustText())
	})

	t.Run("bare component values render", func(t *testing.T) {
		res := renderSync(t, Tag("x", greeting, ComponentFunc(func(Props) any { return "fn" })))
		// the separator comma before the closing tag is a join artifact and is dropped
		assert.Equal(t, "<x><greeting>Hello</greeting>fn</x>", res.MustText())
	})
}

func TestRenderAsync_PendingComponents(t *testing.T) {
	t.Run("component returning a pending value", func(t *testing.T) {
		slow := NewComponent("Slow", func(p Props) any {
			return After(5*time.Millisecond, Tag("slow", p.GetString("v")))
		})
		assert.Equal(t, "<slow>x</slow>", renderAsync(t, slow.El(Attrs{A("v", "x")})))
	})

	t.Run("component suspending on a pending value", func(t *testing.T) {
		data := After(5*time.Millisecond, "loaded")
		loader := NewComponent("Loader", func(p Props) any {
			if !data.Settled() {
				Suspend(data)
			}
			return "never reached in this test"
		})
		assert.Equal(t, "<box>loaded</box>", renderAsync(t, Tag("box", loader.El(nil))))
	})

	t.Run("component with pending props", func(t *testing.T) {
		echo := NewComponent("Echo", func(p Props) any {
			return Tag("echo", p.Children...)
		})
		element := echo.El(nil, "a", After(5*time.Millisecond, "b"))
		assert.Equal(t, "<echo>ab</echo>", renderAsync(t, element))
	})

	t.Run("rejected component output renders empty", func(t *testing.T) {
		broken := AsyncComponent("Broken", func(Props) any {
			return Rejected(errors.New("backend down"))
		})
		assert.Equal(t, "<x>ok</x>", renderAsync(t, Tag("x", broken.El(nil), "ok")))
	})
}

func TestRender_ComponentPanicPropagates(t *testing.T) {
	boom := NewComponent("Boom", func(Props) any { panic("kaboom") })

	_, err := MustNew().Render(context.Background(), Tag("x", boom.El(nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgComponentPanicked)
	assert.Equal(t, ErrorTypeAisx, ErrorType(err))
}

func TestRender_ComponentPanicInDeferredBranchIsWarning(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	boom := NewComponent("Boom", func(Props) any { panic("kaboom") })

	text := renderAsync(t, Tag("x", Resolved(boom.El(nil)), "safe"), WithLogger(zap.New(core)))
	assert.Equal(t, "<x>safe</x>", text)
	assert.True(t, hasLog(logs, LogMsgRenderWarning))
}

func TestRender_MaxDepth(t *testing.T) {
	var recursive *Component
	recursive = NewComponent("Recursive", func(Props) any {
		return recursive.El(nil)
	})

	_, err := MustNew(WithMaxDepth(10)).Render(context.Background(), recursive.El(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgMaxDepthExceeded)
}

func TestRender_MaxDepthCountsFromRoot(t *testing.T) {
	engine := MustNew(WithMaxDepth(1))

	res, err := engine.Render(context.Background(), Tag("a", Tag("b")))
	require.NoError(t, err)
	assert.Equal(t, "<a><b></b></a>", res.MustText())

	_, err = engine.Render(context.Background(), Tag("a", Tag("b", Tag("c"))))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgMaxDepthExceeded)
}

func TestRender_TypedNilValuesRenderEmpty(t *testing.T) {
	var u *url.URL

	res := renderSync(t, Tag("x", u, "after"))
	assert.Equal(t, "<x>after</x>", res.MustText())

	res = renderSync(t, El("a", Attrs{A("href", u)}, "link"))
	assert.Equal(t, `<a href="">link</a>`, res.MustText())

	var fn func() string
	res = renderSync(t, Tag("x", fn, map[string]any(nil), "y"))
	assert.Equal(t, "<x>y</x>", res.MustText())
}

func TestRenderAsync_SiblingRejectionLeavesSuccessIntact(t *testing.T) {
	element := Frag(
		Tag("success", Resolved("success")),
		Tag("failure", Rejected(errors.New("failure"))),
	)
	assert.Equal(t, "<success>success</success><failure></failure>", renderAsync(t, element))
}

func TestRender_ComponentNodePropsExcludeReserved(t *testing.T) {
	var received Attrs
	card := NewComponent("Card", func(p Props) any {
		received = p.Attrs
		return Tag("card", p.GetString("title"))
	})

	attrs := Attrs{A(AttrKey, "k1"), A("title", "T"), A(AttrRef, "r"), A("note", nil)}
	res := renderSync(t, card.El(attrs))
	assert.Equal(t, "<card>T</card>", res.MustText())
	assert.Equal(t, attrs, received, "the component sees every attribute")

	node := res.Snapshot().Find("Card")
	require.NotNil(t, node)
	assert.Equal(t, Attrs{A("title", "T"), A("note", nil)}, node.Props)
}

func TestRender_NilComponent(t *testing.T) {
	_, err := MustNew().Render(context.Background(), &Element{Kind: KindComponent})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgNilComponent)
}

func TestRenderAsync_ManyConcurrentValues(t *testing.T) {
	items := make([]any, 0, 50)
	var expected strings.Builder
	for i := 0; i < 50; i++ {
		text := string(rune('a' + i%26))
		items = append(items, After(time.Duration(50-i)*time.Millisecond/10, text))
		expected.WriteString(text)
	}

	start := time.Now()
	text := renderAsync(t, Tag("all", items))
	assert.Equal(t, "<all>"+expected.String()+"</all>", text)
	assert.Less(t, time.Since(start), 2*time.Second, "pending values run concurrently")
}

func TestRenderAsync_ConcurrentRendersAreIndependent(t *testing.T) {
	engine := MustNew()
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func(i int) {
			want := "<n>" + time.Duration(i).String() + "</n>"
			got, err := engine.RenderAsync(context.Background(), Tag("n", Resolved(time.Duration(i))))
			if err == nil && got != want {
				err = errors.New(got + " != " + want)
			}
			errs <- err
		}(i)
	}
	for i := 0; i < 20; i++ {
		assert.NoError(t, <-errs)
	}
}
