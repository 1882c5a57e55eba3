package aisx

import (
	"errors"
	"strconv"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTree = "   [P] Fragment\n  [A][P] x\n"

func TestNewPendingError(t *testing.T) {
	issues := []string{"first issue", "second issue"}
	err := NewPendingError(issues, sampleTree)

	require.Error(t, err)
	assert.True(t, IsPendingError(err))
	assert.True(t, errors.Is(err, ErrNotSettled))
	assert.Contains(t, err.Error(), ErrorTypePending+": "+ErrMsgPending)
	assert.Contains(t, err.Error(), "first issue\nsecond issue")
	assert.Contains(t, err.Error(), sampleTree)

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	count, ok := customErr.GetMetadata(MetaKeyIssues)
	assert.True(t, ok)
	assert.Equal(t, strconv.Itoa(len(issues)), count)
	tree, ok := customErr.GetMetadata(MetaKeyRenderTree)
	assert.True(t, ok)
	assert.Equal(t, sampleTree, tree)
}

func TestNewPromiseRejectionError(t *testing.T) {
	cause := errors.New("backend down")
	err := NewPromiseRejectionError(ErrMsgPromiseRejected, "Fragment -> x", sampleTree, cause)

	assert.True(t, IsPromiseRejection(err))
	assert.False(t, IsPendingError(err))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), ErrorTypePromiseRejection)

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	node, _ := customErr.GetMetadata(MetaKeyNode)
	assert.Equal(t, "Fragment -> x", node)

	noCause := NewPromiseRejectionError(ErrMsgPromiseRejected, "n", "", nil)
	assert.True(t, IsPromiseRejection(noCause))
}

func TestNewRenderTreeError(t *testing.T) {
	err := NewRenderTreeError([]string{"issue"}, sampleTree)
	assert.True(t, IsRenderTreeError(err))
	assert.Equal(t, ErrorTypeRenderTree, ErrorType(err))
	assert.Contains(t, err.Error(), ErrMsgTreeInvalid)
	assert.Contains(t, err.Error(), "Validation Issues:\nissue")
}

func TestNewRenderError(t *testing.T) {
	cause := errors.New("inner")
	withCause := NewRenderError(ErrMsgRenderFailed, "node", cause)
	assert.True(t, errors.Is(withCause, cause))
	assert.Equal(t, ErrorTypeAisx, ErrorType(withCause))

	withoutCause := NewRenderError(ErrMsgUnknownKind, "node", nil)
	assert.Contains(t, withoutCause.Error(), ErrMsgUnknownKind)
}

func TestNewComponentPanicError(t *testing.T) {
	err := NewComponentPanicError("Widget", "kaboom")

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	component, _ := customErr.GetMetadata(MetaKeyComponent)
	assert.Equal(t, "Widget", component)
	p, _ := customErr.GetMetadata(MetaKeyPanic)
	assert.Equal(t, "kaboom", p)

	sentinel := errors.New("sentinel")
	assert.True(t, errors.Is(NewComponentPanicError("W", sentinel), sentinel))
}

func TestNewMaxDepthError(t *testing.T) {
	err := NewMaxDepthError("Deep", 11, 10)

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	depth, _ := customErr.GetMetadata(MetaKeyDepth)
	maxDepth, _ := customErr.GetMetadata(MetaKeyMaxDepth)
	assert.Equal(t, "11", depth)
	assert.Equal(t, "10", maxDepth)
}

func TestErrorType_ForeignErrors(t *testing.T) {
	assert.Equal(t, "", ErrorType(errors.New("plain")))
	assert.Equal(t, "", ErrorType(nil))
	assert.False(t, IsPendingError(errors.New("plain")))
}

func TestPanicError(t *testing.T) {
	sentinel := errors.New("e")
	assert.Same(t, sentinel, panicError(sentinel))
	assert.EqualError(t, panicError("s"), "s")
	assert.EqualError(t, panicError(nil), ErrMsgPanicUnknown)
	assert.EqualError(t, panicError(42), "42")
}
