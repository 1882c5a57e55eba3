package aisx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/itsatony/go-aisx/internal"
	"github.com/itsatony/go-cuserr"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Render errors
	ErrMsgRenderFailed      = "render failed"
	ErrMsgComponentPanicked = "component panicked"
	ErrMsgCallablePanicked  = "function execution failed"
	ErrMsgCallableFailed    = "function returned error"
	ErrMsgMaxDepthExceeded  = "maximum element nesting depth exceeded"
	ErrMsgNilComponent      = "component element has no render function"
	ErrMsgUnknownKind       = "unknown element kind"
	ErrMsgObjectStringify   = "failed to stringify object"
	ErrMsgDeferredPanicked  = "deferred render step panicked"

	// Pending / async errors
	ErrMsgPending          = "render result must be awaited - there are pending values in the render tree"
	ErrMsgPromiseRejected  = "pending value rejected during render"
	ErrMsgComponentReject  = "component pending result rejected"
	ErrMsgSuspendRejected  = "suspended pending value rejected"
	ErrMsgAwaitInterrupted = "waiting for render result interrupted"
	ErrMsgNilRejection     = "pending value rejected without error"
	ErrMsgFuturePanicked   = "pending computation panicked"

	// Tree errors
	ErrMsgTreeInvalid = "render tree has async mismatches"

	// Registry errors
	ErrMsgComponentExists  = "component already registered"
	ErrMsgComponentInvalid = "component cannot be registered"
	ErrMsgComponentUnknown = "no component registered under name"

	// Document errors
	ErrMsgDocumentInvalid   = "invalid element document"
	ErrMsgDocumentNodeShape = "document mapping needs exactly one of tag, fragment, component, pending, reject"
	ErrMsgDocumentAttrs     = "document attrs must be a mapping"
	ErrMsgDocumentDelay     = "document delay is not a valid duration"

	// Formatting of diagnostic messages
	ErrFmtTyped        = "%s: %s"
	ErrSectionIssues   = "\n\nValidation Issues:\n"
	ErrSectionTree     = "\n\nRender Tree:\n"
	ErrIssueSeparator  = "\n"
	ErrMsgPanicUnknown = "unknown panic"
)

// Error code constants for categorization
const (
	ErrCodeRender    = "AISX_RENDER"
	ErrCodePending   = "AISX_PENDING"
	ErrCodeRejection = "AISX_REJECTION"
	ErrCodeTree      = "AISX_TREE"
	ErrCodeRegistry  = "AISX_REGISTRY"
	ErrCodeDocument  = "AISX_DOCUMENT"
)

// ErrNotSettled is the cause wrapped by every PendingError.
var ErrNotSettled = errors.New(ErrMsgPending)

// buildMessage prefixes the type and appends validation issues and the tree dump.
func buildMessage(errType, msg string, issues []string, tree string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(ErrFmtTyped, errType, msg))
	if len(issues) > 0 {
		sb.WriteString(ErrSectionIssues)
		sb.WriteString(strings.Join(issues, ErrIssueSeparator))
	}
	if tree != "" {
		sb.WriteString(ErrSectionTree)
		sb.WriteString(tree)
	}
	return sb.String()
}

// NewPendingError creates the error returned when a deferred root result is
// inspected before it settled. It carries the validator issues and the tree dump.
func NewPendingError(issues []string, tree string) error {
	return cuserr.WrapStdError(ErrNotSettled, ErrCodePending, buildMessage(ErrorTypePending, ErrMsgPending, issues, tree)).
		WithMetadata(MetaKeyErrorType, ErrorTypePending).
		WithMetadata(MetaKeyIssues, strconv.Itoa(len(issues))).
		WithMetadata(MetaKeyRenderTree, tree)
}

// NewPromiseRejectionError creates the warning raised when a pending value fails.
func NewPromiseRejectionError(msg string, node string, tree string, cause error) error {
	if cause == nil {
		cause = errors.New(ErrMsgNilRejection)
	}
	return cuserr.WrapStdError(cause, ErrCodeRejection, buildMessage(ErrorTypePromiseRejection, msg, nil, tree)).
		WithMetadata(MetaKeyErrorType, ErrorTypePromiseRejection).
		WithMetadata(MetaKeyNode, node).
		WithMetadata(MetaKeyRenderTree, tree)
}

// NewRenderTreeError creates the strict-mode error for async mismatches.
func NewRenderTreeError(issues []string, tree string) error {
	return cuserr.NewValidationError(ErrCodeTree, buildMessage(ErrorTypeRenderTree, ErrMsgTreeInvalid, issues, tree)).
		WithMetadata(MetaKeyErrorType, ErrorTypeRenderTree).
		WithMetadata(MetaKeyIssues, strconv.Itoa(len(issues))).
		WithMetadata(MetaKeyRenderTree, tree)
}

// NewRenderError creates a generic render error for a node.
func NewRenderError(msg string, node string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeRender, buildMessage(ErrorTypeAisx, msg, nil, ""))
	} else {
		err = cuserr.NewValidationError(ErrCodeRender, buildMessage(ErrorTypeAisx, msg, nil, ""))
	}
	return err.
		WithMetadata(MetaKeyErrorType, ErrorTypeAisx).
		WithMetadata(MetaKeyNode, node)
}

// NewComponentPanicError converts a non-suspension component panic into an error.
func NewComponentPanicError(component string, recovered any) error {
	return cuserr.WrapStdError(panicError(recovered), ErrCodeRender, buildMessage(ErrorTypeAisx, ErrMsgComponentPanicked, nil, "")).
		WithMetadata(MetaKeyErrorType, ErrorTypeAisx).
		WithMetadata(MetaKeyComponent, component).
		WithMetadata(MetaKeyPanic, fmt.Sprint(recovered))
}

// NewMaxDepthError creates an error for runaway element nesting.
func NewMaxDepthError(node string, depth, maxDepth int) error {
	return cuserr.NewValidationError(ErrCodeRender, buildMessage(ErrorTypeAisx, ErrMsgMaxDepthExceeded, nil, "")).
		WithMetadata(MetaKeyErrorType, ErrorTypeAisx).
		WithMetadata(MetaKeyNode, node).
		WithMetadata(MetaKeyDepth, strconv.Itoa(depth)).
		WithMetadata(MetaKeyMaxDepth, strconv.Itoa(maxDepth))
}

// NewComponentExistsError creates a registry collision error.
func NewComponentExistsError(name string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeRegistry, ErrMsgComponentExists).
		WithMetadata(MetaKeyComponent, name)
}

// NewComponentInvalidError creates an error for a component the registry refused.
func NewComponentInvalidError(name string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeRegistry, ErrMsgComponentInvalid).
		WithMetadata(MetaKeyComponent, name)
}

// NewComponentNotFoundError creates an error for an unknown component name.
// Registered names close to name are offered as suggestions.
func NewComponentNotFoundError(name string, registered []string) error {
	suggestions := internal.SimilarNames(name, registered, internal.SuggestLimit)
	return cuserr.NewNotFoundError(MetaKeyComponent, ErrMsgComponentUnknown+internal.FormatSuggestions(suggestions)).
		WithMetadata(MetaKeyComponent, name)
}

// NewDocumentError creates an element document decoding error.
func NewDocumentError(msg string, path string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeDocument, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeDocument, msg)
	}
	return err.WithMetadata(MetaKeyDocPath, path)
}

// ErrorType returns the diagnostic type recorded on an aisx error, or "" for other errors.
func ErrorType(err error) string {
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return ""
	}
	t, _ := customErr.GetMetadata(MetaKeyErrorType)
	return t
}

// IsPendingError reports whether err signals a deferred result used before it settled.
func IsPendingError(err error) bool {
	return errors.Is(err, ErrNotSettled) || ErrorType(err) == ErrorTypePending
}

// IsPromiseRejection reports whether err is a swallowed pending-value failure.
func IsPromiseRejection(err error) bool {
	return ErrorType(err) == ErrorTypePromiseRejection
}

// IsRenderTreeError reports whether err is a strict-mode tree validation failure.
func IsRenderTreeError(err error) bool {
	return ErrorType(err) == ErrorTypeRenderTree
}

// panicError turns a recovered value into an error.
func panicError(recovered any) error {
	switch v := recovered.(type) {
	case error:
		return v
	case string:
		return errors.New(v)
	case nil:
		return errors.New(ErrMsgPanicUnknown)
	default:
		return fmt.Errorf("%v", v)
	}
}
