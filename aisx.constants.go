package aisx

// Reserved tag and node names
const (
	FragmentName           = "Fragment"
	AnonymousComponentName = "AnonymousComponent"
	AsyncContentName       = "AsyncContent"
	TextNodePrefix         = "TextNode"
	ArrayNodePrefix        = "ArrayNode"
	ChildNodePrefix        = "Child"
	ComponentResultSuffix  = "Result"
)

// Reserved attribute names - accepted on every tag, never serialized
const (
	AttrKey      = "key"
	AttrRef      = "ref"
	AttrChildren = "children"
)

// Markup assembly pieces
const (
	markupOpen      = "<"
	markupClose     = ">"
	markupCloseOpen = "</"
	markupSpace     = " "
	markupAssign    = `="`
	markupQuote     = `"`
)

// Defaults
const (
	// DefaultMaxDepth bounds element nesting to stop runaway recursive components.
	DefaultMaxDepth = 100

	// DefaultMetricsNamespace is the Prometheus namespace for render metrics.
	DefaultMetricsNamespace = "aisx"

	// DefaultTracerName is the OpenTelemetry instrumentation name.
	DefaultTracerName = "github.com/itsatony/go-aisx"
)

// Render modes
const (
	ModeSync  = "sync"
	ModeAsync = "async"
)

// Render paths taken by the root
const (
	PathImmediate = "immediate"
	PathDeferred  = "deferred"
)

// Error type names (diagnostic taxonomy)
const (
	ErrorTypeAisx             = "AisxError"
	ErrorTypePending          = "PendingError"
	ErrorTypeRenderTree       = "RenderTreeError"
	ErrorTypePromiseRejection = "PromiseRejection"
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyErrorType  = "error_type"
	MetaKeyRenderTree = "render_tree"
	MetaKeyIssues     = "issues"
	MetaKeyNode       = "node"
	MetaKeyComponent  = "component"
	MetaKeyDepth      = "current_depth"
	MetaKeyMaxDepth   = "max_depth"
	MetaKeyPanic      = "panic"
	MetaKeyDocPath    = "document_path"
	MetaKeyNodeKind   = "node_kind"
)

// Log message constants
const (
	LogMsgEngineCreated      = "engine created"
	LogMsgRenderStart        = "render started"
	LogMsgRenderImmediate    = "render completed synchronously"
	LogMsgRenderDeferred     = "render deferred - pending values in tree"
	LogMsgRenderSettled      = "deferred render settled"
	LogMsgPromiseRejected    = "pending value rejected during render"
	LogMsgPendingError       = "render result used before it settled"
	LogMsgRenderWarning      = "render warning"
	LogMsgValidationIssue    = "render tree validation issue"
	LogMsgHookFailed         = "hook returned error"
	LogMsgComponentSuspended = "component suspended on pending value"
)

// Log field names
const (
	LogFieldErrorType  = "error_type"
	LogFieldNode       = "node"
	LogFieldRenderTree = "render_tree"
	LogFieldMode       = "mode"
	LogFieldPath       = "path"
	LogFieldNodes      = "node_count"
	LogFieldIssue      = "issue"
	LogFieldHookPoint  = "hook_point"
	LogFieldDuration   = "duration"
	LogFieldCause      = "cause"
)

// Tracing span and attribute names
const (
	SpanNameRender     = "aisx.render"
	SpanAttrMode       = "aisx.mode"
	SpanAttrPath       = "aisx.path"
	SpanAttrNodes      = "aisx.node_count"
	SpanAttrRoot       = "aisx.root"
	SpanAttrIssueCount = "aisx.issue_count"
)

// Metric names and labels
const (
	MetricRendersTotal       = "renders_total"
	MetricRenderDuration     = "render_duration_seconds"
	MetricRejectionsTotal    = "promise_rejections_total"
	MetricPendingErrorsTotal = "pending_errors_total"
	MetricIssuesTotal        = "validation_issues_total"
	MetricLabelMode          = "mode"
	MetricLabelPath          = "path"
)

// Document keys for YAML/JSON element documents
const (
	DocKeyTag       = "tag"
	DocKeyAttrs     = "attrs"
	DocKeyChildren  = "children"
	DocKeyFragment  = "fragment"
	DocKeyComponent = "component"
	DocKeyProps     = "props"
	DocKeyPending   = "pending"
	DocKeyDelay     = "delay"
	DocKeyReject    = "reject"
)
