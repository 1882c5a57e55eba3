package internal

// NodeKind identifies what produced a render-tree node
type NodeKind int

// Node kind constants
const (
	NodeKindTag NodeKind = iota
	NodeKindFragment
	NodeKindComponent
	NodeKindSynthetic
)

// Node kind string names for debugging
const (
	NodeKindNameTag       = "TAG"
	NodeKindNameFragment  = "FRAGMENT"
	NodeKindNameComponent = "COMPONENT"
	NodeKindNameSynthetic = "SYNTHETIC"
	NodeKindNameUnknown   = "UNKNOWN"
)

// String returns the string representation of the node kind
func (k NodeKind) String() string {
	switch k {
	case NodeKindTag:
		return NodeKindNameTag
	case NodeKindFragment:
		return NodeKindNameFragment
	case NodeKindComponent:
		return NodeKindNameComponent
	case NodeKindSynthetic:
		return NodeKindNameSynthetic
	default:
		return NodeKindNameUnknown
	}
}

// Tree dump markers
const (
	TreeMarkAsync   = "[A]"
	TreeMarkPending = "[P]"
	TreeMarkBlank   = "   "
	TreeIndent      = "  "
	TreePathSep     = " -> "
)

// Validation message format: path
const (
	IssueFmtNotAsync = "component %q contains pending values but is not marked async; await the render result"
)

// Date rendering layout (ISO-8601 instant with millisecond precision, UTC)
const (
	DateLayoutISO = "2006-01-02T15:04:05.000Z"
)

// Scalar text constants
const (
	StringValueEmpty = ""
	StringValueTrue  = "true"
	StringValueFalse = "false"
)

// Log message constants
const (
	LogMsgRegistryCreated     = "component registry created"
	LogMsgComponentRegistered = "component registered"
	LogMsgComponentCollision  = "component registration collision - first-come-wins"
	LogMsgObjectMarshalFailed = "object serialization failed"
)

// Log field names
const (
	LogFieldName     = "name"
	LogFieldExisting = "existing"
	LogFieldType     = "type"
	LogFieldError    = "error"
	LogFieldAsync    = "async"
)

// Registry error message constants
const (
	ErrMsgNilEntry           = "component cannot be nil"
	ErrMsgEmptyName          = "component name cannot be empty"
	ErrMsgEntryAlreadyExists = "component already registered"
	ErrMsgNotRenderable      = "component has no render function"
	ErrFmtNameMessage        = "%s: %s"
)

// Suggestion constants
const (
	SuggestMinDistance = 2
	SuggestLimit       = 3
	SuggestPrefix      = ". Did you mean "
	SuggestSep         = ", "
	SuggestLastSep     = " or "
)
