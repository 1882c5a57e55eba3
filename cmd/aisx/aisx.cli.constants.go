package main

import "time"

// Command names
const (
	CmdNameRender   = "render"
	CmdNameTree     = "tree"
	CmdNameValidate = "validate"
	CmdNameVersion  = "version"
)

// Flag names - long form
const (
	FlagFile     = "file"
	FlagOutput   = "output"
	FlagFormat   = "format"
	FlagNoWait   = "no-wait"
	FlagTimeout  = "timeout"
	FlagMaxDepth = "max-depth"
	FlagStrict   = "strict"
	FlagVerbose  = "verbose"
	FlagShort    = "short"
)

// Flag names - short form
const (
	FlagFileShort    = "f"
	FlagOutputShort  = "o"
	FlagFormatShort  = "F"
	FlagVerboseShort = "v"
	FlagShortShort   = "s"
)

// Flag default values
const (
	FlagDefaultFile    = "-" // stdin
	FlagDefaultOutput  = "-" // stdout
	FlagDefaultFormat  = "text"
	FlagDefaultTimeout = 30 * time.Second
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgUsage             = "invalid usage"
	ErrMsgReadFileFailed    = "failed to read document"
	ErrMsgParseFailed       = "document parsing failed"
	ErrMsgRenderFailed      = "render failed"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgWaitFailed        = "waiting for pending values failed"
	ErrMsgJSONMarshalFailed = "failed to marshal JSON"
	ErrMsgValidationFailed  = "document has async mismatches"
)

// Help text
const (
	CLIName        = "aisx"
	CLIDescription = "Render element documents to prompt markup"
	CLILong        = `aisx renders element documents (YAML or JSON) to markup text.

A document describes tags, fragments, and pending values:

  tag: prompt
  attrs: {id: p1}
  children:
    - tag: system
      children: Be brief.
    - pending: "slow answer"
      delay: 50ms`

	HelpRenderShort   = "Render a document to markup"
	HelpRenderLong    = `Render a document and write the markup. Pending values are awaited
unless --no-wait is given, in which case a document with pending values
fails with a PendingError listing the render tree.`
	HelpRenderExample = `  aisx render -f prompt.yaml
  cat prompt.yaml | aisx render
  aisx render -f prompt.yaml -o prompt.txt --timeout 5s`

	HelpTreeShort     = "Print the render tree of a document"
	HelpValidateShort = "Check that a document renders without awaiting"
	HelpValidateLong  = `Render a document without declaring the root async and report every node
that carries pending values while not being marked async. Exit code 3
means the document must be rendered with awaiting.`
	HelpVersionShort = "Print version information"

	HelpFlagFile     = `Document file (use "-" for stdin)`
	HelpFlagOutput   = "Output file (default: stdout)"
	HelpFlagFormat   = "Output format: text, json"
	HelpFlagNoWait   = "Fail instead of awaiting pending values"
	HelpFlagTimeout  = "Maximum time to wait for pending values"
	HelpFlagMaxDepth = "Maximum element nesting depth (0 = unlimited)"
	HelpFlagStrict   = "Treat render tree mismatches as errors"
	HelpFlagVerbose  = "Log render diagnostics to stderr"
	HelpFlagShort    = "Print only the version number"
)

// Output templates
const (
	VersionTextTemplate    = "aisx version %s\nCommit: %s\nBuilt: %s\nGo: %s\n"
	ValidationTextSuccess  = "Document renders without awaiting"
	ValidationTextHeader   = "Validation issues:"
	ValidationTextIssueFmt = "  - %s\n"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
)
