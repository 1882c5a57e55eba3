package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/itsatony/go-aisx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// cliError carries the exit code a failing command maps to.
type cliError struct {
	code int
	msg  string
	err  error
}

func (e *cliError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return fmt.Sprintf(FmtErrorWithCause, e.msg, e.err)
}

func (e *cliError) Unwrap() error {
	return e.err
}

func newCLIError(code int, msg string, err error) *cliError {
	return &cliError{code: code, msg: msg, err: err}
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	maxDepth int
	strict   bool
	verbose  bool
}

// app wires the command tree to its I/O streams.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	opts   globalOptions
}

// run is the main entry point for the CLI, separated for testing
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	rootCmd := a.rootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		var cliErr *cliError
		if errors.As(err, &cliErr) {
			fmt.Fprint(stderr, cliErr.Error())
			return cliErr.code
		}
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgUsage, err)
		return ExitCodeUsageError
	}
	return ExitCodeSuccess
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           CLIName,
		Short:         CLIDescription,
		Long:          CLILong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&a.opts.maxDepth, FlagMaxDepth, aisx.DefaultMaxDepth, HelpFlagMaxDepth)
	flags.BoolVar(&a.opts.strict, FlagStrict, false, HelpFlagStrict)
	flags.BoolVarP(&a.opts.verbose, FlagVerbose, FlagVerboseShort, false, HelpFlagVerbose)

	rootCmd.AddCommand(
		a.renderCmd(),
		a.treeCmd(),
		a.validateCmd(),
		a.versionCmd(),
	)
	return rootCmd
}

// newEngine builds the engine for one command invocation.
func (a *app) newEngine() *aisx.Engine {
	return aisx.MustNew(
		aisx.WithLogger(a.newLogger()),
		aisx.WithMaxDepth(a.opts.maxDepth),
		aisx.WithStrictValidation(a.opts.strict),
	)
}

// newLogger writes warnings (debug with --verbose) to stderr.
func (a *app) newLogger() *zap.Logger {
	level := zapcore.WarnLevel
	if a.opts.verbose {
		level = zapcore.DebugLevel
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(a.stderr), level)
	return zap.New(core)
}
