package main

import (
	"io"
	"os"

	"github.com/itsatony/go-aisx"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// loadDocument reads and parses the document at path.
func (a *app) loadDocument(engine *aisx.Engine, path string) (any, error) {
	source, err := readInput(path, a.stdin)
	if err != nil {
		return nil, newCLIError(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}

	value, err := engine.ParseDocument(source)
	if err != nil {
		return nil, newCLIError(ExitCodeInputError, ErrMsgParseFailed, err)
	}
	return value, nil
}
