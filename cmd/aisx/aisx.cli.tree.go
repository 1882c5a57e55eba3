package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/itsatony/go-aisx"
	"github.com/spf13/cobra"
)

// treeConfig holds parsed tree and validate command configuration
type treeConfig struct {
	file    string
	format  string
	timeout time.Duration
}

// treeNodeOutput is the JSON form of one render-tree node.
type treeNodeOutput struct {
	Name        string            `json:"name"`
	Async       bool              `json:"async"`
	HasPromises bool              `json:"has_promises"`
	Depth       int               `json:"depth"`
	Children    []*treeNodeOutput `json:"children,omitempty"`
}

func addTreeFlags(cmd *cobra.Command, cfg *treeConfig) {
	cmd.Flags().StringVarP(&cfg.file, FlagFile, FlagFileShort, FlagDefaultFile, HelpFlagFile)
	cmd.Flags().StringVarP(&cfg.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, HelpFlagFormat)
	cmd.Flags().DurationVar(&cfg.timeout, FlagTimeout, FlagDefaultTimeout, HelpFlagTimeout)
}

func (cfg *treeConfig) validate() error {
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return newCLIError(ExitCodeUsageError, ErrMsgInvalidFormat, fmt.Errorf("%q", cfg.format))
	}
	return nil
}

func (a *app) treeCmd() *cobra.Command {
	cfg := &treeConfig{}

	cmd := &cobra.Command{
		Use:   CmdNameTree,
		Short: HelpTreeShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			res, err := a.settledResult(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if cfg.format == OutputFormatJSON {
				return a.writeJSON(toTreeOutput(res.Snapshot()))
			}
			fmt.Fprint(a.stdout, res.Dump())
			return nil
		},
	}
	addTreeFlags(cmd, cfg)
	return cmd
}

// settledResult renders the document without declaring the root async and
// waits until every pending value settled.
func (a *app) settledResult(ctx context.Context, cfg *treeConfig) (*aisx.Result, error) {
	engine := a.newEngine()
	value, err := a.loadDocument(engine, cfg.file)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	res, err := engine.Render(ctx, value)
	if err != nil {
		return nil, newCLIError(ExitCodeError, ErrMsgRenderFailed, err)
	}
	select {
	case <-res.Done():
		return res, nil
	case <-ctx.Done():
		return nil, newCLIError(ExitCodeError, ErrMsgWaitFailed, ctx.Err())
	}
}

func (a *app) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return newCLIError(ExitCodeError, ErrMsgJSONMarshalFailed, err)
	}
	fmt.Fprintln(a.stdout, string(data))
	return nil
}

func toTreeOutput(s *aisx.NodeSnapshot) *treeNodeOutput {
	if s == nil {
		return nil
	}
	out := &treeNodeOutput{
		Name:        s.Name,
		Async:       s.IsAsync,
		HasPromises: s.HasPromises,
		Depth:       s.Depth,
	}
	for _, child := range s.Children {
		out.Children = append(out.Children, toTreeOutput(child))
	}
	return out
}
