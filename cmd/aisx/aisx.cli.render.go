package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	file    string
	output  string
	timeout time.Duration
	noWait  bool
}

func (a *app) renderCmd() *cobra.Command {
	cfg := &renderConfig{}

	cmd := &cobra.Command{
		Use:     CmdNameRender,
		Short:   HelpRenderShort,
		Long:    HelpRenderLong,
		Example: HelpRenderExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.file, FlagFile, FlagFileShort, FlagDefaultFile, HelpFlagFile)
	cmd.Flags().StringVarP(&cfg.output, FlagOutput, FlagOutputShort, FlagDefaultOutput, HelpFlagOutput)
	cmd.Flags().DurationVar(&cfg.timeout, FlagTimeout, FlagDefaultTimeout, HelpFlagTimeout)
	cmd.Flags().BoolVar(&cfg.noWait, FlagNoWait, false, HelpFlagNoWait)

	return cmd
}

func (a *app) runRender(ctx context.Context, cfg *renderConfig) error {
	engine := a.newEngine()
	value, err := a.loadDocument(engine, cfg.file)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	var text string
	if cfg.noWait {
		res, err := engine.Render(ctx, value)
		if err != nil {
			return newCLIError(ExitCodeError, ErrMsgRenderFailed, err)
		}
		if text, err = res.Text(); err != nil {
			return newCLIError(ExitCodeError, ErrMsgRenderFailed, err)
		}
	} else {
		if text, err = engine.RenderAsync(ctx, value); err != nil {
			return newCLIError(ExitCodeError, ErrMsgRenderFailed, err)
		}
	}

	if err := writeOutput(cfg.output, []byte(text+FmtNewline), a.stdout); err != nil {
		return newCLIError(ExitCodeError, ErrMsgWriteOutputFailed, err)
	}
	return nil
}
