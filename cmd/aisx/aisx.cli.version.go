package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// versionOutput represents JSON output for version
type versionOutput struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

func (a *app) versionCmd() *cobra.Command {
	var short bool
	var format string

	cmd := &cobra.Command{
		Use:   CmdNameVersion,
		Short: HelpVersionShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				fmt.Fprintln(a.stdout, version)
				return nil
			}

			switch format {
			case OutputFormatJSON:
				return a.writeJSON(versionOutput{
					Version:   version,
					Commit:    commit,
					BuildTime: date,
					GoVersion: runtime.Version(),
				})
			case OutputFormatText:
				fmt.Fprintf(a.stdout, VersionTextTemplate, version, commit, date, runtime.Version())
				return nil
			default:
				return newCLIError(ExitCodeUsageError, ErrMsgInvalidFormat, fmt.Errorf("%q", format))
			}
		},
	}

	cmd.Flags().BoolVarP(&short, FlagShort, FlagShortShort, false, HelpFlagShort)
	cmd.Flags().StringVarP(&format, FlagFormat, FlagFormatShort, FlagDefaultFormat, HelpFlagFormat)

	return cmd
}
