package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validationOutput is the JSON form of a validation report.
type validationOutput struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues"`
}

func (a *app) validateCmd() *cobra.Command {
	cfg := &treeConfig{}

	cmd := &cobra.Command{
		Use:   CmdNameValidate,
		Short: HelpValidateShort,
		Long:  HelpValidateLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			res, err := a.settledResult(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			issues := res.Issues()
			if cfg.format == OutputFormatJSON {
				if err := a.writeJSON(validationOutput{Valid: len(issues) == 0, Issues: issues}); err != nil {
					return err
				}
			} else {
				a.printIssues(issues)
			}

			if len(issues) > 0 {
				return newCLIError(ExitCodeValidationError, ErrMsgValidationFailed, nil)
			}
			return nil
		},
	}
	addTreeFlags(cmd, cfg)
	return cmd
}

func (a *app) printIssues(issues []string) {
	if len(issues) == 0 {
		fmt.Fprintln(a.stdout, ValidationTextSuccess)
		return
	}
	fmt.Fprintln(a.stdout, ValidationTextHeader)
	for _, issue := range issues {
		fmt.Fprintf(a.stdout, ValidationTextIssueFmt, issue)
	}
}
