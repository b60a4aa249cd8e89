package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openbenefits/formd/internal/program"
)

// ValidationIssue is one problem found in a program definition.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Programs int               `json:"programs"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <programs-dir>",
		Short: "Validate CUE program definitions",
		Long: `Validate CUE program definitions without touching any database.

Checks ids, localized names, question types and paths, and that block
predicates only reference questions from earlier blocks.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result, loadErrors := program.LoadPrograms(dir, program.LoadModeCollectAll)

	// Directory-level failures are command errors, not validation results.
	if result == nil && len(loadErrors) > 0 {
		var loadErr *program.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, loadErr.Message)
		}
		_ = formatter.Error(program.ErrCodeGeneric, loadErrors[0].Error(), nil)
		return NewExitError(ExitCommandError, loadErrors[0].Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", result.FileCount, dir)

	var issues []ValidationIssue
	for _, err := range loadErrors {
		var loadErr *program.LoadError
		if errors.As(err, &loadErr) {
			issues = append(issues, ValidationIssue{Code: loadErr.Code, Message: loadErr.Message})
		} else {
			issues = append(issues, ValidationIssue{Code: program.ErrCodeGeneric, Message: err.Error()})
		}
	}

	if len(issues) > 0 {
		if formatter.Format == "json" {
			_ = formatter.Success(ValidationResult{Valid: false, Programs: len(result.Programs), Errors: issues})
		} else {
			fmt.Fprintln(formatter.Writer, "✗ Validation failed")
			fmt.Fprintln(formatter.Writer)
			for _, issue := range issues {
				fmt.Fprintf(formatter.Writer, "  %s: %s\n", issue.Code, issue.Message)
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues)))
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Programs: len(result.Programs)})
	}
	fmt.Fprintf(formatter.Writer, "✓ %d program(s) valid\n", len(result.Programs))
	return nil
}
