package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openbenefits/formd/internal/store"
)

// MergeResult is the JSON payload for merge.
type MergeResult struct {
	ApplicantID string   `json:"applicant_id"`
	FromVersion int64    `json:"from_version"`
	ToVersion   int64    `json:"to_version"`
	Conflicts   []string `json:"conflicts,omitempty"`
	Document    string   `json:"document"`
}

// NewMergeCommand creates the merge command.
func NewMergeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <db> <applicant-id> <from-version> <to-version>",
		Short: "Merge one document version into another",
		Long: `Merge the document stored at from-version into the one at to-version and
store the result back at to-version. Conflicting answers keep the
to-version value and are reported by path.`,
		Args:          cobra.ExactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid from-version %q", args[2]))
			}
			to, err := strconv.ParseInt(args[3], 10, 64)
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid to-version %q", args[3]))
			}
			return runMerge(rootOpts, args[0], args[1], from, to, cmd)
		},
	}
	return cmd
}

func runMerge(opts *RootOptions, dbPath, applicantID string, from, to int64, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := store.Open(dbPath, newLogger(opts))
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer s.Close()

	source, err := s.Load(cmd.Context(), applicantID, from)
	if err != nil {
		return showLookupError(formatter, err)
	}
	target, err := s.Load(cmd.Context(), applicantID, to)
	if err != nil {
		return showLookupError(formatter, err)
	}

	conflictPaths, err := target.MergeFrom(source)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitFailure, "merge", err)
	}

	if _, err := s.Save(cmd.Context(), applicantID, to, target); err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "saving merged document", err)
	}

	conflicts := make([]string, len(conflictPaths))
	for i, p := range conflictPaths {
		conflicts[i] = p.String()
	}

	if formatter.Format == "json" {
		if err := formatter.Success(MergeResult{
			ApplicantID: applicantID,
			FromVersion: from,
			ToVersion:   to,
			Conflicts:   conflicts,
			Document:    target.AsJSONString(),
		}); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(formatter.Writer, "Merged version %d into %d for %s\n", from, to, applicantID)
		if len(conflicts) > 0 {
			fmt.Fprintf(formatter.Writer, "%d conflict(s) kept the target value:\n", len(conflicts))
			for _, path := range conflicts {
				fmt.Fprintf(formatter.Writer, "  %s\n", path)
			}
		}
	}

	// Conflicts are reported, not fatal, but scripts still want to see them
	// in the exit status.
	if len(conflicts) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("merge completed with %d conflict(s)", len(conflicts)))
	}
	return nil
}
