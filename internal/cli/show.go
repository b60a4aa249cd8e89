package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openbenefits/formd/internal/store"
)

// ShowResult is the JSON payload for show.
type ShowResult struct {
	ApplicantID    string `json:"applicant_id"`
	ProgramVersion int64  `json:"program_version"`
	Name           string `json:"name"`
	Locale         string `json:"locale,omitempty"`
	Document       string `json:"document"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	var version int64

	cmd := &cobra.Command{
		Use:           "show <db> <applicant-id>",
		Short:         "Print an applicant's stored document",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], args[1], version, cmd)
		},
	}
	cmd.Flags().Int64Var(&version, "version", 0, "program version to show (default: latest)")
	return cmd
}

func runShow(opts *RootOptions, dbPath, applicantID string, version int64, cmd *cobra.Command) error {
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

	if version == 0 {
		version, err = s.LatestVersion(cmd.Context(), applicantID)
		if err != nil {
			return showLookupError(formatter, err)
		}
	}

	doc, err := s.Load(cmd.Context(), applicantID, version)
	if err != nil {
		return showLookupError(formatter, err)
	}

	if formatter.Format == "json" {
		locale := ""
		if doc.HasPreferredLocale() {
			locale = doc.PreferredLocale().String()
		}
		return formatter.Success(ShowResult{
			ApplicantID:    applicantID,
			ProgramVersion: version,
			Name:           doc.ApplicantName(),
			Locale:         locale,
			Document:       doc.AsJSONString(),
		})
	}

	fmt.Fprintf(formatter.Writer, "%s (program version %d)\n", doc.ApplicantName(), version)
	fmt.Fprintln(formatter.Writer, doc.AsJSONString())
	return nil
}

func showLookupError(formatter *OutputFormatter, err error) error {
	var notFound *store.NotFoundError
	if errors.As(err, &notFound) {
		_ = formatter.Error("E005", notFound.Error(), nil)
		return WrapExitError(ExitCommandError, "lookup", err)
	}
	_ = formatter.Error("E001", err.Error(), nil)
	return WrapExitError(ExitCommandError, "lookup", err)
}
