package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openbenefits/formd/internal/store"
)

// SeedResult is the JSON payload for a successful seed.
type SeedResult struct {
	RowID          string `json:"row_id"`
	ApplicantID    string `json:"applicant_id"`
	ProgramVersion int64  `json:"program_version"`
	Answers        int    `json:"answers"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <db> <applicant-id> <answers.yaml>",
		Short: "Seed an applicant document from a YAML answer fixture",
		Long: `Build a fresh document from a YAML answer fixture and store it for the
applicant at the fixture's program version, replacing any document already
stored there.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(rootOpts, args[0], args[1], args[2], cmd)
		},
	}
	return cmd
}

func runSeed(opts *RootOptions, dbPath, applicantID, fixturePath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	fixture, err := LoadAnswerFixture(fixturePath)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading fixture", err)
	}

	doc, err := fixture.BuildDocument()
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitFailure, "building document", err)
	}

	s, err := store.Open(dbPath, newLogger(opts))
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer s.Close()

	rowID, err := s.Save(cmd.Context(), applicantID, fixture.ProgramVersion, doc)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, "saving document", err)
	}

	formatter.VerboseLog("Stored %d answer(s) for %s", len(fixture.Answers), applicantID)
	if formatter.Format == "json" {
		return formatter.Success(SeedResult{
			RowID:          rowID,
			ApplicantID:    applicantID,
			ProgramVersion: fixture.ProgramVersion,
			Answers:        len(fixture.Answers),
		})
	}
	fmt.Fprintf(formatter.Writer, "Seeded %s at program version %d (%d answer(s))\n",
		applicantID, fixture.ProgramVersion, len(fixture.Answers))
	return nil
}
