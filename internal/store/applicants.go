package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/openbenefits/formd/internal/applicant"
)

// NotFoundError reports that no document row exists for the lookup.
type NotFoundError struct {
	ApplicantID    string
	ProgramVersion int64
}

func (e *NotFoundError) Error() string {
	if e.ProgramVersion == 0 {
		return fmt.Sprintf("no documents stored for applicant %s", e.ApplicantID)
	}
	return fmt.Sprintf("no document for applicant %s at program version %d", e.ApplicantID, e.ProgramVersion)
}

// Save stores the document for (applicantID, programVersion), replacing any
// document already stored there. Returns the row ID.
func (s *Store) Save(ctx context.Context, applicantID string, programVersion int64, doc *applicant.Document) (string, error) {
	locale := ""
	if doc.HasPreferredLocale() {
		locale = doc.PreferredLocale().String()
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applicants (id, applicant_id, program_version, preferred_locale, doc)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (applicant_id, program_version) DO UPDATE SET
			preferred_locale = excluded.preferred_locale,
			doc = excluded.doc
	`, id, applicantID, programVersion, locale, doc.AsJSONString())
	if err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}

	// On conflict the insert id was discarded; read back the winning row.
	var rowID string
	err = s.db.QueryRowContext(ctx, `
		SELECT id FROM applicants WHERE applicant_id = ? AND program_version = ?
	`, applicantID, programVersion).Scan(&rowID)
	if err != nil {
		return "", fmt.Errorf("read back document id: %w", err)
	}

	s.log.Debug().
		Str("applicant_id", applicantID).
		Int64("program_version", programVersion).
		Msg("saved document")
	return rowID, nil
}

// Load rehydrates the document stored for (applicantID, programVersion).
func (s *Store) Load(ctx context.Context, applicantID string, programVersion int64) (*applicant.Document, error) {
	var locale, raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT preferred_locale, doc FROM applicants
		WHERE applicant_id = ? AND program_version = ?
	`, applicantID, programVersion).Scan(&locale, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ApplicantID: applicantID, ProgramVersion: programVersion}
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	var opts []applicant.Option
	if locale != "" {
		tag, parseErr := language.Parse(locale)
		if parseErr != nil {
			// A bad locale should not make stored answers unreadable.
			s.log.Warn().
				Str("applicant_id", applicantID).
				Str("locale", locale).
				Msg("ignoring unparseable stored locale")
		} else {
			opts = append(opts, applicant.WithPreferredLocale(tag))
		}
	}
	doc, err := applicant.FromJSON(raw, opts...)
	if err != nil {
		return nil, fmt.Errorf("rehydrate document for applicant %s: %w", applicantID, err)
	}
	return doc, nil
}

// LatestVersion returns the highest program version stored for the
// applicant.
func (s *Store) LatestVersion(ctx context.Context, applicantID string) (int64, error) {
	var version sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(program_version) FROM applicants WHERE applicant_id = ?
	`, applicantID).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("latest version: %w", err)
	}
	if !version.Valid {
		return 0, &NotFoundError{ApplicantID: applicantID}
	}
	return version.Int64, nil
}

// Versions lists the program versions stored for the applicant, ascending.
func (s *Store) Versions(ctx context.Context, applicantID string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT program_version FROM applicants
		WHERE applicant_id = ? ORDER BY program_version
	`, applicantID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return versions, nil
}
