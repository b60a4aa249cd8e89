package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/openbenefits/formd/internal/applicant"
	"github.com/openbenefits/formd/internal/docpath"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path, zerolog.Nop())
		require.NoError(t, err, "Open() iteration %d", i)
		s.Close()
	}

	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	var name string
	err = s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='applicants'",
	).Scan(&name)
	assert.NoError(t, err, "applicants table not found after idempotent opens")
}

func TestSaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc := applicant.New(applicant.WithPreferredLocale(language.Spanish))
	require.NoError(t, doc.PutString(docpath.MustParse("applicant.color"), "blue"))

	id, err := s.Save(ctx, "app-1", 1, doc)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	loaded, err := s.Load(ctx, "app-1", 1)
	require.NoError(t, err)
	assert.True(t, loaded.Equal(doc))
	assert.True(t, loaded.HasPreferredLocale())
	assert.Equal(t, language.Spanish, loaded.PreferredLocale())
}

func TestSaveReplacesExistingVersion(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := applicant.New()
	require.NoError(t, first.PutString(docpath.MustParse("applicant.color"), "blue"))
	id1, err := s.Save(ctx, "app-1", 1, first)
	require.NoError(t, err)

	second := applicant.New()
	require.NoError(t, second.PutString(docpath.MustParse("applicant.color"), "red"))
	id2, err := s.Save(ctx, "app-1", 1, second)
	require.NoError(t, err)

	// The row survives the replace, so its ID is stable.
	assert.Equal(t, id1, id2)

	loaded, err := s.Load(ctx, "app-1", 1)
	require.NoError(t, err)
	assert.True(t, loaded.Equal(second))
}

func TestLoadMissingDocument(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Load(context.Background(), "nobody", 1)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nobody", notFound.ApplicantID)
}

func TestLoadWithoutStoredLocale(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "app-1", 1, applicant.New())
	require.NoError(t, err)

	loaded, err := s.Load(ctx, "app-1", 1)
	require.NoError(t, err)
	assert.False(t, loaded.HasPreferredLocale())
}

func TestLatestVersionAndVersions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, version := range []int64{1, 3, 2} {
		_, err := s.Save(ctx, "app-1", version, applicant.New())
		require.NoError(t, err)
	}
	_, err := s.Save(ctx, "app-2", 9, applicant.New())
	require.NoError(t, err)

	latest, err := s.LatestVersion(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), latest)

	versions, err := s.Versions(ctx, "app-1")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, versions)

	_, err = s.LatestVersion(ctx, "nobody")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDocumentRoundTripsVerbatim(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	raw := `{"applicant":{"children":[{"entity_name":"Alice"}],"dob":1620604800000}}`
	doc, err := applicant.FromJSON(raw)
	require.NoError(t, err)

	_, err = s.Save(ctx, "app-1", 1, doc)
	require.NoError(t, err)

	loaded, err := s.Load(ctx, "app-1", 1)
	require.NoError(t, err)
	assert.Equal(t, raw, loaded.AsJSONString())
}
