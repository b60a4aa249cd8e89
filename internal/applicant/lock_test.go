package applicant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/openbenefits/formd/internal/docpath"
)

func TestLockIsOneWay(t *testing.T) {
	d := New()
	assert.False(t, d.Locked())
	d.Lock()
	assert.True(t, d.Locked())
	d.Lock()
	assert.True(t, d.Locked())
}

func TestLockedDocumentRejectsAllMutators(t *testing.T) {
	d := New()
	path := docpath.MustParse("applicant.color")
	require.NoError(t, d.PutString(path, "blue"))
	d.Lock()

	children := docpath.MustParse("applicant.children")

	tests := []struct {
		name string
		call func() error
	}{
		{"PutString", func() error { return d.PutString(path, "red") }},
		{"PutLong", func() error { return d.PutLong(path, 1) }},
		{"PutLongString", func() error { return d.PutLongString(path, "1") }},
		{"PutDate", func() error { return d.PutDate(path, "2021-05-10") }},
		{"PutCurrencyDollars", func() error { return d.PutCurrencyDollars(path, "1.00") }},
		{"PutLongList", func() error { return d.PutLongList(path, []int64{1}) }},
		{"PutRepeatedEntities", func() error { return d.PutRepeatedEntities(children, []string{"A"}) }},
		{"MaybeDelete", func() error { return d.MaybeDelete(path) }},
		{"MaybeClearArray", func() error { return d.MaybeClearArray(children.AtIndex(0)) }},
		{"DeleteRepeatedEntities", func() error {
			_, err := d.DeleteRepeatedEntities(children, []int{0})
			return err
		}},
		{"MaybeClearRepeatedEntities", func() error {
			_, err := d.MaybeClearRepeatedEntities(children)
			return err
		}},
		{"MergeFrom", func() error {
			_, err := d.MergeFrom(New())
			return err
		}},
		{"SetPreferredLocale", func() error { return d.SetPreferredLocale(language.Spanish) }},
		{"SetUserName", func() error { return d.SetUserName("Jane Doe") }},
		{"SetUserNameParts", func() error { return d.SetUserNameParts("Jane", "", "Doe") }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.call(), ErrLocked)
		})
	}

	// Reads keep working after the lock.
	got, ok := d.ReadString(path)
	assert.True(t, ok)
	assert.Equal(t, "blue", got)
	assert.Equal(t, `{"applicant":{"color":"blue"}}`, d.AsJSONString())
}
