package applicant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicantName(t *testing.T) {
	d := New()
	require.NoError(t, d.PutString(FirstNamePath, "Jane"))
	require.NoError(t, d.PutString(LastNamePath, "Doe"))
	assert.Equal(t, "Doe, Jane", d.ApplicantName())
}

func TestApplicantNameFirstOnly(t *testing.T) {
	d := New()
	require.NoError(t, d.PutString(FirstNamePath, "Cher"))
	assert.Equal(t, "Cher", d.ApplicantName())
}

func TestApplicantNameAnonymous(t *testing.T) {
	d := New()
	assert.Equal(t, AnonymousApplicant, d.ApplicantName())
}

func TestSetUserName(t *testing.T) {
	tests := []struct {
		display string
		first   string
		middle  string
		last    string
	}{
		{"Jane Doe", "Jane", "", "Doe"},
		{"Jane Q Doe", "Jane", "Q", "Doe"},
		{"Cher", "Cher", "", ""},
		{"Anna Maria von Braun", "Anna Maria von Braun", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.display, func(t *testing.T) {
			d := New()
			require.NoError(t, d.SetUserName(tc.display))

			first, _ := d.ReadString(FirstNamePath)
			assert.Equal(t, tc.first, first)

			middle, ok := d.ReadString(MiddleNamePath)
			assert.Equal(t, tc.middle != "", ok)
			assert.Equal(t, tc.middle, middle)

			last, ok := d.ReadString(LastNamePath)
			assert.Equal(t, tc.last != "", ok)
			assert.Equal(t, tc.last, last)
		})
	}
}

func TestSetUserNamePartsKeepsExistingAnswers(t *testing.T) {
	d := New()
	require.NoError(t, d.PutString(FirstNamePath, "Aisha"))

	require.NoError(t, d.SetUserNameParts("Jane", "Q", "Doe"))

	first, _ := d.ReadString(FirstNamePath)
	assert.Equal(t, "Aisha", first)
	middle, _ := d.ReadString(MiddleNamePath)
	assert.Equal(t, "Q", middle)
	last, _ := d.ReadString(LastNamePath)
	assert.Equal(t, "Doe", last)
}
