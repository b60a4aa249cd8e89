package applicant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbenefits/formd/internal/docpath"
)

func TestPutStringThenRead(t *testing.T) {
	d := New()
	path := docpath.MustParse("applicant.favorite_color.text")

	require.NoError(t, d.PutString(path, "yellow"))
	got, ok := d.ReadString(path)
	assert.True(t, ok)
	assert.Equal(t, "yellow", got)
	assert.True(t, d.HasPath(path))
	assert.True(t, d.HasValueAtPath(path))
}

func TestPutEmptyStringClearsAnswer(t *testing.T) {
	d := New()
	path := docpath.MustParse("applicant.favorite_color.text")

	require.NoError(t, d.PutString(path, "yellow"))
	require.NoError(t, d.PutString(path, ""))

	assert.False(t, d.HasPath(path))
	_, ok := d.ReadString(path)
	assert.False(t, ok)
}

func TestPutEmptyStringOnArrayElementIsNoOp(t *testing.T) {
	d := New()
	require.NoError(t, d.PutRepeatedEntities(docpath.MustParse("applicant.children"), []string{"Alice", "Bob"}))

	// Clearing a slot would shift its siblings, so nothing happens.
	require.NoError(t, d.PutString(docpath.MustParse("applicant.children[0]"), ""))
	assert.Equal(t, []string{"Alice", "Bob"}, d.ReadRepeatedEntities(docpath.MustParse("applicant.children")))
}

func TestPutLongThenRead(t *testing.T) {
	d := New()
	path := docpath.MustParse("applicant.age")

	require.NoError(t, d.PutLong(path, 34))
	got, ok := d.ReadLong(path)
	assert.True(t, ok)
	assert.Equal(t, int64(34), got)
}

func TestPutLongString(t *testing.T) {
	d := New()
	path := docpath.MustParse("applicant.age")

	require.NoError(t, d.PutLongString(path, "34"))
	got, ok := d.ReadLong(path)
	assert.True(t, ok)
	assert.Equal(t, int64(34), got)

	assert.Error(t, d.PutLongString(path, "not a number"))

	require.NoError(t, d.PutLongString(path, ""))
	assert.False(t, d.HasPath(path))
}

func TestPutDateThenRead(t *testing.T) {
	d := New()
	path := docpath.MustParse("applicant.dob")

	require.NoError(t, d.PutDate(path, "2021-05-10"))

	// Stored as epoch milliseconds at UTC midnight.
	ms, ok := d.ReadLong(path)
	assert.True(t, ok)
	assert.Equal(t, int64(1620604800000), ms)

	date, ok := d.ReadDate(path)
	require.True(t, ok)
	assert.Equal(t, 2021, date.Year())
	assert.Equal(t, time.May, date.Month())
	assert.Equal(t, 10, date.Day())
}

func TestPutDateMalformed(t *testing.T) {
	d := New()
	path := docpath.MustParse("applicant.dob")

	assert.Error(t, d.PutDate(path, "05/10/2021"))
	assert.False(t, d.HasPath(path))
}

func TestPutDateEmptyClears(t *testing.T) {
	d := New()
	path := docpath.MustParse("applicant.dob")

	require.NoError(t, d.PutDate(path, "2021-05-10"))
	require.NoError(t, d.PutDate(path, ""))
	assert.False(t, d.HasPath(path))
}

func TestPutCurrencyDollarsThenRead(t *testing.T) {
	d := New()
	path := docpath.MustParse("applicant.income")

	require.NoError(t, d.PutCurrencyDollars(path, "1,234.56"))
	c, ok := d.ReadCurrency(path)
	require.True(t, ok)
	assert.Equal(t, int64(123456), c.Cents())
	assert.Equal(t, "1,234.56", c.DollarsString())

	assert.Error(t, d.PutCurrencyDollars(path, "12.3"))
}

func TestPutLongListThenRead(t *testing.T) {
	d := New()
	path := docpath.MustParse("applicant.selections")

	require.NoError(t, d.PutLongList(path, []int64{1, 2, 3}))
	got, ok := d.ReadLongList(path)
	assert.True(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestReadKindMismatchResolvesToAbsent(t *testing.T) {
	d := New()
	path := docpath.MustParse("applicant.age")
	require.NoError(t, d.PutString(path, "thirty-four"))

	_, ok := d.ReadLong(path)
	assert.False(t, ok)
	_, ok = d.ReadDate(path)
	assert.False(t, ok)
	_, ok = d.ReadLongList(path)
	assert.False(t, ok)

	// The value is still there; only the typed read misses.
	assert.True(t, d.HasPath(path))
}

func TestReadLongListRejectsMixedElements(t *testing.T) {
	d, err := FromJSON(`{"applicant":{"selections":[1,"two",3]}}`)
	require.NoError(t, err)

	_, ok := d.ReadLongList(docpath.MustParse("applicant.selections"))
	assert.False(t, ok)
}

func TestHasValueAtPathWithExplicitNull(t *testing.T) {
	d, err := FromJSON(`{"applicant":{"note":null}}`)
	require.NoError(t, err)

	path := docpath.MustParse("applicant.note")
	assert.True(t, d.HasPath(path))
	assert.False(t, d.HasValueAtPath(path))
}

func TestReadAsString(t *testing.T) {
	d := New()
	require.NoError(t, d.PutLongList(docpath.MustParse("applicant.selections"), []int64{1, 2, 3}))
	require.NoError(t, d.PutString(docpath.MustParse("applicant.color"), "blue"))
	require.NoError(t, d.PutLongList(docpath.MustParse("applicant.empty"), nil))

	got, ok := d.ReadAsString(docpath.MustParse("applicant.selections"))
	assert.True(t, ok)
	assert.Equal(t, "[1, 2, 3]", got)

	got, ok = d.ReadAsString(docpath.MustParse("applicant.color"))
	assert.True(t, ok)
	assert.Equal(t, "blue", got)

	got, ok = d.ReadAsString(docpath.MustParse("applicant.empty"))
	assert.True(t, ok)
	assert.Equal(t, "[]", got)

	_, ok = d.ReadAsString(docpath.MustParse("applicant.missing"))
	assert.False(t, ok)
}

func TestPutCreatesMissingAncestors(t *testing.T) {
	d := New()
	path := docpath.MustParse("applicant.household.address.street")

	require.NoError(t, d.PutString(path, "123 Main St"))
	assert.True(t, d.HasPath(docpath.MustParse("applicant.household")))
	assert.True(t, d.HasPath(docpath.MustParse("applicant.household.address")))
	got, _ := d.ReadString(path)
	assert.Equal(t, "123 Main St", got)
}

func TestPutThroughArrayFillsLowerSlots(t *testing.T) {
	d := New()
	require.NoError(t, d.PutString(docpath.MustParse("applicant.children[2].entity_name"), "Cara"))

	children := docpath.MustParse("applicant.children")
	for i := 0; i <= 2; i++ {
		assert.True(t, d.HasPath(children.AtIndex(i)), "index %d must exist", i)
	}
	assert.False(t, d.HasPath(children.AtIndex(3)))
	assert.Equal(t, []string{"", "", "Cara"}, d.ReadRepeatedEntities(children))
}

func TestPutAtIndexedLeaf(t *testing.T) {
	d := New()
	scores := docpath.MustParse("applicant.scores")

	require.NoError(t, d.PutLong(scores.AtIndex(3), 7))
	for i := 0; i <= 3; i++ {
		assert.True(t, d.HasPath(scores.AtIndex(i)), "index %d must exist", i)
	}

	// Existing slots may be overwritten in place.
	require.NoError(t, d.PutLong(scores.AtIndex(0), 1))
	got, ok := d.ReadLong(scores.AtIndex(0))
	assert.True(t, ok)
	assert.Equal(t, int64(1), got)
	got, _ = d.ReadLong(scores.AtIndex(3))
	assert.Equal(t, int64(7), got)
}

func TestPutRootIsRejected(t *testing.T) {
	d := New()
	assert.Error(t, d.PutString(docpath.Root, "nope"))
}

func TestPutKindConflictIsError(t *testing.T) {
	d := New()
	require.NoError(t, d.PutString(docpath.MustParse("applicant.name"), "not an object"))

	err := d.PutString(docpath.MustParse("applicant.name.first_name"), "Aisha")
	require.Error(t, err)
	var mismatch *KindMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestMaybeDelete(t *testing.T) {
	d := New()
	path := docpath.MustParse("applicant.color")
	require.NoError(t, d.PutString(path, "blue"))

	require.NoError(t, d.MaybeDelete(path))
	assert.False(t, d.HasPath(path))

	// Absent paths are a no-op, not an error.
	require.NoError(t, d.MaybeDelete(path))
	require.NoError(t, d.MaybeDelete(docpath.MustParse("applicant.never.there")))
}

func TestMaybeDeleteArrayElementSplices(t *testing.T) {
	d := New()
	children := docpath.MustParse("applicant.children")
	require.NoError(t, d.PutRepeatedEntities(children, []string{"Alice", "Bob", "Cara"}))

	require.NoError(t, d.MaybeDelete(children.AtIndex(1)))
	assert.Equal(t, []string{"Alice", "Cara"}, d.ReadRepeatedEntities(children))
}

func TestMaybeClearArray(t *testing.T) {
	d := New()
	children := docpath.MustParse("applicant.children")
	require.NoError(t, d.PutRepeatedEntities(children, []string{"Alice", "Bob"}))

	require.NoError(t, d.MaybeClearArray(children.AtIndex(0)))
	assert.False(t, d.HasPath(children))

	// Non-array-element paths are left alone.
	require.NoError(t, d.PutString(docpath.MustParse("applicant.color"), "blue"))
	require.NoError(t, d.MaybeClearArray(docpath.MustParse("applicant.color")))
	assert.True(t, d.HasPath(docpath.MustParse("applicant.color")))
}
