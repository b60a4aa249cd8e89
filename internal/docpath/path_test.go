package docpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	tests := []string{
		"applicant",
		"applicant.name.first_name",
		"applicant.children[3].name",
		"applicant.children[0].jobs[2].income",
		"a.b[10].c",
	}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			p, err := Parse(s)
			require.NoError(t, err)
			assert.Equal(t, s, p.String())
		})
	}
}

func TestParseStripsJSONPathPrefix(t *testing.T) {
	p, err := Parse("$.applicant.name.first_name")
	require.NoError(t, err)
	assert.Equal(t, "applicant.name.first_name", p.String())
}

func TestParseEmptyIsRoot(t *testing.T) {
	p, err := Parse("")
	require.NoError(t, err)
	assert.True(t, p.IsRoot())
	assert.Equal(t, "", p.String())
}

func TestParseMalformed(t *testing.T) {
	tests := []string{
		"a..b",
		"a.[3]",
		"a.b[",
		"a.b[x]",
		"a.b[-1]",
		"a.b]c",
	}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			_, err := Parse(s)
			assert.Error(t, err)
		})
	}
}

func TestJoinAndAtIndex(t *testing.T) {
	p := MustParse("applicant").Join("children").AtIndex(2).Join("name")
	assert.Equal(t, "applicant.children[2].name", p.String())
}

func TestJoinIndexedSegment(t *testing.T) {
	p := MustParse("applicant").Join("children[4]")
	assert.Equal(t, "applicant.children[4]", p.String())
	assert.True(t, p.IsArrayElement())
	assert.Equal(t, 4, p.ArrayIndex())
}

func TestAtIndexReplacesExistingIndex(t *testing.T) {
	p := MustParse("applicant.children[1]").AtIndex(7)
	assert.Equal(t, "applicant.children[7]", p.String())
}

func TestWithoutArrayReference(t *testing.T) {
	p := MustParse("applicant.children[3]")
	assert.Equal(t, "applicant.children", p.WithoutArrayReference().String())

	// Already bare paths are unchanged.
	bare := MustParse("applicant.children")
	assert.Equal(t, "applicant.children", bare.WithoutArrayReference().String())
}

func TestParentPath(t *testing.T) {
	p := MustParse("applicant.children[3].name")
	assert.Equal(t, "applicant.children[3]", p.ParentPath().String())
	assert.Equal(t, "applicant", p.ParentPath().ParentPath().String())
}

func TestParentPathOfRootPanics(t *testing.T) {
	assert.Panics(t, func() {
		Root.ParentPath()
	})
}

func TestArrayIndexOnNonArrayPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustParse("applicant.children").ArrayIndex()
	})
}

func TestKeyName(t *testing.T) {
	assert.Equal(t, "name", MustParse("applicant.children[3].name").KeyName())
	assert.Equal(t, "children", MustParse("applicant.children[3]").KeyName())
	assert.Equal(t, "", Root.KeyName())
}

func TestEqualIgnoresConstructionRoute(t *testing.T) {
	a := MustParse("applicant.children[3].name")
	b := MustParse("applicant").Join("children").AtIndex(3).Join("name")
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.String(), b.String())

	c := MustParse("applicant.children[4].name")
	assert.False(t, a.Equal(c))
}

func TestJoinKeyLiteral(t *testing.T) {
	p := Root.JoinKey("weird[key]")
	assert.Equal(t, "weird[key]", p.KeyName())
	assert.False(t, p.IsArrayElement())
}

func TestDerivationsDoNotMutate(t *testing.T) {
	p := MustParse("applicant.children")
	_ = p.AtIndex(5)
	_ = p.Join("name")
	assert.Equal(t, "applicant.children", p.String())
}
