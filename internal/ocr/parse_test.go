package ocr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentityFullDocument(t *testing.T) {
	identity := ParseIdentity("Jane Doe\nID:123\n1990-05-21")

	assert.Equal(t, "Jane Doe", identity.Name)
	require.NotNil(t, identity.DateOfBirth)
	assert.Equal(t, time.Date(1990, 5, 21, 0, 0, 0, 0, time.UTC), *identity.DateOfBirth)
	assert.True(t, identity.Verified())
}

func TestParseIdentityEmptyText(t *testing.T) {
	identity := ParseIdentity("")

	assert.Equal(t, UnknownName, identity.Name)
	assert.Nil(t, identity.DateOfBirth)
	assert.False(t, identity.Verified())
}

func TestParseIdentityBlankLines(t *testing.T) {
	identity := ParseIdentity("   \n\t\n  John Smith  \nsomething else")

	assert.Equal(t, "John Smith", identity.Name)
	assert.Nil(t, identity.DateOfBirth)
}

func TestParseIdentitySkipsImpossibleDates(t *testing.T) {
	identity := ParseIdentity("Ann\n1990-13-45\n1991-02-03")

	require.NotNil(t, identity.DateOfBirth)
	assert.Equal(t, time.Date(1991, 2, 3, 0, 0, 0, 0, time.UTC), *identity.DateOfBirth)
}

func TestParseIdentityIsDeterministic(t *testing.T) {
	text := "Jane Doe\n1990-05-21"
	first := ParseIdentity(text)
	second := ParseIdentity(text)

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, *first.DateOfBirth, *second.DateOfBirth)
	assert.Equal(t, first.RawText, second.RawText)
}

func TestParseIdentityDateOnlyDocument(t *testing.T) {
	// The first-line heuristic takes whatever line comes first, including a
	// date. That is the documented policy, not an accident.
	identity := ParseIdentity("1990-05-21\n")

	assert.Equal(t, "1990-05-21", identity.Name)
	require.NotNil(t, identity.DateOfBirth)
}
