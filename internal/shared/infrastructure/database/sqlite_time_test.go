package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTime_SortsLexically(t *testing.T) {
	early := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	late := early.Add(1500 * time.Millisecond)

	assert.Less(t, FormatTime(early), FormatTime(late))
	assert.Len(t, FormatTime(early), len(FormatTime(late)))
}

func TestParseTime_RoundTrip(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	in := time.Date(2026, 3, 1, 9, 30, 15, 123456000, loc)

	out, err := ParseTime(FormatTime(in))
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
	assert.Equal(t, time.UTC, out.Location())
}

func TestParseTime_AcceptsRFC3339(t *testing.T) {
	out, err := ParseTime("2026-03-01T09:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, 7, out.Hour())
}

func TestNullTime(t *testing.T) {
	assert.False(t, FormatNullTime(nil).Valid)

	got, err := ParseNullTime(sql.NullString{})
	require.NoError(t, err)
	assert.Nil(t, got)

	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	got, err = ParseNullTime(FormatNullTime(&at))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, at.Equal(*got))
}
