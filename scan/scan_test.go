package scan

import (
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelimiters(t *testing.T) {
	cur := New("  { [ ( , ) ] }  ")
	expect.True(t, cur.TryOBrace())
	expect.True(t, cur.TryOBracket())
	expect.True(t, cur.TryOParen())
	expect.True(t, cur.TryComma())
	expect.True(t, cur.TryCParen())
	expect.True(t, cur.TryCBracket())
	expect.True(t, cur.TryCBrace())
	expect.NoError(t, cur.End("test"))
}

func TestEndRejectsTrailingGarbage(t *testing.T) {
	cur := New(" x")
	err := cur.End("span")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Extraneous characters at the end")
}

func TestMatchPrefixFold(t *testing.T) {
	cur := New("interp=step;[1@2000-01-01]")
	expect.True(t, cur.MatchPrefixFold("Interp=Step;"))
	expect.EQ(t, cur.Peek(), byte('['))

	cur = New("TBOXINT X")
	expect.True(t, cur.MatchPrefixFold("TBOXINT"))
	cur = New("TBOX")
	assert.False(t, cur.MatchPrefixFold("TBOXINT"))
	// A failed match consumes nothing.
	expect.True(t, cur.MatchPrefixFold("TBOX"))
}

func TestSRID(t *testing.T) {
	cur := New("SRID=4326;POINT(0 0)")
	srid, ok := cur.SRID()
	require.True(t, ok)
	assert.Equal(t, int32(4326), srid)
	expect.EQ(t, cur.Rest(), "POINT(0 0)")

	cur = New("srid=21,rest")
	srid, ok = cur.SRID()
	require.True(t, ok)
	assert.Equal(t, int32(21), srid)
	expect.EQ(t, cur.Rest(), "rest")

	cur = New("{1, 2}")
	_, ok = cur.SRID()
	assert.False(t, ok)
	expect.EQ(t, cur.Rest(), "{1, 2}")
}

func TestDouble(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		rest  string
	}{
		{"1.5,", 1.5, ","},
		{"  -2e3)", -2000, ")"},
		{"7", 7, ""},
		{"+0.25 ", 0.25, " "},
	}
	for _, test := range tests {
		cur := New(test.input)
		got, err := cur.Double()
		expect.NoError(t, err, "input %q", test.input)
		expect.EQ(t, got, test.want)
		expect.EQ(t, cur.Rest(), test.rest)
	}
	_, err := New("abc").Double()
	require.Error(t, err)
}

func TestDelimitedText(t *testing.T) {
	cur := New("  2001-01-01 08:00:00+00, more")
	expect.EQ(t, cur.TimestampText(), "2001-01-01 08:00:00+00")
	expect.True(t, cur.TryComma())
}

func TestQuotedText(t *testing.T) {
	cur := New(`  "say \"hi\"" rest`)
	text, err := cur.QuotedText()
	require.NoError(t, err)
	assert.Equal(t, `say \"hi\"`, text)
	expect.EQ(t, cur.Rest(), " rest")

	_, err = New(`"unterminated`).QuotedText()
	require.Error(t, err)
}

func TestSeek(t *testing.T) {
	cur := New("{[1,2]}")
	pos := cur.Pos()
	expect.True(t, cur.TryOBrace())
	expect.EQ(t, cur.Peek(), byte('['))
	cur.Seek(pos)
	expect.EQ(t, cur.Peek(), byte('{'))
}
