package base

import (
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/meos-project/meos/mtype"
	"github.com/meos-project/meos/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampRoundTrip(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2001-01-01 08:00:00+00", "2001-01-01 08:00:00+00"},
		{"2001-01-01T08:00:00Z", "2001-01-01 08:00:00+00"},
		{"2001-01-01 10:00:00+02", "2001-01-01 08:00:00+00"},
		{"2001-01-01", "2001-01-01 00:00:00+00"},
		{"2001-01-01 08:00:00.25+00", "2001-01-01 08:00:00.25+00"},
	}
	for _, test := range tests {
		usec, err := ParseTimestampTz(test.input)
		require.NoError(t, err, "input %q", test.input)
		expect.EQ(t, FormatTimestampTz(usec), test.want)
	}
	_, err := ParseTimestampTz("not a time")
	require.Error(t, err)
	assert.Equal(t, ErrInvalidText, Kind(err))
}

func TestDateRoundTrip(t *testing.T) {
	days, err := ParseDate("2000-02-29")
	require.NoError(t, err)
	expect.EQ(t, FormatDate(days), "2000-02-29")

	next, err := ParseDate("2000-03-01")
	require.NoError(t, err)
	expect.EQ(t, next, days+1)
}

func TestDateTimestampPromotion(t *testing.T) {
	days, err := ParseDate("2001-01-01")
	require.NoError(t, err)
	usec := DateToTimestampTz(days)
	expect.EQ(t, FormatTimestampTz(usec), "2001-01-01 00:00:00+00")
	expect.EQ(t, TimestampTzToDate(usec), days)
	expect.EQ(t, TimestampTzToDate(usec+3600e6), days)
}

func TestFromTextOutRoundTrip(t *testing.T) {
	tests := []struct {
		typ  mtype.Type
		text string
		out  string
	}{
		{mtype.Bool, "t", "t"},
		{mtype.Bool, "FALSE", "f"},
		{mtype.Int, " 42 ", "42"},
		{mtype.BigInt, "-9000000000", "-9000000000"},
		{mtype.Float, "2.5", "2.5"},
		{mtype.Text, `hello`, `"hello"`},
		{mtype.Date, "2001-06-15", "2001-06-15"},
		{mtype.TimestampTz, "2001-01-01 08:00:00+00", "2001-01-01 08:00:00+00"},
		{mtype.Geometry, "POINT(1 2)", "POINT(1 2)"},
		{mtype.NPoint, "NPOINT(5,0.5)", "NPOINT(5,0.5)"},
	}
	for _, test := range tests {
		d, err := FromText(test.text, test.typ)
		require.NoError(t, err, "input %q", test.text)
		got, err := Out(d, test.typ, MaxDigits)
		require.NoError(t, err)
		expect.EQ(t, got, test.out, "type %s", test.typ)
	}
}

func TestTextEscapes(t *testing.T) {
	d, err := FromText(`say \"hi\"`, mtype.Text)
	require.NoError(t, err)
	assert.Equal(t, `say "hi"`, d.Text())
	out, err := Out(d, mtype.Text, 0)
	require.NoError(t, err)
	assert.Equal(t, `"say \"hi\""`, out)
}

func TestParseElemStopsAtDelimiters(t *testing.T) {
	cur := scan.New(" 10, 20}")
	d, err := ParseElem(cur, mtype.Int)
	require.NoError(t, err)
	expect.EQ(t, d.Int32(), int32(10))
	expect.True(t, cur.TryComma())
}

func TestParseAt(t *testing.T) {
	cur := scan.New("1.5@2001-01-01 00:00:00+00")
	d, err := ParseAt(cur, mtype.Float)
	require.NoError(t, err)
	expect.EQ(t, d.Float8(), 1.5)
	usec, err := ParseTimestamp(cur)
	require.NoError(t, err)
	expect.EQ(t, FormatTimestampTz(usec), "2001-01-01 00:00:00+00")

	_, err = ParseAt(scan.New("no-at-sign"), mtype.Int)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing delimiter character '@'")
}

func TestCmp(t *testing.T) {
	tests := []struct {
		typ  mtype.Type
		a, b Datum
		want int
	}{
		{mtype.Int, Int32Datum(1), Int32Datum(2), -1},
		{mtype.Int, Int32Datum(-1), Int32Datum(-1), 0},
		{mtype.BigInt, Int64Datum(5), Int64Datum(-5), 1},
		{mtype.Float, Float8Datum(1.5), Float8Datum(1.6), -1},
		{mtype.Text, TextDatum("abc"), TextDatum("abd"), -1},
		{mtype.Date, DateDatum(10), DateDatum(9), 1},
	}
	for _, test := range tests {
		expect.EQ(t, Cmp(test.a, test.b, test.typ), test.want)
		expect.EQ(t, Cmp(test.b, test.a, test.typ), -test.want)
	}
}

func TestArith(t *testing.T) {
	expect.EQ(t, Add(Int32Datum(2), Int32Datum(3), mtype.Int).Int32(), int32(5))
	expect.EQ(t, Sub(Float8Datum(2), Float8Datum(3), mtype.Float).Float8(), -1.0)
	expect.EQ(t, Distance(Int32Datum(2), Int32Datum(7), mtype.Int).Int32(), int32(5))
	expect.EQ(t, IncrBound(DateDatum(7), mtype.Date).Date(), int32(8))
	expect.EQ(t, IncrBound(Float8Datum(7), mtype.Float).Float8(), 7.0)
	expect.EQ(t, DecrBound(Int64Datum(7), mtype.BigInt).Int64(), int64(6))
}

func TestHashAgreesWithEq(t *testing.T) {
	pairs := []struct {
		typ  mtype.Type
		a, b Datum
	}{
		{mtype.Int, Int32Datum(7), Int32Datum(7)},
		{mtype.Float, Float8Datum(0), Float8Datum(negZero())},
		{mtype.Text, TextDatum("x"), TextDatum("x")},
	}
	for _, p := range pairs {
		require.True(t, Eq(p.a, p.b, p.typ))
		expect.EQ(t, Hash32(p.a, p.typ), Hash32(p.b, p.typ))
		expect.EQ(t, Hash64(p.a, p.typ, 17), Hash64(p.b, p.typ, 17))
	}
	// Distinct seeds give distinct hash families.
	d := TextDatum("seed-me")
	assert.NotEqual(t, Hash64(d, mtype.Text, 1), Hash64(d, mtype.Text, 2))
}

func negZero() float64 {
	z := 0.0
	return -z
}

func TestErrorKinds(t *testing.T) {
	err := TextErrorf("Could not parse span")
	assert.Equal(t, ErrInvalidText, Kind(err))
	err = ValueErrorf("Span cannot be empty")
	assert.Equal(t, ErrInvalidArgValue, Kind(err))
	assert.Nil(t, Kind(nil))
}

func TestDatumCopyIsDeep(t *testing.T) {
	d := TextDatum("abc")
	c := d.Copy()
	d.Ref()[0] = 'x'
	assert.Equal(t, "abc", c.Text())
}
