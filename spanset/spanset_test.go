package spanset

import (
	"testing"
	"time"

	"github.com/grailbio/testutil/expect"
	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/mtype"
	"github.com/meos-project/meos/span"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustIn(t *testing.T, text string, typ mtype.Type) *SpanSet {
	t.Helper()
	ss, err := In(text, typ)
	require.NoError(t, err, "input %q", text)
	return ss
}

func TestParseNormalizes(t *testing.T) {
	ss := mustIn(t, "{[1.0, 2.0], [1.5, 3.0], [5.0, 6.0]}", mtype.FloatSpanSet)
	expect.EQ(t, ss.Count(), 2)
	expect.EQ(t, ss.String(), "{[1, 3], [5, 6]}")
}

func TestParseMergesAdjacentCanonical(t *testing.T) {
	ss := mustIn(t, "{[1, 2], [3, 4]}", mtype.IntSpanSet)
	// Canonicalized to [1, 3) and [3, 5), which touch.
	expect.EQ(t, ss.Count(), 1)
	expect.EQ(t, ss.String(), "{[1, 5)}")
}

func TestEmptySpanRejected(t *testing.T) {
	_, err := In("{[1,2], (3,4), (5,5)}", mtype.FloatSpanSet)
	require.Error(t, err)
	assert.Equal(t, base.ErrInvalidText, base.Kind(err))
	assert.Contains(t, err.Error(), "Span cannot be empty")
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		typ  mtype.Type
		text string
	}{
		{mtype.IntSpanSet, "{[1, 3), [5, 9)}"},
		{mtype.FloatSpanSet, "{[1.5, 2.5], (3.5, 4.5)}"},
		{mtype.DateSpanSet, "{[2000-01-01, 2000-01-10), [2000-02-01, 2000-02-03)}"},
		{mtype.TstzSpanSet, "{[2001-01-01 00:00:00+00, 2001-01-02 00:00:00+00]}"},
	}
	for _, test := range tests {
		ss := mustIn(t, test.text, test.typ)
		out, err := ss.Out(base.MaxDigits)
		require.NoError(t, err)
		back, err := In(out, test.typ)
		require.NoError(t, err)
		assert.True(t, ss.Eq(back), "input %q printed as %q", test.text, out)
	}
}

func TestDisjointInvariant(t *testing.T) {
	ss := mustIn(t, "{[5.0, 6.0], [1.0, 2.0], [3.0, 4.0]}", mtype.FloatSpanSet)
	spans := ss.Spans()
	for i := 0; i+1 < len(spans); i++ {
		cmp := base.Cmp(spans[i].Upper, spans[i+1].Lower, ss.BaseType())
		ok := cmp < 0 || (cmp == 0 && !(spans[i].UpperInc && spans[i+1].LowerInc))
		assert.True(t, ok, "spans %s and %s", spans[i], spans[i+1])
	}
}

func TestBoundCoversExtremes(t *testing.T) {
	ss := mustIn(t, "{(1.0, 2.0], [5.0, 6.0)}", mtype.FloatSpanSet)
	bound := ss.Bound()
	expect.EQ(t, bound.Lower.Float8(), 1.0)
	expect.EQ(t, bound.Upper.Float8(), 6.0)
	assert.False(t, bound.LowerInc)
	assert.False(t, bound.UpperInc)
}

func TestMakeOrderedRejectsOverlap(t *testing.T) {
	a, err := span.In("[1.0, 3.0]", mtype.FloatSpan)
	require.NoError(t, err)
	b, err := span.In("[2.0, 4.0]", mtype.FloatSpan)
	require.NoError(t, err)
	_, err = Make([]span.Span{a, b}, false, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be increasing")
}

func TestFromSpan(t *testing.T) {
	sp, err := span.In("[1, 4)", mtype.IntSpan)
	require.NoError(t, err)
	ss, err := FromSpan(sp)
	require.NoError(t, err)
	expect.EQ(t, ss.Count(), 1)
	assert.True(t, ss.Bound().Eq(sp))
}

func TestContains(t *testing.T) {
	ss := mustIn(t, "{[1, 3), [5, 9)}", mtype.IntSpanSet)
	assert.True(t, ss.Contains(base.Int32Datum(2)))
	assert.False(t, ss.Contains(base.Int32Datum(3)))
	assert.False(t, ss.Contains(base.Int32Datum(4)))
	assert.True(t, ss.Contains(base.Int32Datum(8)))
	assert.False(t, ss.Contains(base.Int32Datum(9)))
}

func TestSpanN(t *testing.T) {
	ss := mustIn(t, "{[1, 3), [5, 9)}", mtype.IntSpanSet)
	sp, err := ss.SpanN(2)
	require.NoError(t, err)
	expect.EQ(t, sp.Out(0), "[5, 9)")
	_, err = ss.SpanN(0)
	require.Error(t, err)
	_, err = ss.SpanN(3)
	require.Error(t, err)
}

func TestSplitN(t *testing.T) {
	ss := mustIn(t,
		"{[2000-01-01, 2000-01-10), [2000-01-20, 2000-01-25), [2000-02-01, 2000-02-03)}",
		mtype.DateSpanSet)

	// More target spans than composing spans: passthrough.
	spans, err := ss.SplitN(5)
	require.NoError(t, err)
	expect.EQ(t, len(spans), 3)

	// The smallest gap (7 days, between the last two spans) is filled.
	spans, err = ss.SplitN(2)
	require.NoError(t, err)
	require.Equal(t, 2, len(spans))
	expect.EQ(t, spans[0].Out(0), "[2000-01-01, 2000-01-10)")
	expect.EQ(t, spans[1].Out(0), "[2000-01-20, 2000-02-03)")

	// A single target span covers the whole extent.
	spans, err = ss.SplitN(1)
	require.NoError(t, err)
	require.Equal(t, 1, len(spans))
	expect.EQ(t, spans[0].Out(0), "[2000-01-01, 2000-02-03)")

	_, err = ss.SplitN(0)
	assert.Equal(t, base.ErrInvalidArgValue, base.Kind(err))
}

func TestSplitEachN(t *testing.T) {
	ss := mustIn(t, "{[1, 2), [3, 4), [5, 6), [7, 8)}", mtype.IntSpanSet)
	spans, err := ss.SplitEachN(2)
	require.NoError(t, err)
	require.Equal(t, 2, len(spans))
	expect.EQ(t, spans[0].Out(0), "[1, 4)")
	expect.EQ(t, spans[1].Out(0), "[5, 8)")

	spans, err = ss.SplitEachN(3)
	require.NoError(t, err)
	require.Equal(t, 2, len(spans))
	expect.EQ(t, spans[0].Out(0), "[1, 6)")
	expect.EQ(t, spans[1].Out(0), "[7, 8)")
}

func TestDateAccessors(t *testing.T) {
	ss := mustIn(t, "{[2000-01-01, 2000-01-10), [2000-02-01, 2000-02-03)}", mtype.DateSpanSet)
	n, err := ss.NumDates()
	require.NoError(t, err)
	expect.EQ(t, n, 4)
	d1, err := ss.DateN(1)
	require.NoError(t, err)
	expect.EQ(t, base.FormatDate(d1), "2000-01-01")
	d2, err := ss.DateN(2)
	require.NoError(t, err)
	expect.EQ(t, base.FormatDate(d2), "2000-01-10")
	d4, err := ss.DateN(4)
	require.NoError(t, err)
	expect.EQ(t, base.FormatDate(d4), "2000-02-03")
	_, err = ss.DateN(5)
	require.Error(t, err)
}

func TestTimestampsDedup(t *testing.T) {
	// Both seam bounds exclusive: the spans stay separate and share the
	// timestamp 2001-01-02, which is enumerated once.
	ss := mustIn(t,
		"{(2001-01-01 00:00:00+00, 2001-01-02 00:00:00+00), (2001-01-02 00:00:00+00, 2001-01-03 00:00:00+00)}",
		mtype.TstzSpanSet)
	require.Equal(t, 2, ss.Count())
	ts, err := ss.Timestamps()
	require.NoError(t, err)
	require.Equal(t, 3, len(ts))
	expect.EQ(t, base.FormatTimestampTz(ts[1]), "2001-01-02 00:00:00+00")
}

func TestDuration(t *testing.T) {
	ss := mustIn(t,
		"{[2001-01-01 00:00:00+00, 2001-01-02 00:00:00+00), [2001-01-05 00:00:00+00, 2001-01-06 00:00:00+00)}",
		mtype.TstzSpanSet)
	total, err := ss.Duration(false)
	require.NoError(t, err)
	expect.EQ(t, total, 48*time.Hour)
	bound, err := ss.Duration(true)
	require.NoError(t, err)
	expect.EQ(t, bound, 120*time.Hour)
}

func TestShiftScale(t *testing.T) {
	ss := mustIn(t, "{[0.0, 10.0], [20.0, 30.0]}", mtype.FloatSpanSet)
	shifted, err := ss.ShiftScale(base.Float8Datum(5), base.Datum{}, true, false)
	require.NoError(t, err)
	expect.EQ(t, shifted.String(), "{[5, 15], [25, 35]}")

	scaled, err := ss.ShiftScale(base.Datum{}, base.Float8Datum(15), false, true)
	require.NoError(t, err)
	expect.EQ(t, scaled.String(), "{[0, 5], [10, 15]}")

	_, err = ss.ShiftScale(base.Datum{}, base.Float8Datum(-3), false, true)
	assert.Equal(t, base.ErrInvalidArgValue, base.Kind(err))
}

func TestShiftScaleDates(t *testing.T) {
	ss := mustIn(t, "{[2000-01-01, 2000-01-03), [2000-01-05, 2000-01-07)}", mtype.DateSpanSet)
	shifted, err := ss.ShiftScaleTime(10*24*time.Hour, 0, true, false)
	require.NoError(t, err)
	expect.EQ(t, shifted.String(), "{[2000-01-11, 2000-01-13), [2000-01-15, 2000-01-17)}")
}

func TestHashAgreesWithEq(t *testing.T) {
	a := mustIn(t, "{[1, 3), [5, 9)}", mtype.IntSpanSet)
	b := mustIn(t, "{[1, 2], [5, 8]}", mtype.IntSpanSet)
	require.True(t, a.Eq(b))
	expect.EQ(t, a.Hash32(), b.Hash32())
	expect.EQ(t, a.Hash64(3), b.Hash64(3))
	expect.EQ(t, a.Fingerprint(), b.Fingerprint())
}

func TestFloatTransforms(t *testing.T) {
	ss := mustIn(t, "{[1.26, 2.5], [7.1, 8.9]}", mtype.FloatSpanSet)
	rounded, err := ss.Round(1)
	require.NoError(t, err)
	expect.EQ(t, rounded.String(), "{[1.3, 2.5], [7.1, 8.9]}")

	floored, err := ss.Floor()
	require.NoError(t, err)
	expect.EQ(t, floored.String(), "{[1, 2], [7, 8]}")
}
