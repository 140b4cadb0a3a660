package temporal

import (
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/mtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string, typ mtype.Type) Temporal {
	t.Helper()
	v, err := Parse(text, typ)
	require.NoError(t, err, "input %q", text)
	return v
}

func TestParseInstant(t *testing.T) {
	v := mustParse(t, "1.5@2001-01-01 08:00:00+00", mtype.TFloat)
	inst, ok := v.(*TInstant)
	require.True(t, ok)
	expect.EQ(t, inst.Value().Float8(), 1.5)
	out, err := inst.Out(base.MaxDigits)
	require.NoError(t, err)
	expect.EQ(t, out, "1.5@2001-01-01 08:00:00+00")
}

func TestParseTextInstant(t *testing.T) {
	v := mustParse(t, `"on duty"@2001-01-01 08:00:00+00`, mtype.TText)
	inst := v.(*TInstant)
	expect.EQ(t, inst.Value().Text(), "on duty")
	out, err := inst.Out(0)
	require.NoError(t, err)
	expect.EQ(t, out, `"on duty"@2001-01-01 08:00:00+00`)
}

func TestParseDiscreteSequence(t *testing.T) {
	v := mustParse(t, "{1@2001-01-01, 2@2001-01-02, 3@2001-01-03}", mtype.TInt)
	seq, ok := v.(*TSequence)
	require.True(t, ok)
	expect.EQ(t, seq.Interpolation(), Discrete)
	expect.EQ(t, seq.NumInstants(), 3)
	assert.True(t, seq.LowerInc())
	assert.True(t, seq.UpperInc())
}

func TestParseContinuousSequenceDefaults(t *testing.T) {
	v := mustParse(t, "[1.0@2001-01-01, 2.0@2001-01-02]", mtype.TFloat)
	seq := v.(*TSequence)
	expect.EQ(t, seq.Interpolation(), Linear)

	v = mustParse(t, "[1@2001-01-01, 2@2001-01-02]", mtype.TInt)
	expect.EQ(t, v.Interpolation(), Step)
}

func TestParseStepPrefix(t *testing.T) {
	v := mustParse(t, "Interp=Step;[1@2001-01-01, 2@2001-01-02)", mtype.TFloat)
	seq := v.(*TSequence)
	expect.EQ(t, seq.Interpolation(), Step)
	assert.True(t, seq.LowerInc())
	assert.False(t, seq.UpperInc())
	out, err := seq.Out(base.MaxDigits)
	require.NoError(t, err)
	assert.Equal(t, "Interp=Step;[1@2001-01-01 00:00:00+00, 2@2001-01-02 00:00:00+00)", out)
}

func TestParseSequenceSet(t *testing.T) {
	v := mustParse(t,
		"{[1.0@2001-01-01, 2.0@2001-01-02], [3.0@2001-01-05, 4.0@2001-01-06]}",
		mtype.TFloat)
	tss, ok := v.(*TSequenceSet)
	require.True(t, ok)
	expect.EQ(t, tss.NumSequences(), 2)
	expect.EQ(t, tss.Interpolation(), Linear)
}

func TestParseGeoSequence(t *testing.T) {
	v := mustParse(t, "SRID=4326;[POINT(0 0)@2001-01-01, POINT(1 1)@2001-01-02]",
		mtype.TGeomPoint)
	seq, ok := v.(*TSequence)
	require.True(t, ok)
	expect.EQ(t, seq.NumInstants(), 2)
	assert.True(t, seq.LowerInc())
	assert.True(t, seq.UpperInc())
	expect.EQ(t, seq.Interpolation(), Linear)
	srid, err := seq.Srid()
	require.NoError(t, err)
	expect.EQ(t, srid, int32(4326))

	// Every instant adopted the temporal's SRID.
	inst := seq.StartInstant()
	g, err := inst.Value().Geo()
	require.NoError(t, err)
	expect.EQ(t, g.Srid(), int32(4326))
}

func TestGeoSridMismatchRejected(t *testing.T) {
	_, err := Parse("SRID=4326;[SRID=3857;POINT(0 0)@2001-01-01]", mtype.TGeomPoint)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		typ  mtype.Type
		text string
	}{
		{mtype.TBool, "t@2001-01-01 00:00:00+00"},
		{mtype.TInt, "{1@2001-01-01 00:00:00+00, 2@2001-01-02 00:00:00+00}"},
		{mtype.TFloat, "[1.5@2001-01-01 00:00:00+00, 2.5@2001-01-02 00:00:00+00)"},
		{mtype.TFloat, "Interp=Step;[1@2001-01-01 00:00:00+00, 2@2001-01-02 00:00:00+00]"},
		{mtype.TText, `"a"@2001-01-01 00:00:00+00`},
		{mtype.TGeomPoint, "SRID=4326;[POINT(0 0)@2001-01-01 00:00:00+00, POINT(1 1)@2001-01-02 00:00:00+00]"},
		{mtype.TNPoint, "NPOINT(1,0.5)@2001-01-01 00:00:00+00"},
		{mtype.TFloat, "{[1@2001-01-01 00:00:00+00, 2@2001-01-02 00:00:00+00], [5@2001-01-05 00:00:00+00, 6@2001-01-06 00:00:00+00]}"},
	}
	for _, test := range tests {
		v := mustParse(t, test.text, test.typ)
		out, err := v.Out(base.MaxDigits)
		require.NoError(t, err)
		back, err := Parse(out, test.typ)
		require.NoError(t, err, "round trip of %q", out)
		assert.True(t, Eq(v, back), "input %q printed as %q", test.text, out)
	}
}

func TestTimestampsMustIncrease(t *testing.T) {
	_, err := Parse("{2@2001-01-02, 1@2001-01-01}", mtype.TInt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be increasing")

	_, err = Parse("[1@2001-01-01, 2@2001-01-01]", mtype.TInt)
	require.Error(t, err)
}

func TestLinearRequiresContinuousBase(t *testing.T) {
	_, err := MakeSequence(mustInstants(t, mtype.TInt, "1@2001-01-01", "2@2001-01-02"),
		true, true, Linear, false)
	require.Error(t, err)
	assert.Equal(t, base.ErrInvalidArgValue, base.Kind(err))
}

func mustInstants(t *testing.T, typ mtype.Type, texts ...string) []*TInstant {
	t.Helper()
	out := make([]*TInstant, len(texts))
	for i, text := range texts {
		out[i] = mustParse(t, text, typ).(*TInstant)
	}
	return out
}

func TestSequenceSetMustBeDisjoint(t *testing.T) {
	a := mustParse(t, "[1.0@2001-01-01, 2.0@2001-01-03]", mtype.TFloat).(*TSequence)
	b := mustParse(t, "[5.0@2001-01-02, 6.0@2001-01-04]", mtype.TFloat).(*TSequence)
	_, err := MakeSequenceSet([]*TSequence{a, b}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disjoint")
}

func TestExtraneousInputRejected(t *testing.T) {
	_, err := Parse("1@2001-01-01 00:00:00+00 trailing", mtype.TInt)
	require.Error(t, err)

	_, err = Parse("{1@2001-01-01} extra", mtype.TInt)
	require.Error(t, err)
}

func TestBoundingBoxes(t *testing.T) {
	v := mustParse(t, "[1.0@2001-01-01, 5.0@2001-01-03, 2.0@2001-01-05]", mtype.TFloat)
	seq := v.(*TSequence)
	tb := seq.numericBox()
	require.NotNil(t, tb)
	expect.EQ(t, tb.Span.Lower.Float8(), 1.0)
	expect.EQ(t, tb.Span.Upper.Float8(), 5.0)

	g := mustParse(t, "[POINT(0 0)@2001-01-01, POINT(2 3)@2001-01-02]", mtype.TGeomPoint)
	sb := g.(*TSequence).spatialBox()
	require.NotNil(t, sb)
	expect.EQ(t, sb.Xmax, 2.0)
	expect.EQ(t, sb.Ymax, 3.0)
	assert.True(t, sb.HasT)
}

func TestPeriodInclusivity(t *testing.T) {
	v := mustParse(t, "(1.0@2001-01-01, 2.0@2001-01-02]", mtype.TFloat)
	p := v.Period()
	assert.False(t, p.LowerInc)
	assert.True(t, p.UpperInc)

	d := mustParse(t, "{1@2001-01-01, 2@2001-01-02}", mtype.TInt)
	dp := d.Period()
	assert.True(t, dp.LowerInc)
	assert.True(t, dp.UpperInc)
}

func TestMergeInstants(t *testing.T) {
	a := mustParse(t, "1@2001-01-01", mtype.TInt)
	b := mustParse(t, "2@2001-01-02", mtype.TInt)
	merged, err := Merge(a, b)
	require.NoError(t, err)
	seq, ok := merged.(*TSequence)
	require.True(t, ok)
	expect.EQ(t, seq.Interpolation(), Discrete)
	expect.EQ(t, seq.NumInstants(), 2)

	// Coincident instants with the same value collapse.
	same, err := Merge(a, mustParse(t, "1@2001-01-01", mtype.TInt))
	require.NoError(t, err)
	_, ok = same.(*TInstant)
	assert.True(t, ok)

	// Coincident instants with different values are an error.
	_, err = Merge(a, mustParse(t, "9@2001-01-01", mtype.TInt))
	require.Error(t, err)
	assert.Equal(t, base.ErrInvalidArgValue, base.Kind(err))
}

func TestMergeCommutes(t *testing.T) {
	a := mustParse(t, "{1@2001-01-01, 2@2001-01-02}", mtype.TInt)
	b := mustParse(t, "{3@2001-01-03}", mtype.TInt)
	ab, err := Merge(a, b)
	require.NoError(t, err)
	ba, err := Merge(b, a)
	require.NoError(t, err)
	assert.True(t, Eq(ab, ba))
}

func TestMergeSequences(t *testing.T) {
	a := mustParse(t, "[1.0@2001-01-01, 2.0@2001-01-02]", mtype.TFloat)
	b := mustParse(t, "[2.0@2001-01-02, 4.0@2001-01-03]", mtype.TFloat)
	merged, err := Merge(a, b)
	require.NoError(t, err)
	seq, ok := merged.(*TSequence)
	require.True(t, ok)
	expect.EQ(t, seq.NumInstants(), 3)

	// Disjoint sequences make a sequence set.
	c := mustParse(t, "[9.0@2001-02-01, 8.0@2001-02-02]", mtype.TFloat)
	merged, err = Merge(a, c)
	require.NoError(t, err)
	_, ok = merged.(*TSequenceSet)
	assert.True(t, ok)
}

func TestMergeSeamValueConflict(t *testing.T) {
	a := mustParse(t, "[1.0@2001-01-01, 2.0@2001-01-02]", mtype.TFloat)
	b := mustParse(t, "[7.0@2001-01-02, 3.0@2001-01-03]", mtype.TFloat)
	_, err := Merge(a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different value")
}

func TestMergeInterpolationMismatch(t *testing.T) {
	a := mustParse(t, "[1.0@2001-01-01, 2.0@2001-01-02]", mtype.TFloat)
	b := mustParse(t, "Interp=Step;[3.0@2001-01-05, 4.0@2001-01-06]", mtype.TFloat)
	_, err := Merge(a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "same interpolation")
}

func TestMergeInstantIntoSequenceSet(t *testing.T) {
	a := mustParse(t, "1.0@2001-01-01", mtype.TFloat)
	b := mustParse(t, "{[2.0@2001-01-05, 3.0@2001-01-06]}", mtype.TFloat)
	merged, err := Merge(a, b)
	require.NoError(t, err)
	tss, ok := merged.(*TSequenceSet)
	require.True(t, ok)
	expect.EQ(t, tss.NumSequences(), 2)
}

func TestMergeDiscreteWithSequence(t *testing.T) {
	// A multi-instant discrete value widens to singleton sequences
	// inside a sequence set.
	a := mustParse(t, "{1.0@2001-01-01, 2.0@2001-01-02}", mtype.TFloat)
	b := mustParse(t, "[3.0@2001-01-05, 4.0@2001-01-06]", mtype.TFloat)
	merged, err := Merge(a, b)
	require.NoError(t, err)
	tss, ok := merged.(*TSequenceSet)
	require.True(t, ok)
	expect.EQ(t, tss.NumSequences(), 3)
}

func TestMergeArrayNil(t *testing.T) {
	v, err := Merge(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	a := mustParse(t, "1@2001-01-01", mtype.TInt)
	v, err = Merge(a, nil)
	require.NoError(t, err)
	assert.True(t, Eq(a, v))
}

func TestHashAgreesWithEq(t *testing.T) {
	a := mustParse(t, "[1.5@2001-01-01, 2.5@2001-01-02]", mtype.TFloat)
	b := mustParse(t, "[1.5@2001-01-01 00:00:00+00, 2.5@2001-01-02 00:00:00+00]", mtype.TFloat)
	require.True(t, Eq(a, b))
	expect.EQ(t, a.Hash32(), b.Hash32())
	expect.EQ(t, a.Hash64(11), b.Hash64(11))
	expect.EQ(t, a.Fingerprint(), b.Fingerprint())
}

func TestCmpByPeriodFirst(t *testing.T) {
	early := mustParse(t, "[9.0@2001-01-01, 9.5@2001-01-02]", mtype.TFloat)
	late := mustParse(t, "[1.0@2001-02-01, 1.5@2001-02-02]", mtype.TFloat)
	assert.True(t, Cmp(early, late) < 0)
	assert.True(t, Cmp(late, early) > 0)
}

func TestSequenceNormalization(t *testing.T) {
	// The middle instant lies on the line between its neighbours and is
	// dropped.
	v := mustParse(t, "[1.0@2001-01-01, 2.0@2001-01-02, 3.0@2001-01-03]", mtype.TFloat)
	expect.EQ(t, v.(*TSequence).NumInstants(), 2)

	// A step sequence drops an instant repeating the previous value.
	v = mustParse(t, "Interp=Step;[1.0@2001-01-01, 1.0@2001-01-02, 2.0@2001-01-03]", mtype.TFloat)
	expect.EQ(t, v.(*TSequence).NumInstants(), 2)

	// Discrete sequences are never normalized.
	v = mustParse(t, "{1.0@2001-01-01, 1.0@2001-01-02}", mtype.TFloat)
	expect.EQ(t, v.(*TSequence).NumInstants(), 2)
}

func TestInstantAccessors(t *testing.T) {
	seq := mustParse(t, "[1@2001-01-01, 2@2001-01-02, 3@2001-01-03]", mtype.TInt).(*TSequence)
	expect.EQ(t, seq.StartInstant().Value().Int32(), int32(1))
	expect.EQ(t, seq.EndInstant().Value().Int32(), int32(3))
	mid, err := seq.InstantN(2)
	require.NoError(t, err)
	expect.EQ(t, mid.Value().Int32(), int32(2))
	_, err = seq.InstantN(4)
	require.Error(t, err)
}
