package spanset

import (
	"math"
	"time"

	"blainsmith.com/go/seahash"
	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/mtype"
	"github.com/meos-project/meos/span"
)

// deltaScale maps one composing span onto the rescaled axis anchored at
// origin.  Discrete domains account for the exclusive upper bound by
// stepping it back before scaling and forward after.
func (ss *SpanSet) deltaScale(sp span.Span, origin, delta base.Datum,
	hasDelta bool, scale float64) span.Span {
	typ := ss.basetype
	if hasDelta {
		sp.Lower = base.Add(sp.Lower, delta, typ)
		sp.Upper = base.Add(sp.Upper, delta, typ)
	}
	if scale != 1.0 {
		lower, upper := sp.Lower, sp.Upper
		sp.Lower = base.Add(origin, base.FromDouble(
			base.Double(base.Sub(lower, origin, typ), typ)*scale, typ), typ)
		if base.Eq(lower, upper, typ) {
			sp.Upper = sp.Lower
		} else {
			up := base.DecrBound(upper, typ)
			sp.Upper = base.Add(origin, base.FromDouble(
				base.Double(base.Sub(up, origin, typ), typ)*scale, typ), typ)
			sp.Upper = base.IncrBound(sp.Upper, typ)
		}
	}
	return sp
}

// scaleFactor returns the ratio of the new bounding span's width to the
// old one's, measured up to the last included value in discrete
// domains; 1 when the old width is zero.
func scaleFactor(old, new span.Span, typ mtype.Type) float64 {
	oldW := base.Double(base.Sub(base.DecrBound(old.Upper, typ), old.Lower, typ), typ)
	newW := base.Double(base.Sub(base.DecrBound(new.Upper, typ), new.Lower, typ), typ)
	if oldW == 0 {
		return 1.0
	}
	return newW / oldW
}

// ShiftScale returns a numeric span set shifted and/or rescaled so its
// bounding span lands on the new bounds.  The result is re-sorted and
// re-normalized to preserve the container invariants.
func (ss *SpanSet) ShiftScale(shift, width base.Datum, hasShift, hasWidth bool) (*SpanSet, error) {
	if !mtype.Numeric(ss.basetype) && ss.basetype != mtype.Date {
		return nil, base.TypeErrorf("ShiftScale on non-numeric span set %s", ss.spansettype)
	}
	if !hasShift && !hasWidth {
		return nil, base.ValueErrorf(
			"At least one of the shift and width arguments must be given")
	}
	if hasWidth && !base.Positive(width, ss.basetype) {
		return nil, base.ValueErrorf("The width must be strictly positive")
	}
	newBound := ss.bound
	span.ShiftScaleBounds(&newBound.Lower, &newBound.Upper, shift, width,
		ss.basetype, hasShift, hasWidth)
	delta := base.Sub(newBound.Lower, ss.bound.Lower, ss.basetype)
	scale := 1.0
	if hasWidth {
		scale = scaleFactor(ss.bound, newBound, ss.basetype)
	}
	out := make([]span.Span, len(ss.elems))
	for i, sp := range ss.elems {
		out[i] = ss.deltaScale(sp, newBound.Lower, delta, hasShift, scale)
	}
	return Make(out, true, false)
}

// ShiftScaleTime returns a timestamptz or date span set shifted by an
// interval and/or rescaled to a duration.  Date span sets move by whole
// days: sub-day shifts are truncated.
func (ss *SpanSet) ShiftScaleTime(shift, duration time.Duration, hasShift, hasDuration bool) (*SpanSet, error) {
	switch ss.basetype {
	case mtype.TimestampTz:
	case mtype.Date:
		days := int64(shift / (24 * time.Hour))
		durDays := int64(duration / (24 * time.Hour))
		return ss.ShiftScale(base.Int32Datum(int32(days)),
			base.Int32Datum(int32(durDays)), hasShift, hasDuration)
	default:
		return nil, base.TypeErrorf("ShiftScaleTime on span set %s", ss.spansettype)
	}
	if !hasShift && !hasDuration {
		return nil, base.ValueErrorf(
			"At least one of the shift and duration arguments must be given")
	}
	if hasDuration && duration <= 0 {
		return nil, base.ValueErrorf("The duration must be strictly positive")
	}
	newBound := ss.bound
	lo, up := newBound.Lower.TimestampTz(), newBound.Upper.TimestampTz()
	span.ShiftScaleTimeBounds(&lo, &up, shift, duration, hasShift, hasDuration)
	newBound.Lower = base.TimestampTzDatum(lo)
	newBound.Upper = base.TimestampTzDatum(up)
	delta := base.Sub(newBound.Lower, ss.bound.Lower, ss.basetype)
	scale := 1.0
	if hasDuration {
		scale = scaleFactor(ss.bound, newBound, ss.basetype)
	}
	out := make([]span.Span, len(ss.elems))
	for i, sp := range ss.elems {
		out[i] = ss.deltaScale(sp, newBound.Lower, delta, hasShift, scale)
	}
	return Make(out, true, false)
}

// mapFloat applies fn to every bound of a float span set and rebuilds
// it, re-normalizing since the mapping may collapse or join spans.
func (ss *SpanSet) mapFloat(fn func(float64) float64) (*SpanSet, error) {
	if ss.basetype != mtype.Float {
		return nil, base.TypeErrorf("float transform on span set %s", ss.spansettype)
	}
	out := make([]span.Span, 0, len(ss.elems))
	for _, sp := range ss.elems {
		m, err := sp.MapFloat(fn)
		if err != nil {
			// A collapsed span with open bounds vanishes rather than
			// failing the whole transform.
			if base.Kind(err) == base.ErrInvalidArgValue {
				continue
			}
			return nil, err
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil, base.ValueErrorf("The transform leaves no spans")
	}
	return Make(out, true, false)
}

// Round rounds every bound of a float span set to maxdd decimal digits.
func (ss *SpanSet) Round(maxdd int) (*SpanSet, error) {
	if maxdd < 0 {
		return nil, base.ValueErrorf(
			"The number of decimal digits must not be negative")
	}
	return ss.mapFloat(func(v float64) float64 { return span.RoundFloat(v, maxdd) })
}

// Floor applies floor to every bound of a float span set.
func (ss *SpanSet) Floor() (*SpanSet, error) { return ss.mapFloat(math.Floor) }

// Ceil applies ceil to every bound of a float span set.
func (ss *SpanSet) Ceil() (*SpanSet, error) { return ss.mapFloat(math.Ceil) }

// Degrees converts a float span set from radians to degrees.
func (ss *SpanSet) Degrees(normalize bool) (*SpanSet, error) {
	return ss.mapFloat(func(v float64) float64 { return span.ToDegrees(v, normalize) })
}

// Radians converts a float span set from degrees to radians.
func (ss *SpanSet) Radians() (*SpanSet, error) { return ss.mapFloat(span.ToRadians) }

// Fingerprint returns a fast 64-bit checksum of the packed bounds.
func (ss *SpanSet) Fingerprint() uint64 {
	buf := make([]byte, 0, len(ss.elems)*17)
	var w8 [8]byte
	for _, sp := range ss.elems {
		putUint64(w8[:], sp.Lower.Word())
		buf = append(buf, w8[:]...)
		putUint64(w8[:], sp.Upper.Word())
		buf = append(buf, w8[:]...)
		var incs byte
		if sp.LowerInc {
			incs |= 1
		}
		if sp.UpperInc {
			incs |= 2
		}
		buf = append(buf, incs)
	}
	return seahash.Sum64(buf)
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
