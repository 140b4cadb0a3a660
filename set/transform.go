package set

import (
	"math"
	"time"

	"blainsmith.com/go/seahash"
	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/mtype"
	"github.com/meos-project/meos/span"
)

// ShiftScale returns a numeric set shifted and/or linearly rescaled so
// its extremes land on the new bounds.  Interior elements are rescaled
// against the first element; at least one of shift and width must be
// supplied, and the width must be strictly positive.
func (s *Set) ShiftScale(shift, width base.Datum, hasShift, hasWidth bool) (*Set, error) {
	if !mtype.Numeric(s.basetype) {
		return nil, base.TypeErrorf("ShiftScale on non-numeric set %s", s.settype)
	}
	if !hasShift && !hasWidth {
		return nil, base.ValueErrorf(
			"At least one of the shift and width arguments must be given")
	}
	if hasWidth && !base.Positive(width, s.basetype) {
		return nil, base.ValueErrorf("The width must be strictly positive")
	}
	values := s.Values()
	lower, upper := values[0], values[len(values)-1]
	newLower, newUpper := lower, upper
	span.ShiftScaleBounds(&newLower, &newUpper, shift, width, s.basetype, hasShift, hasWidth)
	return s.rescale(values, lower, upper, newLower, newUpper, hasShift, hasWidth)
}

// ShiftScaleTime returns a timestamptz set shifted by an interval and/or
// rescaled to a duration.
func (s *Set) ShiftScaleTime(shift, duration time.Duration, hasShift, hasDuration bool) (*Set, error) {
	if s.basetype != mtype.TimestampTz {
		return nil, base.TypeErrorf("ShiftScaleTime on non-timestamptz set %s", s.settype)
	}
	if !hasShift && !hasDuration {
		return nil, base.ValueErrorf(
			"At least one of the shift and duration arguments must be given")
	}
	if hasDuration && duration <= 0 {
		return nil, base.ValueErrorf("The duration must be strictly positive")
	}
	values := s.Values()
	lower, upper := values[0], values[len(values)-1]
	lo, up := lower.TimestampTz(), upper.TimestampTz()
	span.ShiftScaleTimeBounds(&lo, &up, shift, duration, hasShift, hasDuration)
	return s.rescale(values, lower, upper,
		base.TimestampTzDatum(lo), base.TimestampTzDatum(up), hasShift, hasDuration)
}

// rescale maps every element of values from [lower, upper] onto
// [newLower, newUpper] linearly and rebuilds the set.
func (s *Set) rescale(values []base.Datum, lower, upper, newLower, newUpper base.Datum,
	hasShift, hasWidth bool) (*Set, error) {
	out := make([]base.Datum, len(values))
	out[0] = newLower
	out[len(out)-1] = newUpper
	if len(values) > 2 {
		delta := base.Sub(newLower, lower, s.basetype)
		scale := 1.0
		if hasWidth {
			den := base.Double(base.Sub(upper, lower, s.basetype), s.basetype)
			if den != 0 {
				scale = base.Double(base.Sub(newUpper, newLower, s.basetype), s.basetype) / den
			}
		}
		for i := 1; i < len(values)-1; i++ {
			v := values[i]
			if hasShift {
				v = base.Add(v, delta, s.basetype)
			}
			if hasWidth {
				off := base.Double(base.Sub(v, newLower, s.basetype), s.basetype) * scale
				v = base.Add(newLower, base.FromDouble(off, s.basetype), s.basetype)
			}
			out[i] = v
		}
	}
	// Heavy shrinking can collapse neighbouring discrete values, so the
	// result is re-sorted and deduplicated.
	return Make(out, s.basetype, false)
}

// mapFloat applies fn elementwise to a float set and rebuilds it.  The
// mapping may collapse neighbours, so the result is re-sorted and
// deduplicated.
func (s *Set) mapFloat(fn func(float64) float64) (*Set, error) {
	if s.basetype != mtype.Float {
		return nil, base.TypeErrorf("float transform on set %s", s.settype)
	}
	values := make([]base.Datum, s.count)
	for i := range values {
		values[i] = base.Float8Datum(fn(s.valueAt(i).Float8()))
	}
	return Make(values, mtype.Float, false)
}

// Round rounds every element of a float set to maxdd decimal digits.
func (s *Set) Round(maxdd int) (*Set, error) {
	if maxdd < 0 {
		return nil, base.ValueErrorf(
			"The number of decimal digits must not be negative")
	}
	return s.mapFloat(func(v float64) float64 { return span.RoundFloat(v, maxdd) })
}

// Floor applies floor elementwise to a float set.
func (s *Set) Floor() (*Set, error) { return s.mapFloat(math.Floor) }

// Ceil applies ceil elementwise to a float set.
func (s *Set) Ceil() (*Set, error) { return s.mapFloat(math.Ceil) }

// Degrees converts a float set from radians to degrees, optionally
// normalized to [0, 360).
func (s *Set) Degrees(normalize bool) (*Set, error) {
	return s.mapFloat(func(v float64) float64 { return span.ToDegrees(v, normalize) })
}

// Radians converts a float set from degrees to radians.
func (s *Set) Radians() (*Set, error) { return s.mapFloat(span.ToRadians) }

// Fingerprint returns a fast 64-bit checksum of the packed payload,
// usable for change detection across processes.
func (s *Set) Fingerprint() uint64 {
	buf := make([]byte, 0, 8*len(s.words)+len(s.data))
	var w8 [8]byte
	for _, w := range s.words {
		putUint64(w8[:], w)
		buf = append(buf, w8[:]...)
	}
	buf = append(buf, s.data...)
	return seahash.Sum64(buf)
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
