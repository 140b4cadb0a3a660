package span

import (
	"math"
	"time"

	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/mtype"
)

// ShiftScaleBounds computes the new bounds of a shift and/or scale over
// a numeric domain.  Width must already be validated positive.  A
// degenerate span (lower == upper) shifts but never scales.
func ShiftScaleBounds(lower, upper *base.Datum, shift, width base.Datum,
	basetype mtype.Type, hasShift, hasWidth bool) {
	instant := base.Eq(*lower, *upper, basetype)
	if hasShift {
		*lower = base.Add(*lower, shift, basetype)
		if instant {
			*upper = *lower
		} else {
			*upper = base.Add(*upper, shift, basetype)
		}
	}
	if hasWidth && !instant {
		// Discrete domains store an exclusive upper bound, so the
		// stored width is one unit larger than the requested one.
		if mtype.Canonical(basetype) {
			width = base.Add(width, base.One(basetype), basetype)
		}
		*upper = base.Add(*lower, width, basetype)
	}
}

// ShiftScaleTimeBounds computes the new bounds of a shift and/or
// rescale over timestamptz microseconds.
func ShiftScaleTimeBounds(lower, upper *int64, shift, duration time.Duration,
	hasShift, hasDuration bool) {
	instant := *lower == *upper
	if hasShift {
		*lower += shift.Microseconds()
		if instant {
			*upper = *lower
		} else {
			*upper += shift.Microseconds()
		}
	}
	if hasDuration && !instant {
		*upper = *lower + duration.Microseconds()
	}
}

// ShiftScale returns the span shifted by shift and/or rescaled to the
// given width.  At least one of the two must be supplied and the width
// must be strictly positive.
func (s Span) ShiftScale(shift, width base.Datum, hasShift, hasWidth bool) (Span, error) {
	if !mtype.Numeric(s.Base) && s.Base != mtype.Date {
		return Span{}, base.TypeErrorf("ShiftScale on non-numeric span %s", s.Type)
	}
	if !hasShift && !hasWidth {
		return Span{}, base.ValueErrorf(
			"At least one of the shift and width arguments must be given")
	}
	if hasWidth && !base.Positive(width, s.Base) {
		return Span{}, base.ValueErrorf("The width must be strictly positive")
	}
	out := s
	ShiftScaleBounds(&out.Lower, &out.Upper, shift, width, s.Base, hasShift, hasWidth)
	return out, nil
}

// ShiftScaleTime returns a timestamptz span shifted by shift and/or
// rescaled to the given duration.
func (s Span) ShiftScaleTime(shift, duration time.Duration, hasShift, hasDuration bool) (Span, error) {
	if s.Base != mtype.TimestampTz {
		return Span{}, base.TypeErrorf("ShiftScaleTime on non-timestamptz span %s", s.Type)
	}
	if !hasShift && !hasDuration {
		return Span{}, base.ValueErrorf(
			"At least one of the shift and duration arguments must be given")
	}
	if hasDuration && duration <= 0 {
		return Span{}, base.ValueErrorf("The duration must be strictly positive")
	}
	lower, upper := s.Lower.TimestampTz(), s.Upper.TimestampTz()
	ShiftScaleTimeBounds(&lower, &upper, shift, duration, hasShift, hasDuration)
	out := s
	out.Lower = base.TimestampTzDatum(lower)
	out.Upper = base.TimestampTzDatum(upper)
	return out, nil
}

// MapFloat applies fn to both bounds of a float span.  The result is
// re-made so a mapping that collapses the bounds surfaces the usual
// empty-span error.
func (s Span) MapFloat(fn func(float64) float64) (Span, error) {
	if s.Base != mtype.Float {
		return Span{}, base.TypeErrorf("float transform on span %s", s.Type)
	}
	lower := base.Float8Datum(fn(s.Lower.Float8()))
	upper := base.Float8Datum(fn(s.Upper.Float8()))
	return Make(lower, upper, s.LowerInc, s.UpperInc, s.Base)
}

// Round rounds the bounds of a float span to maxdd decimal digits.
func (s Span) Round(maxdd int) (Span, error) {
	if maxdd < 0 {
		return Span{}, base.ValueErrorf(
			"The number of decimal digits must not be negative")
	}
	return s.MapFloat(func(v float64) float64 { return roundHalfEven(v, maxdd) })
}

// Floor applies floor to the bounds of a float span.
func (s Span) Floor() (Span, error) { return s.MapFloat(math.Floor) }

// Ceil applies ceil to the bounds of a float span.
func (s Span) Ceil() (Span, error) { return s.MapFloat(math.Ceil) }

// Degrees converts the bounds of a float span from radians to degrees,
// optionally normalized to [0, 360).
func (s Span) Degrees(normalize bool) (Span, error) {
	return s.MapFloat(func(v float64) float64 { return ToDegrees(v, normalize) })
}

// Radians converts the bounds of a float span from degrees to radians.
func (s Span) Radians() (Span, error) { return s.MapFloat(ToRadians) }

func roundHalfEven(v float64, maxdd int) float64 {
	p := math.Pow10(maxdd)
	return math.RoundToEven(v*p) / p
}

// RoundFloat rounds v to maxdd decimal digits.  Shared by the float
// container transforms.
func RoundFloat(v float64, maxdd int) float64 { return roundHalfEven(v, maxdd) }

// ToDegrees converts radians to degrees, optionally normalizing the
// result to [0, 360).
func ToDegrees(v float64, normalize bool) float64 {
	deg := v * 180 / math.Pi
	if normalize {
		deg = math.Mod(deg, 360)
		if deg < 0 {
			deg += 360
		}
	}
	return deg
}

// ToRadians converts degrees to radians.
func ToRadians(v float64) float64 { return v * math.Pi / 180 }
