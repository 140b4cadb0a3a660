package spanset

import (
	"time"

	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/mtype"
)

// Time accessors.  Date span sets are canonical ([d, d+n) form), so a
// composing span contributes exactly its two stored bounds; timestamptz
// span sets deduplicate coincident bounds while enumerating.

// NumDates returns the number of date bounds of a date span set.
func (ss *SpanSet) NumDates() (int, error) {
	if ss.basetype != mtype.Date {
		return 0, base.TypeErrorf("NumDates of span set %s", ss.spansettype)
	}
	return len(ss.elems) * 2, nil
}

// DateN returns the n-th date bound, 1-based: odd indexes map to lower
// bounds, even indexes to upper bounds.
func (ss *SpanSet) DateN(n int) (int32, error) {
	if ss.basetype != mtype.Date {
		return 0, base.TypeErrorf("DateN of span set %s", ss.spansettype)
	}
	if n < 1 || n > len(ss.elems)*2 {
		return 0, base.ValueErrorf("Index out of range: %d (count %d)",
			n, len(ss.elems)*2)
	}
	sp := ss.elems[(n-1)/2]
	if n%2 == 1 {
		return sp.Lower.Date(), nil
	}
	return sp.Upper.Date(), nil
}

// Timestamps returns the distinct bound timestamps of a timestamptz
// span set in increasing order.
func (ss *SpanSet) Timestamps() ([]int64, error) {
	if ss.basetype != mtype.TimestampTz {
		return nil, base.TypeErrorf("Timestamps of span set %s", ss.spansettype)
	}
	out := make([]int64, 0, len(ss.elems)*2)
	for _, sp := range ss.elems {
		lower, upper := sp.Lower.TimestampTz(), sp.Upper.TimestampTz()
		if len(out) == 0 || out[len(out)-1] != lower {
			out = append(out, lower)
		}
		if out[len(out)-1] != upper {
			out = append(out, upper)
		}
	}
	return out, nil
}

// NumTimestamps returns the number of distinct bound timestamps.
func (ss *SpanSet) NumTimestamps() (int, error) {
	ts, err := ss.Timestamps()
	if err != nil {
		return 0, err
	}
	return len(ts), nil
}

// Duration returns the length of the span set: the bounding span's
// length when boundspan is set, otherwise the sum of the composing
// spans' lengths.
func (ss *SpanSet) Duration(boundspan bool) (time.Duration, error) {
	if !mtype.TimeType(ss.basetype) {
		return 0, base.TypeErrorf("Duration of span set %s", ss.spansettype)
	}
	if boundspan {
		return ss.bound.Duration()
	}
	var total time.Duration
	for _, sp := range ss.elems {
		d, err := sp.Duration()
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total, nil
}
