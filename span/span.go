// Package span implements the span container: a pair of ordered bounds
// over one base type with explicit inclusivity at each end.  Spans over
// discrete domains (int, bigint, date) are kept in the canonical
// `[lower, upper)` form, so two spans covering the same points are
// bit-identical.
package span

import (
	"time"

	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/mtype"
)

// Span is an interval over a base domain.  Construct with Make (or a
// parser); a hand-built Span bypasses canonicalization.
type Span struct {
	Lower    base.Datum
	Upper    base.Datum
	LowerInc bool
	UpperInc bool
	Type     mtype.Type // span type tag
	Base     mtype.Type // base type tag
}

// Make builds a span from its bounds, canonicalizing discrete domains
// and rejecting empty or reversed spans.
func Make(lower, upper base.Datum, lowerInc, upperInc bool, basetype mtype.Type) (Span, error) {
	spantype, ok := mtype.SpanType(basetype)
	if !ok {
		return Span{}, base.InternalErrorf("no span type for base type %s", basetype)
	}
	if mtype.Canonical(basetype) {
		if !lowerInc {
			lower = base.IncrBound(lower, basetype)
			lowerInc = true
		}
		if upperInc {
			upper = base.IncrBound(upper, basetype)
			upperInc = false
		}
	}
	cmp := base.Cmp(lower, upper, basetype)
	if cmp > 0 {
		return Span{}, base.ValueErrorf(
			"Span lower bound must be less than or equal to span upper bound")
	}
	if cmp == 0 && !(lowerInc && upperInc) {
		return Span{}, base.ValueErrorf("Span cannot be empty")
	}
	return Span{
		Lower: lower.Copy(), Upper: upper.Copy(),
		LowerInc: lowerInc, UpperInc: upperInc,
		Type: spantype, Base: basetype,
	}, nil
}

// FromValue returns the singleton span `[v, v]` (canonicalized for
// discrete domains).
func FromValue(v base.Datum, basetype mtype.Type) (Span, error) {
	return Make(v, v, true, true, basetype)
}

// IsZero reports whether the span is the zero value (no type assigned).
func (s Span) IsZero() bool { return s.Type == mtype.Unknown }

// Width returns the distance between the bounds of a numeric span.
func (s Span) Width() (base.Datum, error) {
	if !mtype.Numeric(s.Base) {
		return base.Datum{}, base.TypeErrorf("Width of non-numeric span %s", s.Type)
	}
	return base.Distance(s.Upper, s.Lower, s.Base), nil
}

// Duration returns the length of a date or timestamptz span.
func (s Span) Duration() (time.Duration, error) {
	switch s.Base {
	case mtype.Date:
		days := s.Upper.Date() - s.Lower.Date()
		return time.Duration(days) * 24 * time.Hour, nil
	case mtype.TimestampTz:
		usec := s.Upper.TimestampTz() - s.Lower.TimestampTz()
		return time.Duration(usec) * time.Microsecond, nil
	}
	return 0, base.TypeErrorf("Duration of non-time span %s", s.Type)
}

// Contains reports whether the span contains the value.
func (s Span) Contains(v base.Datum) bool {
	cl := base.Cmp(v, s.Lower, s.Base)
	if cl < 0 || (cl == 0 && !s.LowerInc) {
		return false
	}
	cu := base.Cmp(v, s.Upper, s.Base)
	if cu > 0 || (cu == 0 && !s.UpperInc) {
		return false
	}
	return true
}

// Overlaps reports whether the two spans share at least one point.
func (s Span) Overlaps(o Span) bool {
	c1 := base.Cmp(s.Lower, o.Upper, s.Base)
	if c1 > 0 || (c1 == 0 && !(s.LowerInc && o.UpperInc)) {
		return false
	}
	c2 := base.Cmp(o.Lower, s.Upper, s.Base)
	if c2 > 0 || (c2 == 0 && !(o.LowerInc && s.UpperInc)) {
		return false
	}
	return true
}

// OvAdj reports whether s overlaps or is immediately adjacent to next,
// next being the span that starts no earlier than s.  This is the merge
// condition of span set normalization.
func (s Span) OvAdj(next Span) bool {
	cmp := base.Cmp(s.Upper, next.Lower, s.Base)
	return cmp > 0 || (cmp == 0 && (s.UpperInc || next.LowerInc))
}

// Expand grows s to cover o.
func (s *Span) Expand(o Span) {
	if c := base.Cmp(o.Lower, s.Lower, s.Base); c < 0 ||
		(c == 0 && o.LowerInc && !s.LowerInc) {
		s.Lower = o.Lower
		s.LowerInc = o.LowerInc
	}
	if c := base.Cmp(o.Upper, s.Upper, s.Base); c > 0 ||
		(c == 0 && o.UpperInc && !s.UpperInc) {
		s.Upper = o.Upper
		s.UpperInc = o.UpperInc
	}
}

// Cmp is the B-tree comparator: lower bound first, then upper bound,
// inclusivity breaking value ties.  An inclusive lower sorts before an
// exclusive one at the same value; an exclusive upper sorts before an
// inclusive one.
func (s Span) Cmp(o Span) int {
	if c := base.Cmp(s.Lower, o.Lower, s.Base); c != 0 {
		return c
	}
	if s.LowerInc != o.LowerInc {
		if s.LowerInc {
			return -1
		}
		return 1
	}
	if c := base.Cmp(s.Upper, o.Upper, s.Base); c != 0 {
		return c
	}
	if s.UpperInc != o.UpperInc {
		if s.UpperInc {
			return 1
		}
		return -1
	}
	return 0
}

// Eq reports span equality.
func (s Span) Eq(o Span) bool {
	return s.Type == o.Type && s.Cmp(o) == 0
}

// Hash32 returns the 32-bit hash of the span.
func (s Span) Hash32() uint32 {
	h := base.Combine32(boundFlag32(s.LowerInc), base.Hash32(s.Lower, s.Base))
	h = base.Combine32(h, boundFlag32(s.UpperInc))
	return base.Combine32(h, base.Hash32(s.Upper, s.Base))
}

// Hash64 returns the seeded 64-bit hash of the span.
func (s Span) Hash64(seed uint64) uint64 {
	h := base.Combine64(uint64(boundFlag32(s.LowerInc)), base.Hash64(s.Lower, s.Base, seed))
	h = base.Combine64(h, uint64(boundFlag32(s.UpperInc)))
	return base.Combine64(h, base.Hash64(s.Upper, s.Base, seed))
}

func boundFlag32(inc bool) uint32 {
	if inc {
		return 1
	}
	return 0
}
