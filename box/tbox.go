// Package box implements the two bounding-box containers: TBox for
// temporal numbers (an optional value span plus an optional time span)
// and STBox for spatiotemporal values (optional 2/3-D extent, optional
// time span, SRID, geodetic flag).  Boxes are computed at container
// construction time and cached for index use and early rejection.
package box

import (
	"strings"

	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/mtype"
	"github.com/meos-project/meos/scan"
	"github.com/meos-project/meos/span"
)

// TBox bounds a temporal number: a value span, a time span, or both.
type TBox struct {
	Span   span.Span // value extent, valid only when HasX
	Period span.Span // time extent, valid only when HasT
	HasX   bool
	HasT   bool
}

// MakeTBox builds a box from an optional value span and an optional
// period.  At least one must be given.
func MakeTBox(sp, period *span.Span) (TBox, error) {
	if sp == nil && period == nil {
		return TBox{}, base.ValueErrorf(
			"A temporal box must have at least one of value and time dimensions")
	}
	var b TBox
	if sp != nil {
		if !mtype.Numeric(sp.Base) {
			return TBox{}, base.TypeErrorf(
				"The value span of a temporal box must be numeric: %s", sp.Type)
		}
		b.Span = *sp
		b.HasX = true
	}
	if period != nil {
		if period.Base != mtype.TimestampTz {
			return TBox{}, base.TypeErrorf(
				"The time span of a temporal box must be a timestamptz span: %s",
				period.Type)
		}
		b.Period = *period
		b.HasT = true
	}
	return b, nil
}

// FromValueTime builds the degenerate box of one (value, timestamp)
// observation.
func FromValueTime(v base.Datum, basetype mtype.Type, usec int64) (TBox, error) {
	sp, err := span.FromValue(v, basetype)
	if err != nil {
		return TBox{}, err
	}
	period, err := span.FromValue(base.TimestampTzDatum(usec), mtype.TimestampTz)
	if err != nil {
		return TBox{}, err
	}
	return MakeTBox(&sp, &period)
}

// ExpandValue grows the value span to cover v.
func (b *TBox) ExpandValue(v base.Datum, basetype mtype.Type) {
	sp, _ := span.FromValue(v, basetype)
	if !b.HasX {
		b.Span, b.HasX = sp, true
		return
	}
	b.Span.Expand(sp)
}

// ExpandTime grows the period to cover a timestamp.
func (b *TBox) ExpandTime(usec int64) {
	sp, _ := span.FromValue(base.TimestampTzDatum(usec), mtype.TimestampTz)
	if !b.HasT {
		b.Period, b.HasT = sp, true
		return
	}
	b.Period.Expand(sp)
}

// Expand grows b to cover o.
func (b *TBox) Expand(o TBox) {
	if o.HasX {
		if b.HasX {
			b.Span.Expand(o.Span)
		} else {
			b.Span, b.HasX = o.Span, true
		}
	}
	if o.HasT {
		if b.HasT {
			b.Period.Expand(o.Period)
		} else {
			b.Period, b.HasT = o.Period, true
		}
	}
}

// Eq reports box equality.
func (b TBox) Eq(o TBox) bool { return b.Cmp(o) == 0 }

// Cmp is the B-tree comparator: time dimension first, then value.
func (b TBox) Cmp(o TBox) int {
	if b.HasT != o.HasT {
		if b.HasT {
			return -1
		}
		return 1
	}
	if b.HasT {
		if c := b.Period.Cmp(o.Period); c != 0 {
			return c
		}
	}
	if b.HasX != o.HasX {
		if b.HasX {
			return -1
		}
		return 1
	}
	if b.HasX {
		return b.Span.Cmp(o.Span)
	}
	return 0
}

// Hash32 returns the 32-bit hash of the box.
func (b TBox) Hash32() uint32 {
	var h uint32
	if b.HasX {
		h = base.Combine32(h, b.Span.Hash32())
	}
	if b.HasT {
		h = base.Combine32(h, b.Period.Hash32())
	}
	return h
}

// Hash64 returns the seeded 64-bit hash of the box.
func (b TBox) Hash64(seed uint64) uint64 {
	var h uint64
	if b.HasX {
		h = base.Combine64(h, b.Span.Hash64(seed))
	}
	if b.HasT {
		h = base.Combine64(h, b.Period.Hash64(seed))
	}
	return h
}

// Out renders the box as text.
func (b TBox) Out(maxdd int) string {
	var sb strings.Builder
	if b.HasX && b.Span.Base == mtype.Int {
		sb.WriteString("TBOXINT ")
	} else if b.HasX {
		sb.WriteString("TBOXFLOAT ")
	} else {
		sb.WriteString("TBOX ")
	}
	switch {
	case b.HasX && b.HasT:
		sb.WriteString("XT(")
		sb.WriteString(b.Span.Out(maxdd))
		sb.WriteByte(',')
		sb.WriteString(b.Period.Out(maxdd))
	case b.HasX:
		sb.WriteString("X(")
		sb.WriteString(b.Span.Out(maxdd))
	default:
		sb.WriteString("T(")
		sb.WriteString(b.Period.Out(maxdd))
	}
	sb.WriteByte(')')
	return sb.String()
}

func (b TBox) String() string { return b.Out(base.MaxDigits) }

// ParseTBox reads a temporal box at the cursor and requires end of
// input.
func ParseTBox(cur *scan.Cursor) (TBox, error) {
	const kind = "temporal box"
	spantype := mtype.FloatSpan
	hasX, hasT := false, false
	if cur.MatchPrefixFold("TBOXINT") {
		spantype = mtype.IntSpan
	} else if cur.MatchPrefixFold("TBOXFLOAT") {
		// spantype already float
	} else if cur.MatchPrefixFold("TBOX") {
		// bare prefix, span type defaults to float
	} else {
		return TBox{}, base.TextErrorf("Could not parse temporal box")
	}
	if cur.MatchPrefixFold("XT") {
		hasX, hasT = true, true
	} else if cur.MatchPrefixFold("X") {
		hasX = true
	} else if cur.MatchPrefixFold("T") {
		hasT = true
	} else {
		return TBox{}, base.TextErrorf(
			"Could not parse temporal box: Missing dimension information")
	}
	if err := cur.ExpectOParen(kind); err != nil {
		return TBox{}, err
	}
	var sp, period span.Span
	var err error
	if hasX {
		if sp, err = span.Parse(cur, spantype, false); err != nil {
			return TBox{}, err
		}
		if hasT {
			cur.TryComma()
		}
	}
	if hasT {
		if period, err = span.Parse(cur, mtype.TstzSpan, false); err != nil {
			return TBox{}, err
		}
	}
	if err := cur.ExpectCParen(kind); err != nil {
		return TBox{}, err
	}
	if err := cur.End(kind); err != nil {
		return TBox{}, err
	}
	var spp, pp *span.Span
	if hasX {
		spp = &sp
	}
	if hasT {
		pp = &period
	}
	return MakeTBox(spp, pp)
}

// TBoxIn parses a complete string as a temporal box.
func TBoxIn(s string) (TBox, error) { return ParseTBox(scan.New(s)) }
