package box

import (
	"fmt"
	"strings"

	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/geo"
	"github.com/meos-project/meos/mtype"
	"github.com/meos-project/meos/scan"
	"github.com/meos-project/meos/span"
)

// STBox bounds a spatiotemporal value: an optional 2/3-D extent, an
// optional time span, an SRID and a geodetic flag.
type STBox struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
	Zmin, Zmax float64
	Period     span.Span // valid only when HasT
	Srid       int32
	HasX       bool
	HasZ       bool
	HasT       bool
	Geodetic   bool
}

// MakeSTBox validates the dimension combination.  A geodetic box with no
// SRID defaults to WGS-84.
func MakeSTBox(b STBox) (STBox, error) {
	if !b.HasX && !b.HasT {
		return STBox{}, base.ValueErrorf(
			"A spatiotemporal box must have at least one of space and time dimensions")
	}
	if b.HasZ && !b.HasX {
		return STBox{}, base.ValueErrorf(
			"A spatiotemporal box with a Z dimension must have an X dimension")
	}
	if b.HasT && b.Period.Base != mtype.TimestampTz {
		return STBox{}, base.TypeErrorf(
			"The time span of a spatiotemporal box must be a timestamptz span")
	}
	if b.Geodetic && b.Srid == geo.SridUnknown {
		b.Srid = geo.SridWGS84
	}
	return b, nil
}

// FromGeo returns the degenerate box of one point.
func FromGeo(g *geo.Geo) (STBox, error) {
	if g.IsEmpty() {
		return STBox{}, base.ValueErrorf("The geometry must not be empty")
	}
	return MakeSTBox(STBox{
		Xmin: g.X(), Xmax: g.X(),
		Ymin: g.Y(), Ymax: g.Y(),
		Zmin: g.Z(), Zmax: g.Z(),
		Srid: g.Srid(), HasX: true, HasZ: g.HasZ(), Geodetic: g.Geodetic(),
	})
}

// ExpandGeo grows the box to cover a point.
func (b *STBox) ExpandGeo(g *geo.Geo) error {
	o, err := FromGeo(g)
	if err != nil {
		return err
	}
	b.Expand(o)
	return nil
}

// ExpandTime grows the period to cover a timestamp.
func (b *STBox) ExpandTime(usec int64) {
	sp, _ := span.FromValue(base.TimestampTzDatum(usec), mtype.TimestampTz)
	if !b.HasT {
		b.Period, b.HasT = sp, true
		return
	}
	b.Period.Expand(sp)
}

// Expand grows b to cover o.
func (b *STBox) Expand(o STBox) {
	if o.HasX {
		if !b.HasX {
			b.Xmin, b.Xmax = o.Xmin, o.Xmax
			b.Ymin, b.Ymax = o.Ymin, o.Ymax
			b.Zmin, b.Zmax = o.Zmin, o.Zmax
			b.HasX, b.HasZ = true, o.HasZ
			b.Srid, b.Geodetic = o.Srid, o.Geodetic
		} else {
			if o.Xmin < b.Xmin {
				b.Xmin = o.Xmin
			}
			if o.Xmax > b.Xmax {
				b.Xmax = o.Xmax
			}
			if o.Ymin < b.Ymin {
				b.Ymin = o.Ymin
			}
			if o.Ymax > b.Ymax {
				b.Ymax = o.Ymax
			}
			if b.HasZ && o.HasZ {
				if o.Zmin < b.Zmin {
					b.Zmin = o.Zmin
				}
				if o.Zmax > b.Zmax {
					b.Zmax = o.Zmax
				}
			}
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
func (b STBox) Eq(o STBox) bool {
	if b.HasX != o.HasX || b.HasZ != o.HasZ || b.HasT != o.HasT ||
		b.Geodetic != o.Geodetic || b.Srid != o.Srid {
		return false
	}
	if b.HasX && (b.Xmin != o.Xmin || b.Xmax != o.Xmax ||
		b.Ymin != o.Ymin || b.Ymax != o.Ymax) {
		return false
	}
	if b.HasZ && (b.Zmin != o.Zmin || b.Zmax != o.Zmax) {
		return false
	}
	if b.HasT && !b.Period.Eq(o.Period) {
		return false
	}
	return true
}

// Cmp is the B-tree comparator: time dimension first, then the space
// extents in axis order.
func (b STBox) Cmp(o STBox) int {
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
		pairs := [][2]float64{
			{b.Xmin, o.Xmin}, {b.Xmax, o.Xmax},
			{b.Ymin, o.Ymin}, {b.Ymax, o.Ymax},
		}
		if b.HasZ && o.HasZ {
			pairs = append(pairs, [2]float64{b.Zmin, o.Zmin}, [2]float64{b.Zmax, o.Zmax})
		}
		for _, p := range pairs {
			if p[0] < p[1] {
				return -1
			}
			if p[0] > p[1] {
				return 1
			}
		}
	}
	switch {
	case b.Srid < o.Srid:
		return -1
	case b.Srid > o.Srid:
		return 1
	}
	return 0
}

// Hash32 returns the 32-bit hash of the box.
func (b STBox) Hash32() uint32 {
	var h uint32
	if b.HasX {
		h = base.Combine32(h, base.Hash32(base.Float8Datum(b.Xmin), mtype.Float))
		h = base.Combine32(h, base.Hash32(base.Float8Datum(b.Xmax), mtype.Float))
		h = base.Combine32(h, base.Hash32(base.Float8Datum(b.Ymin), mtype.Float))
		h = base.Combine32(h, base.Hash32(base.Float8Datum(b.Ymax), mtype.Float))
	}
	if b.HasZ {
		h = base.Combine32(h, base.Hash32(base.Float8Datum(b.Zmin), mtype.Float))
		h = base.Combine32(h, base.Hash32(base.Float8Datum(b.Zmax), mtype.Float))
	}
	if b.HasT {
		h = base.Combine32(h, b.Period.Hash32())
	}
	return base.Combine32(h, uint32(b.Srid))
}

// Out renders the box as text.
func (b STBox) Out(maxdd int) string {
	var sb strings.Builder
	if b.Srid > 0 && (!b.Geodetic || b.Srid != geo.SridWGS84) {
		fmt.Fprintf(&sb, "SRID=%d;", b.Srid)
	}
	if b.Geodetic {
		sb.WriteString("GEODSTBOX ")
	} else {
		sb.WriteString("STBOX ")
	}
	switch {
	case b.HasZ && b.HasT:
		sb.WriteString("ZT")
	case b.HasX && b.HasT:
		sb.WriteString("XT")
	case b.HasZ:
		sb.WriteString("Z")
	case b.HasX:
		sb.WriteString("X")
	default:
		sb.WriteString("T")
	}
	// The outer parenthesis exists only when the box has a time
	// dimension.
	if b.HasT {
		sb.WriteByte('(')
	}
	if b.HasX {
		sb.WriteString("((")
		sb.WriteString(base.FormatFloat(b.Xmin, maxdd))
		sb.WriteByte(',')
		sb.WriteString(base.FormatFloat(b.Ymin, maxdd))
		if b.HasZ {
			sb.WriteByte(',')
			sb.WriteString(base.FormatFloat(b.Zmin, maxdd))
		}
		sb.WriteString("),(")
		sb.WriteString(base.FormatFloat(b.Xmax, maxdd))
		sb.WriteByte(',')
		sb.WriteString(base.FormatFloat(b.Ymax, maxdd))
		if b.HasZ {
			sb.WriteByte(',')
			sb.WriteString(base.FormatFloat(b.Zmax, maxdd))
		}
		sb.WriteString("))")
		if b.HasT {
			sb.WriteByte(',')
		}
	}
	if b.HasT {
		sb.WriteString(b.Period.Out(maxdd))
		sb.WriteByte(')')
	}
	return sb.String()
}

func (b STBox) String() string { return b.Out(base.MaxDigits) }

// ParseSTBox reads a spatiotemporal box at the cursor and requires end
// of input.
func ParseSTBox(cur *scan.Cursor) (STBox, error) {
	const kind = "spatiotemporal box"
	var b STBox
	srid, hasSrid := cur.SRID()
	b.Srid = srid
	if cur.MatchPrefixFold("GEODSTBOX") {
		b.Geodetic = true
		if !hasSrid {
			b.Srid = geo.SridWGS84
		}
	} else if !cur.MatchPrefixFold("STBOX") {
		return STBox{}, base.TextErrorf("Could not parse spatiotemporal box")
	}
	if cur.MatchPrefixFold("ZT") {
		b.HasX, b.HasZ, b.HasT = true, true, true
	} else if cur.MatchPrefixFold("XT") {
		b.HasX, b.HasT = true, true
	} else if cur.MatchPrefixFold("Z") {
		b.HasX, b.HasZ = true, true
	} else if cur.MatchPrefixFold("X") {
		b.HasX = true
	} else if cur.MatchPrefixFold("T") {
		b.HasT = true
	} else {
		return STBox{}, base.TextErrorf(
			"Could not parse spatiotemporal box: Missing dimension information")
	}
	if b.HasT {
		if err := cur.ExpectOParen(kind); err != nil {
			return STBox{}, err
		}
	}
	if b.HasX {
		if err := cur.ExpectOParen(kind); err != nil {
			return STBox{}, err
		}
		if err := parseCorner(cur, &b.Xmin, &b.Ymin, &b.Zmin, b.HasZ); err != nil {
			return STBox{}, err
		}
		cur.TryComma()
		if err := parseCorner(cur, &b.Xmax, &b.Ymax, &b.Zmax, b.HasZ); err != nil {
			return STBox{}, err
		}
		if err := cur.ExpectCParen(kind); err != nil {
			return STBox{}, err
		}
		if b.HasT {
			cur.TryComma()
		}
	}
	if b.HasT {
		period, err := span.Parse(cur, mtype.TstzSpan, false)
		if err != nil {
			return STBox{}, err
		}
		b.Period = period
		if err := cur.ExpectCParen(kind); err != nil {
			return STBox{}, err
		}
	}
	if err := cur.End(kind); err != nil {
		return STBox{}, err
	}
	return MakeSTBox(b)
}

func parseCorner(cur *scan.Cursor, x, y, z *float64, hasZ bool) error {
	const kind = "spatiotemporal box"
	if err := cur.ExpectOParen(kind); err != nil {
		return err
	}
	var err error
	if *x, err = cur.Double(); err != nil {
		return err
	}
	cur.TryComma()
	if *y, err = cur.Double(); err != nil {
		return err
	}
	if hasZ {
		cur.TryComma()
		if *z, err = cur.Double(); err != nil {
			return err
		}
	}
	return cur.ExpectCParen(kind)
}

// STBoxIn parses a complete string as a spatiotemporal box.
func STBoxIn(s string) (STBox, error) { return ParseSTBox(scan.New(s)) }
