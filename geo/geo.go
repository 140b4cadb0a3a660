// Package geo is the value kernel for the spatial base types.  The rest
// of the library treats a Geo as opaque: it only asks for the SRID, the
// dimensionality flags, emptiness, a compact serialization to embed in
// container payloads, and the WKT/EWKT text forms.  Only point
// geometries are supported; that is the full extent of what the temporal
// point types carry.
package geo

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/meos-project/meos/scan"
	"github.com/pkg/errors"
)

// SridUnknown marks a value with no spatial reference assigned.
const SridUnknown int32 = 0

// SridWGS84 is the default reference system for geodetic values.
const SridWGS84 int32 = 4326

// Geo is a point geometry or geography.
type Geo struct {
	srid     int32
	x, y, z  float64
	m        float64
	hasZ     bool
	hasM     bool
	geodetic bool
	empty    bool
}

// MakePoint returns a 2-D point.
func MakePoint(srid int32, x, y float64, geodetic bool) *Geo {
	return &Geo{srid: srid, x: x, y: y, geodetic: geodetic}
}

// MakePointZ returns a 3-D point.
func MakePointZ(srid int32, x, y, z float64, geodetic bool) *Geo {
	return &Geo{srid: srid, x: x, y: y, z: z, hasZ: true, geodetic: geodetic}
}

// MakeEmpty returns the empty geometry.
func MakeEmpty(srid int32, geodetic bool) *Geo {
	return &Geo{srid: srid, empty: true, geodetic: geodetic}
}

// Srid returns the spatial reference identifier.
func (g *Geo) Srid() int32 { return g.srid }

// SetSrid overwrites the spatial reference identifier.
func (g *Geo) SetSrid(srid int32) { g.srid = srid }

// HasZ reports whether the point carries a Z coordinate.
func (g *Geo) HasZ() bool { return g.hasZ }

// HasM reports whether the point carries a measure coordinate.
func (g *Geo) HasM() bool { return g.hasM }

// Geodetic reports whether the value lives on the sphere.
func (g *Geo) Geodetic() bool { return g.geodetic }

// IsEmpty reports whether the value is the empty geometry.
func (g *Geo) IsEmpty() bool { return g.empty }

// X returns the x (or longitude) coordinate.
func (g *Geo) X() float64 { return g.x }

// Y returns the y (or latitude) coordinate.
func (g *Geo) Y() float64 { return g.y }

// Z returns the z coordinate; zero when HasZ is false.
func (g *Geo) Z() float64 { return g.z }

// Copy returns a deep copy.
func (g *Geo) Copy() *Geo {
	c := *g
	return &c
}

// Equal reports coordinate-and-srid equality.
func (g *Geo) Equal(o *Geo) bool {
	if g.empty != o.empty || g.hasZ != o.hasZ || g.hasM != o.hasM ||
		g.geodetic != o.geodetic || g.srid != o.srid {
		return false
	}
	if g.empty {
		return true
	}
	return g.x == o.x && g.y == o.y && g.z == o.z && g.m == o.m
}

const (
	flagZ        = 1 << 0
	flagM        = 1 << 1
	flagGeodetic = 1 << 2
	flagEmpty    = 1 << 3
)

// Marshal packs the value into the fixed little-endian layout used inside
// container payloads: flags byte, SRID, then the coordinates present.
func (g *Geo) Marshal() []byte {
	var flags byte
	if g.hasZ {
		flags |= flagZ
	}
	if g.hasM {
		flags |= flagM
	}
	if g.geodetic {
		flags |= flagGeodetic
	}
	if g.empty {
		flags |= flagEmpty
	}
	buf := make([]byte, 0, 5+4*8)
	buf = append(buf, flags)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(g.srid))
	if !g.empty {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(g.x))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(g.y))
		if g.hasZ {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(g.z))
		}
		if g.hasM {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(g.m))
		}
	}
	return buf
}

// Unmarshal decodes a payload produced by Marshal.
func Unmarshal(b []byte) (*Geo, error) {
	if len(b) < 5 {
		return nil, errors.New("geo payload too short")
	}
	flags := b[0]
	g := &Geo{
		srid:     int32(binary.LittleEndian.Uint32(b[1:5])),
		hasZ:     flags&flagZ != 0,
		hasM:     flags&flagM != 0,
		geodetic: flags&flagGeodetic != 0,
		empty:    flags&flagEmpty != 0,
	}
	if g.empty {
		return g, nil
	}
	need := 5 + 16
	if g.hasZ {
		need += 8
	}
	if g.hasM {
		need += 8
	}
	if len(b) < need {
		return nil, errors.New("geo payload truncated")
	}
	off := 5
	g.x = math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))
	g.y = math.Float64frombits(binary.LittleEndian.Uint64(b[off+8:]))
	off += 16
	if g.hasZ {
		g.z = math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))
		off += 8
	}
	if g.hasM {
		g.m = math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))
	}
	return g, nil
}

func fmtCoord(v float64, maxdd int) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if maxdd >= 0 {
		r := strconv.FormatFloat(v, 'f', maxdd, 64)
		r = strings.TrimRight(r, "0")
		r = strings.TrimRight(r, ".")
		if r == "" || r == "-" {
			r = "0"
		}
		if len(r) < len(s) {
			return r
		}
	}
	return s
}

// Wkt returns the Well-Known Text form without an SRID prefix.
func (g *Geo) Wkt(maxdd int) string {
	if g.empty {
		return "POINT EMPTY"
	}
	var sb strings.Builder
	sb.WriteString("POINT")
	if g.hasZ && g.hasM {
		sb.WriteString(" ZM ")
	} else if g.hasZ {
		sb.WriteString(" Z ")
	} else if g.hasM {
		sb.WriteString(" M ")
	}
	sb.WriteByte('(')
	sb.WriteString(fmtCoord(g.x, maxdd))
	sb.WriteByte(' ')
	sb.WriteString(fmtCoord(g.y, maxdd))
	if g.hasZ {
		sb.WriteByte(' ')
		sb.WriteString(fmtCoord(g.z, maxdd))
	}
	if g.hasM {
		sb.WriteByte(' ')
		sb.WriteString(fmtCoord(g.m, maxdd))
	}
	sb.WriteByte(')')
	return sb.String()
}

// Ewkt returns the extended WKT form, with an SRID prefix when one is
// assigned.
func (g *Geo) Ewkt(maxdd int) string {
	if g.srid > 0 {
		return fmt.Sprintf("SRID=%d;%s", g.srid, g.Wkt(maxdd))
	}
	return g.Wkt(maxdd)
}

// FromWkt parses a (extended) WKT point.  geodetic selects the geography
// flavour.
func FromWkt(s string, geodetic bool) (*Geo, error) {
	cur := scan.New(s)
	srid := SridUnknown
	if v, ok := cur.SRID(); ok {
		srid = v
	}
	if !cur.MatchPrefixFold("POINT") {
		return nil, errors.Errorf("Could not parse geometry: %q", s)
	}
	hasZ, hasM := false, false
	cur.Whitespace()
	if cur.MatchPrefixFold("ZM") {
		hasZ, hasM = true, true
	} else if cur.MatchPrefixFold("Z") {
		hasZ = true
	} else if cur.MatchPrefixFold("M") {
		hasM = true
	}
	if cur.MatchPrefixFold("EMPTY") {
		if err := cur.End("geometry"); err != nil {
			return nil, err
		}
		g := MakeEmpty(srid, geodetic)
		g.hasZ, g.hasM = hasZ, hasM
		return g, nil
	}
	if err := cur.ExpectOParen("geometry"); err != nil {
		return nil, err
	}
	g := &Geo{srid: srid, geodetic: geodetic, hasZ: hasZ, hasM: hasM}
	var err error
	if g.x, err = cur.Double(); err != nil {
		return nil, err
	}
	if g.y, err = cur.Double(); err != nil {
		return nil, err
	}
	if hasZ {
		if g.z, err = cur.Double(); err != nil {
			return nil, err
		}
	}
	if hasM {
		if g.m, err = cur.Double(); err != nil {
			return nil, err
		}
	}
	// A bare third coordinate means Z even without the tag.
	if !hasZ && !hasM {
		if b := cur.Peek(); b != ')' && b != 0 {
			if g.z, err = cur.Double(); err != nil {
				return nil, err
			}
			g.hasZ = true
		}
	}
	if err := cur.ExpectCParen("geometry"); err != nil {
		return nil, err
	}
	if err := cur.End("geometry"); err != nil {
		return nil, err
	}
	return g, nil
}
