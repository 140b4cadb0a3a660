package geo

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/meos-project/meos/scan"
	"github.com/pkg/errors"
)

// NPoint is a network point: a route identifier plus a relative position
// along the route in [0, 1].
type NPoint struct {
	Rid int64
	Pos float64
}

// NSegment is a directed stretch of a route between two relative
// positions.
type NSegment struct {
	Rid      int64
	PosStart float64
	PosEnd   float64
}

// MarshalNPoint packs an NPoint into its fixed 16-byte payload form.
func MarshalNPoint(np NPoint) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf, uint64(np.Rid))
	binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(np.Pos))
	return buf
}

// UnmarshalNPoint decodes a payload produced by MarshalNPoint.
func UnmarshalNPoint(b []byte) (NPoint, error) {
	if len(b) < 16 {
		return NPoint{}, errors.New("npoint payload too short")
	}
	return NPoint{
		Rid: int64(binary.LittleEndian.Uint64(b)),
		Pos: math.Float64frombits(binary.LittleEndian.Uint64(b[8:])),
	}, nil
}

func (np NPoint) String() string {
	return "NPOINT(" + strconv.FormatInt(np.Rid, 10) + "," +
		strconv.FormatFloat(np.Pos, 'g', -1, 64) + ")"
}

func (ns NSegment) String() string {
	return "NSEGMENT(" + strconv.FormatInt(ns.Rid, 10) + "," +
		strconv.FormatFloat(ns.PosStart, 'g', -1, 64) + "," +
		strconv.FormatFloat(ns.PosEnd, 'g', -1, 64) + ")"
}

// ParseNPoint reads an `NPOINT(<rid>,<pos>)` literal at the cursor.
func ParseNPoint(cur *scan.Cursor, end bool) (NPoint, error) {
	const kind = "network point"
	if !cur.MatchPrefixFold("NPOINT") {
		return NPoint{}, errors.New("Could not parse network point")
	}
	if err := cur.ExpectOParen(kind); err != nil {
		return NPoint{}, err
	}
	ridText := cur.DelimitedText(",)")
	rid, err := strconv.ParseInt(trimSpaces(ridText), 10, 64)
	if err != nil {
		return NPoint{}, errors.Errorf(
			"Could not parse network point: invalid route %q", ridText)
	}
	cur.TryComma()
	pos, err := cur.Double()
	if err != nil {
		return NPoint{}, err
	}
	if pos < 0 || pos > 1 {
		return NPoint{}, errors.New(
			"The relative position must be a real number between 0 and 1")
	}
	if err := cur.ExpectCParen(kind); err != nil {
		return NPoint{}, err
	}
	if end {
		if err := cur.End(kind); err != nil {
			return NPoint{}, err
		}
	}
	return NPoint{Rid: rid, Pos: pos}, nil
}

// ParseNSegment reads an `NSEGMENT(<rid>,<pos1>,<pos2>)` literal.
func ParseNSegment(cur *scan.Cursor) (NSegment, error) {
	const kind = "network segment"
	if !cur.MatchPrefixFold("NSEGMENT") {
		return NSegment{}, errors.New("Could not parse network segment")
	}
	if err := cur.ExpectOParen(kind); err != nil {
		return NSegment{}, err
	}
	ridText := cur.DelimitedText(",)")
	rid, err := strconv.ParseInt(trimSpaces(ridText), 10, 64)
	if err != nil {
		return NSegment{}, errors.Errorf(
			"Could not parse network segment: invalid route %q", ridText)
	}
	cur.TryComma()
	p1, err := cur.Double()
	if err != nil {
		return NSegment{}, err
	}
	cur.TryComma()
	p2, err := cur.Double()
	if err != nil {
		return NSegment{}, err
	}
	if p1 < 0 || p1 > 1 || p2 < 0 || p2 > 1 {
		return NSegment{}, errors.New(
			"The relative position must be a real number between 0 and 1")
	}
	if err := cur.ExpectCParen(kind); err != nil {
		return NSegment{}, err
	}
	if err := cur.End(kind); err != nil {
		return NSegment{}, err
	}
	return NSegment{Rid: rid, PosStart: p1, PosEnd: p2}, nil
}

func trimSpaces(s string) string {
	i, j := 0, len(s)
	for i < j && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	for j > i && (s[j-1] == ' ' || s[j-1] == '\t') {
		j--
	}
	return s[i:j]
}
