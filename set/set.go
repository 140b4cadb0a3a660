// Package set implements the set container: an ordered, duplicate-free
// sequence of base values.  By-value elements live in an inline word
// array; by-reference elements are packed into a single byte buffer
// addressed through a word-aligned offsets table, mirroring the on-disk
// layout of the database the format comes from.  Geometry and geography
// sets carry a precomputed STBox bounding box and enforce SRID and
// dimensionality uniformity; network point sets carry no bounding box
// and are not checked for uniformity.
package set

import (
	"github.com/biogo/store/llrb"
	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/box"
	"github.com/meos-project/meos/geo"
	"github.com/meos-project/meos/mtype"
)

const wordPad = 8

// Set is an ordered set of base values.  Constructors own their storage;
// accessors of by-reference elements return copies.
type Set struct {
	settype  mtype.Type
	basetype mtype.Type
	byval    bool
	hasZ     bool
	geodetic bool
	count    int
	maxcount int

	words   []uint64 // by-value payload
	offsets []uint32 // by-reference offsets into data
	data    []byte   // packed by-reference payload, word-aligned

	bbox *box.STBox // spatial sets only
}

type datumItem struct {
	d   base.Datum
	typ mtype.Type
}

func (it datumItem) Compare(c llrb.Comparable) int {
	return base.Cmp(it.d, c.(datumItem).d, it.typ)
}

// Make builds a set from values.  When ordered is true the caller
// promises strictly increasing input; otherwise the values are sorted
// and deduplicated.
func Make(values []base.Datum, basetype mtype.Type, ordered bool) (*Set, error) {
	return MakeExp(values, len(values), basetype, ordered)
}

// MakeExp is Make with growth headroom: storage is dimensioned for
// maxcount elements.
func MakeExp(values []base.Datum, maxcount int, basetype mtype.Type, ordered bool) (*Set, error) {
	if len(values) == 0 {
		return nil, base.ValueErrorf("A set must have at least one element")
	}
	if maxcount < len(values) {
		maxcount = len(values)
	}
	settype, ok := mtype.SetType(basetype)
	if !ok {
		return nil, base.InternalErrorf("no set type for base type %s", basetype)
	}

	hasZ, geodetic := false, false
	if mtype.Spatial(basetype) && basetype != mtype.NPoint {
		var err error
		if hasZ, geodetic, err = validateSpatial(values, basetype); err != nil {
			return nil, err
		}
	}

	elems := values
	if ordered {
		for i := 0; i+1 < len(elems); i++ {
			if base.Cmp(elems[i], elems[i+1], basetype) >= 0 {
				return nil, base.ValueErrorf(
					"The elements of a set must be increasing")
			}
		}
	} else if len(elems) > 1 {
		tree := &llrb.Tree{}
		for _, v := range elems {
			tree.Insert(datumItem{d: v, typ: basetype})
		}
		sorted := make([]base.Datum, 0, tree.Len())
		tree.Do(func(c llrb.Comparable) bool {
			sorted = append(sorted, c.(datumItem).d)
			return false
		})
		elems = sorted
	}

	s := &Set{
		settype:  settype,
		basetype: basetype,
		byval:    mtype.ByValue(basetype),
		hasZ:     hasZ,
		geodetic: geodetic,
		count:    len(elems),
		maxcount: maxcount,
	}
	if s.byval {
		s.words = make([]uint64, len(elems), maxcount)
		for i, v := range elems {
			s.words[i] = v.Word()
		}
	} else {
		s.offsets = make([]uint32, len(elems), maxcount)
		size := 0
		for _, v := range elems {
			size += pad(4 + len(v.Ref()))
		}
		s.data = make([]byte, 0, size)
		for i, v := range elems {
			s.offsets[i] = uint32(len(s.data))
			s.data = appendPayload(s.data, v.Ref())
		}
	}
	if mtype.Spatial(basetype) && basetype != mtype.NPoint {
		bb, err := spatialBbox(elems, basetype)
		if err != nil {
			return nil, err
		}
		s.bbox = &bb
	}
	return s, nil
}

func pad(n int) int {
	if rem := n % wordPad; rem != 0 {
		return n + wordPad - rem
	}
	return n
}

// appendPayload packs one by-reference payload: a 4-byte length header,
// the bytes, then zero fill up to word alignment.
func appendPayload(data, payload []byte) []byte {
	var hdr [4]byte
	hdr[0] = byte(len(payload))
	hdr[1] = byte(len(payload) >> 8)
	hdr[2] = byte(len(payload) >> 16)
	hdr[3] = byte(len(payload) >> 24)
	data = append(data, hdr[:]...)
	data = append(data, payload...)
	if rem := (4 + len(payload)) % wordPad; rem != 0 {
		data = append(data, make([]byte, wordPad-rem)...)
	}
	return data
}

// payloadAt unpacks the payload stored at a byte offset.
func payloadAt(data []byte, off uint32) []byte {
	n := uint32(data[off]) | uint32(data[off+1])<<8 |
		uint32(data[off+2])<<16 | uint32(data[off+3])<<24
	return data[off+4 : off+4+n : off+4+n]
}

func validateSpatial(values []base.Datum, basetype mtype.Type) (hasZ, geodetic bool, err error) {
	g0, err := values[0].Geo()
	if err != nil {
		return false, false, err
	}
	srid := g0.Srid()
	hasZ, geodetic = g0.HasZ(), g0.Geodetic()
	for _, v := range values {
		g, err := v.Geo()
		if err != nil {
			return false, false, err
		}
		if g.IsEmpty() {
			return false, false, base.ValueErrorf(
				"The geometries of a set must not be empty")
		}
		if g.Srid() != srid {
			return false, false, base.ValueErrorf(
				"Operation on mixed SRID: %d, %d", srid, g.Srid())
		}
		if g.HasZ() != hasZ || g.Geodetic() != geodetic {
			return false, false, base.ValueErrorf(
				"The geometries of a set must have the same dimensionality")
		}
	}
	return hasZ, geodetic, nil
}

func spatialBbox(values []base.Datum, basetype mtype.Type) (box.STBox, error) {
	g, err := values[0].Geo()
	if err != nil {
		return box.STBox{}, err
	}
	bb, err := box.FromGeo(g)
	if err != nil {
		return box.STBox{}, err
	}
	for _, v := range values[1:] {
		g, err := v.Geo()
		if err != nil {
			return box.STBox{}, err
		}
		if err := bb.ExpandGeo(g); err != nil {
			return box.STBox{}, err
		}
	}
	return bb, nil
}

// FromValue returns the singleton set of one value.
func FromValue(v base.Datum, basetype mtype.Type) (*Set, error) {
	return Make([]base.Datum{v}, basetype, true)
}

// Count returns the number of elements.
func (s *Set) Count() int { return s.count }

// Type returns the set type tag.
func (s *Set) Type() mtype.Type { return s.settype }

// BaseType returns the element type tag.
func (s *Set) BaseType() mtype.Type { return s.basetype }

// Bbox returns the cached bounding box of a geometry or geography set,
// nil otherwise.
func (s *Set) Bbox() *box.STBox { return s.bbox }

// valueAt returns the i-th (0-based) element borrowing the payload.
func (s *Set) valueAt(i int) base.Datum {
	if s.byval {
		return base.WordDatum(s.words[i])
	}
	return base.RefDatum(payloadAt(s.data, s.offsets[i]))
}

// ValueN returns the n-th element, 1-based, as an owned copy.
func (s *Set) ValueN(n int) (base.Datum, error) {
	if n < 1 || n > s.count {
		return base.Datum{}, base.ValueErrorf(
			"Index out of range: %d (count %d)", n, s.count)
	}
	return s.elem(n - 1), nil
}

// elem returns the i-th (0-based) element as an owned copy.
func (s *Set) elem(i int) base.Datum {
	d := s.valueAt(i)
	if s.byval {
		return d
	}
	return d.Copy()
}

// StartValue returns the smallest element.
func (s *Set) StartValue() base.Datum { return s.elem(0) }

// EndValue returns the largest element.
func (s *Set) EndValue() base.Datum { return s.elem(s.count - 1) }

// Values returns owned copies of all elements in order.
func (s *Set) Values() []base.Datum {
	out := make([]base.Datum, s.count)
	for i := range out {
		out[i] = s.elem(i)
	}
	return out
}

// Copy deep-copies the set.
func (s *Set) Copy() *Set {
	c := *s
	c.words = append([]uint64(nil), s.words...)
	c.offsets = append([]uint32(nil), s.offsets...)
	c.data = append([]byte(nil), s.data...)
	if s.bbox != nil {
		bb := *s.bbox
		c.bbox = &bb
	}
	return &c
}

// Srid returns the SRID of a spatial set.
func (s *Set) Srid() (int32, error) {
	if !mtype.Spatial(s.basetype) {
		return 0, base.TypeErrorf("Srid of non-spatial set %s", s.settype)
	}
	if s.basetype == mtype.NPoint {
		return geo.SridUnknown, nil
	}
	g, err := s.StartValue().Geo()
	if err != nil {
		return 0, err
	}
	return g.Srid(), nil
}

// SetSrid overwrites the SRID of every element of a geo set.
func (s *Set) SetSrid(srid int32) error {
	if !mtype.GeoBase(s.basetype) {
		return base.TypeErrorf("SetSrid of non-geo set %s", s.settype)
	}
	values := s.Values()
	for i, v := range values {
		g, err := v.Geo()
		if err != nil {
			return err
		}
		g.SetSrid(srid)
		values[i] = base.GeoDatum(g)
	}
	rebuilt, err := Make(values, s.basetype, true)
	if err != nil {
		return err
	}
	*s = *rebuilt
	return nil
}

// Cmp is the B-tree comparator: elementwise, then by count.
func (s *Set) Cmp(o *Set) int {
	n := s.count
	if o.count < n {
		n = o.count
	}
	for i := 0; i < n; i++ {
		if c := base.Cmp(s.valueAt(i), o.valueAt(i), s.basetype); c != 0 {
			return c
		}
	}
	switch {
	case s.count < o.count:
		return -1
	case s.count > o.count:
		return 1
	}
	return 0
}

// Eq reports set equality.
func (s *Set) Eq(o *Set) bool {
	return s.settype == o.settype && s.count == o.count && s.Cmp(o) == 0
}

// Hash32 returns the 32-bit hash of the set.
func (s *Set) Hash32() uint32 {
	h := uint32(1)
	for i := 0; i < s.count; i++ {
		h = base.Combine32(h, base.Hash32(s.elem(i), s.basetype))
	}
	return h
}

// Hash64 returns the seeded 64-bit hash of the set.
func (s *Set) Hash64(seed uint64) uint64 {
	h := uint64(1)
	for i := 0; i < s.count; i++ {
		h = base.Combine64(h, base.Hash64(s.elem(i), s.basetype, seed))
	}
	return h
}
