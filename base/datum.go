// Package base holds the scalar layer of the library: the Datum sum type
// that every container stores, the text codec for each base type, and
// the comparison, arithmetic and hash kernels over datums.
//
// A Datum is either an inline machine word or an owned byte payload; the
// catalog's ByValue predicate decides which representation a base type
// uses.  Containers copy by-reference payloads into their own storage,
// so a Datum handed to a constructor can be reused freely afterwards.
package base

import (
	"math"

	"github.com/meos-project/meos/geo"
	"github.com/meos-project/meos/mtype"
)

// Datum is one base value: an inline word for by-value types, an owned
// byte slice for by-reference types.
type Datum struct {
	word uint64
	ref  []byte
}

// Word-side constructors.

// Int32Datum wraps an int value.
func Int32Datum(v int32) Datum { return Datum{word: uint64(uint32(v))} }

// Int64Datum wraps a bigint value.
func Int64Datum(v int64) Datum { return Datum{word: uint64(v)} }

// Float8Datum wraps a float value.
func Float8Datum(v float64) Datum { return Datum{word: math.Float64bits(v)} }

// BoolDatum wraps a bool value.
func BoolDatum(v bool) Datum {
	if v {
		return Datum{word: 1}
	}
	return Datum{word: 0}
}

// DateDatum wraps a date value given as days since the Unix epoch.
func DateDatum(days int32) Datum { return Datum{word: uint64(uint32(days))} }

// TimestampTzDatum wraps a timestamptz given as microseconds since the
// Unix epoch, UTC.
func TimestampTzDatum(usec int64) Datum { return Datum{word: uint64(usec)} }

// Reference-side constructors.  The payload is owned by the datum.

// TextDatum wraps a text value.
func TextDatum(s string) Datum { return Datum{ref: []byte(s)} }

// GeoDatum wraps a geometry or geography value.
func GeoDatum(g *geo.Geo) Datum { return Datum{ref: g.Marshal()} }

// NPointDatum wraps a network point.
func NPointDatum(np geo.NPoint) Datum { return Datum{ref: geo.MarshalNPoint(np)} }

// RefDatum wraps an already-packed payload, e.g. one read back from a
// container's storage.  The slice is borrowed, not copied.
func RefDatum(b []byte) Datum { return Datum{ref: b} }

// WordDatum wraps a raw machine word read back from a container's
// storage.
func WordDatum(w uint64) Datum { return Datum{word: w} }

// Accessors.  Calling the wrong accessor for the datum's type yields
// garbage, exactly as with the original's DatumGet casts; containers
// always consult the catalog first.

// Int32 unwraps an int value.
func (d Datum) Int32() int32 { return int32(uint32(d.word)) }

// Int64 unwraps a bigint value.
func (d Datum) Int64() int64 { return int64(d.word) }

// Float8 unwraps a float value.
func (d Datum) Float8() float64 { return math.Float64frombits(d.word) }

// Bool unwraps a bool value.
func (d Datum) Bool() bool { return d.word != 0 }

// Date unwraps a date value as days since the Unix epoch.
func (d Datum) Date() int32 { return int32(uint32(d.word)) }

// TimestampTz unwraps a timestamptz as microseconds since the Unix
// epoch.
func (d Datum) TimestampTz() int64 { return int64(d.word) }

// Text unwraps a text value.
func (d Datum) Text() string { return string(d.ref) }

// Geo unwraps a geometry or geography value.
func (d Datum) Geo() (*geo.Geo, error) { return geo.Unmarshal(d.ref) }

// NPoint unwraps a network point value.
func (d Datum) NPoint() (geo.NPoint, error) { return geo.UnmarshalNPoint(d.ref) }

// Ref returns the packed payload of a by-reference datum.
func (d Datum) Ref() []byte { return d.ref }

// Word returns the inline word of a by-value datum.
func (d Datum) Word() uint64 { return d.word }

// IsRef reports whether the datum carries a byte payload.
func (d Datum) IsRef() bool { return d.ref != nil }

// Copy deep-copies the datum.
func (d Datum) Copy() Datum {
	if d.ref == nil {
		return d
	}
	ref := make([]byte, len(d.ref))
	copy(ref, d.ref)
	return Datum{ref: ref}
}

// SpatialSrid returns the SRID carried by a spatial datum.
func SpatialSrid(d Datum, typ mtype.Type) (int32, error) {
	switch typ {
	case mtype.Geometry, mtype.Geography:
		g, err := d.Geo()
		if err != nil {
			return 0, err
		}
		return g.Srid(), nil
	case mtype.NPoint:
		return geo.SridUnknown, nil
	}
	return 0, InternalErrorf("SpatialSrid: %s is not spatial", typ)
}

// SpatialFlags returns (hasZ, geodetic) for a spatial datum.
func SpatialFlags(d Datum, typ mtype.Type) (bool, bool, error) {
	switch typ {
	case mtype.Geometry, mtype.Geography:
		g, err := d.Geo()
		if err != nil {
			return false, false, err
		}
		return g.HasZ(), g.Geodetic(), nil
	case mtype.NPoint:
		return false, false, nil
	}
	return false, false, InternalErrorf("SpatialFlags: %s is not spatial", typ)
}
