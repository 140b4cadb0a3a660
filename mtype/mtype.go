// Package mtype is the static catalog of MEOS types.  It answers, for any
// type tag, which sibling types it relates to (base ↔ span ↔ span set ↔ set),
// and which structural properties it has (by-value, canonical, continuous,
// numeric, spatial, time).  The catalog is the single source of truth for
// "what can go with what": every parser and container constructor routes
// through it.
package mtype

import "fmt"

// Type tags every value kind the library understands.
type Type int

const (
	Unknown Type = iota

	// Base types.
	Bool
	Int
	BigInt
	Float
	Text
	Date
	TimestampTz
	Geometry
	Geography
	NPoint

	// Set types.
	IntSet
	BigIntSet
	FloatSet
	TextSet
	DateSet
	TstzSet
	GeomSet
	GeogSet
	NPointSet

	// Span types.
	IntSpan
	BigIntSpan
	FloatSpan
	DateSpan
	TstzSpan

	// Span set types.
	IntSpanSet
	BigIntSpanSet
	FloatSpanSet
	DateSpanSet
	TstzSpanSet

	// Bounding box types.
	TBox
	STBox

	// Temporal types.
	TBool
	TInt
	TFloat
	TText
	TGeomPoint
	TGeogPoint
	TNPoint
)

var names = map[Type]string{
	Unknown:       "unknown",
	Bool:          "bool",
	Int:           "int",
	BigInt:        "bigint",
	Float:         "float",
	Text:          "text",
	Date:          "date",
	TimestampTz:   "timestamptz",
	Geometry:      "geometry",
	Geography:     "geography",
	NPoint:        "npoint",
	IntSet:        "intset",
	BigIntSet:     "bigintset",
	FloatSet:      "floatset",
	TextSet:       "textset",
	DateSet:       "dateset",
	TstzSet:       "tstzset",
	GeomSet:       "geomset",
	GeogSet:       "geogset",
	NPointSet:     "npointset",
	IntSpan:       "intspan",
	BigIntSpan:    "bigintspan",
	FloatSpan:     "floatspan",
	DateSpan:      "datespan",
	TstzSpan:      "tstzspan",
	IntSpanSet:    "intspanset",
	BigIntSpanSet: "bigintspanset",
	FloatSpanSet:  "floatspanset",
	DateSpanSet:   "datespanset",
	TstzSpanSet:   "tstzspanset",
	TBox:          "tbox",
	STBox:         "stbox",
	TBool:         "tbool",
	TInt:          "tint",
	TFloat:        "tfloat",
	TText:         "ttext",
	TGeomPoint:    "tgeompoint",
	TGeogPoint:    "tgeogpoint",
	TNPoint:       "tnpoint",
}

func (t Type) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return fmt.Sprintf("mtype.Type(%d)", int(t))
}

// FromName returns the type tag for a catalog name, or Unknown.
// Matching is case-sensitive: catalog names are all lowercase.
func FromName(name string) Type {
	for t, s := range names {
		if s == name {
			return t
		}
	}
	return Unknown
}

// Sibling relations.  A zero entry means the relation does not exist for
// that tag.

var baseToSet = map[Type]Type{
	Int: IntSet, BigInt: BigIntSet, Float: FloatSet, Text: TextSet,
	Date: DateSet, TimestampTz: TstzSet, Geometry: GeomSet,
	Geography: GeogSet, NPoint: NPointSet,
}

var baseToSpan = map[Type]Type{
	Int: IntSpan, BigInt: BigIntSpan, Float: FloatSpan,
	Date: DateSpan, TimestampTz: TstzSpan,
}

var spanToSpanSet = map[Type]Type{
	IntSpan: IntSpanSet, BigIntSpan: BigIntSpanSet, FloatSpan: FloatSpanSet,
	DateSpan: DateSpanSet, TstzSpan: TstzSpanSet,
}

var tempToBase = map[Type]Type{
	TBool: Bool, TInt: Int, TFloat: Float, TText: Text,
	TGeomPoint: Geometry, TGeogPoint: Geography, TNPoint: NPoint,
}

func invert(m map[Type]Type) map[Type]Type {
	r := make(map[Type]Type, len(m))
	for k, v := range m {
		r[v] = k
	}
	return r
}

var (
	setToBase     = invert(baseToSet)
	spanToBase    = invert(baseToSpan)
	spanSetToSpan = invert(spanToSpanSet)
)

// BaseType returns the base type of a set, span, span set, or temporal
// type.  A base type is its own base.
func BaseType(t Type) (Type, bool) {
	if _, ok := baseToSet[t]; ok || t == Bool {
		return t, true
	}
	if b, ok := setToBase[t]; ok {
		return b, true
	}
	if b, ok := spanToBase[t]; ok {
		return b, true
	}
	if s, ok := spanSetToSpan[t]; ok {
		return spanToBase[s], true
	}
	if b, ok := tempToBase[t]; ok {
		return b, true
	}
	return Unknown, false
}

// SetType returns the set type built over a base type.
func SetType(t Type) (Type, bool) {
	s, ok := baseToSet[t]
	return s, ok
}

// SpanType returns the span type built over a base type, or the span type
// of a span set.
func SpanType(t Type) (Type, bool) {
	if s, ok := baseToSpan[t]; ok {
		return s, true
	}
	if s, ok := spanSetToSpan[t]; ok {
		return s, true
	}
	return Unknown, false
}

// SpanSetType returns the span set type built over a span or base type.
func SpanSetType(t Type) (Type, bool) {
	if ss, ok := spanToSpanSet[t]; ok {
		return ss, true
	}
	if s, ok := baseToSpan[t]; ok {
		return spanToSpanSet[s], true
	}
	return Unknown, false
}

// TemporalType returns the temporal type built over a base type.
func TemporalType(t Type) (Type, bool) {
	for temp, b := range tempToBase {
		if b == t {
			return temp, true
		}
	}
	return Unknown, false
}

// ByValue reports whether the base type fits in one machine word.
func ByValue(t Type) bool {
	switch t {
	case Bool, Int, BigInt, Float, Date, TimestampTz:
		return true
	}
	return false
}

// Canonical reports whether the base type has a discrete domain whose
// spans are stored in canonical [lower, upper) form.
func Canonical(t Type) bool {
	switch t {
	case Int, BigInt, Date:
		return true
	}
	return false
}

// Continuous reports whether linear interpolation is admissible over the
// type.  Applies to base and temporal tags alike.
func Continuous(t Type) bool {
	switch t {
	case Float, Geometry, Geography, NPoint, TFloat, TGeomPoint, TGeogPoint, TNPoint:
		return true
	}
	return false
}

// Numeric reports whether the type carries numeric values.
func Numeric(t Type) bool {
	switch t {
	case Int, BigInt, Float,
		IntSet, BigIntSet, FloatSet,
		IntSpan, BigIntSpan, FloatSpan,
		IntSpanSet, BigIntSpanSet, FloatSpanSet,
		TInt, TFloat:
		return true
	}
	return false
}

// Spatial reports whether the type carries spatial values.
func Spatial(t Type) bool {
	switch t {
	case Geometry, Geography, NPoint,
		GeomSet, GeogSet, NPointSet,
		STBox, TGeomPoint, TGeogPoint, TNPoint:
		return true
	}
	return false
}

// TimeType reports whether the type is a time type.
func TimeType(t Type) bool {
	switch t {
	case Date, TimestampTz, DateSet, TstzSet, DateSpan, TstzSpan,
		DateSpanSet, TstzSpanSet:
		return true
	}
	return false
}

// SetOf reports whether t is a set type.
func SetOf(t Type) bool { _, ok := setToBase[t]; return ok }

// SpanOf reports whether t is a span type.
func SpanOf(t Type) bool { _, ok := spanToBase[t]; return ok }

// SpanSetOf reports whether t is a span set type.
func SpanSetOf(t Type) bool { _, ok := spanSetToSpan[t]; return ok }

// TemporalOf reports whether t is a temporal type.
func TemporalOf(t Type) bool { _, ok := tempToBase[t]; return ok }

// GeoBase reports whether t is one of the two geo base types.  NPoint is
// spatial but not geo: its payload is a route reference, not coordinates.
func GeoBase(t Type) bool { return t == Geometry || t == Geography }

// QuotedBase reports whether set elements of the base type are emitted
// inside double quotes.  Text values already quote themselves in their
// output function.
func QuotedBase(t Type) bool {
	return t == TimestampTz || Spatial(t)
}
