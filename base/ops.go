package base

import (
	"bytes"
	"math"

	"github.com/meos-project/meos/mtype"
)

// Cmp is the B-tree comparator over datums of one base type.
func Cmp(a, b Datum, typ mtype.Type) int {
	switch typ {
	case mtype.Bool:
		return boolCmp(a.Bool(), b.Bool())
	case mtype.Int, mtype.Date:
		return intCmp(int64(a.Int32()), int64(b.Int32()))
	case mtype.BigInt, mtype.TimestampTz:
		return intCmp(a.Int64(), b.Int64())
	case mtype.Float:
		return floatCmp(a.Float8(), b.Float8())
	default:
		// By-reference types order on their packed payload.
		return bytes.Compare(a.ref, b.ref)
	}
}

func boolCmp(a, b bool) int {
	switch {
	case a == b:
		return 0
	case b:
		return -1
	}
	return 1
}

func intCmp(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func floatCmp(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Eq reports datum equality under Cmp.
func Eq(a, b Datum, typ mtype.Type) bool { return Cmp(a, b, typ) == 0 }

// Add returns a + b for a numeric or time base type.
func Add(a, b Datum, typ mtype.Type) Datum {
	switch typ {
	case mtype.Int:
		return Int32Datum(a.Int32() + b.Int32())
	case mtype.BigInt:
		return Int64Datum(a.Int64() + b.Int64())
	case mtype.Float:
		return Float8Datum(a.Float8() + b.Float8())
	case mtype.Date:
		return DateDatum(a.Date() + b.Date())
	case mtype.TimestampTz:
		return TimestampTzDatum(a.TimestampTz() + b.TimestampTz())
	}
	return a
}

// Sub returns a - b for a numeric or time base type.
func Sub(a, b Datum, typ mtype.Type) Datum {
	switch typ {
	case mtype.Int:
		return Int32Datum(a.Int32() - b.Int32())
	case mtype.BigInt:
		return Int64Datum(a.Int64() - b.Int64())
	case mtype.Float:
		return Float8Datum(a.Float8() - b.Float8())
	case mtype.Date:
		return DateDatum(a.Date() - b.Date())
	case mtype.TimestampTz:
		return TimestampTzDatum(a.TimestampTz() - b.TimestampTz())
	}
	return a
}

// Distance returns |a - b| as a datum of the same type.
func Distance(a, b Datum, typ mtype.Type) Datum {
	if Cmp(a, b, typ) < 0 {
		return Sub(b, a, typ)
	}
	return Sub(a, b, typ)
}

// Double converts a numeric or time datum to float64 for interpolation.
func Double(d Datum, typ mtype.Type) float64 {
	switch typ {
	case mtype.Int, mtype.Date:
		return float64(d.Int32())
	case mtype.BigInt, mtype.TimestampTz:
		return float64(d.Int64())
	case mtype.Float:
		return d.Float8()
	}
	return math.NaN()
}

// FromDouble converts a float64 back to a datum of the given type,
// rounding for the discrete domains.
func FromDouble(v float64, typ mtype.Type) Datum {
	switch typ {
	case mtype.Int:
		return Int32Datum(int32(math.Round(v)))
	case mtype.BigInt:
		return Int64Datum(int64(math.Round(v)))
	case mtype.Float:
		return Float8Datum(v)
	case mtype.Date:
		return DateDatum(int32(math.Round(v)))
	case mtype.TimestampTz:
		return TimestampTzDatum(int64(math.Round(v)))
	}
	return Float8Datum(v)
}

// One returns the unit step of a canonical (discrete) base type.
func One(typ mtype.Type) Datum {
	switch typ {
	case mtype.Int, mtype.Date:
		return Int32Datum(1)
	case mtype.BigInt:
		return Int64Datum(1)
	}
	return Int32Datum(0)
}

// IncrBound returns the bound increased by one unit when the base type
// is canonical; other types pass through unchanged.
func IncrBound(d Datum, typ mtype.Type) Datum {
	if mtype.Canonical(typ) {
		return Add(d, One(typ), typ)
	}
	return d
}

// DecrBound returns the bound decreased by one unit when the base type
// is canonical; other types pass through unchanged.
func DecrBound(d Datum, typ mtype.Type) Datum {
	if mtype.Canonical(typ) {
		return Sub(d, One(typ), typ)
	}
	return d
}

// Positive reports whether a numeric datum is strictly greater than
// zero.
func Positive(d Datum, typ mtype.Type) bool {
	switch typ {
	case mtype.Int, mtype.Date:
		return d.Int32() > 0
	case mtype.BigInt, mtype.TimestampTz:
		return d.Int64() > 0
	case mtype.Float:
		return d.Float8() > 0
	}
	return false
}
