package base

import (
	"strconv"
	"strings"

	"github.com/meos-project/meos/mtype"
)

// MaxDigits is the float precision used when no explicit precision is
// requested.
const MaxDigits = 15

// FormatFloat renders a float with at most maxdd decimal digits,
// dropping trailing zeros.
func FormatFloat(v float64, maxdd int) string {
	full := strconv.FormatFloat(v, 'f', -1, 64)
	if maxdd < 0 {
		return full
	}
	dot := strings.IndexByte(full, '.')
	if dot < 0 || len(full)-dot-1 <= maxdd {
		return full
	}
	s := strconv.FormatFloat(v, 'f', maxdd, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		s = "0"
	}
	return s
}

// Out renders one datum as text.  Text values are emitted inside double
// quotes with embedded quotes escaped; every other type emits its bare
// literal.  maxdd bounds the number of decimal digits of floats.
func Out(d Datum, typ mtype.Type, maxdd int) (string, error) {
	switch typ {
	case mtype.Bool:
		if d.Bool() {
			return "t", nil
		}
		return "f", nil
	case mtype.Int:
		return strconv.FormatInt(int64(d.Int32()), 10), nil
	case mtype.BigInt:
		return strconv.FormatInt(d.Int64(), 10), nil
	case mtype.Float:
		return FormatFloat(d.Float8(), maxdd), nil
	case mtype.Text:
		return `"` + escapeText(d.Text()) + `"`, nil
	case mtype.Date:
		return FormatDate(d.Date()), nil
	case mtype.TimestampTz:
		return FormatTimestampTz(d.TimestampTz()), nil
	case mtype.Geometry, mtype.Geography:
		g, err := d.Geo()
		if err != nil {
			return "", err
		}
		return g.Ewkt(maxdd), nil
	case mtype.NPoint:
		np, err := d.NPoint()
		if err != nil {
			return "", err
		}
		return np.String(), nil
	}
	return "", InternalErrorf("Out: unknown base type %s", typ)
}

// OutWkt renders a spatial datum without its SRID prefix; other types
// render as Out.  Containers that print a single SRID= header use this
// for their elements.
func OutWkt(d Datum, typ mtype.Type, maxdd int) (string, error) {
	if mtype.GeoBase(typ) {
		g, err := d.Geo()
		if err != nil {
			return "", err
		}
		return g.Wkt(maxdd), nil
	}
	return Out(d, typ, maxdd)
}
