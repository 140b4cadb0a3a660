package set

import (
	"fmt"
	"strings"

	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/geo"
	"github.com/meos-project/meos/mtype"
	"github.com/meos-project/meos/scan"
)

// Parse reads a set at the cursor and requires end of input.  A leading
// `SRID=<n>;` prefix is accepted for geo sets only and is applied to
// every element.
func Parse(cur *scan.Cursor, settype mtype.Type) (*Set, error) {
	const kind = "set"
	basetype, ok := mtype.BaseType(settype)
	if !ok {
		return nil, base.InternalErrorf("Parse: no base type for %s", settype)
	}
	srid := geo.SridUnknown
	if v, hasSrid := cur.SRID(); hasSrid {
		if !mtype.GeoBase(basetype) {
			return nil, base.TypeErrorf(
				"The SRID prefix is not allowed for set type %s", settype)
		}
		srid = v
	}
	if err := cur.ExpectOBrace(kind); err != nil {
		return nil, err
	}
	var values []base.Datum
	v, err := base.ParseElem(cur, basetype)
	if err != nil {
		return nil, err
	}
	values = append(values, v)
	for cur.TryComma() {
		if v, err = base.ParseElem(cur, basetype); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if err := cur.ExpectCBrace(kind); err != nil {
		return nil, err
	}
	if err := cur.End(kind); err != nil {
		return nil, err
	}
	if srid != geo.SridUnknown {
		for i, v := range values {
			g, err := v.Geo()
			if err != nil {
				return nil, err
			}
			g.SetSrid(srid)
			values[i] = base.GeoDatum(g)
		}
	}
	return Make(values, basetype, false)
}

// In parses a complete string as a set of the given type.
func In(s string, settype mtype.Type) (*Set, error) {
	return Parse(scan.New(s), settype)
}

// Out renders the set as text.  Geo sets emit one `SRID=<n>;` header and
// elide the per-element prefix; timestamptz and spatial elements are
// quoted.
func (s *Set) Out(maxdd int) (string, error) {
	if maxdd < 0 {
		return "", base.ValueErrorf(
			"The number of decimal digits must not be negative")
	}
	var sb strings.Builder
	if mtype.GeoBase(s.basetype) {
		if srid, err := s.Srid(); err == nil && srid > 0 {
			fmt.Fprintf(&sb, "SRID=%d;", srid)
		}
	}
	quotes := mtype.QuotedBase(s.basetype)
	sb.WriteByte('{')
	for i := 0; i < s.count; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		text, err := base.OutWkt(s.elem(i), s.basetype, maxdd)
		if err != nil {
			return "", err
		}
		if quotes {
			sb.WriteByte('"')
			sb.WriteString(text)
			sb.WriteByte('"')
		} else {
			sb.WriteString(text)
		}
	}
	sb.WriteByte('}')
	return sb.String(), nil
}

// String renders the set with the default float precision.
func (s *Set) String() string {
	text, err := s.Out(base.MaxDigits)
	if err != nil {
		return fmt.Sprintf("<invalid %s: %v>", s.settype, err)
	}
	return text
}
