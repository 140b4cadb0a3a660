package base

import (
	"strconv"
	"strings"

	"github.com/meos-project/meos/geo"
	"github.com/meos-project/meos/mtype"
	"github.com/meos-project/meos/scan"
)

// ElemDelims are the structural terminators of a set element or span
// bound.
const ElemDelims = ",]})"

func unescapeText(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func escapeText(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// FromText converts one captured token to a datum of the given base
// type.  The token carries no surrounding quotes.
func FromText(text string, typ mtype.Type) (Datum, error) {
	trimmed := strings.TrimSpace(text)
	switch typ {
	case mtype.Bool:
		switch strings.ToLower(trimmed) {
		case "t", "true":
			return BoolDatum(true), nil
		case "f", "false":
			return BoolDatum(false), nil
		}
		return Datum{}, TextErrorf("Invalid input syntax for type bool: %q", text)
	case mtype.Int:
		v, err := strconv.ParseInt(trimmed, 10, 32)
		if err != nil {
			return Datum{}, TextErrorf("Invalid input syntax for type int: %q", text)
		}
		return Int32Datum(int32(v)), nil
	case mtype.BigInt:
		v, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return Datum{}, TextErrorf("Invalid input syntax for type bigint: %q", text)
		}
		return Int64Datum(v), nil
	case mtype.Float:
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return Datum{}, TextErrorf("Invalid input syntax for type float: %q", text)
		}
		return Float8Datum(v), nil
	case mtype.Text:
		return TextDatum(unescapeText(text)), nil
	case mtype.Date:
		v, err := ParseDate(trimmed)
		if err != nil {
			return Datum{}, err
		}
		return DateDatum(v), nil
	case mtype.TimestampTz:
		v, err := ParseTimestampTz(trimmed)
		if err != nil {
			return Datum{}, err
		}
		return TimestampTzDatum(v), nil
	case mtype.Geometry, mtype.Geography:
		g, err := geo.FromWkt(trimmed, typ == mtype.Geography)
		if err != nil {
			return Datum{}, TextErrorf("Could not parse %s: %v", typ, err)
		}
		return GeoDatum(g), nil
	case mtype.NPoint:
		np, err := geo.ParseNPoint(scan.New(trimmed), true)
		if err != nil {
			return Datum{}, err
		}
		return NPointDatum(np), nil
	}
	return Datum{}, InternalErrorf("FromText: unknown base type %s", typ)
}

// ParseElem reads one set element or span bound at the cursor.  The scan
// stops at the first structural terminator outside quotes; a
// double-quoted element of any base type consumes both quotes.
func ParseElem(cur *scan.Cursor, typ mtype.Type) (Datum, error) {
	if cur.Peek() == '"' {
		text, err := cur.QuotedText()
		if err != nil {
			return Datum{}, TextErrorf("Could not parse %s value: %v", typ, err)
		}
		return FromText(text, typ)
	}
	text := cur.DelimitedText(ElemDelims)
	if strings.TrimSpace(text) == "" {
		return Datum{}, TextErrorf("Could not parse %s value: empty element", typ)
	}
	return FromText(text, typ)
}

// ParseAt reads a base value terminated by the `@` of a temporal
// instant and consumes the `@`.
func ParseAt(cur *scan.Cursor, typ mtype.Type) (Datum, error) {
	var text string
	if cur.Peek() == '"' {
		t, err := cur.QuotedText()
		if err != nil {
			return Datum{}, TextErrorf("Could not parse %s value: %v", typ, err)
		}
		text = t
	} else {
		text = cur.DelimitedText("@")
	}
	if !cur.TryChar('@') {
		return Datum{}, TextErrorf("Missing delimiter character '@': %s", cur.Rest())
	}
	return FromText(text, typ)
}

// ParseTimestamp reads a timestamp token at the cursor and converts it.
func ParseTimestamp(cur *scan.Cursor) (int64, error) {
	return ParseTimestampTz(cur.TimestampText())
}
