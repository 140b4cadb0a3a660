package span

import (
	"strings"

	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/mtype"
	"github.com/meos-project/meos/scan"
)

// Parse reads one span at the cursor.  Mismatched brackets (`[1,2)`) are
// accepted; the bracket kind decides inclusivity independently at each
// end.  When end is set the input must be exhausted afterwards.
func Parse(cur *scan.Cursor, spantype mtype.Type, end bool) (Span, error) {
	basetype, ok := mtype.BaseType(spantype)
	if !ok {
		return Span{}, base.InternalErrorf("Parse: no base type for %s", spantype)
	}
	var lowerInc bool
	if cur.TryOBracket() {
		lowerInc = true
	} else if cur.TryOParen() {
		lowerInc = false
	} else {
		return Span{}, base.TextErrorf(
			"Could not parse span: Missing opening bracket/parenthesis")
	}
	lower, err := base.ParseElem(cur, basetype)
	if err != nil {
		return Span{}, err
	}
	cur.TryComma()
	upper, err := base.ParseElem(cur, basetype)
	if err != nil {
		return Span{}, err
	}
	var upperInc bool
	if cur.TryCBracket() {
		upperInc = true
	} else if cur.TryCParen() {
		upperInc = false
	} else {
		return Span{}, base.TextErrorf(
			"Could not parse span: Missing closing bracket/parenthesis")
	}
	if end {
		if err := cur.End("span"); err != nil {
			return Span{}, err
		}
	}
	sp, err := Make(lower, upper, lowerInc, upperInc, basetype)
	if err != nil {
		// A constructor rejection during parsing is an input error.
		return Span{}, base.TextErrorf("Could not parse span: %v", err)
	}
	return sp, nil
}

// In parses a complete string as a span of the given type.
func In(s string, spantype mtype.Type) (Span, error) {
	return Parse(scan.New(s), spantype, true)
}

// Out renders the span as text.
func (s Span) Out(maxdd int) string {
	var sb strings.Builder
	if s.LowerInc {
		sb.WriteByte('[')
	} else {
		sb.WriteByte('(')
	}
	lower, _ := base.Out(s.Lower, s.Base, maxdd)
	upper, _ := base.Out(s.Upper, s.Base, maxdd)
	sb.WriteString(lower)
	sb.WriteString(", ")
	sb.WriteString(upper)
	if s.UpperInc {
		sb.WriteByte(']')
	} else {
		sb.WriteByte(')')
	}
	return sb.String()
}

// String renders the span with the default float precision.
func (s Span) String() string { return s.Out(base.MaxDigits) }
