package spanset

import (
	"strings"

	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/mtype"
	"github.com/meos-project/meos/scan"
	"github.com/meos-project/meos/span"
)

// Parse reads a span set at the cursor and requires end of input.
func Parse(cur *scan.Cursor, spansettype mtype.Type) (*SpanSet, error) {
	const kind = "span set"
	spantype, ok := mtype.SpanType(spansettype)
	if !ok {
		return nil, base.InternalErrorf("Parse: no span type for %s", spansettype)
	}
	if err := cur.ExpectOBrace(kind); err != nil {
		return nil, err
	}
	var spans []span.Span
	sp, err := span.Parse(cur, spantype, false)
	if err != nil {
		return nil, err
	}
	spans = append(spans, sp)
	for cur.TryComma() {
		if sp, err = span.Parse(cur, spantype, false); err != nil {
			return nil, err
		}
		spans = append(spans, sp)
	}
	if err := cur.ExpectCBrace(kind); err != nil {
		return nil, err
	}
	if err := cur.End(kind); err != nil {
		return nil, err
	}
	return Make(spans, true, false)
}

// In parses a complete string as a span set of the given type.
func In(s string, spansettype mtype.Type) (*SpanSet, error) {
	return Parse(scan.New(s), spansettype)
}

// Out renders the span set as text.
func (ss *SpanSet) Out(maxdd int) (string, error) {
	if maxdd < 0 {
		return "", base.ValueErrorf(
			"The number of decimal digits must not be negative")
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, sp := range ss.elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(sp.Out(maxdd))
	}
	sb.WriteByte('}')
	return sb.String(), nil
}

// String renders the span set with the default float precision.
func (ss *SpanSet) String() string {
	text, _ := ss.Out(base.MaxDigits)
	return text
}
