package spanset

import (
	"sort"

	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/mtype"
	"github.com/meos-project/meos/span"
)

// holes returns the gaps between consecutive composing spans: the
// complement of the span set within its bounding span.
func (ss *SpanSet) holes() []span.Span {
	out := make([]span.Span, 0, len(ss.elems)-1)
	for i := 0; i+1 < len(ss.elems); i++ {
		out = append(out, span.Span{
			Lower:    ss.elems[i].Upper,
			Upper:    ss.elems[i+1].Lower,
			LowerInc: !ss.elems[i].UpperInc,
			UpperInc: !ss.elems[i+1].LowerInc,
			Type:     ss.spantype,
			Base:     ss.basetype,
		})
	}
	return out
}

// spanSize orders spans by extent: width for numeric domains, duration
// for time domains.
func (ss *SpanSet) spanSize(sp span.Span) float64 {
	if mtype.Numeric(ss.basetype) {
		w, _ := sp.Width()
		return base.Double(w, ss.basetype)
	}
	d, _ := sp.Duration()
	return float64(d)
}

// SplitN returns at most n spans covering the same extent.  When the
// span set has more than n composing spans, the smallest gaps between
// them are filled until exactly n spans remain.
func (ss *SpanSet) SplitN(n int) ([]span.Span, error) {
	if n <= 0 {
		return nil, base.ValueErrorf("The number of spans must be strictly positive")
	}
	if len(ss.elems) <= n {
		return ss.Spans(), nil
	}
	holes := ss.holes()
	// Keep the smallest holes as fills.
	sort.SliceStable(holes, func(i, j int) bool {
		return ss.spanSize(holes[i]) < ss.spanSize(holes[j])
	})
	nfills := len(holes) - n + 1
	fills := holes[:nfills]
	sort.Slice(fills, func(i, j int) bool { return fills[i].Cmp(fills[j]) < 0 })
	merged := append(ss.Spans(), fills...)
	res, err := Make(merged, true, false)
	if err != nil {
		return nil, err
	}
	return res.Spans(), nil
}

// SplitEachN returns the spans obtained by merging every n consecutive
// composing spans.
func (ss *SpanSet) SplitEachN(n int) ([]span.Span, error) {
	if n <= 0 {
		return nil, base.ValueErrorf("The number of spans must be strictly positive")
	}
	out := make([]span.Span, 0, (len(ss.elems)+n-1)/n)
	for i, sp := range ss.elems {
		if i%n == 0 {
			out = append(out, sp)
		} else {
			out[len(out)-1].Expand(sp)
		}
	}
	return out, nil
}
