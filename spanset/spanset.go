// Package spanset implements the span set container: an ordered
// sequence of disjoint, non-touching spans with a cached bounding span.
// Construction normalizes its input by merging overlapping and adjacent
// spans, so two span sets covering the same points are identical.
package spanset

import (
	"sort"

	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/mtype"
	"github.com/meos-project/meos/span"
)

// SpanSet is a disjoint union of spans.
type SpanSet struct {
	spansettype mtype.Type
	spantype    mtype.Type
	basetype    mtype.Type
	elems       []span.Span
	bound       span.Span
}

// Make builds a span set.  With ordered set, the input is verified to be
// increasing and disjoint; otherwise it is sorted first.  With normalize
// set, overlapping and adjacent spans are merged; without it, any
// remaining overlap or adjacency is an error.
func Make(spans []span.Span, normalize, ordered bool) (*SpanSet, error) {
	if len(spans) == 0 {
		return nil, base.ValueErrorf("A span set must have at least one span")
	}
	spantype := spans[0].Type
	for _, sp := range spans {
		if sp.Type != spantype {
			return nil, base.TypeErrorf(
				"The spans composing a span set must have the same type: %s, %s",
				spantype, sp.Type)
		}
	}
	spansettype, ok := mtype.SpanSetType(spantype)
	if !ok {
		return nil, base.InternalErrorf("no span set type for span type %s", spantype)
	}

	elems := append([]span.Span(nil), spans...)
	if ordered {
		for i := 0; i+1 < len(elems); i++ {
			cmp := base.Cmp(elems[i].Upper, elems[i+1].Lower, elems[i].Base)
			if cmp > 0 || (cmp == 0 && elems[i].UpperInc && elems[i+1].LowerInc) {
				return nil, base.ValueErrorf(
					"The spans composing a span set must be increasing: %s, %s",
					elems[i], elems[i+1])
			}
		}
	} else {
		sort.Slice(elems, func(i, j int) bool { return elems[i].Cmp(elems[j]) < 0 })
	}
	if normalize {
		elems = normalizeSorted(elems)
	} else {
		for i := 0; i+1 < len(elems); i++ {
			if elems[i].OvAdj(elems[i+1]) {
				return nil, base.ValueErrorf(
					"The spans composing a span set must be increasing: %s, %s",
					elems[i], elems[i+1])
			}
		}
	}

	ss := &SpanSet{
		spansettype: spansettype,
		spantype:    spantype,
		basetype:    elems[0].Base,
		elems:       elems,
	}
	ss.bound = span.Span{
		Lower:    ss.elems[0].Lower,
		Upper:    ss.elems[len(ss.elems)-1].Upper,
		LowerInc: ss.elems[0].LowerInc,
		UpperInc: ss.elems[len(ss.elems)-1].UpperInc,
		Type:     spantype,
		Base:     elems[0].Base,
	}
	return ss, nil
}

// normalizeSorted merges overlapping and adjacent spans of a sorted
// slice.
func normalizeSorted(spans []span.Span) []span.Span {
	out := make([]span.Span, 0, len(spans))
	curr := spans[0]
	for _, next := range spans[1:] {
		if curr.OvAdj(next) {
			curr.Expand(next)
		} else {
			out = append(out, curr)
			curr = next
		}
	}
	return append(out, curr)
}

// FromSpan returns the singleton span set of one span.
func FromSpan(sp span.Span) (*SpanSet, error) {
	return Make([]span.Span{sp}, false, true)
}

// Count returns the number of composing spans.
func (ss *SpanSet) Count() int { return len(ss.elems) }

// Type returns the span set type tag.
func (ss *SpanSet) Type() mtype.Type { return ss.spansettype }

// SpanType returns the span type tag of the composing spans.
func (ss *SpanSet) SpanType() mtype.Type { return ss.spantype }

// BaseType returns the base type tag.
func (ss *SpanSet) BaseType() mtype.Type { return ss.basetype }

// Bound returns the cached bounding span covering all composing spans.
func (ss *SpanSet) Bound() span.Span { return ss.bound }

// StartSpan returns the first composing span.
func (ss *SpanSet) StartSpan() span.Span { return ss.elems[0] }

// EndSpan returns the last composing span.
func (ss *SpanSet) EndSpan() span.Span { return ss.elems[len(ss.elems)-1] }

// SpanN returns the n-th composing span, 1-based.
func (ss *SpanSet) SpanN(n int) (span.Span, error) {
	if n < 1 || n > len(ss.elems) {
		return span.Span{}, base.ValueErrorf(
			"Index out of range: %d (count %d)", n, len(ss.elems))
	}
	return ss.elems[n-1], nil
}

// Spans returns a copy of the composing spans.
func (ss *SpanSet) Spans() []span.Span {
	return append([]span.Span(nil), ss.elems...)
}

// Copy deep-copies the span set.
func (ss *SpanSet) Copy() *SpanSet {
	c := *ss
	c.elems = append([]span.Span(nil), ss.elems...)
	return &c
}

// Contains reports whether the span set contains the value.
func (ss *SpanSet) Contains(v base.Datum) bool {
	if !ss.bound.Contains(v) {
		return false
	}
	i := sort.Search(len(ss.elems), func(i int) bool {
		return base.Cmp(ss.elems[i].Upper, v, ss.basetype) >= 0
	})
	for ; i < len(ss.elems); i++ {
		if ss.elems[i].Contains(v) {
			return true
		}
		if base.Cmp(ss.elems[i].Lower, v, ss.basetype) > 0 {
			break
		}
	}
	return false
}

// Cmp is the B-tree comparator: elementwise, then by count.
func (ss *SpanSet) Cmp(o *SpanSet) int {
	n := len(ss.elems)
	if len(o.elems) < n {
		n = len(o.elems)
	}
	for i := 0; i < n; i++ {
		if c := ss.elems[i].Cmp(o.elems[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(ss.elems) < len(o.elems):
		return -1
	case len(ss.elems) > len(o.elems):
		return 1
	}
	return 0
}

// Eq reports span set equality.
func (ss *SpanSet) Eq(o *SpanSet) bool {
	return ss.spansettype == o.spansettype && len(ss.elems) == len(o.elems) &&
		ss.Cmp(o) == 0
}

// Hash32 returns the 32-bit hash of the span set.
func (ss *SpanSet) Hash32() uint32 {
	h := uint32(1)
	for _, sp := range ss.elems {
		h = base.Combine32(h, sp.Hash32())
	}
	return h
}

// Hash64 returns the seeded 64-bit hash of the span set.
func (ss *SpanSet) Hash64(seed uint64) uint64 {
	h := uint64(1)
	for _, sp := range ss.elems {
		h = base.Combine64(h, sp.Hash64(seed))
	}
	return h
}
