package temporal

import (
	"strings"

	"blainsmith.com/go/seahash"
	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/box"
	"github.com/meos-project/meos/geo"
	"github.com/meos-project/meos/mtype"
	"github.com/meos-project/meos/span"
)

// TSequenceSet is an ordered sequence of continuous sequences with
// pairwise-disjoint time spans, all sharing one interpolation.
type TSequenceSet struct {
	temptype mtype.Type
	basetype mtype.Type
	interp   Interp
	seqs     []*TSequence
	period   span.Span
	tbox     *box.TBox
	stbox    *box.STBox
}

// MakeSequenceSet builds a sequence set.  The sequences must share a
// type and interpolation and be time-disjoint.  With normalize set,
// sequences whose time spans touch and whose values agree at the seam
// are merged.
func MakeSequenceSet(seqs []*TSequence, normalize bool) (*TSequenceSet, error) {
	if len(seqs) == 0 {
		return nil, base.ValueErrorf(
			"A temporal sequence set must have at least one sequence")
	}
	temptype := seqs[0].temptype
	interp := seqs[0].interp
	if interp == Discrete {
		return nil, base.ValueErrorf(
			"A temporal sequence set cannot contain discrete sequences")
	}
	for _, seq := range seqs {
		if seq.temptype != temptype {
			return nil, base.TypeErrorf(
				"The sequences of a temporal sequence set must have the same type")
		}
		if seq.interp != interp {
			return nil, base.ValueErrorf(
				"Input values must be of the same interpolation")
		}
	}
	elems := make([]*TSequence, len(seqs))
	for i, seq := range seqs {
		elems[i] = seq.Copy().(*TSequence)
	}
	sortSequences(elems)
	for i := 0; i+1 < len(elems); i++ {
		a, b := elems[i], elems[i+1]
		if a.period.Overlaps(b.period) {
			return nil, base.ValueErrorf(
				"The temporal sequences of a sequence set must be disjoint: %s, %s",
				a, b)
		}
	}
	if normalize && len(elems) > 1 {
		elems = normalizeSequences(elems)
	}

	tss := &TSequenceSet{
		temptype: temptype,
		basetype: elems[0].basetype,
		interp:   interp,
		seqs:     elems,
	}
	tss.computeBbox()
	return tss, nil
}

func sortSequences(seqs []*TSequence) {
	// Insertion sort: parsed input is almost always already ordered.
	for i := 1; i < len(seqs); i++ {
		for j := i; j > 0 && seqs[j].period.Cmp(seqs[j-1].period) < 0; j-- {
			seqs[j], seqs[j-1] = seqs[j-1], seqs[j]
		}
	}
}

// normalizeSequences merges consecutive sequences whose periods touch
// with complementary inclusivity and whose values agree at the seam.
func normalizeSequences(seqs []*TSequence) []*TSequence {
	out := make([]*TSequence, 0, len(seqs))
	curr := seqs[0]
	for _, next := range seqs[1:] {
		if canJoin(curr, next) {
			curr = joinSequences(curr, next)
		} else {
			out = append(out, curr)
			curr = next
		}
	}
	return append(out, curr)
}

func canJoin(a, b *TSequence) bool {
	last := a.instants[len(a.instants)-1]
	first := b.instants[0]
	if last.t != first.t {
		return false
	}
	if !(a.upperInc != b.lowerInc) {
		return false
	}
	return base.Eq(last.value, first.value, a.basetype)
}

func joinSequences(a, b *TSequence) *TSequence {
	instants := a.Instants()
	rest := b.Instants()
	if a.instants[len(a.instants)-1].t == b.instants[0].t {
		rest = rest[1:]
	}
	instants = append(instants, rest...)
	joined, _ := MakeSequence(instants, a.lowerInc, b.upperInc, a.interp, false)
	return joined
}

func (tss *TSequenceSet) computeBbox() {
	first := tss.seqs[0]
	last := tss.seqs[len(tss.seqs)-1]
	tss.period = span.Span{
		Lower:    first.period.Lower,
		Upper:    last.period.Upper,
		LowerInc: first.period.LowerInc,
		UpperInc: last.period.UpperInc,
		Type:     mtype.TstzSpan,
		Base:     mtype.TimestampTz,
	}
	switch {
	case first.tbox != nil:
		b := *first.tbox
		for _, seq := range tss.seqs[1:] {
			if seq.tbox != nil {
				b.Expand(*seq.tbox)
			}
		}
		b.Period = tss.period
		tss.tbox = &b
	case first.stbox != nil:
		b := *first.stbox
		for _, seq := range tss.seqs[1:] {
			if seq.stbox != nil {
				b.Expand(*seq.stbox)
			}
		}
		b.Period = tss.period
		tss.stbox = &b
	}
}

// Type returns the temporal type tag.
func (tss *TSequenceSet) Type() mtype.Type { return tss.temptype }

// BaseType returns the base type tag.
func (tss *TSequenceSet) BaseType() mtype.Type { return tss.basetype }

// Subtype returns SubtypeSequenceSet.
func (tss *TSequenceSet) Subtype() Subtype { return SubtypeSequenceSet }

// Interpolation returns the shared interpolation.
func (tss *TSequenceSet) Interpolation() Interp { return tss.interp }

// NumSequences returns the number of composing sequences.
func (tss *TSequenceSet) NumSequences() int { return len(tss.seqs) }

// SequenceN returns the n-th composing sequence, 1-based, as an owned
// copy.
func (tss *TSequenceSet) SequenceN(n int) (*TSequence, error) {
	if n < 1 || n > len(tss.seqs) {
		return nil, base.ValueErrorf("Index out of range: %d (count %d)",
			n, len(tss.seqs))
	}
	return tss.seqs[n-1].Copy().(*TSequence), nil
}

// Sequences returns owned copies of the composing sequences.
func (tss *TSequenceSet) Sequences() []*TSequence {
	out := make([]*TSequence, len(tss.seqs))
	for i := range tss.seqs {
		out[i] = tss.seqs[i].Copy().(*TSequence)
	}
	return out
}

// Period returns the bounding time span.
func (tss *TSequenceSet) Period() span.Span { return tss.period }

// Copy deep-copies the sequence set.
func (tss *TSequenceSet) Copy() Temporal {
	c, _ := MakeSequenceSet(tss.seqs, false)
	return c
}

// Srid returns the SRID of a spatial sequence set.
func (tss *TSequenceSet) Srid() (int32, error) {
	if tss.stbox == nil {
		return geo.SridUnknown, base.TypeErrorf("Srid of %s sequence set", tss.temptype)
	}
	return tss.stbox.Srid, nil
}

func (tss *TSequenceSet) numericBox() *box.TBox  { return tss.tbox }
func (tss *TSequenceSet) spatialBox() *box.STBox { return tss.stbox }

// Out renders the sequence set as `{seq, seq}` with the SRID and
// interpolation prefixes hoisted to the head.
func (tss *TSequenceSet) Out(maxdd int) (string, error) {
	if maxdd < 0 {
		return "", base.ValueErrorf(
			"The number of decimal digits must not be negative")
	}
	var sb strings.Builder
	if tss.stbox != nil && tss.stbox.Srid > 0 {
		sb.WriteString("SRID=")
		sb.WriteString(itoa(tss.stbox.Srid))
		sb.WriteByte(';')
	}
	if tss.interp == Step && mtype.Continuous(tss.temptype) {
		sb.WriteString("Interp=Step;")
	}
	sb.WriteByte('{')
	for i, seq := range tss.seqs {
		if i > 0 {
			sb.WriteString(", ")
		}
		text, err := seq.outBody(maxdd)
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
	}
	sb.WriteByte('}')
	return sb.String(), nil
}

func (tss *TSequenceSet) String() string {
	text, _ := tss.Out(base.MaxDigits)
	return text
}

func (tss *TSequenceSet) cmpSameSubtype(o *TSequenceSet) int {
	n := len(tss.seqs)
	if len(o.seqs) < n {
		n = len(o.seqs)
	}
	for i := 0; i < n; i++ {
		if c := tss.seqs[i].cmpSameSubtype(o.seqs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(tss.seqs) < len(o.seqs):
		return -1
	case len(tss.seqs) > len(o.seqs):
		return 1
	}
	return 0
}

// Hash32 returns the 32-bit hash of the sequence set.
func (tss *TSequenceSet) Hash32() uint32 {
	h := uint32(1)
	for _, seq := range tss.seqs {
		h = base.Combine32(h, seq.Hash32())
	}
	return h
}

// Hash64 returns the seeded 64-bit hash of the sequence set.
func (tss *TSequenceSet) Hash64(seed uint64) uint64 {
	h := uint64(1)
	for _, seq := range tss.seqs {
		h = base.Combine64(h, seq.Hash64(seed))
	}
	return h
}

// Fingerprint returns the fast payload checksum of the sequence set.
func (tss *TSequenceSet) Fingerprint() uint64 {
	buf := make([]byte, 0, len(tss.seqs)*8)
	var w8 [8]byte
	for _, seq := range tss.seqs {
		putUint64(w8[:], seq.Fingerprint())
		buf = append(buf, w8[:]...)
	}
	return seahash.Sum64(buf)
}
