package temporal

import (
	"sort"

	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/mtype"
)

// Merging follows the subtype-widening lattice: instant → discrete
// sequence → continuous sequence → sequence set, where a discrete
// sequence with more than one instant can only be widened all the way
// to a sequence set.  Two instants at the same timestamp may coincide
// only when they carry the same value; that is the only tolerated
// timestamp equality.

// linearish reports the interpolation flag used for compatibility: an
// instant or discrete sequence carries its type's default.
func linearish(t Temporal) Interp {
	switch t.Interpolation() {
	case Step, Linear:
		return t.Interpolation()
	}
	return DefaultInterp(t.Type())
}

// Merge returns the union of two temporal values of the same type and
// interpolation.  A nil argument passes the other through.
func Merge(a, b Temporal) (Temporal, error) {
	if a == nil && b == nil {
		return nil, nil
	}
	if a == nil {
		return b.Copy(), nil
	}
	if b == nil {
		return a.Copy(), nil
	}
	return MergeArray([]Temporal{a, b})
}

// MergeArray returns the union of an array of temporal values.
func MergeArray(values []Temporal) (Temporal, error) {
	if len(values) == 0 {
		return nil, base.ValueErrorf("Merge of an empty array of temporal values")
	}
	if len(values) == 1 {
		return values[0].Copy(), nil
	}
	temptype := values[0].Type()
	interp := linearish(values[0])
	for _, v := range values[1:] {
		if v.Type() != temptype {
			return nil, base.TypeErrorf(
				"The temporal values must have the same type: %s, %s",
				temptype, v.Type())
		}
		if linearish(v) != interp {
			return nil, base.ValueErrorf(
				"Input values must be of the same interpolation")
		}
	}

	// Determine the target subtype along the widening lattice.
	allInstants, allDiscrete := true, true
	for _, v := range values {
		if v.Subtype() != SubtypeInstant {
			allInstants = false
		}
		switch {
		case v.Subtype() == SubtypeInstant:
		case v.Subtype() == SubtypeSequence && v.Interpolation() == Discrete:
		default:
			allDiscrete = false
		}
	}

	switch {
	case allInstants:
		insts := make([]*TInstant, len(values))
		for i, v := range values {
			insts[i] = v.(*TInstant)
		}
		return mergeInstants(temptype, insts)
	case allDiscrete:
		var insts []*TInstant
		for _, v := range values {
			switch t := v.(type) {
			case *TInstant:
				insts = append(insts, t)
			case *TSequence:
				insts = append(insts, t.Instants()...)
			}
		}
		return mergeInstants(temptype, insts)
	default:
		var seqs []*TSequence
		for _, v := range values {
			widened, err := widenToSequences(v, interp)
			if err != nil {
				return nil, err
			}
			seqs = append(seqs, widened...)
		}
		return mergeSequences(temptype, seqs)
	}
}

// mergeInstants unions instants into an instant or a discrete
// sequence, deduplicating coincident observations.
func mergeInstants(temptype mtype.Type, insts []*TInstant) (Temporal, error) {
	basetype, _ := mtype.BaseType(temptype)
	sorted := append([]*TInstant(nil), insts...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].t < sorted[j].t })
	out := sorted[:1]
	for _, inst := range sorted[1:] {
		last := out[len(out)-1]
		if inst.t == last.t {
			if !base.Eq(inst.value, last.value, basetype) {
				return nil, base.ValueErrorf(
					"The temporal values have different value at their common instant %s",
					base.FormatTimestampTz(inst.t))
			}
			continue
		}
		out = append(out, inst)
	}
	if len(out) == 1 {
		return out[0].Copy(), nil
	}
	return MakeSequence(out, true, true, Discrete, false)
}

// widenToSequences converts any temporal to a list of continuous
// sequences of the given interpolation.
func widenToSequences(v Temporal, interp Interp) ([]*TSequence, error) {
	switch t := v.(type) {
	case *TInstant:
		seq, err := MakeSequence([]*TInstant{t}, true, true, interp, false)
		if err != nil {
			return nil, err
		}
		return []*TSequence{seq}, nil
	case *TSequence:
		if t.interp != Discrete {
			return []*TSequence{t.Copy().(*TSequence)}, nil
		}
		// Each instant of a discrete sequence becomes a singleton
		// sequence.
		seqs := make([]*TSequence, 0, len(t.instants))
		for _, inst := range t.Instants() {
			seq, err := MakeSequence([]*TInstant{inst}, true, true, interp, false)
			if err != nil {
				return nil, err
			}
			seqs = append(seqs, seq)
		}
		return seqs, nil
	case *TSequenceSet:
		return t.Sequences(), nil
	}
	return nil, base.InternalErrorf("unknown temporal subtype")
}

// mergeSequences unions continuous sequences into a sequence or a
// sequence set.  Sequences may touch at a shared boundary instant when
// the values there agree.
func mergeSequences(temptype mtype.Type, seqs []*TSequence) (Temporal, error) {
	basetype, _ := mtype.BaseType(temptype)
	sorted := append([]*TSequence(nil), seqs...)
	sortSequences(sorted)
	merged := make([]*TSequence, 0, len(sorted))
	curr := sorted[0]
	for _, next := range sorted[1:] {
		joined, err := joinOverlapping(curr, next, basetype)
		if err != nil {
			return nil, err
		}
		if joined != nil {
			curr = joined
			continue
		}
		merged = append(merged, curr)
		curr = next
	}
	merged = append(merged, curr)
	tss, err := MakeSequenceSet(merged, true)
	if err != nil {
		return nil, err
	}
	if tss.NumSequences() == 1 {
		return tss.seqs[0].Copy(), nil
	}
	return tss, nil
}

// joinOverlapping merges two period-ordered sequences that share their
// boundary instant, verifying the values agree there.  It returns nil
// when the sequences are disjoint, an error when they genuinely
// overlap.
func joinOverlapping(a, b *TSequence, basetype mtype.Type) (*TSequence, error) {
	if !a.period.Overlaps(b.period) {
		return nil, nil
	}
	aLast := a.instants[len(a.instants)-1]
	bFirst := b.instants[0]
	if aLast.t != bFirst.t {
		return nil, base.ValueErrorf(
			"The temporal values cannot overlap on time: %s, %s", a, b)
	}
	if !base.Eq(aLast.value, bFirst.value, basetype) {
		return nil, base.ValueErrorf(
			"The temporal values have different value at their common instant %s",
			base.FormatTimestampTz(aLast.t))
	}
	instants := a.Instants()
	instants = append(instants, b.Instants()[1:]...)
	return MakeSequence(instants, a.lowerInc, b.upperInc, a.interp, true)
}
