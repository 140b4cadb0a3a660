// Package temporal implements the temporal-value containers: instants,
// discrete and continuous sequences, and sequence sets, together with
// the top-level text parser that dispatches among them.  Sequences and
// sequence sets compute their bounding box at construction: a time span
// for alphanumeric temporals, a TBox for numeric ones, an STBox for
// geometry and geography ones.  Temporal network points carry only
// their time span.  An instant stores no box; its box is derived from
// its single observation when asked for.
package temporal

import (
	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/box"
	"github.com/meos-project/meos/mtype"
	"github.com/meos-project/meos/span"
)

// Interp is the interpolation behaviour of a sequence.
type Interp int

const (
	// InterpNone marks instants, which carry no interpolation.
	InterpNone Interp = iota
	// Discrete sequences are bags of samples with no interpolation.
	Discrete
	// Step sequences hold each value until the next instant.
	Step
	// Linear sequences interpolate linearly between instants.
	Linear
)

func (i Interp) String() string {
	switch i {
	case Discrete:
		return "Discrete"
	case Step:
		return "Step"
	case Linear:
		return "Linear"
	}
	return "None"
}

// DefaultInterp returns the catalog's default interpolation for a
// temporal type: linear for continuous bases, step otherwise.
func DefaultInterp(temptype mtype.Type) Interp {
	if mtype.Continuous(temptype) {
		return Linear
	}
	return Step
}

// Subtype orders the temporal subtypes along the merge-widening
// lattice.
type Subtype int

const (
	SubtypeInstant Subtype = iota + 1
	SubtypeSequence
	SubtypeSequenceSet
)

func (s Subtype) String() string {
	switch s {
	case SubtypeInstant:
		return "Instant"
	case SubtypeSequence:
		return "Sequence"
	case SubtypeSequenceSet:
		return "SequenceSet"
	}
	return "Unknown"
}

// Temporal is the closed sum of the temporal containers: *TInstant,
// *TSequence and *TSequenceSet.
type Temporal interface {
	// Type returns the temporal type tag.
	Type() mtype.Type
	// Subtype returns the container subtype.  A discrete sequence is a
	// sequence whose interpolation is Discrete.
	Subtype() Subtype
	// Interpolation returns the interpolation behaviour.
	Interpolation() Interp
	// Period returns the bounding time span.
	Period() span.Span
	// Out renders the value in its text form.
	Out(maxdd int) (string, error)
	// Copy deep-copies the value.
	Copy() Temporal
	// Hash32 returns the 32-bit hash.
	Hash32() uint32
	// Hash64 returns the seeded 64-bit hash.
	Hash64(seed uint64) uint64
	// Fingerprint returns the fast payload checksum.
	Fingerprint() uint64

	// numericBox returns the TBox of a numeric temporal, nil otherwise.
	numericBox() *box.TBox
	// spatialBox returns the STBox of a geometry or geography temporal,
	// nil otherwise.
	spatialBox() *box.STBox
}

// makePeriod builds the time span [first, last] with the given
// inclusivities.
func makePeriod(first, last int64, lowerInc, upperInc bool) span.Span {
	sp, _ := span.Make(base.TimestampTzDatum(first), base.TimestampTzDatum(last),
		lowerInc, upperInc, mtype.TimestampTz)
	return sp
}

// Cmp is the B-tree comparator over two temporals of the same type:
// bounding time span first, then bounding box, then subtype, then
// elementwise.
func Cmp(a, b Temporal) int {
	pa, pb := a.Period(), b.Period()
	if c := pa.Cmp(pb); c != 0 {
		return c
	}
	if ta, tb := a.numericBox(), b.numericBox(); ta != nil && tb != nil {
		if c := ta.Cmp(*tb); c != 0 {
			return c
		}
	}
	if sa, sb := a.spatialBox(), b.spatialBox(); sa != nil && sb != nil {
		if c := sa.Cmp(*sb); c != 0 {
			return c
		}
	}
	if a.Subtype() != b.Subtype() {
		if a.Subtype() < b.Subtype() {
			return -1
		}
		return 1
	}
	switch va := a.(type) {
	case *TInstant:
		return va.cmpSameSubtype(b.(*TInstant))
	case *TSequence:
		return va.cmpSameSubtype(b.(*TSequence))
	case *TSequenceSet:
		return va.cmpSameSubtype(b.(*TSequenceSet))
	}
	return 0
}

// Eq reports temporal equality.
func Eq(a, b Temporal) bool {
	return a.Type() == b.Type() && a.Subtype() == b.Subtype() && Cmp(a, b) == 0
}
