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

// TSequence is an ordered sequence of instants sharing an
// interpolation.  A discrete sequence (Interp == Discrete) has
// inclusive bounds by construction; a continuous sequence carries
// explicit bound inclusivity.
type TSequence struct {
	temptype  mtype.Type
	basetype  mtype.Type
	interp    Interp
	lowerInc  bool
	upperInc  bool
	instants  []TInstant
	period    span.Span
	tbox      *box.TBox
	stbox     *box.STBox
}

// MakeSequence builds a sequence from instants.  Timestamps must be
// strictly increasing; linear interpolation requires a continuous base
// type; a single-instant continuous sequence must have inclusive
// bounds.  With normalize set, redundant interior instants are removed.
func MakeSequence(instants []*TInstant, lowerInc, upperInc bool, interp Interp,
	normalize bool) (*TSequence, error) {
	if len(instants) == 0 {
		return nil, base.ValueErrorf("A temporal sequence must have at least one instant")
	}
	temptype := instants[0].temptype
	basetype := instants[0].basetype
	if interp == Linear && !mtype.Continuous(temptype) {
		return nil, base.ValueErrorf(
			"Linear interpolation is not allowed for temporal type %s", temptype)
	}
	if interp == Discrete {
		lowerInc, upperInc = true, true
	}
	for _, inst := range instants {
		if inst.temptype != temptype {
			return nil, base.TypeErrorf(
				"The instants of a temporal sequence must have the same type")
		}
	}
	for i := 0; i+1 < len(instants); i++ {
		if instants[i].t >= instants[i+1].t {
			return nil, base.ValueErrorf(
				"Timestamps for temporal value must be increasing: %s, %s",
				base.FormatTimestampTz(instants[i].t),
				base.FormatTimestampTz(instants[i+1].t))
		}
	}
	if len(instants) == 1 && interp != Discrete && !(lowerInc && upperInc) {
		return nil, base.ValueErrorf(
			"The bounds of a temporal sequence with a single instant must be inclusive")
	}
	if mtype.GeoBase(basetype) {
		if err := validateGeoInstants(instants); err != nil {
			return nil, err
		}
	}

	elems := make([]TInstant, 0, len(instants))
	for _, inst := range instants {
		c := *inst
		c.value = inst.value.Copy()
		elems = append(elems, c)
	}
	if normalize && interp != Discrete && len(elems) > 2 {
		elems = normalizeInstants(elems, interp, basetype)
	}

	ts := &TSequence{
		temptype: temptype,
		basetype: basetype,
		interp:   interp,
		lowerInc: lowerInc,
		upperInc: upperInc,
		instants: elems,
	}
	ts.computeBbox()
	return ts, nil
}

func validateGeoInstants(instants []*TInstant) error {
	g0, err := instants[0].value.Geo()
	if err != nil {
		return err
	}
	srid, hasZ := g0.Srid(), g0.HasZ()
	for _, inst := range instants[1:] {
		g, err := inst.value.Geo()
		if err != nil {
			return err
		}
		if g.Srid() != srid {
			return base.ValueErrorf("Operation on mixed SRID: %d, %d", srid, g.Srid())
		}
		if g.HasZ() != hasZ {
			return base.ValueErrorf(
				"The geometries of a temporal sequence must have the same dimensionality")
		}
	}
	return nil
}

// normalizeInstants drops interior instants that do not change the
// function: for step interpolation an instant repeating the previous
// value, for linear interpolation an instant collinear with its
// neighbours.
func normalizeInstants(elems []TInstant, interp Interp, basetype mtype.Type) []TInstant {
	out := make([]TInstant, 0, len(elems))
	out = append(out, elems[0])
	for i := 1; i+1 < len(elems); i++ {
		prev := out[len(out)-1]
		curr, next := elems[i], elems[i+1]
		var redundant bool
		if interp == Step {
			redundant = base.Eq(prev.value, curr.value, basetype)
		} else {
			redundant = collinear(prev, curr, next, basetype)
		}
		if !redundant {
			out = append(out, curr)
		}
	}
	return append(out, elems[len(elems)-1])
}

func collinear(a, b, c TInstant, basetype mtype.Type) bool {
	if basetype != mtype.Float {
		// Exact collinearity is only defined for the continuous
		// numeric base; spatial segments are kept as given.
		return false
	}
	ratio := float64(b.t-a.t) / float64(c.t-a.t)
	expect := a.value.Float8() + (c.value.Float8()-a.value.Float8())*ratio
	return expect == b.value.Float8()
}

func (ts *TSequence) computeBbox() {
	first, last := ts.instants[0], ts.instants[len(ts.instants)-1]
	lowerInc, upperInc := ts.lowerInc, ts.upperInc
	if ts.interp == Discrete {
		lowerInc, upperInc = true, true
	}
	ts.period = makePeriod(first.t, last.t, lowerInc, upperInc)
	switch {
	case mtype.Numeric(ts.temptype):
		b, err := box.FromValueTime(first.value, ts.basetype, first.t)
		if err == nil {
			for _, inst := range ts.instants[1:] {
				b.ExpandValue(inst.value, ts.basetype)
				b.ExpandTime(inst.t)
			}
			b.Period = ts.period
			ts.tbox = &b
		}
	case mtype.GeoBase(ts.basetype):
		if g, err := first.value.Geo(); err == nil {
			if b, err := box.FromGeo(g); err == nil {
				for _, inst := range ts.instants[1:] {
					if g, err := inst.value.Geo(); err == nil {
						_ = b.ExpandGeo(g)
					}
				}
				b.Period = ts.period
				b.HasT = true
				ts.stbox = &b
			}
		}
	}
}

// Type returns the temporal type tag.
func (ts *TSequence) Type() mtype.Type { return ts.temptype }

// BaseType returns the base type tag.
func (ts *TSequence) BaseType() mtype.Type { return ts.basetype }

// Subtype returns SubtypeSequence.
func (ts *TSequence) Subtype() Subtype { return SubtypeSequence }

// Interpolation returns the sequence's interpolation.
func (ts *TSequence) Interpolation() Interp { return ts.interp }

// LowerInc reports whether the lower time bound is inclusive.
func (ts *TSequence) LowerInc() bool { return ts.lowerInc }

// UpperInc reports whether the upper time bound is inclusive.
func (ts *TSequence) UpperInc() bool { return ts.upperInc }

// NumInstants returns the number of instants.
func (ts *TSequence) NumInstants() int { return len(ts.instants) }

// InstantN returns the n-th instant, 1-based, as an owned copy.
func (ts *TSequence) InstantN(n int) (*TInstant, error) {
	if n < 1 || n > len(ts.instants) {
		return nil, base.ValueErrorf("Index out of range: %d (count %d)",
			n, len(ts.instants))
	}
	c := ts.instants[n-1]
	c.value = c.value.Copy()
	return &c, nil
}

// StartInstant returns the first instant.
func (ts *TSequence) StartInstant() *TInstant { i, _ := ts.InstantN(1); return i }

// EndInstant returns the last instant.
func (ts *TSequence) EndInstant() *TInstant {
	i, _ := ts.InstantN(len(ts.instants))
	return i
}

// Instants returns owned copies of all instants.
func (ts *TSequence) Instants() []*TInstant {
	out := make([]*TInstant, len(ts.instants))
	for i := range ts.instants {
		out[i], _ = ts.InstantN(i + 1)
	}
	return out
}

// Period returns the bounding time span.
func (ts *TSequence) Period() span.Span { return ts.period }

// Copy deep-copies the sequence.
func (ts *TSequence) Copy() Temporal {
	instants := ts.Instants()
	c, _ := MakeSequence(instants, ts.lowerInc, ts.upperInc, ts.interp, false)
	return c
}

// Srid returns the SRID of a spatial sequence.
func (ts *TSequence) Srid() (int32, error) {
	if ts.stbox == nil {
		return geo.SridUnknown, base.TypeErrorf("Srid of %s sequence", ts.temptype)
	}
	return ts.stbox.Srid, nil
}

func (ts *TSequence) numericBox() *box.TBox  { return ts.tbox }
func (ts *TSequence) spatialBox() *box.STBox { return ts.stbox }

// Out renders the sequence: `{i1, i2}` for discrete, bracketed for
// continuous, with a `Interp=Step;` prefix when step interpolation is
// not the type's default and an `SRID=<n>;` prefix for spatial
// sequences.
func (ts *TSequence) Out(maxdd int) (string, error) {
	if maxdd < 0 {
		return "", base.ValueErrorf(
			"The number of decimal digits must not be negative")
	}
	var sb strings.Builder
	if ts.stbox != nil && ts.stbox.Srid > 0 {
		sb.WriteString("SRID=")
		sb.WriteString(itoa(ts.stbox.Srid))
		sb.WriteByte(';')
	}
	if ts.interp == Step && mtype.Continuous(ts.temptype) {
		sb.WriteString("Interp=Step;")
	}
	body, err := ts.outBody(maxdd)
	if err != nil {
		return "", err
	}
	sb.WriteString(body)
	return sb.String(), nil
}

// outBody renders the bracketed instant list without the SRID and
// interpolation prefixes.
func (ts *TSequence) outBody(maxdd int) (string, error) {
	var sb strings.Builder
	var open, close byte
	if ts.interp == Discrete {
		open, close = '{', '}'
	} else {
		if ts.lowerInc {
			open = '['
		} else {
			open = '('
		}
		if ts.upperInc {
			close = ']'
		} else {
			close = ')'
		}
	}
	sb.WriteByte(open)
	for i := range ts.instants {
		if i > 0 {
			sb.WriteString(", ")
		}
		text, err := ts.instants[i].outWkt(maxdd)
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
	}
	sb.WriteByte(close)
	return sb.String(), nil
}

func (ts *TSequence) String() string {
	text, _ := ts.Out(base.MaxDigits)
	return text
}

func itoa(v int32) string {
	var buf [12]byte
	neg := v < 0
	u := uint32(v)
	if neg {
		u = uint32(-v)
	}
	i := len(buf)
	for {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
		if u == 0 {
			break
		}
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func (ts *TSequence) cmpSameSubtype(o *TSequence) int {
	n := len(ts.instants)
	if len(o.instants) < n {
		n = len(o.instants)
	}
	for i := 0; i < n; i++ {
		if c := ts.instants[i].cmpSameSubtype(&o.instants[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(ts.instants) < len(o.instants):
		return -1
	case len(ts.instants) > len(o.instants):
		return 1
	}
	return 0
}

// Hash32 returns the 32-bit hash of the sequence.
func (ts *TSequence) Hash32() uint32 {
	h := uint32(1)
	h = base.Combine32(h, boundsFlag(ts.lowerInc, ts.upperInc))
	for i := range ts.instants {
		h = base.Combine32(h, ts.instants[i].Hash32())
	}
	return h
}

// Hash64 returns the seeded 64-bit hash of the sequence.
func (ts *TSequence) Hash64(seed uint64) uint64 {
	h := uint64(1)
	h = base.Combine64(h, uint64(boundsFlag(ts.lowerInc, ts.upperInc)))
	for i := range ts.instants {
		h = base.Combine64(h, ts.instants[i].Hash64(seed))
	}
	return h
}

func boundsFlag(lowerInc, upperInc bool) uint32 {
	var f uint32
	if lowerInc {
		f |= 1
	}
	if upperInc {
		f |= 2
	}
	return f
}

// Fingerprint returns the fast payload checksum of the sequence.
func (ts *TSequence) Fingerprint() uint64 {
	buf := make([]byte, 0, len(ts.instants)*24+1)
	buf = append(buf, byte(boundsFlag(ts.lowerInc, ts.upperInc))|byte(ts.interp)<<4)
	var w8 [8]byte
	for i := range ts.instants {
		putUint64(w8[:], uint64(ts.instants[i].t))
		buf = append(buf, w8[:]...)
		if ts.instants[i].value.IsRef() {
			buf = append(buf, ts.instants[i].value.Ref()...)
		} else {
			putUint64(w8[:], ts.instants[i].value.Word())
			buf = append(buf, w8[:]...)
		}
	}
	return seahash.Sum64(buf)
}
