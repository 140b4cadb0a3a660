package temporal

import (
	"blainsmith.com/go/seahash"
	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/box"
	"github.com/meos-project/meos/geo"
	"github.com/meos-project/meos/mtype"
	"github.com/meos-project/meos/span"
)

// TInstant is one (value, timestamp) observation.
type TInstant struct {
	temptype mtype.Type
	basetype mtype.Type
	value    base.Datum
	t        int64 // microseconds since the Unix epoch, UTC
}

// MakeInstant builds an instant.  Spatial values must be non-empty
// points without a measure dimension.
func MakeInstant(value base.Datum, temptype mtype.Type, t int64) (*TInstant, error) {
	basetype, ok := mtype.BaseType(temptype)
	if !ok {
		return nil, base.InternalErrorf("no base type for temporal type %s", temptype)
	}
	if mtype.GeoBase(basetype) {
		g, err := value.Geo()
		if err != nil {
			return nil, err
		}
		if g.IsEmpty() {
			return nil, base.ValueErrorf("The geometry must not be empty")
		}
		if g.HasM() {
			return nil, base.ValueErrorf(
				"The geometry must not have a M dimension")
		}
	}
	return &TInstant{
		temptype: temptype,
		basetype: basetype,
		value:    value.Copy(),
		t:        t,
	}, nil
}

// Type returns the temporal type tag.
func (ti *TInstant) Type() mtype.Type { return ti.temptype }

// BaseType returns the base type tag.
func (ti *TInstant) BaseType() mtype.Type { return ti.basetype }

// Subtype returns SubtypeInstant.
func (ti *TInstant) Subtype() Subtype { return SubtypeInstant }

// Interpolation returns InterpNone: a single observation carries no
// interpolation.
func (ti *TInstant) Interpolation() Interp { return InterpNone }

// Value returns an owned copy of the observed value.
func (ti *TInstant) Value() base.Datum { return ti.value.Copy() }

// Timestamp returns the observation time.
func (ti *TInstant) Timestamp() int64 { return ti.t }

// Period returns the degenerate time span [t, t].
func (ti *TInstant) Period() span.Span {
	return makePeriod(ti.t, ti.t, true, true)
}

// Copy deep-copies the instant.
func (ti *TInstant) Copy() Temporal {
	c := *ti
	c.value = ti.value.Copy()
	return &c
}

// Srid returns the SRID of a spatial instant.
func (ti *TInstant) Srid() (int32, error) {
	if !mtype.GeoBase(ti.basetype) {
		return geo.SridUnknown, base.TypeErrorf("Srid of %s instant", ti.temptype)
	}
	g, err := ti.value.Geo()
	if err != nil {
		return 0, err
	}
	return g.Srid(), nil
}

func (ti *TInstant) numericBox() *box.TBox {
	if !mtype.Numeric(ti.temptype) {
		return nil
	}
	b, err := box.FromValueTime(ti.value, ti.basetype, ti.t)
	if err != nil {
		return nil
	}
	return &b
}

func (ti *TInstant) spatialBox() *box.STBox {
	if !mtype.GeoBase(ti.basetype) {
		return nil
	}
	g, err := ti.value.Geo()
	if err != nil {
		return nil
	}
	b, err := box.FromGeo(g)
	if err != nil {
		return nil
	}
	b.ExpandTime(ti.t)
	return &b
}

// Out renders the instant as `value@timestamp`.  Spatial values emit
// their SRID prefix once at the head.
func (ti *TInstant) Out(maxdd int) (string, error) {
	if maxdd < 0 {
		return "", base.ValueErrorf(
			"The number of decimal digits must not be negative")
	}
	value, err := base.Out(ti.value, ti.basetype, maxdd)
	if err != nil {
		return "", err
	}
	return value + "@" + base.FormatTimestampTz(ti.t), nil
}

// outWkt renders the instant with the value stripped of its SRID
// prefix, for use inside a sequence that already printed one.
func (ti *TInstant) outWkt(maxdd int) (string, error) {
	value, err := base.OutWkt(ti.value, ti.basetype, maxdd)
	if err != nil {
		return "", err
	}
	return value + "@" + base.FormatTimestampTz(ti.t), nil
}

func (ti *TInstant) String() string {
	text, _ := ti.Out(base.MaxDigits)
	return text
}

func (ti *TInstant) cmpSameSubtype(o *TInstant) int {
	switch {
	case ti.t < o.t:
		return -1
	case ti.t > o.t:
		return 1
	}
	return base.Cmp(ti.value, o.value, ti.basetype)
}

// Hash32 returns the 32-bit hash of the instant.
func (ti *TInstant) Hash32() uint32 {
	h := base.Hash32(ti.value, ti.basetype)
	return base.Combine32(h, base.Hash32(base.TimestampTzDatum(ti.t), mtype.TimestampTz))
}

// Hash64 returns the seeded 64-bit hash of the instant.
func (ti *TInstant) Hash64(seed uint64) uint64 {
	h := base.Hash64(ti.value, ti.basetype, seed)
	return base.Combine64(h, base.Hash64(base.TimestampTzDatum(ti.t), mtype.TimestampTz, seed))
}

// Fingerprint returns the fast payload checksum of the instant.
func (ti *TInstant) Fingerprint() uint64 {
	buf := make([]byte, 0, 24)
	var w8 [8]byte
	putUint64(w8[:], uint64(ti.t))
	buf = append(buf, w8[:]...)
	if ti.value.IsRef() {
		buf = append(buf, ti.value.Ref()...)
	} else {
		putUint64(w8[:], ti.value.Word())
		buf = append(buf, w8[:]...)
	}
	return seahash.Sum64(buf)
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
