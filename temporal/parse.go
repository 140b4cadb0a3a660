package temporal

import (
	"github.com/meos-project/meos/base"
	"github.com/meos-project/meos/geo"
	"github.com/meos-project/meos/mtype"
	"github.com/meos-project/meos/scan"
)

// parseBaseValue reads the base value of one instant, reconciling the
// SRID of spatial values with the enclosing temporal's SRID: an unknown
// side adopts from the other, a mismatch fails.
func parseBaseValue(cur *scan.Cursor, basetype mtype.Type, srid *int32) (base.Datum, error) {
	d, err := base.ParseAt(cur, basetype)
	if err != nil {
		return base.Datum{}, err
	}
	if !mtype.GeoBase(basetype) {
		return d, nil
	}
	g, err := d.Geo()
	if err != nil {
		return base.Datum{}, err
	}
	if g.IsEmpty() {
		return base.Datum{}, base.ValueErrorf("The geometry must not be empty")
	}
	if g.HasM() {
		return base.Datum{}, base.ValueErrorf("The geometry must not have a M dimension")
	}
	gSrid := g.Srid()
	switch {
	case *srid == geo.SridUnknown && gSrid != geo.SridUnknown:
		*srid = gSrid
	case *srid != geo.SridUnknown && gSrid == geo.SridUnknown:
		g.SetSrid(*srid)
		d = base.GeoDatum(g)
	case *srid != geo.SridUnknown && gSrid != geo.SridUnknown && *srid != gSrid:
		return base.Datum{}, base.TextErrorf(
			"Geometry SRID (%d) does not match temporal type SRID (%d)", gSrid, *srid)
	}
	return d, nil
}

// parseInstant reads one `value@timestamp` at the cursor.
func parseInstant(cur *scan.Cursor, temptype mtype.Type, end bool, srid *int32) (*TInstant, error) {
	basetype, ok := mtype.BaseType(temptype)
	if !ok {
		return nil, base.InternalErrorf("no base type for temporal type %s", temptype)
	}
	value, err := parseBaseValue(cur, basetype, srid)
	if err != nil {
		return nil, err
	}
	t, err := base.ParseTimestamp(cur)
	if err != nil {
		return nil, err
	}
	if end {
		if err := cur.End(temptype.String()); err != nil {
			return nil, err
		}
	}
	return MakeInstant(value, temptype, t)
}

// parseDiscreteSequence reads `{i1, i2, ...}`.
func parseDiscreteSequence(cur *scan.Cursor, temptype mtype.Type, srid *int32) (*TSequence, error) {
	cur.TryOBrace()
	var instants []*TInstant
	inst, err := parseInstant(cur, temptype, false, srid)
	if err != nil {
		return nil, err
	}
	instants = append(instants, inst)
	for cur.TryComma() {
		if inst, err = parseInstant(cur, temptype, false, srid); err != nil {
			return nil, err
		}
		instants = append(instants, inst)
	}
	if err := cur.ExpectCBrace(temptype.String()); err != nil {
		return nil, err
	}
	if err := cur.End(temptype.String()); err != nil {
		return nil, err
	}
	return MakeSequence(instants, true, true, Discrete, false)
}

// parseContinuousSequence reads `[i1, ..., in]` with either bracket
// kind at either end.
func parseContinuousSequence(cur *scan.Cursor, temptype mtype.Type, interp Interp,
	end bool, srid *int32) (*TSequence, error) {
	var lowerInc bool
	if cur.TryOBracket() {
		lowerInc = true
	} else if cur.TryOParen() {
		lowerInc = false
	} else {
		return nil, base.TextErrorf(
			"Could not parse temporal value: Missing opening bracket/parenthesis")
	}
	var instants []*TInstant
	inst, err := parseInstant(cur, temptype, false, srid)
	if err != nil {
		return nil, err
	}
	instants = append(instants, inst)
	for cur.TryComma() {
		if inst, err = parseInstant(cur, temptype, false, srid); err != nil {
			return nil, err
		}
		instants = append(instants, inst)
	}
	var upperInc bool
	if cur.TryCBracket() {
		upperInc = true
	} else if cur.TryCParen() {
		upperInc = false
	} else {
		return nil, base.TextErrorf(
			"Could not parse temporal value: Missing closing bracket/parenthesis")
	}
	if end {
		if err := cur.End(temptype.String()); err != nil {
			return nil, err
		}
	}
	return MakeSequence(instants, lowerInc, upperInc, interp, true)
}

// parseSequenceSet reads `{seq, seq, ...}` of continuous sequences.
func parseSequenceSet(cur *scan.Cursor, temptype mtype.Type, interp Interp,
	srid *int32) (*TSequenceSet, error) {
	cur.TryOBrace()
	var seqs []*TSequence
	seq, err := parseContinuousSequence(cur, temptype, interp, false, srid)
	if err != nil {
		return nil, err
	}
	seqs = append(seqs, seq)
	for cur.TryComma() {
		if seq, err = parseContinuousSequence(cur, temptype, interp, false, srid); err != nil {
			return nil, err
		}
		seqs = append(seqs, seq)
	}
	if err := cur.ExpectCBrace(temptype.String()); err != nil {
		return nil, err
	}
	if err := cur.End(temptype.String()); err != nil {
		return nil, err
	}
	return MakeSequenceSet(seqs, true)
}

// ParseCursor reads a temporal value of the given type at the cursor:
// an optional `SRID=<n>;` prefix for spatial types, an optional
// `Interp=Step;` prefix, then an instant, a sequence, or a sequence set
// selected by the first structural character.
func ParseCursor(cur *scan.Cursor, temptype mtype.Type) (Temporal, error) {
	if !mtype.TemporalOf(temptype) {
		return nil, base.InternalErrorf("ParseCursor: %s is not a temporal type", temptype)
	}
	srid := geo.SridUnknown
	if mtype.Spatial(temptype) {
		if v, ok := cur.SRID(); ok {
			srid = v
		}
	}
	interp := DefaultInterp(temptype)
	if cur.MatchPrefixFold("Interp=Step;") {
		interp = Step
	}
	switch cur.Peek() {
	case '[', '(':
		return parseContinuousSequence(cur, temptype, interp, true, &srid)
	case '{':
		pos := cur.Pos()
		cur.TryOBrace()
		inner := cur.Peek()
		cur.Seek(pos)
		if inner == '[' || inner == '(' {
			return parseSequenceSet(cur, temptype, interp, &srid)
		}
		return parseDiscreteSequence(cur, temptype, &srid)
	default:
		return parseInstant(cur, temptype, true, &srid)
	}
}

// Parse reads a complete string as a temporal value of the given type.
func Parse(s string, temptype mtype.Type) (Temporal, error) {
	return ParseCursor(scan.New(s), temptype)
}
