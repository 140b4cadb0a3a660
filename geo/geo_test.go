package geo

import (
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/meos-project/meos/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCursor(s string) *scan.Cursor { return scan.New(s) }

func TestWktRoundTrip(t *testing.T) {
	tests := []string{
		"POINT(0 0)",
		"POINT(1.5 -2.25)",
		"POINT Z (1 2 3)",
		"SRID=4326;POINT(10 20)",
		"POINT EMPTY",
	}
	for _, text := range tests {
		g, err := FromWkt(text, false)
		require.NoError(t, err, "input %q", text)
		expect.EQ(t, g.Ewkt(15), text)
	}
}

func TestWktBareZ(t *testing.T) {
	g, err := FromWkt("POINT(1 2 3)", false)
	require.NoError(t, err)
	assert.True(t, g.HasZ())
	assert.Equal(t, 3.0, g.Z())
	expect.EQ(t, g.Wkt(15), "POINT Z (1 2 3)")
}

func TestWktErrors(t *testing.T) {
	for _, text := range []string{"LINESTRING(0 0, 1 1)", "POINT(1)", "POINT(1 2", "POINT 1 2"} {
		_, err := FromWkt(text, false)
		assert.Error(t, err, "input %q", text)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	for _, g := range []*Geo{
		MakePoint(4326, 1, 2, true),
		MakePointZ(0, -1, -2, -3, false),
		MakeEmpty(21, false),
	} {
		got, err := Unmarshal(g.Marshal())
		require.NoError(t, err)
		assert.True(t, g.Equal(got), "geo %s", g.Ewkt(15))
	}
}

func TestSetSrid(t *testing.T) {
	g, err := FromWkt("POINT(0 0)", false)
	require.NoError(t, err)
	expect.EQ(t, g.Srid(), SridUnknown)
	g.SetSrid(3857)
	expect.EQ(t, g.Srid(), int32(3857))
}

func TestMaxddOutput(t *testing.T) {
	g := MakePoint(0, 1.23456789, 2, false)
	expect.EQ(t, g.Wkt(3), "POINT(1.235 2)")
}

func TestParseNPoint(t *testing.T) {
	np, err := ParseNPoint(newCursor("NPOINT(101, 0.5)"), true)
	require.NoError(t, err)
	assert.Equal(t, int64(101), np.Rid)
	assert.Equal(t, 0.5, np.Pos)
	expect.EQ(t, np.String(), "NPOINT(101,0.5)")

	_, err = ParseNPoint(newCursor("NPOINT(1, 1.5)"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 0 and 1")
}

func TestParseNSegment(t *testing.T) {
	ns, err := ParseNSegment(newCursor("NSEGMENT(7, 0.25, 0.75)"))
	require.NoError(t, err)
	expect.EQ(t, ns.String(), "NSEGMENT(7,0.25,0.75)")
}

func TestNPointPayload(t *testing.T) {
	np := NPoint{Rid: 42, Pos: 0.125}
	got, err := UnmarshalNPoint(MarshalNPoint(np))
	require.NoError(t, err)
	assert.Equal(t, np, got)
}
