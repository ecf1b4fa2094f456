package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-siteroute/pkg/device/devicetest"
	"github.com/dd0wney/cluso-siteroute/pkg/index"
)

func TestParse(t *testing.T) {
	pair, err := Parse("  SLICE[1]/IN.P -> 21 ")
	require.NoError(t, err)
	require.NotNil(t, pair.Source.Named)
	assert.Equal(t, "SLICE", pair.Source.Named.Site)
	require.NotNil(t, pair.Source.Named.Instance)
	assert.Equal(t, 1, *pair.Source.Named.Instance)
	assert.Equal(t, "IN", pair.Source.Named.BEL)
	assert.Equal(t, "P", pair.Source.Named.Pin)
	require.NotNil(t, pair.Sink.Index)
	assert.Equal(t, 21, *pair.Sink.Index)

	assert.Equal(t, "SLICE[1]/IN.P", pair.Source.String())
	assert.Equal(t, "21", pair.Sink.String())

	_, err = Parse("IOB/IMUX.O->SEL.I")
	assert.Error(t, err, "sink lacks a site")

	pair, err = Parse("IOB/LUT.A1->IOB/X.2O")
	require.NoError(t, err)
	assert.Nil(t, pair.Source.Named.Instance)
	assert.Equal(t, "A1", pair.Source.Named.Pin)
	assert.Equal(t, "2O", pair.Sink.Named.Pin)
}

func TestParseErrors(t *testing.T) {
	for _, s := range []string{"", "1", "1 ->", "-> 2", "A.B -> 1", "SLICE[x]/A.B -> 1", "1 -> 2 -> 3"} {
		t.Run(s, func(t *testing.T) {
			_, err := Parse(s)
			assert.Error(t, err)
		})
	}
}

func TestResolve(t *testing.T) {
	dev := devicetest.Toy()
	ix := index.Assign(dev)
	clb, ioi := dev.TileTypeIndex("CLB"), dev.TileTypeIndex("IOI")

	tests := []struct {
		pin  string
		tt   int
		want int
	}{
		{"5", clb, 5},
		{"SLICE[0]/IN.P", clb, 0},
		{"SLICE[1]/OUTMUX.O", clb, 20},
		{"SLICE[1]/OUT.P", clb, 21},
		{"IOB/ILOGIC.D", ioi, 6},
		{"IOB[0]/IMUX.B", ioi, 2},
	}
	for _, tt := range tests {
		t.Run(tt.pin, func(t *testing.T) {
			p, err := ParsePin(tt.pin)
			require.NoError(t, err)
			got, err := Resolve(p, dev, ix, tt.tt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	dev := devicetest.Toy()
	ix := index.Assign(dev)
	clb := dev.TileTypeIndex("CLB")

	for _, s := range []string{"22", "SLICE/IN.P", "SLICE[2]/IN.P", "IOB/PAD.P", "SLICE[0]/NOPE.P", "SLICE[0]/LUT.A9"} {
		t.Run(s, func(t *testing.T) {
			p, err := ParsePin(s)
			require.NoError(t, err)
			_, err = Resolve(p, dev, ix, clb)
			assert.ErrorIs(t, err, ErrUnresolved)
		})
	}

	p, err := ParsePin("0")
	require.NoError(t, err)
	_, err = Resolve(p, dev, ix, 7)
	assert.ErrorIs(t, err, index.ErrOutOfRange)
}

func TestResolvePair(t *testing.T) {
	dev := devicetest.Toy()
	ix := index.Assign(dev)

	pair, err := Parse("SLICE[1]/IN.P -> SLICE[1]/OUT.P")
	require.NoError(t, err)
	src, dst, err := ResolvePair(pair, dev, ix, dev.TileTypeIndex("CLB"))
	require.NoError(t, err)
	assert.Equal(t, 11, src)
	assert.Equal(t, 21, dst)
}
