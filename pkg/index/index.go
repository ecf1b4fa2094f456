// Package index numbers every BEL pin of every tile type.
//
// Pins are numbered tile type by tile type in declaration order, then site
// instance by site instance, BEL by BEL and pin by pin. The global index is
// unique across the device; the local index restarts at zero in each tile
// type and is what per-tile outputs use.
package index

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-siteroute/pkg/device"
)

// ErrOutOfRange is returned for references outside the device.
var ErrOutOfRange = errors.New("index out of range")

// PinRef identifies a BEL pin by position.
type PinRef struct {
	TileType int // position in Device.TileTypes
	Site     int // site instance inside the tile type
	BEL      int // BEL position in the site type
	Pin      int // pin position in the BEL
}

// Index is the BEL-pin numbering of a device. It is immutable and safe for
// concurrent use.
type Index struct {
	refs      []PinRef
	tileBase  []int
	siteBase  [][]int   // local base of each site instance
	belOffset [][][]int // offset of each BEL inside its site instance
	dev       *device.Device
}

// Assign numbers every BEL pin of dev.
func Assign(dev *device.Device) *Index {
	ix := &Index{
		tileBase:  make([]int, len(dev.TileTypes)),
		siteBase:  make([][]int, len(dev.TileTypes)),
		belOffset: make([][][]int, len(dev.TileTypes)),
		dev:       dev,
	}

	for t, tt := range dev.TileTypes {
		ix.tileBase[t] = len(ix.refs)
		ix.siteBase[t] = make([]int, len(tt.Sites))
		ix.belOffset[t] = make([][]int, len(tt.Sites))
		for s, name := range tt.Sites {
			ix.siteBase[t][s] = len(ix.refs) - ix.tileBase[t]
			st, _ := dev.SiteType(name)
			if st == nil {
				continue
			}
			offsets := make([]int, len(st.BELs))
			for b, bel := range st.BELs {
				offsets[b] = len(ix.refs) - ix.tileBase[t] - ix.siteBase[t][s]
				for p := range bel.Pins {
					ix.refs = append(ix.refs, PinRef{TileType: t, Site: s, BEL: b, Pin: p})
				}
			}
			ix.belOffset[t][s] = offsets
		}
	}
	return ix
}

// Len returns the number of indexed pins.
func (ix *Index) Len() int { return len(ix.refs) }

// Global returns the device-wide index of ref.
func (ix *Index) Global(ref PinRef) (int, error) {
	local, err := ix.Local(ref)
	if err != nil {
		return -1, err
	}
	return ix.tileBase[ref.TileType] + local, nil
}

// Local returns the tile-local index of ref.
func (ix *Index) Local(ref PinRef) (int, error) {
	if ref.TileType < 0 || ref.TileType >= len(ix.siteBase) ||
		ref.Site < 0 || ref.Site >= len(ix.siteBase[ref.TileType]) ||
		ref.BEL < 0 || ref.BEL >= len(ix.belOffset[ref.TileType][ref.Site]) {
		return -1, fmt.Errorf("%w: %+v", ErrOutOfRange, ref)
	}
	st, _ := ix.dev.SiteType(ix.dev.TileTypes[ref.TileType].Sites[ref.Site])
	if ref.Pin < 0 || ref.Pin >= len(st.BELs[ref.BEL].Pins) {
		return -1, fmt.Errorf("%w: %+v", ErrOutOfRange, ref)
	}
	return ix.siteBase[ref.TileType][ref.Site] + ix.belOffset[ref.TileType][ref.Site][ref.BEL] + ref.Pin, nil
}

// Ref returns the pin with the given global index.
func (ix *Index) Ref(global int) (PinRef, error) {
	if global < 0 || global >= len(ix.refs) {
		return PinRef{}, fmt.Errorf("%w: global index %d", ErrOutOfRange, global)
	}
	return ix.refs[global], nil
}

// LocalRef returns the pin with the given local index in tile type tt.
func (ix *Index) LocalRef(tt, local int) (PinRef, error) {
	base, count, err := ix.TileRange(tt)
	if err != nil {
		return PinRef{}, err
	}
	if local < 0 || local >= count {
		return PinRef{}, fmt.Errorf("%w: local index %d in tile type %d", ErrOutOfRange, local, tt)
	}
	return ix.refs[base+local], nil
}

// TileRange returns the first global index and the pin count of tile type tt.
func (ix *Index) TileRange(tt int) (base, count int, err error) {
	if tt < 0 || tt >= len(ix.tileBase) {
		return 0, 0, fmt.Errorf("%w: tile type %d", ErrOutOfRange, tt)
	}
	end := len(ix.refs)
	if tt+1 < len(ix.tileBase) {
		end = ix.tileBase[tt+1]
	}
	return ix.tileBase[tt], end - ix.tileBase[tt], nil
}

// SiteBase returns the local index of the first pin of site instance site
// in tile type tt. Adding a site-local pin index gives the tile-local index.
func (ix *Index) SiteBase(tt, site int) int {
	return ix.siteBase[tt][site]
}

// Name renders ref as "SITE[i]/BEL.PIN".
func (ix *Index) Name(ref PinRef) string {
	tt := ix.dev.TileTypes[ref.TileType]
	st, _ := ix.dev.SiteType(tt.Sites[ref.Site])
	bel := st.BELs[ref.BEL]
	return fmt.Sprintf("%s[%d]/%s.%s", st.Name, ref.Site, bel.Name, bel.Pins[ref.Pin].Name)
}
