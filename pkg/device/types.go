package device

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// PinDir is the direction of a BEL pin.
type PinDir int

const (
	Input PinDir = iota
	Output
	Inout
)

func (d PinDir) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	case Inout:
		return "inout"
	default:
		return fmt.Sprintf("PinDir(%d)", int(d))
	}
}

// Drives reports whether a pin with this direction can drive a site wire.
func (d PinDir) Drives() bool { return d == Output || d == Inout }

// Sinks reports whether a pin with this direction can be driven by a site wire.
func (d PinDir) Sinks() bool { return d == Input || d == Inout }

// UnmarshalYAML decodes "input", "output" or "inout".
func (d *PinDir) UnmarshalYAML(value *yaml.Node) error {
	switch strings.ToLower(value.Value) {
	case "input", "in":
		*d = Input
	case "output", "out":
		*d = Output
	case "inout":
		*d = Inout
	default:
		return fmt.Errorf("line %d: unknown pin direction %q", value.Line, value.Value)
	}
	return nil
}

// MarshalYAML encodes the direction by name.
func (d PinDir) MarshalYAML() (any, error) { return d.String(), nil }

// Category classifies a BEL.
type Category int

const (
	// Logic BELs implement user logic (LUTs, flip-flops).
	Logic Category = iota
	// Routing BELs are configurable muxes; only they may carry site pips.
	Routing
	// SitePort BELs stand for the pins connecting a site to the fabric.
	SitePort
)

func (c Category) String() string {
	switch c {
	case Logic:
		return "logic"
	case Routing:
		return "routing"
	case SitePort:
		return "port"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// UnmarshalYAML decodes "logic", "routing" or "port".
func (c *Category) UnmarshalYAML(value *yaml.Node) error {
	switch strings.ToLower(value.Value) {
	case "logic", "":
		*c = Logic
	case "routing":
		*c = Routing
	case "port", "siteport", "site_port":
		*c = SitePort
	default:
		return fmt.Errorf("line %d: unknown BEL category %q", value.Line, value.Value)
	}
	return nil
}

// MarshalYAML encodes the category by name.
func (c Category) MarshalYAML() (any, error) { return c.String(), nil }

// BELPin is one pin of a BEL.
type BELPin struct {
	Name string `yaml:"name" validate:"required,identifier"`
	Dir  PinDir `yaml:"dir"`
}

// BEL is a basic element of a site.
type BEL struct {
	Name     string   `yaml:"name" validate:"required,identifier"`
	Category Category `yaml:"category"`
	Pins     []BELPin `yaml:"pins" validate:"dive"`
}

// PinIndex returns the position of the named pin, or -1.
func (b *BEL) PinIndex(name string) int {
	for i := range b.Pins {
		if b.Pins[i].Name == name {
			return i
		}
	}
	return -1
}

// PinRef names a BEL pin as "BEL.PIN".
type PinRef struct {
	BEL string
	Pin string
}

// ParsePinRef parses "BEL.PIN".
func ParsePinRef(s string) (PinRef, error) {
	bel, pin, ok := strings.Cut(s, ".")
	if !ok || bel == "" || pin == "" {
		return PinRef{}, fmt.Errorf("invalid pin reference %q, want BEL.PIN", s)
	}
	return PinRef{BEL: bel, Pin: pin}, nil
}

func (r PinRef) String() string { return r.BEL + "." + r.Pin }

// UnmarshalYAML decodes a "BEL.PIN" scalar.
func (r *PinRef) UnmarshalYAML(value *yaml.Node) error {
	ref, err := ParsePinRef(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*r = ref
	return nil
}

// MarshalYAML encodes the reference as "BEL.PIN".
func (r PinRef) MarshalYAML() (any, error) { return r.String(), nil }

// SiteWire is a site-internal wire and the BEL pins attached to it.
type SiteWire struct {
	Name string   `yaml:"name" validate:"required,identifier"`
	Pins []PinRef `yaml:"pins"`
}

// StateRef is an explicit state obligation on a site pip.
type StateRef struct {
	State string `yaml:"state" validate:"required,identifier"`
	Value int    `yaml:"value" validate:"gte=0"`
}

// SitePIP is a configurable connection from an input pin to an output pin
// of the same routing BEL.
type SitePIP struct {
	BEL      string    `yaml:"bel" validate:"required"`
	In       string    `yaml:"in" validate:"required"`
	Out      string    `yaml:"out" validate:"required"`
	Requires *StateRef `yaml:"requires,omitempty"`
	Implies  *StateRef `yaml:"implies,omitempty"`
}

func (p SitePIP) String() string {
	return fmt.Sprintf("%s.%s->%s.%s", p.BEL, p.In, p.BEL, p.Out)
}

// StateDecl declares a named state variable. Domain 0 leaves the number of
// values open.
type StateDecl struct {
	Name   string `yaml:"name" validate:"required,identifier"`
	Domain int    `yaml:"domain" validate:"gte=0"`
}

// SiteType is the internal structure shared by every instance of a site.
type SiteType struct {
	Name   string      `yaml:"name" validate:"required,identifier"`
	BELs   []BEL       `yaml:"bels" validate:"dive"`
	Wires  []SiteWire  `yaml:"wires" validate:"dive"`
	PIPs   []SitePIP   `yaml:"pips" validate:"dive"`
	States []StateDecl `yaml:"states" validate:"dive"`
}

// BELIndex returns the position of the named BEL, or -1.
func (st *SiteType) BELIndex(name string) int {
	for i := range st.BELs {
		if st.BELs[i].Name == name {
			return i
		}
	}
	return -1
}

// PinCount returns the number of BEL pins in the site type.
func (st *SiteType) PinCount() int {
	n := 0
	for i := range st.BELs {
		n += len(st.BELs[i].Pins)
	}
	return n
}

// ResolvePin returns the BEL and pin positions named by ref.
func (st *SiteType) ResolvePin(ref PinRef) (bel, pin int, err error) {
	bel = st.BELIndex(ref.BEL)
	if bel < 0 {
		return -1, -1, fmt.Errorf("%w: BEL %q", ErrUndeclaredReference, ref.BEL)
	}
	pin = st.BELs[bel].PinIndex(ref.Pin)
	if pin < 0 {
		return -1, -1, fmt.Errorf("%w: BEL pin %q", ErrUndeclaredReference, ref.String())
	}
	return bel, pin, nil
}

// State returns the declaration of the named state, if any.
func (st *SiteType) State(name string) (StateDecl, bool) {
	for _, s := range st.States {
		if s.Name == name {
			return s, true
		}
	}
	return StateDecl{}, false
}

// TileType lists the site type of every site instance in the tile, in
// instance order.
type TileType struct {
	Name  string   `yaml:"name" validate:"required,identifier"`
	Sites []string `yaml:"sites" validate:"dive,required"`
}

// Tile is one placed tile of the device.
type Tile struct {
	Name string `yaml:"name" validate:"required"`
	Type string `yaml:"type" validate:"required"`
}

// Device is a parsed device description. It is read-only once loaded.
type Device struct {
	Name      string     `yaml:"name" validate:"required"`
	SiteTypes []SiteType `yaml:"siteTypes" validate:"dive"`
	TileTypes []TileType `yaml:"tileTypes" validate:"dive"`
	Tiles     []Tile     `yaml:"tiles" validate:"dive"`
}

// SiteType returns the named site type.
func (d *Device) SiteType(name string) (*SiteType, bool) {
	for i := range d.SiteTypes {
		if d.SiteTypes[i].Name == name {
			return &d.SiteTypes[i], true
		}
	}
	return nil, false
}

// TileTypeIndex returns the position of the named tile type, or -1.
func (d *Device) TileTypeIndex(name string) int {
	for i := range d.TileTypes {
		if d.TileTypes[i].Name == name {
			return i
		}
	}
	return -1
}

// TileTypeNames returns tile type names in declaration order.
func (d *Device) TileTypeNames() []string {
	names := make([]string, len(d.TileTypes))
	for i := range d.TileTypes {
		names[i] = d.TileTypes[i].Name
	}
	return names
}
