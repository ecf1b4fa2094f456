package device

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-siteroute/pkg/validation"
)

// Validate checks field constraints, name uniqueness and every cross
// reference in the description. All problems are reported together.
func (d *Device) Validate() error {
	if err := validation.ValidateStruct(d); err != nil {
		return err
	}

	var errs []error
	siteTypes := make(map[string]bool, len(d.SiteTypes))
	for i := range d.SiteTypes {
		st := &d.SiteTypes[i]
		if siteTypes[st.Name] {
			errs = append(errs, &DeviceError{Entity: "site type", Name: st.Name, Cause: ErrDuplicateName})
		}
		siteTypes[st.Name] = true
		errs = append(errs, st.Check()...)
	}

	tileTypes := make(map[string]bool, len(d.TileTypes))
	for _, tt := range d.TileTypes {
		if tileTypes[tt.Name] {
			errs = append(errs, &DeviceError{Entity: "tile type", Name: tt.Name, Cause: ErrDuplicateName})
		}
		tileTypes[tt.Name] = true
		for i, s := range tt.Sites {
			if !siteTypes[s] {
				errs = append(errs, &DeviceError{
					Entity: "tile type", Name: tt.Name, Part: fmt.Sprintf("site %d", i),
					Cause: fmt.Errorf("%w: site type %q", ErrUndeclaredReference, s),
				})
			}
		}
	}

	tiles := make(map[string]bool, len(d.Tiles))
	for _, t := range d.Tiles {
		if tiles[t.Name] {
			errs = append(errs, &DeviceError{Entity: "tile", Name: t.Name, Cause: ErrDuplicateName})
		}
		tiles[t.Name] = true
		if !tileTypes[t.Type] {
			errs = append(errs, &DeviceError{
				Entity: "tile", Name: t.Name,
				Cause: fmt.Errorf("%w: tile type %q", ErrUndeclaredReference, t.Type),
			})
		}
	}

	return errors.Join(errs...)
}

// Check verifies the internal consistency of a site type: unique names,
// resolvable wire attachments and well-formed site pips.
func (st *SiteType) Check() []error {
	var errs []error

	bels := make(map[string]bool, len(st.BELs))
	for _, b := range st.BELs {
		if bels[b.Name] {
			errs = append(errs, siteErr(st, "BEL "+b.Name, ErrDuplicateName))
		}
		bels[b.Name] = true
		pins := make(map[string]bool, len(b.Pins))
		for _, p := range b.Pins {
			if pins[p.Name] {
				errs = append(errs, siteErr(st, "BEL pin "+b.Name+"."+p.Name, ErrDuplicateName))
			}
			pins[p.Name] = true
		}
	}

	wires := make(map[string]bool, len(st.Wires))
	attached := make(map[PinRef]string)
	for _, w := range st.Wires {
		if wires[w.Name] {
			errs = append(errs, siteErr(st, "wire "+w.Name, ErrDuplicateName))
		}
		wires[w.Name] = true
		for _, ref := range w.Pins {
			if _, _, err := st.ResolvePin(ref); err != nil {
				errs = append(errs, siteErr(st, "wire "+w.Name, err))
				continue
			}
			if other, ok := attached[ref]; ok {
				errs = append(errs, siteErr(st, "wire "+w.Name,
					fmt.Errorf("%w: %s is already attached to wire %s", ErrInvalidAttachment, ref, other)))
				continue
			}
			attached[ref] = w.Name
		}
	}

	states := make(map[string]bool, len(st.States))
	for _, s := range st.States {
		if states[s.Name] {
			errs = append(errs, siteErr(st, "state "+s.Name, ErrDuplicateName))
		}
		states[s.Name] = true
	}

	for _, p := range st.PIPs {
		if err := st.CheckPIP(p); err != nil {
			errs = append(errs, siteErr(st, "pip "+p.String(), err))
		}
	}
	return errs
}

// CheckPIP verifies that a site pip connects an input pin to an output pin of
// one routing BEL and that its state obligations fit their declarations.
func (st *SiteType) CheckPIP(p SitePIP) error {
	in, err := st.pipPin(p.BEL, p.In)
	if err != nil {
		return err
	}
	out, err := st.pipPin(p.BEL, p.Out)
	if err != nil {
		return err
	}

	bel := &st.BELs[st.BELIndex(p.BEL)]
	if bel.Category != Routing {
		return fmt.Errorf("%w: BEL %s is a %s BEL, not a routing BEL", ErrInvalidPip, bel.Name, bel.Category)
	}
	if !in.Dir.Sinks() {
		return fmt.Errorf("%w: %s.%s is an %s pin", ErrInvalidPip, bel.Name, in.Name, in.Dir)
	}
	if !out.Dir.Drives() {
		return fmt.Errorf("%w: %s.%s is an %s pin", ErrInvalidPip, bel.Name, out.Name, out.Dir)
	}

	for _, ref := range []*StateRef{p.Requires, p.Implies} {
		if ref == nil {
			continue
		}
		decl, ok := st.State(ref.State)
		if ok && decl.Domain > 0 && ref.Value >= decl.Domain {
			return fmt.Errorf("%w: %s=%d outside domain of %d values", ErrInvalidState, ref.State, ref.Value, decl.Domain)
		}
	}
	return nil
}

func (st *SiteType) pipPin(bel, pin string) (*BELPin, error) {
	b, p, err := st.ResolvePin(PinRef{BEL: bel, Pin: pin})
	if err != nil {
		return nil, err
	}
	return &st.BELs[b].Pins[p], nil
}
