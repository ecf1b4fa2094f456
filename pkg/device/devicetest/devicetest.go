// Package devicetest provides small device descriptions for tests.
package devicetest

import (
	"github.com/dd0wney/cluso-siteroute/pkg/device"
)

// ToyYAML describes a device with two tile types.
//
// SLICE pin indices: IN.P=0 LUT.A1=1 LUT.O6=2 FF.D=3 FF.Q=4 CARRY.CO=5
// OUTMUX.I0=6 OUTMUX.I1=7 OUTMUX.I2=8 OUTMUX.O=9 OUT.P=10.
//
// IOB pin indices: PAD.P=0 IMUX.A=1 IMUX.B=2 IMUX.O=3 SEL.I=4 SEL.O=5
// ILOGIC.D=6.
const ToyYAML = `
name: toy
siteTypes:
  - name: SLICE
    bels:
      - name: IN
        category: port
        pins: [{name: P, dir: output}]
      - name: LUT
        pins: [{name: A1, dir: input}, {name: O6, dir: output}]
      - name: FF
        pins: [{name: D, dir: input}, {name: Q, dir: output}]
      - name: CARRY
        pins: [{name: CO, dir: output}]
      - name: OUTMUX
        category: routing
        pins:
          - {name: I0, dir: input}
          - {name: I1, dir: input}
          - {name: I2, dir: input}
          - {name: O, dir: output}
      - name: OUT
        category: port
        pins: [{name: P, dir: input}]
    wires:
      - {name: W_IN, pins: [IN.P, LUT.A1, OUTMUX.I1]}
      - {name: W_O6, pins: [LUT.O6, OUTMUX.I0, FF.D]}
      - {name: W_Q, pins: [FF.Q, CARRY.CO, OUTMUX.I2]}
      - {name: W_OUT, pins: [OUTMUX.O, OUT.P]}
    pips:
      - {bel: OUTMUX, in: I0, out: O}
      - {bel: OUTMUX, in: I1, out: O}
      - {bel: OUTMUX, in: I2, out: O}
  - name: IOB
    bels:
      - name: PAD
        category: port
        pins: [{name: P, dir: output}]
      - name: IMUX
        category: routing
        pins: [{name: A, dir: input}, {name: B, dir: input}, {name: O, dir: output}]
      - name: SEL
        category: routing
        pins: [{name: I, dir: input}, {name: O, dir: output}]
      - name: ILOGIC
        pins: [{name: D, dir: input}]
    wires:
      - {name: W_PAD, pins: [PAD.P, IMUX.A, IMUX.B]}
      - {name: W_IMUX, pins: [IMUX.O, SEL.I]}
      - {name: W_SEL, pins: [SEL.O, ILOGIC.D]}
    pips:
      - {bel: IMUX, in: A, out: O, requires: {state: X, value: 1}}
      - {bel: IMUX, in: B, out: O, requires: {state: X, value: 2}}
      - {bel: SEL, in: I, out: O, requires: {state: Y, value: 0}}
    states:
      - {name: X}
      - {name: Y, domain: 2}
tileTypes:
  - name: CLB
    sites: [SLICE, SLICE]
  - name: IOI
    sites: [IOB]
tiles:
  - {name: CLB_X0Y0, type: CLB}
  - {name: CLB_X1Y0, type: CLB}
  - {name: IOI_X0Y0, type: IOI}
`

// Toy parses ToyYAML and panics if it is invalid.
func Toy() *device.Device {
	d, err := device.Parse([]byte(ToyYAML))
	if err != nil {
		panic(err)
	}
	return d
}

// MustSiteType returns the named site type of d.
func MustSiteType(d *device.Device, name string) *device.SiteType {
	st, ok := d.SiteType(name)
	if !ok {
		panic("devicetest: no site type " + name)
	}
	return st
}
