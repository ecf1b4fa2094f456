// Command siteroute precomputes intra-site routability of an FPGA device:
// for every selected tile type it writes which BEL pin pairs connect inside
// their site and under which configuration state.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
