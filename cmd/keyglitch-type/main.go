// Command keyglitch-type is a standalone demo: it puts the terminal in raw
// mode, reads real keystrokes, and feeds them through an in-process
// keystream.KeyStream, hex-dumping the HID boot reports that would be sent
// to the host. It mirrors the shape of the teacher's examples/go binaries —
// a small program with no config file, just flags.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/keyglitch/keyglitch/internal/keystream"
	"github.com/keyglitch/keyglitch/internal/log"
	"github.com/keyglitch/keyglitch/internal/typedemo"
)

func main() {
	tickHz := flag.Uint("tick-hz", 1000, "simulated scan-tick rate in Hz")
	comboThreshold := flag.Uint("combo-threshold", 219, "max age in ticks of a combo's first key")
	flag.Parse()

	rawLogger := log.NewRaw(os.Stdout)

	opts := keystream.DefaultOptions()
	opts.ComboThresholdCnt = uint16(*comboThreshold)

	if err := typedemo.Run(os.Stdin, uint32(*tickHz), opts, rawLogger); err != nil {
		fmt.Fprintln(os.Stderr, "keyglitch-type:", err)
		os.Exit(1)
	}
}
