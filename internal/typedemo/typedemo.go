// Package typedemo drives a local in-process keystream.KeyStream from real
// terminal keystrokes, standing in for the physical scan matrix that would
// normally feed it. It exists purely as a demo: the host keyboard plays the
// role of the 8-position local scanner, and the peer half is always empty.
package typedemo

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/keyglitch/keyglitch/device/keyboard"
	"github.com/keyglitch/keyglitch/internal/keyevent"
	"github.com/keyglitch/keyglitch/internal/keymap"
	"github.com/keyglitch/keyglitch/internal/keystream"
	"github.com/keyglitch/keyglitch/internal/log"
)

// posForKeycode reverse-looks-up a position in keymap.Simple that emits a
// bare KeyPress for kc, so a typed character can be turned into the
// position a real scan matrix would have reported.
func posForKeycode(kc uint8) (keyevent.Pos, bool) {
	for _, p := range keymap.ValidPositions {
		cmd := keymap.Simple[p.MapIndex()]
		if cmd.Kind == keyevent.KeyPress && cmd.KC == kc {
			return p, true
		}
	}
	return 0, false
}

// shiftPos is the position bound to a bare Shift press in keymap.Simple, if
// any; held alongside a character's own position to produce the shifted
// variant.
func shiftPos() (keyevent.Pos, bool) {
	for _, p := range keymap.ValidPositions {
		cmd := keymap.Simple[p.MapIndex()]
		if cmd.Kind == keyevent.PressModifier && cmd.MK == keyevent.ModShift {
			return p, true
		}
	}
	return 0, false
}

// Run puts in into raw mode (when it's a terminal), reads keystrokes until
// Ctrl-C or Ctrl-D, and for each recognized character feeds a synthesized
// press snapshot and then an all-released snapshot through one KeyStream
// built at the start of Run, hex-dumping the resulting HID reports via
// rawLogger. The emulated clock advances by one tick (2^16 cycles) per
// snapshot; tickHz is defaulted to 1000 when zero but does not change that
// step, and there is no wall-clock pacing between snapshots.
func Run(in *os.File, tickHz uint32, opts keystream.Options, rawLogger log.RawLogger) error {
	if tickHz == 0 {
		tickHz = 1000
	}

	fd := int(in.Fd())
	var restore func()
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("typedemo: enter raw mode: %w", err)
		}
		restore = func() { _ = term.Restore(fd, oldState) }
		defer restore()
		fmt.Fprintln(os.Stderr, "keyglitch type demo: type away, Ctrl-D to exit")
	}

	ks := keystream.New(opts)
	var clk uint32
	clkStep := uint32(1 << 16)

	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n == 0 || err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		ch := buf[0]
		if ch == 0x03 || ch == 0x04 { // Ctrl-C / Ctrl-D
			return nil
		}

		var local [8]keyevent.Pos
		slot := 0

		if keyboard.ShiftChars[ch] {
			if p, ok := shiftPos(); ok && slot < len(local) {
				local[slot] = p
				slot++
			}
		}
		if kc, ok := keyboard.CharToKey[ch]; ok {
			if p, ok := posForKeycode(kc); ok && slot < len(local) {
				local[slot] = p
				slot++
			}
		}

		clk += clkStep
		ks.Push(local, [8]keyevent.Pos{}, clk)
		ks.Read(clk, func(report []byte) {
			if rawLogger != nil {
				rawLogger.Log(false, report)
			}
		})

		// Release: the next tick reports nothing pressed.
		clk += clkStep
		ks.Push([8]keyevent.Pos{}, [8]keyevent.Pos{}, clk)
		ks.Read(clk, func(report []byte) {
			if rawLogger != nil {
				rawLogger.Log(false, report)
			}
		})
	}
}
