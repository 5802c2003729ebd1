// Package hidreport maintains the set of currently-active commands and
// renders them into an 8-byte HID boot-keyboard report, implementing
// device.ReportBuilder.
package hidreport

import "github.com/keyglitch/keyglitch/internal/keyevent"

// MaxCommands is the boot-protocol rollover limit: at most six concurrent
// non-modifier keys per report.
const MaxCommands = 6

// FeatureState is the report-building state shared by the whole keyboard:
// layer-modifier flags, the active command bag, and the combo-gating clock.
type FeatureState struct {
	mods          [3]bool // MOD1, MOD2, MOD3
	commands      [MaxCommands]keyevent.Command
	lastActionCnt uint16
	requestsReset bool
}

// New returns a FeatureState with no keys or layers active.
func New() *FeatureState {
	fs := &FeatureState{}
	for i := range fs.commands {
		fs.commands[i] = keyevent.CmdNop
	}
	return fs
}

// LastActionCnt returns the cnt at which the most recent non-combo key was
// emitted; the transform engine uses it to gate combo recognition.
func (fs *FeatureState) LastActionCnt() uint16 { return fs.lastActionCnt }

// SetLastActionCnt records the cnt of the most recent non-combo emission.
func (fs *FeatureState) SetLastActionCnt(cnt uint16) { fs.lastActionCnt = cnt }

// LayerEngaged reports whether MOD1 (idx 0), MOD2 (idx 1) or MOD3 (idx 2) is
// currently held.
func (fs *FeatureState) LayerEngaged(idx int) bool { return fs.mods[idx] }

// RequestsReset reports whether a RequestReset command has ever been
// rendered (spec.md §7/§9); the latch never clears.
func (fs *FeatureState) RequestsReset() bool { return fs.requestsReset }

// Press mutates state with a newly activated command and reports whether
// the next rendered report would now differ from one rendered before the
// call (spec.md §4.C).
func (fs *FeatureState) Press(cmd keyevent.Command) bool {
	if cmd.Kind == keyevent.Nop {
		return false
	}
	if cmd.Kind == keyevent.PressModifier {
		if idx := cmd.MK.LayerIndex(); idx >= 0 {
			fs.mods[idx] = true
			return false
		}
	}
	return fs.pushCommand(cmd)
}

// Release is the inverse of Press.
func (fs *FeatureState) Release(cmd keyevent.Command) bool {
	if cmd.Kind == keyevent.Nop {
		return false
	}
	if cmd.Kind == keyevent.PressModifier {
		if idx := cmd.MK.LayerIndex(); idx >= 0 {
			changed := fs.mods[idx]
			fs.mods[idx] = false
			return changed
		}
	}
	return fs.popCommand(cmd)
}

// pushCommand inserts cmd into the first Nop slot, idempotently: if cmd is
// already present it is a no-op, and if all six slots are occupied the
// press is silently dropped (six-key-rollover boundary).
func (fs *FeatureState) pushCommand(cmd keyevent.Command) bool {
	for _, c := range fs.commands {
		if c.Equal(cmd) {
			return false
		}
	}
	for i, c := range fs.commands {
		if c.IsNop() {
			fs.commands[i] = cmd
			return true
		}
	}
	return false
}

// popCommand removes the first slot equal to cmd, compacting the tail left
// so the left-packed invariant holds. Absent commands are a no-op.
func (fs *FeatureState) popCommand(cmd keyevent.Command) bool {
	idx := -1
	for i, c := range fs.commands {
		if c.Equal(cmd) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	copy(fs.commands[idx:], fs.commands[idx+1:])
	fs.commands[MaxCommands-1] = keyevent.CmdNop
	return true
}

// BuildReport renders the current state into an 8-byte HID boot-keyboard
// report: byte 0 is the OR of every active modifier, byte 1 is reserved,
// bytes 2..7 are up to six keycodes in insertion order. A RequestReset slot
// latches requestsReset and contributes no bytes. BuildReport is a pure
// function of commands/mods aside from that latch.
func (fs *FeatureState) BuildReport() []byte {
	var report [8]byte
	slot := 2
	for _, c := range fs.commands {
		switch c.Kind {
		case keyevent.Nop:
			continue
		case keyevent.RequestReset:
			fs.requestsReset = true
		case keyevent.PressModifier:
			report[0] |= c.ModifierMask()
		case keyevent.ModifiedKey:
			report[0] |= c.ModifierMask()
			if slot < len(report) {
				report[slot] = c.KC
				slot++
			}
		case keyevent.KeyPress:
			if slot < len(report) {
				report[slot] = c.KC
				slot++
			}
		}
	}
	return report[:]
}
