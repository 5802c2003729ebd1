// Package keystream implements the event synthesizer and transform engine
// (spec.md §4.D, §4.E): it turns two 8-position scan snapshots plus a clock
// into a ring of DOWN/UP events, then drains that ring into HID
// boot-keyboard reports, resolving two-key combos with a lookahead window.
package keystream

import (
	"github.com/keyglitch/keyglitch/internal/hidreport"
	"github.com/keyglitch/keyglitch/internal/keyevent"
	"github.com/keyglitch/keyglitch/internal/keymap"
	"github.com/keyglitch/keyglitch/internal/ring"
)

const validPosSpace = 256

// Options carries the build-time-tunable timing constants spec.md §9 asks
// to be exposed rather than hardcoded.
type Options struct {
	// ComboThresholdCnt bounds how old the first half of a combo may be and
	// still combine with a second. Default 219 ticks (~200ms at the
	// reference 72MHz/2^16 tick).
	ComboThresholdCnt uint16
	// ComboSeparationCnt is the minimum idle-after-last-emit required
	// before a combo may fire. The reference firmware ships this at 0
	// (disabled); spec.md §9 flags it as possibly a debug leftover.
	ComboSeparationCnt uint16
	// Layers overrides the compiled-in keymap.Simple/Mod1/Mod2/Mod3 tables.
	// Nil fields fall back to the package defaults.
	Layers *LayerSet
	// Combos overrides keymap.Combos. Nil falls back to the package default.
	Combos []keymap.ComboEntry
}

// LayerSet groups the four keymap tables consulted at DOWN.
type LayerSet struct {
	Simple, Mod1, Mod2, Mod3 keymap.Layer
}

// DefaultOptions returns the reference firmware's timing constants and the
// compiled-in keymap.
func DefaultOptions() Options {
	return Options{
		ComboThresholdCnt:  219,
		ComboSeparationCnt: 0,
	}
}

// KeyStream is the top-level holder: the event ring buffer, the bitset of
// positions observed pressed at the last Push, and the report-building
// FeatureState. It is constructed once at boot and lives for the process
// lifetime; after construction the only allocation is the 8-byte slice
// returned for each rendered report.
type KeyStream struct {
	events ring.Buffer[keyevent.Event]
	onPos  [validPosSpace]bool
	state  *hidreport.FeatureState

	opts   Options
	simple keymap.Layer
	mod1   keymap.Layer
	mod2   keymap.Layer
	mod3   keymap.Layer
	combos []keymap.ComboEntry
}

// New constructs a KeyStream using the given options (zero value is
// equivalent to DefaultOptions() with the compiled-in keymap).
func New(opts Options) *KeyStream {
	ks := &KeyStream{
		state: hidreport.New(),
		opts:  opts,
	}
	if ks.opts.ComboThresholdCnt == 0 {
		ks.opts.ComboThresholdCnt = DefaultOptions().ComboThresholdCnt
	}
	if opts.Layers != nil {
		ks.simple, ks.mod1, ks.mod2, ks.mod3 = opts.Layers.Simple, opts.Layers.Mod1, opts.Layers.Mod2, opts.Layers.Mod3
	} else {
		ks.simple, ks.mod1, ks.mod2, ks.mod3 = keymap.Simple, keymap.Mod1, keymap.Mod2, keymap.Mod3
	}
	if opts.Combos != nil {
		ks.combos = opts.Combos
	} else {
		ks.combos = keymap.Combos
	}
	return ks
}

// RequestsReset reports whether a RequestReset command has ever rendered.
func (ks *KeyStream) RequestsReset() bool { return ks.state.RequestsReset() }

func cntOf(clk uint32) uint16 { return uint16(clk >> 16) }

// Push is the event synthesizer: it diffs mat/peer against the previously
// observed on-set and enqueues UP events before DOWN events, in traversal
// order over keymap.ValidPositions (spec.md §4.D). mat and peer are up to
// 8 positions each, zero-padded; position 0 and duplicates are tolerated.
func (ks *KeyStream) Push(mat, peer [8]keyevent.Pos, clk uint32) {
	cnt := cntOf(clk)

	isOn := func(p keyevent.Pos) bool {
		if p == keyevent.None {
			return false
		}
		for _, m := range mat {
			if m == p {
				return true
			}
		}
		for _, m := range peer {
			if m == p {
				return true
			}
		}
		return false
	}

	for _, p := range keymap.ValidPositions {
		on := isOn(p)
		was := ks.onPos[p]
		if was && !on {
			ks.events.Push(keyevent.Event{Action: keyevent.Up, Pos: p, Cnt: cnt})
			ks.onPos[p] = false
		}
	}
	for _, p := range keymap.ValidPositions {
		on := isOn(p)
		was := ks.onPos[p]
		if !was && on {
			ks.events.Push(keyevent.Event{Action: keyevent.Down, Pos: p, Cnt: cnt})
			ks.onPos[p] = true
		}
	}
}

// resolution is the outcome of evaluating the head event.
type resolution int

const (
	resProgressedNoEmit resolution = iota
	resProgressedEmit
	resWaiting
)

// Read drains the ring buffer, driving the report builder and calling emit
// for every HID report produced. It stops when the buffer empties or a
// combo candidate needs lookahead that hasn't arrived yet. If the pass
// produced nothing at all, the currently rendered report is emitted once as
// a heartbeat (spec.md §4.E).
func (ks *KeyStream) Read(clk uint32, emit func([]byte)) {
	cnt := cntOf(clk)
	produced := false

	for {
		ev, ok := ks.events.Peek(0)
		if !ok {
			break
		}

		res := ks.step(ev, cnt, emit)
		if res == resWaiting {
			produced = true
			break
		}
		if res == resProgressedEmit {
			produced = true
		}
	}

	if !produced {
		emit(ks.state.BuildReport())
	}
}

// step evaluates and consumes (or not) the head event, returning how it
// progressed. It never consumes more than the two events of a fired combo.
func (ks *KeyStream) step(ev keyevent.Event, cnt uint16, emit func([]byte)) resolution {
	if ev.Pos == keyevent.None {
		ks.events.Consume()
		return resProgressedNoEmit
	}

	if ev.Action == keyevent.Up {
		ks.releaseRelatedKeys(ev.Pos)
		ks.events.Consume()
		return resProgressedNoEmit
	}

	return ks.processDown(ev, cnt, emit)
}

// comboDecision mirrors spec.md §4.E's NotCombo/ProcessCombo/Wait outcomes.
type comboDecision int

const (
	decNotCombo comboDecision = iota
	decProcessCombo
	decWait
)

func (ks *KeyStream) decideCombo(ev keyevent.Event, cnt uint16) (comboDecision, keyevent.Command) {
	if int16(ks.state.LastActionCnt()+ks.opts.ComboSeparationCnt-cnt) > 0 {
		return decNotCombo, keyevent.CmdNop
	}
	if int16(ev.Cnt+ks.opts.ComboThresholdCnt-cnt) < 0 {
		return decNotCombo, keyevent.CmdNop
	}
	if !isComboParticipant(ks.combos, ev.Pos) {
		return decNotCombo, keyevent.CmdNop
	}

	next, ok := ks.events.Peek(1)
	if !ok {
		return decWait, keyevent.CmdNop
	}
	if cmd, found := resolveCombo(ks.combos, ev.Pos, next.Pos); found {
		return decProcessCombo, cmd
	}
	return decNotCombo, keyevent.CmdNop
}

func (ks *KeyStream) processDown(ev keyevent.Event, cnt uint16, emit func([]byte)) resolution {
	decision, cmd := ks.decideCombo(ev, cnt)

	switch decision {
	case decWait:
		return resWaiting
	case decProcessCombo:
		changed := ks.state.Press(cmd)
		ks.events.Consume()
		ks.events.Consume()
		if changed {
			emit(ks.state.BuildReport())
			return resProgressedEmit
		}
		return resProgressedNoEmit
	default: // decNotCombo
		layer := ks.activeLayer()
		idx := ev.Pos.MapIndex()
		if idx < 0 || idx >= len(layer) {
			ks.events.Consume()
			return resProgressedNoEmit
		}
		changed := ks.state.Press(layer[idx])
		ks.events.Consume()
		if changed {
			ks.state.SetLastActionCnt(cnt)
			emit(ks.state.BuildReport())
			return resProgressedEmit
		}
		return resProgressedNoEmit
	}
}

// releaseRelatedKeys implements the conservative release policy (spec.md
// §9): an UP releases the position's binding on every layer it could have
// been inserted through, plus any combo command it participates in, so a
// key never sticks if the layer changed between its DOWN and its UP.
func (ks *KeyStream) releaseRelatedKeys(p keyevent.Pos) {
	idx := p.MapIndex()
	if idx >= 0 && idx < len(ks.simple) {
		ks.state.Release(ks.simple[idx])
		ks.state.Release(ks.mod1[idx])
		ks.state.Release(ks.mod2[idx])
		ks.state.Release(ks.mod3[idx])
	}
	for _, c := range ks.combos {
		if c.P1 == p || c.P2 == p {
			ks.state.Release(c.Cmd)
		}
	}
}

func (ks *KeyStream) activeLayer() keymap.Layer {
	switch {
	case ks.state.LayerEngaged(0):
		return ks.mod1
	case ks.state.LayerEngaged(1):
		return ks.mod2
	case ks.state.LayerEngaged(2):
		return ks.mod3
	default:
		return ks.simple
	}
}

func isComboParticipant(combos []keymap.ComboEntry, p keyevent.Pos) bool {
	for _, c := range combos {
		if c.P1 == p || c.P2 == p {
			return true
		}
	}
	return false
}

func resolveCombo(combos []keymap.ComboEntry, a, b keyevent.Pos) (keyevent.Command, bool) {
	for _, c := range combos {
		if (c.P1 == a && c.P2 == b) || (c.P1 == b && c.P2 == a) {
			return c.Cmd, true
		}
	}
	return keyevent.CmdNop, false
}
