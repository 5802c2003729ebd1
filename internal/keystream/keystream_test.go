package keystream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyglitch/keyglitch/internal/keyevent"
	"github.com/keyglitch/keyglitch/internal/keymap"
	"github.com/keyglitch/keyglitch/internal/keystream"
)

// plainKeyPos returns a position from keymap.Simple bound to a bare
// KeyPress command and uninvolved in any combo, so tests can drive ordinary
// single-key presses without tripping combo resolution.
func plainKeyPos(t *testing.T, exclude ...keyevent.Pos) keyevent.Pos {
	t.Helper()
	for _, p := range keymap.ValidPositions {
		if keymap.IsComboParticipant(p) {
			continue
		}
		skip := false
		for _, e := range exclude {
			if e == p {
				skip = true
			}
		}
		if skip {
			continue
		}
		cmd := keymap.Simple[p.MapIndex()]
		if cmd.Kind == keyevent.KeyPress {
			return p
		}
	}
	t.Fatal("no plain KeyPress position found in keymap.Simple")
	return 0
}

func mkClk(cnt uint16) uint32 { return uint32(cnt) << 16 }

func TestPressEmitsReportWithKeycode(t *testing.T) {
	ks := keystream.New(keystream.Options{})
	pos := plainKeyPos(t)
	wantCmd := keymap.Simple[pos.MapIndex()]

	ks.Push([8]keyevent.Pos{pos}, [8]keyevent.Pos{}, mkClk(1))

	var reports [][]byte
	ks.Read(mkClk(1), func(r []byte) { reports = append(reports, append([]byte(nil), r...)) })

	require.Len(t, reports, 1)
	assert.Equal(t, wantCmd.KC, reports[0][2])
}

func TestReleaseEmitsEmptyReport(t *testing.T) {
	ks := keystream.New(keystream.Options{})
	pos := plainKeyPos(t)

	ks.Push([8]keyevent.Pos{pos}, [8]keyevent.Pos{}, mkClk(1))
	ks.Read(mkClk(1), func([]byte) {})

	ks.Push([8]keyevent.Pos{}, [8]keyevent.Pos{}, mkClk(2))
	var reports [][]byte
	ks.Read(mkClk(2), func(r []byte) { reports = append(reports, append([]byte(nil), r...)) })

	require.Len(t, reports, 1)
	assert.Equal(t, make([]byte, 8), reports[0])
}

func TestHeartbeatWhenNothingHappened(t *testing.T) {
	ks := keystream.New(keystream.Options{})
	var reports [][]byte
	ks.Read(mkClk(5), func(r []byte) { reports = append(reports, append([]byte(nil), r...)) })
	require.Len(t, reports, 1)
	assert.Equal(t, make([]byte, 8), reports[0])
}

func TestComboWithinThresholdResolves(t *testing.T) {
	require.NotEmpty(t, keymap.Combos)
	combo := keymap.Combos[0]
	ks := keystream.New(keystream.Options{})

	ks.Push([8]keyevent.Pos{combo.P1}, [8]keyevent.Pos{}, mkClk(1))
	ks.Push([8]keyevent.Pos{combo.P1, combo.P2}, [8]keyevent.Pos{}, mkClk(2))

	var reports [][]byte
	ks.Read(mkClk(2), func(r []byte) { reports = append(reports, append([]byte(nil), r...)) })

	require.Len(t, reports, 1)
	wantReport := make([]byte, 8)
	wantReport[0] = combo.Cmd.ModifierMask()
	wantReport[2] = combo.Cmd.KC
	assert.Equal(t, wantReport, reports[0])
}

func TestComboPastThresholdFallsBackToIndividualKeys(t *testing.T) {
	require.NotEmpty(t, keymap.Combos)
	combo := keymap.Combos[0]
	opts := keystream.Options{ComboThresholdCnt: 5}
	ks := keystream.New(opts)

	ks.Push([8]keyevent.Pos{combo.P1}, [8]keyevent.Pos{}, mkClk(0))
	// Second key arrives well past the threshold: the first key is too old
	// to combo by the time it's evaluated, so it resolves as an individual
	// keypress immediately.
	ks.Push([8]keyevent.Pos{combo.P1, combo.P2}, [8]keyevent.Pos{}, mkClk(100))

	var reports [][]byte
	ks.Read(mkClk(100), func(r []byte) { reports = append(reports, append([]byte(nil), r...)) })
	require.Len(t, reports, 1)
	simpleP1 := keymap.Simple[combo.P1.MapIndex()]
	assert.Contains(t, reports[0][2:], simpleP1.KC)

	// P2 itself is still fresh relative to cnt=100, so it waits for a
	// lookahead event that never comes; only once enough ticks pass does it
	// resolve as an individual keypress too. It joins P1, which is still
	// held.
	reports = nil
	ks.Read(mkClk(200), func(r []byte) { reports = append(reports, append([]byte(nil), r...)) })
	require.Len(t, reports, 1)
	simpleP2 := keymap.Simple[combo.P2.MapIndex()]
	assert.Contains(t, reports[0][2:], simpleP1.KC)
	assert.Contains(t, reports[0][2:], simpleP2.KC)
}

func TestLayerOverrideIsUsed(t *testing.T) {
	pos := plainKeyPos(t)
	var simple keymap.Layer
	for i := range simple {
		simple[i] = keyevent.CmdNop
	}
	simple[pos.MapIndex()] = keyevent.CmdKeyPress(0x99)

	ks := keystream.New(keystream.Options{
		Layers: &keystream.LayerSet{Simple: simple, Mod1: simple, Mod2: simple, Mod3: simple},
		Combos: []keymap.ComboEntry{},
	})

	ks.Push([8]keyevent.Pos{pos}, [8]keyevent.Pos{}, mkClk(1))
	var reports [][]byte
	ks.Read(mkClk(1), func(r []byte) { reports = append(reports, append([]byte(nil), r...)) })

	require.Len(t, reports, 1)
	assert.Equal(t, uint8(0x99), reports[0][2])
}

func TestRequestResetLatchesThroughKeyStream(t *testing.T) {
	pos := plainKeyPos(t)
	var simple keymap.Layer
	for i := range simple {
		simple[i] = keyevent.CmdNop
	}
	simple[pos.MapIndex()] = keyevent.CmdRequestReset

	ks := keystream.New(keystream.Options{
		Layers: &keystream.LayerSet{Simple: simple, Mod1: simple, Mod2: simple, Mod3: simple},
		Combos: []keymap.ComboEntry{},
	})

	assert.False(t, ks.RequestsReset())
	ks.Push([8]keyevent.Pos{pos}, [8]keyevent.Pos{}, mkClk(1))
	ks.Read(mkClk(1), func([]byte) {})
	assert.True(t, ks.RequestsReset())
}

func TestClockWraparoundStillOrdersCombo(t *testing.T) {
	require.NotEmpty(t, keymap.Combos)
	combo := keymap.Combos[0]
	ks := keystream.New(keystream.Options{})

	// cnt wraps from near 0xFFFF to a small value; the gap should still
	// read as "recent" under signed 16-bit subtraction.
	ks.Push([8]keyevent.Pos{combo.P1}, [8]keyevent.Pos{}, mkClk(0xfffe))
	ks.Push([8]keyevent.Pos{combo.P1, combo.P2}, [8]keyevent.Pos{}, mkClk(2))

	var reports [][]byte
	ks.Read(mkClk(2), func(r []byte) { reports = append(reports, append([]byte(nil), r...)) })

	require.Len(t, reports, 1)
	assert.Equal(t, combo.Cmd.KC, reports[0][2])
}

func TestPeerPositionParticipates(t *testing.T) {
	var peerPos keyevent.Pos
	for _, p := range keymap.ValidPositions {
		if p.IsPeer() {
			peerPos = p
			break
		}
	}
	require.NotZero(t, peerPos)

	ks := keystream.New(keystream.Options{})
	ks.Push([8]keyevent.Pos{}, [8]keyevent.Pos{peerPos}, mkClk(1))

	var reports [][]byte
	ks.Read(mkClk(1), func(r []byte) { reports = append(reports, append([]byte(nil), r...)) })
	require.Len(t, reports, 1)
}
