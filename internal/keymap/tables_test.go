package keymap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keyglitch/keyglitch/internal/keyevent"
	"github.com/keyglitch/keyglitch/internal/keymap"
)

func TestValidPositionsAreUnique(t *testing.T) {
	assert.Len(t, keymap.ValidPositions, keyevent.MapIndexCount)
	seen := make(map[keyevent.Pos]bool)
	for _, p := range keymap.ValidPositions {
		assert.False(t, seen[p], "duplicate position 0x%02x", uint8(p))
		seen[p] = true
	}
}

func TestLayersCoverEveryValidPosition(t *testing.T) {
	for _, layer := range []keymap.Layer{keymap.Simple, keymap.Mod1, keymap.Mod2, keymap.Mod3} {
		assert.Len(t, layer, keyevent.MapIndexCount)
	}
}

func TestComboResolutionIsOrderInsensitive(t *testing.T) {
	require := func(c keymap.ComboEntry) {
		cmd, ok := keymap.ResolveCombo(c.P1, c.P2)
		assert.True(t, ok)
		assert.True(t, cmd.Equal(c.Cmd))

		cmd, ok = keymap.ResolveCombo(c.P2, c.P1)
		assert.True(t, ok)
		assert.True(t, cmd.Equal(c.Cmd))
	}
	for _, c := range keymap.Combos {
		require(c)
	}
}

func TestResolveComboRejectsNonCombo(t *testing.T) {
	_, ok := keymap.ResolveCombo(keymap.ValidPositions[0], keymap.ValidPositions[1])
	if keymap.IsComboParticipant(keymap.ValidPositions[0]) || keymap.IsComboParticipant(keymap.ValidPositions[1]) {
		t.Skip("chosen positions happen to participate in a combo")
	}
	assert.False(t, ok)
}

func TestIsComboParticipant(t *testing.T) {
	for _, c := range keymap.Combos {
		assert.True(t, keymap.IsComboParticipant(c.P1))
		assert.True(t, keymap.IsComboParticipant(c.P2))
	}
}
