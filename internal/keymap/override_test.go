package keymap_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyglitch/keyglitch/internal/keyevent"
	"github.com/keyglitch/keyglitch/internal/keymap"
)

const overrideJSON = `{
	"simple": [
		{"pos": 17, "kind": "key", "code": 4},
		{"pos": 18, "kind": "modkey", "code": 5, "mods": ["shift", "ctrl"]},
		{"pos": 19, "kind": "mod", "mod": "mod1"},
		{"pos": 20, "kind": "reset"}
	],
	"mod1": [],
	"mod2": [],
	"mod3": [],
	"combos": [
		{"p1": 17, "p2": 18, "cmd": {"kind": "key", "code": 42}}
	]
}`

func TestLoadOverrideJSON(t *testing.T) {
	simple, mod1, _, _, combos, err := keymap.LoadOverride(strings.NewReader(overrideJSON), keymap.FormatJSON)
	require.NoError(t, err)

	assert.True(t, simple[keyevent.Pos(17).MapIndex()].Equal(keyevent.CmdKeyPress(4)))
	assert.True(t, simple[keyevent.Pos(18).MapIndex()].Equal(keyevent.CmdModifiedKey(5, keyevent.ModShift, keyevent.ModCtrl)))
	assert.True(t, simple[keyevent.Pos(19).MapIndex()].Equal(keyevent.CmdPressModifier(keyevent.ModMod1)))
	assert.True(t, simple[keyevent.Pos(20).MapIndex()].Equal(keyevent.CmdRequestReset))
	assert.True(t, mod1[0].IsNop())

	require.Len(t, combos, 1)
	assert.Equal(t, keyevent.Pos(17), combos[0].P1)
	assert.Equal(t, keyevent.Pos(18), combos[0].P2)
	assert.True(t, combos[0].Cmd.Equal(keyevent.CmdKeyPress(42)))
}

func TestLoadOverrideUnknownKind(t *testing.T) {
	bad := `{"simple": [{"pos": 17, "kind": "bogus"}], "mod1": [], "mod2": [], "mod3": []}`
	_, _, _, _, _, err := keymap.LoadOverride(strings.NewReader(bad), keymap.FormatJSON)
	assert.Error(t, err)
}

func TestLoadOverrideUnknownModifier(t *testing.T) {
	bad := `{"simple": [{"pos": 17, "kind": "mod", "mod": "bogus"}], "mod1": [], "mod2": [], "mod3": []}`
	_, _, _, _, _, err := keymap.LoadOverride(strings.NewReader(bad), keymap.FormatJSON)
	assert.Error(t, err)
}

func TestLoadOverridePositionOutOfRange(t *testing.T) {
	bad := `{"simple": [{"pos": 0, "kind": "key", "code": 4}], "mod1": [], "mod2": [], "mod3": []}`
	_, _, _, _, _, err := keymap.LoadOverride(strings.NewReader(bad), keymap.FormatJSON)
	assert.Error(t, err)
}

func TestLoadOverrideYAML(t *testing.T) {
	doc := "simple:\n  - pos: 17\n    kind: key\n    code: 4\nmod1: []\nmod2: []\nmod3: []\n"
	simple, _, _, _, _, err := keymap.LoadOverride(strings.NewReader(doc), keymap.FormatYAML)
	require.NoError(t, err)
	assert.True(t, simple[keyevent.Pos(17).MapIndex()].Equal(keyevent.CmdKeyPress(4)))
}

func TestLoadOverrideTOML(t *testing.T) {
	doc := "mod1 = []\nmod2 = []\nmod3 = []\n\n[[simple]]\npos = 17\nkind = \"key\"\ncode = 4\n"
	simple, _, _, _, _, err := keymap.LoadOverride(strings.NewReader(doc), keymap.FormatTOML)
	require.NoError(t, err)
	assert.True(t, simple[keyevent.Pos(17).MapIndex()].Equal(keyevent.CmdKeyPress(4)))
}
