// Package keymap holds the immutable per-layer position→command tables and
// the two-key combo table consulted by the transform engine. The tables are
// pure data: the layout below targets a 4x6-per-half split layout (SIMPLE,
// then MOD1 for navigation/editing, MOD2 for function/media, MOD3 for a
// numpad overlay), but the transform engine depends on nothing beyond the
// abstract existence of four layers and a combo set (spec.md §4.B).
package keymap

import "github.com/keyglitch/keyglitch/internal/keyevent"

// Layer is one of the four position→command tables consulted at DOWN.
type Layer [keyevent.MapIndexCount]keyevent.Command

// entry is a compact (position, command) pair used to build a Layer from a
// sparse literal without writing out 48 Nop slots by hand.
type entry struct {
	pos keyevent.Pos
	cmd keyevent.Command
}

func buildLayer(entries []entry) Layer {
	var l Layer
	for i := range l {
		l[i] = keyevent.CmdNop
	}
	for _, e := range entries {
		l[e.pos.MapIndex()] = e.cmd
	}
	return l
}

// Position constants for the 4x6 local half (rows 1..4) and 4x6 peer half
// (rows 9..12, peer bit already folded into the row nibble).
const (
	posTab keyevent.Pos = 0x11
	posQ   keyevent.Pos = 0x12
	posW   keyevent.Pos = 0x13
	posE   keyevent.Pos = 0x14
	posR   keyevent.Pos = 0x15
	posT   keyevent.Pos = 0x16

	posEsc keyevent.Pos = 0x21
	posA   keyevent.Pos = 0x22
	posS   keyevent.Pos = 0x23
	posD   keyevent.Pos = 0x24
	posF   keyevent.Pos = 0x25
	posG   keyevent.Pos = 0x26

	posLShift keyevent.Pos = 0x31
	posZ      keyevent.Pos = 0x32
	posX      keyevent.Pos = 0x33
	posC      keyevent.Pos = 0x34
	posV      keyevent.Pos = 0x35
	posB      keyevent.Pos = 0x36

	posThumbL1 keyevent.Pos = 0x41
	posThumbL2 keyevent.Pos = 0x42
	posMod1    keyevent.Pos = 0x43
	posSpace   keyevent.Pos = 0x44
	posMod2    keyevent.Pos = 0x45
	posThumbL3 keyevent.Pos = 0x46

	posY         keyevent.Pos = 0x91
	posU         keyevent.Pos = 0x92
	posI         keyevent.Pos = 0x93
	posO         keyevent.Pos = 0x94
	posP         keyevent.Pos = 0x95
	posBackslash keyevent.Pos = 0x96

	posJ         keyevent.Pos = 0xa1
	posK         keyevent.Pos = 0xa2
	posL         keyevent.Pos = 0xa3
	posComma     keyevent.Pos = 0xa4
	posSemicolon keyevent.Pos = 0xa5
	posBackspace keyevent.Pos = 0xa6

	posLCtrl     keyevent.Pos = 0xb1
	posN         keyevent.Pos = 0xb2
	posM         keyevent.Pos = 0xb3
	posPeriod    keyevent.Pos = 0xb4
	posSlash     keyevent.Pos = 0xb5
	posApostro   keyevent.Pos = 0xb6
	posThumbR1   keyevent.Pos = 0xc1
	posMod3      keyevent.Pos = 0xc2
	posEnter     keyevent.Pos = 0xc3
	posThumbR2   keyevent.Pos = 0xc4
	posThumbR3   keyevent.Pos = 0xc5
	posThumbR4   keyevent.Pos = 0xc6
)

// cmdMod1 / cmdMod2 / cmdMod3 engage a layer modifier. Holding one is
// honored from every layer table (the physical key doesn't move), matching
// how a held Shift/Ctrl stays live regardless of which layer is active.
var (
	cmdShift = keyevent.CmdPressModifier(keyevent.ModShift)
	cmdCtrl  = keyevent.CmdPressModifier(keyevent.ModCtrl)
	cmdMod1  = keyevent.CmdPressModifier(keyevent.ModMod1)
	cmdMod2  = keyevent.CmdPressModifier(keyevent.ModMod2)
	cmdMod3  = keyevent.CmdPressModifier(keyevent.ModMod3)
	cmdSpace = keyevent.CmdKeyPress(KeySpace)
	cmdEnter = keyevent.CmdKeyPress(KeyEnter)
)

// heldAcrossLayers returns the entries common to all four layers: the
// modifier keys, the thumb-cluster layer keys, space and enter.
func heldAcrossLayers() []entry {
	return []entry{
		{posLShift, cmdShift},
		{posLCtrl, cmdCtrl},
		{posMod1, cmdMod1},
		{posMod2, cmdMod2},
		{posMod3, cmdMod3},
		{posSpace, cmdSpace},
		{posEnter, cmdEnter},
	}
}

// Simple is the base layer: plain QWERTY letters, a semicolon/backspace
// cluster on the peer home row (exercised by spec.md §8 scenarios S1-S5),
// and arrow-free punctuation.
var Simple = buildLayer(append(heldAcrossLayers(), []entry{
	{posTab, keyevent.CmdKeyPress(KeyTab)},
	{posQ, keyevent.CmdKeyPress(KeyQ)},
	{posW, keyevent.CmdKeyPress(KeyW)},
	{posE, keyevent.CmdKeyPress(KeyE)},
	{posR, keyevent.CmdKeyPress(KeyR)},
	{posT, keyevent.CmdKeyPress(KeyT)},

	{posEsc, keyevent.CmdKeyPress(KeyEscape)},
	{posA, keyevent.CmdKeyPress(KeyA)},
	{posS, keyevent.CmdKeyPress(KeyS)},
	{posD, keyevent.CmdKeyPress(KeyD)},
	{posF, keyevent.CmdKeyPress(KeyF)},
	{posG, keyevent.CmdKeyPress(KeyG)},

	{posZ, keyevent.CmdKeyPress(KeyZ)},
	{posX, keyevent.CmdKeyPress(KeyX)},
	{posC, keyevent.CmdKeyPress(KeyC)},
	{posV, keyevent.CmdKeyPress(KeyV)},
	{posB, keyevent.CmdKeyPress(KeyB)},

	{posY, keyevent.CmdKeyPress(KeyY)},
	{posU, keyevent.CmdKeyPress(KeyU)},
	{posI, keyevent.CmdKeyPress(KeyI)},
	{posO, keyevent.CmdKeyPress(KeyO)},
	{posP, keyevent.CmdKeyPress(KeyP)},
	{posBackslash, keyevent.CmdKeyPress(KeyBackslash)},

	{posJ, keyevent.CmdKeyPress(KeyJ)},
	{posK, keyevent.CmdKeyPress(KeyK)},
	{posL, keyevent.CmdKeyPress(KeyL)},
	{posComma, keyevent.CmdKeyPress(KeyComma)},
	{posSemicolon, keyevent.CmdKeyPress(KeySemicolon)},
	{posBackspace, keyevent.CmdKeyPress(KeyBackspace)},

	{posN, keyevent.CmdKeyPress(KeyN)},
	{posM, keyevent.CmdKeyPress(KeyM)},
	{posPeriod, keyevent.CmdKeyPress(KeyPeriod)},
	{posSlash, keyevent.CmdKeyPress(KeySlash)},
	{posApostro, keyevent.CmdKeyPress(KeyApostrophe)},
}...))

// Mod1 is the navigation/editing overlay.
var Mod1 = buildLayer(append(heldAcrossLayers(), []entry{
	{posQ, keyevent.CmdKeyPress(Key1)},
	{posW, keyevent.CmdKeyPress(Key2)},
	{posE, keyevent.CmdKeyPress(Key3)},
	{posR, keyevent.CmdKeyPress(Key4)},
	{posT, keyevent.CmdKeyPress(Key5)},

	{posA, keyevent.CmdKeyPress(Key6)},
	{posS, keyevent.CmdKeyPress(Key7)},
	{posD, keyevent.CmdKeyPress(Key8)},
	{posF, keyevent.CmdKeyPress(Key9)},
	{posG, keyevent.CmdKeyPress(Key0)},

	{posZ, keyevent.CmdKeyPress(KeyLeft)},
	{posX, keyevent.CmdKeyPress(KeyDown)},
	{posC, keyevent.CmdKeyPress(KeyUp)},
	{posV, keyevent.CmdKeyPress(KeyRight)},

	{posY, keyevent.CmdKeyPress(KeyHome)},
	{posU, keyevent.CmdKeyPress(KeyPageDown)},
	{posI, keyevent.CmdKeyPress(KeyPageUp)},
	{posO, keyevent.CmdKeyPress(KeyEnd)},
	{posP, keyevent.CmdKeyPress(KeyDelete)},

	{posJ, keyevent.CmdKeyPress(KeyLeft)},
	{posK, keyevent.CmdKeyPress(KeyDown)},
	{posL, keyevent.CmdKeyPress(KeyRight)},
	{posComma, keyevent.CmdKeyPress(KeyUp)},
	{posSemicolon, keyevent.CmdKeyPress(KeyInsert)},
	{posBackspace, keyevent.CmdKeyPress(KeyDelete)},
}...))

// Mod2 is the function-key/media overlay.
var Mod2 = buildLayer(append(heldAcrossLayers(), []entry{
	{posQ, keyevent.CmdKeyPress(KeyF1)},
	{posW, keyevent.CmdKeyPress(KeyF2)},
	{posE, keyevent.CmdKeyPress(KeyF3)},
	{posR, keyevent.CmdKeyPress(KeyF4)},
	{posT, keyevent.CmdKeyPress(KeyF5)},

	{posA, keyevent.CmdKeyPress(KeyF6)},
	{posS, keyevent.CmdKeyPress(KeyF7)},
	{posD, keyevent.CmdKeyPress(KeyF8)},
	{posF, keyevent.CmdKeyPress(KeyF9)},
	{posG, keyevent.CmdKeyPress(KeyF10)},

	{posZ, keyevent.CmdKeyPress(KeyF11)},
	{posX, keyevent.CmdKeyPress(KeyF12)},

	{posY, keyevent.CmdKeyPress(KeyMute)},
	{posU, keyevent.CmdKeyPress(KeyVolumeDown)},
	{posI, keyevent.CmdKeyPress(KeyVolumeUp)},
	{posO, keyevent.CmdKeyPress(KeyMediaPlayPause)},
	{posP, keyevent.CmdKeyPress(KeyMediaNext)},
	{posBackslash, keyevent.CmdKeyPress(KeyMediaPrevious)},

	{posJ, keyevent.CmdKeyPress(KeyPrintScreen)},
	{posK, keyevent.CmdKeyPress(KeyScrollLock)},
	{posL, keyevent.CmdKeyPress(KeyPause)},
}...))

// Mod3 is a numpad overlay, emulated with standard boot-protocol keycodes
// (the boot report has no separate numpad usage page).
var Mod3 = buildLayer(append(heldAcrossLayers(), []entry{
	{posQ, keyevent.CmdKeyPress(KeyKpSlash)},
	{posW, keyevent.CmdKeyPress(KeyKpAsterisk)},
	{posE, keyevent.CmdKeyPress(KeyKpMinus)},

	{posA, keyevent.CmdKeyPress(KeyKp7)},
	{posS, keyevent.CmdKeyPress(KeyKp8)},
	{posD, keyevent.CmdKeyPress(KeyKp9)},
	{posF, keyevent.CmdKeyPress(KeyKpPlus)},

	{posZ, keyevent.CmdKeyPress(KeyKp4)},
	{posX, keyevent.CmdKeyPress(KeyKp5)},
	{posC, keyevent.CmdKeyPress(KeyKp6)},

	{posY, keyevent.CmdKeyPress(KeyKp1)},
	{posU, keyevent.CmdKeyPress(KeyKp2)},
	{posI, keyevent.CmdKeyPress(KeyKp3)},
	{posO, keyevent.CmdKeyPress(KeyKpEnter)},

	{posJ, keyevent.CmdKeyPress(KeyKp0)},
	{posK, keyevent.CmdKeyPress(KeyKpDot)},
}...))

// ComboEntry pairs two positions (order-insensitive) with the command their
// simultaneous press resolves to.
type ComboEntry struct {
	P1, P2 keyevent.Pos
	Cmd    keyevent.Command
}

// Combos lists the recognized two-key combos. Comma+Semicolon yields a
// colon composite; J+K (a common home-row chord) yields Escape.
var Combos = []ComboEntry{
	{posComma, posSemicolon, keyevent.CmdModifiedKey(KeySemicolon, keyevent.ModShift)},
	{posJ, posK, keyevent.CmdKeyPress(KeyEscape)},
}

// ValidPositions is the union of local and peer positions this keymap
// recognizes; anything else is ignored by the event synthesizer.
var ValidPositions = []keyevent.Pos{
	posTab, posQ, posW, posE, posR, posT,
	posEsc, posA, posS, posD, posF, posG,
	posLShift, posZ, posX, posC, posV, posB,
	posThumbL1, posThumbL2, posMod1, posSpace, posMod2, posThumbL3,

	posY, posU, posI, posO, posP, posBackslash,
	posJ, posK, posL, posComma, posSemicolon, posBackspace,
	posLCtrl, posN, posM, posPeriod, posSlash, posApostro,
	posThumbR1, posMod3, posEnter, posThumbR2, posThumbR3, posThumbR4,
}

// IsComboParticipant reports whether p appears in any combo pair; use
// ResolveCombo to look up the command for a specific pair.
func IsComboParticipant(p keyevent.Pos) bool {
	for _, c := range Combos {
		if c.P1 == p || c.P2 == p {
			return true
		}
	}
	return false
}

// ResolveCombo returns the command for the pair (a, b) — order-insensitive —
// and true if (a, b) is a recognized combo.
func ResolveCombo(a, b keyevent.Pos) (keyevent.Command, bool) {
	for _, c := range Combos {
		if (c.P1 == a && c.P2 == b) || (c.P1 == b && c.P2 == a) {
			return c.Cmd, true
		}
	}
	return keyevent.CmdNop, false
}

// ActiveLayer selects the table to consult given which layer flags are
// currently engaged, honoring MOD1 > MOD2 > MOD3 > SIMPLE priority
// (spec.md §4.E).
func ActiveLayer(mod1, mod2, mod3 bool) *Layer {
	switch {
	case mod1:
		return &Mod1
	case mod2:
		return &Mod2
	case mod3:
		return &Mod3
	default:
		return &Simple
	}
}

// AllLayers returns all four layer tables, used by the "release on every
// layer a position could have been inserted through" policy (spec.md §9).
func AllLayers() [4]*Layer {
	return [4]*Layer{&Simple, &Mod1, &Mod2, &Mod3}
}
