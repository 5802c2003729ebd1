package keyboard

import "github.com/keyglitch/keyglitch/internal/keymap"

// Modifier key bitmasks for the LED/HID wire layer (distinct from
// keyevent.Modifier, an enumeration of the four HID modifiers plus the three
// internal layer modifiers).
const (
	ModLeftCtrl  = 0x01
	ModLeftShift = 0x02
	ModLeftAlt   = 0x04
	ModLeftGUI   = 0x08
)

// LED bitmasks, as sent by the host in the OUT report.
const (
	LEDNumLock    = 0x01
	LEDCapsLock   = 0x02
	LEDScrollLock = 0x04
	LEDCompose    = 0x08
	LEDKana       = 0x10
)

// CharToKey maps ASCII characters to HID usage codes, for cmd/keyglitch-type's
// terminal-to-report demo. Shifted punctuation and uppercase letters share
// the unshifted key's code; consult ShiftChars to decide the modifier byte.
var CharToKey = map[byte]uint8{
	'a': keymap.KeyA, 'b': keymap.KeyB, 'c': keymap.KeyC, 'd': keymap.KeyD,
	'e': keymap.KeyE, 'f': keymap.KeyF, 'g': keymap.KeyG, 'h': keymap.KeyH,
	'i': keymap.KeyI, 'j': keymap.KeyJ, 'k': keymap.KeyK, 'l': keymap.KeyL,
	'm': keymap.KeyM, 'n': keymap.KeyN, 'o': keymap.KeyO, 'p': keymap.KeyP,
	'q': keymap.KeyQ, 'r': keymap.KeyR, 's': keymap.KeyS, 't': keymap.KeyT,
	'u': keymap.KeyU, 'v': keymap.KeyV, 'w': keymap.KeyW, 'x': keymap.KeyX,
	'y': keymap.KeyY, 'z': keymap.KeyZ,

	'A': keymap.KeyA, 'B': keymap.KeyB, 'C': keymap.KeyC, 'D': keymap.KeyD,
	'E': keymap.KeyE, 'F': keymap.KeyF, 'G': keymap.KeyG, 'H': keymap.KeyH,
	'I': keymap.KeyI, 'J': keymap.KeyJ, 'K': keymap.KeyK, 'L': keymap.KeyL,
	'M': keymap.KeyM, 'N': keymap.KeyN, 'O': keymap.KeyO, 'P': keymap.KeyP,
	'Q': keymap.KeyQ, 'R': keymap.KeyR, 'S': keymap.KeyS, 'T': keymap.KeyT,
	'U': keymap.KeyU, 'V': keymap.KeyV, 'W': keymap.KeyW, 'X': keymap.KeyX,
	'Y': keymap.KeyY, 'Z': keymap.KeyZ,

	'1': keymap.Key1, '2': keymap.Key2, '3': keymap.Key3, '4': keymap.Key4, '5': keymap.Key5,
	'6': keymap.Key6, '7': keymap.Key7, '8': keymap.Key8, '9': keymap.Key9, '0': keymap.Key0,

	'!': keymap.Key1, '@': keymap.Key2, '#': keymap.Key3, '$': keymap.Key4, '%': keymap.Key5,
	'^': keymap.Key6, '&': keymap.Key7, '*': keymap.Key8, '(': keymap.Key9, ')': keymap.Key0,

	'-': keymap.KeyMinus, '=': keymap.KeyEqual,
	'[': keymap.KeyLeftBrace, ']': keymap.KeyRightBrace,
	'\\': keymap.KeyBackslash, ';': keymap.KeySemicolon, '\'': keymap.KeyApostrophe,
	'`': keymap.KeyGrave, ',': keymap.KeyComma, '.': keymap.KeyPeriod, '/': keymap.KeySlash,

	'_': keymap.KeyMinus, '+': keymap.KeyEqual,
	'{': keymap.KeyLeftBrace, '}': keymap.KeyRightBrace,
	'|': keymap.KeyBackslash, ':': keymap.KeySemicolon, '"': keymap.KeyApostrophe,
	'~': keymap.KeyGrave, '<': keymap.KeyComma, '>': keymap.KeyPeriod, '?': keymap.KeySlash,

	' ': keymap.KeySpace, '\n': keymap.KeyEnter, '\r': keymap.KeyEnter, '\t': keymap.KeyTab,
}

// ShiftChars lists characters that require the Shift modifier to type.
var ShiftChars = map[byte]bool{
	'A': true, 'B': true, 'C': true, 'D': true, 'E': true, 'F': true, 'G': true,
	'H': true, 'I': true, 'J': true, 'K': true, 'L': true, 'M': true, 'N': true,
	'O': true, 'P': true, 'Q': true, 'R': true, 'S': true, 'T': true, 'U': true,
	'V': true, 'W': true, 'X': true, 'Y': true, 'Z': true,

	'!': true, '@': true, '#': true, '$': true, '%': true,
	'^': true, '&': true, '*': true, '(': true, ')': true,

	'_': true, '+': true, '{': true, '}': true, '|': true,
	':': true, '"': true, '~': true, '<': true, '>': true, '?': true,
}
