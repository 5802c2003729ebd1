package keyboard

import (
	"io"

	"github.com/keyglitch/keyglitch/internal/keyevent"
)

// MatrixState is one scan-tick snapshot of the local and peer-half key
// matrices, in the wire format the split controller sends: up to eight
// positions per half, zero-padded, order-insensitive.
type MatrixState struct {
	Local [8]keyevent.Pos
	Peer  [8]keyevent.Pos
}

// UnmarshalBinary decodes a 16-byte scan frame (eight local position bytes
// followed by eight peer position bytes) into a MatrixState.
func (ms *MatrixState) UnmarshalBinary(data []byte) error {
	if len(data) < 16 {
		return io.ErrUnexpectedEOF
	}
	for i := 0; i < 8; i++ {
		ms.Local[i] = keyevent.Pos(data[i])
		ms.Peer[i] = keyevent.Pos(data[8+i])
	}
	return nil
}

// LEDState represents the state of keyboard LEDs controlled by the host.
type LEDState struct {
	NumLock    bool
	CapsLock   bool
	ScrollLock bool
	Compose    bool
	Kana       bool
}

// UnmarshalBinary decodes a 1-byte LED bitmask into LEDState.
func (ls *LEDState) UnmarshalBinary(data []byte) error {
	if len(data) < 1 {
		return io.ErrUnexpectedEOF
	}
	b := data[0]
	ls.NumLock = b&LEDNumLock != 0
	ls.CapsLock = b&LEDCapsLock != 0
	ls.ScrollLock = b&LEDScrollLock != 0
	ls.Compose = b&LEDCompose != 0
	ls.Kana = b&LEDKana != 0
	return nil
}
