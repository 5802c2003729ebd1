package log

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// RawLogger records raw scan/report frames with optional file output.
type RawLogger interface {
	Log(in bool, data []byte)
}

// rawLogger implements RawLogger with a thread-safe writer.
type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw creates a new RawLogger. If w is nil, returns a no-op logger.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

// direction labels which way a frame crossed the transform engine: a scan
// frame arriving from the matrix, or a report emitted toward the host.
func direction(in bool) string {
	if in {
		return "MATRIX->IN"
	}
	return "OUT->HOST"
}

// hexDump renders data as space-separated lowercase hex byte pairs.
func hexDump(data []byte) string {
	pairs := make([]string, len(data))
	for i, b := range data {
		pairs[i] = hex.EncodeToString([]byte{b})
	}
	return strings.Join(pairs, " ")
}

// Log emits a single-line hex dump with timestamp.
func (r *rawLogger) Log(in bool, data []byte) {
	if len(data) == 0 || r.w == nil {
		return
	}

	line := fmt.Sprintf("%s %s chunk: %d bytes, hex: %s\n",
		time.Now().Format("2006/01/02 15:04:05"),
		direction(in),
		len(data),
		hexDump(data))

	r.mu.Lock()
	_, _ = r.w.Write([]byte(line))
	r.mu.Unlock()
}
