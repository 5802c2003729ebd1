// Package device provides common interfaces and utilities for virtual USB devices.
package device

import (
	"context"
	"time"
)

type contextKey int

// ConnTimerKey is the context key under which peerlink stores the
// per-connection idle timer, so a device handler can reset it on activity.
const ConnTimerKey contextKey = iota

// GetConnTimer extracts the connection idle timer from a device context.
// Returns nil if the context doesn't contain one.
func GetConnTimer(ctx context.Context) *time.Timer {
	if timer, ok := ctx.Value(ConnTimerKey).(*time.Timer); ok {
		return timer
	}
	return nil
}
