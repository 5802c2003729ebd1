package peerlink_test

import (
	"crypto/sha256"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyglitch/keyglitch/internal/peerlink"
)

func TestConnRoundTrip(t *testing.T) {
	sessionKey := sha256.Sum256([]byte("session"))

	clientRaw, serverRaw := net.Pipe()
	defer clientRaw.Close()
	defer serverRaw.Close()

	client, err := peerlink.WrapConn(clientRaw, sessionKey[:])
	require.NoError(t, err)
	server, err := peerlink.WrapConn(serverRaw, sessionKey[:])
	require.NoError(t, err)

	msg := []byte("scan-tick-frame-payload")

	done := make(chan error, 1)
	go func() {
		_, err := client.Write(msg)
		done <- err
	}()

	buf := make([]byte, len(msg))
	n, err := server.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, len(msg), n)
	assert.Equal(t, msg, buf)

	select {
	case writeErr := <-done:
		require.NoError(t, writeErr)
	case <-time.After(2 * time.Second):
		t.Fatal("write did not complete")
	}
}

func TestConnRejectsMismatchedSessionKey(t *testing.T) {
	keyA := sha256.Sum256([]byte("key-a"))
	keyB := sha256.Sum256([]byte("key-b"))

	clientRaw, serverRaw := net.Pipe()
	defer clientRaw.Close()
	defer serverRaw.Close()

	client, err := peerlink.WrapConn(clientRaw, keyA[:])
	require.NoError(t, err)
	server, err := peerlink.WrapConn(serverRaw, keyB[:])
	require.NoError(t, err)

	go func() { _, _ = client.Write([]byte("hello")) }()

	buf := make([]byte, 5)
	_, err = server.Read(buf)
	assert.Error(t, err, "decryption under a mismatched session key must fail")
}

func TestConnMultipleWritesPreserveBoundaries(t *testing.T) {
	sessionKey := sha256.Sum256([]byte("session"))

	clientRaw, serverRaw := net.Pipe()
	defer clientRaw.Close()
	defer serverRaw.Close()

	client, err := peerlink.WrapConn(clientRaw, sessionKey[:])
	require.NoError(t, err)
	server, err := peerlink.WrapConn(serverRaw, sessionKey[:])
	require.NoError(t, err)

	first := []byte("first-frame")
	second := []byte("second-frame-longer")

	go func() {
		_, _ = client.Write(first)
		_, _ = client.Write(second)
	}()

	buf1 := make([]byte, len(first))
	_, err = server.Read(buf1)
	require.NoError(t, err)
	assert.Equal(t, first, buf1)

	buf2 := make([]byte, len(second))
	_, err = server.Read(buf2)
	require.NoError(t, err)
	assert.Equal(t, second, buf2)
}
