package peerlink_test

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyglitch/keyglitch/internal/peerlink"
)

func TestHandshakeRoundTrip(t *testing.T) {
	key, err := peerlink.DeriveKey("correct-horse-battery-staple")
	require.NoError(t, err)

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	type result struct {
		clientNonce, serverNonce []byte
		err                      error
	}
	clientCh := make(chan result, 1)
	serverCh := make(chan result, 1)

	go func() {
		cn, sn, err := peerlink.HandleHandshake(bufio.NewReader(clientConn), clientConn, key, true)
		clientCh <- result{cn, sn, err}
	}()
	go func() {
		cn, sn, err := peerlink.HandleHandshake(bufio.NewReader(serverConn), serverConn, key, false)
		serverCh <- result{cn, sn, err}
	}()

	var clientRes, serverRes result
	select {
	case clientRes = <-clientCh:
	case <-time.After(2 * time.Second):
		t.Fatal("client handshake timed out")
	}
	select {
	case serverRes = <-serverCh:
	case <-time.After(2 * time.Second):
		t.Fatal("server handshake timed out")
	}

	require.NoError(t, clientRes.err)
	require.NoError(t, serverRes.err)
	assert.Equal(t, clientRes.clientNonce, serverRes.clientNonce)
	assert.Equal(t, clientRes.serverNonce, serverRes.serverNonce)
}

func TestHandshakeRejectsWrongKey(t *testing.T) {
	clientKey, err := peerlink.DeriveKey("password-a")
	require.NoError(t, err)
	serverKey, err := peerlink.DeriveKey("password-b")
	require.NoError(t, err)

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	clientErrCh := make(chan error, 1)
	go func() {
		_, _, err := peerlink.HandleHandshake(bufio.NewReader(clientConn), clientConn, clientKey, true)
		clientErrCh <- err
	}()

	_, _, serverErr := peerlink.HandleHandshake(bufio.NewReader(serverConn), serverConn, serverKey, false)
	assert.ErrorIs(t, serverErr, peerlink.ErrUnauthorized)
	// HandleHandshake leaves the connection open; close it as the server's
	// connection handler does, so the client's pending read returns.
	_ = serverConn.Close()

	select {
	case <-clientErrCh:
	case <-time.After(2 * time.Second):
		t.Fatal("client handshake did not finish")
	}
}

func TestIsHandshakeDetectsMagic(t *testing.T) {
	key, err := peerlink.DeriveKey("hunter2")
	require.NoError(t, err)

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	go func() {
		_, _, _ = peerlink.HandleHandshake(bufio.NewReader(clientConn), clientConn, key, true)
	}()

	br := bufio.NewReader(serverConn)
	ok, err := peerlink.IsHandshake(br)
	require.NoError(t, err)
	assert.True(t, ok)
}
