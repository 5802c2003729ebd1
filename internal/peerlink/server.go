// Package peerlink is a TCP stand-in for the inter-half physical link: it
// authenticates a connecting peer half, encrypts the session, and shuttles
// scan-tick frames into a keystream.KeyStream and HID reports back out.
package peerlink

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/keyglitch/keyglitch/device"
	"github.com/keyglitch/keyglitch/internal/keyevent"
	"github.com/keyglitch/keyglitch/internal/keystream"
	"github.com/keyglitch/keyglitch/internal/log"
)

// scanFrameSize is the wire size of one scan-tick frame: eight local
// position bytes, eight peer position bytes, and a 4-byte little-endian
// clock value.
const scanFrameSize = 8 + 8 + 4

// Config configures a Server.
type Config struct {
	Addr              string
	Password          string
	ConnectionTimeout time.Duration
}

// Server accepts peer-link connections and drives a KeyStream per
// connection. Each connection is independent; there is no shared bus state,
// unlike the teacher's multi-device registry.
type Server struct {
	config    Config
	key       []byte
	logger    *slog.Logger
	rawLogger log.RawLogger
	newStream func() *keystream.KeyStream

	ln        net.Listener
	ready     chan struct{}
	readyOnce sync.Once
}

// New returns a Server. newStream is called once per accepted connection to
// build the KeyStream that connection will drive.
func New(cfg Config, newStream func() *keystream.KeyStream, logger *slog.Logger, rawLogger log.RawLogger) (*Server, error) {
	key, err := DeriveKey(cfg.Password)
	if err != nil {
		return nil, err
	}
	return &Server{
		config:    cfg,
		key:       key,
		logger:    logger,
		rawLogger: rawLogger,
		newStream: newStream,
		ready:     make(chan struct{}),
	}, nil
}

// Ready returns a channel closed once the server is listening.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the actual bound address.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.config.Addr
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	if s.ln != nil {
		return s.ln.Close()
	}
	return nil
}

// ListenAndServe binds and serves until the listener is closed.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.readyOnce.Do(func() { close(s.ready) })
	s.logger.Info("peerlink server listening", "addr", ln.Addr().String())

	for {
		c, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.logger.Info("peerlink server stopped")
				return nil
			}
			s.logger.Error("accept error", "error", err)
			continue
		}
		if tcpConn, ok := c.(*net.TCPConn); ok {
			_ = tcpConn.SetNoDelay(true)
		}
		s.logger.Info("peer connected", "remote", c.RemoteAddr())
		go func() {
			if err := s.handleConn(c); err != nil {
				if isClientDisconnect(err) {
					s.logger.Info("peer disconnected", "error", err)
				} else {
					s.logger.Error("connection handler error", "error", err)
				}
			}
		}()
	}
}

// bufConn redirects Read through a bufio.Reader that may already hold bytes
// consumed from conn during the handshake, so no encrypted record is lost.
type bufConn struct {
	net.Conn
	br *bufio.Reader
}

func (b *bufConn) Read(p []byte) (int, error) { return b.br.Read(p) }

func (s *Server) handleConn(raw net.Conn) error {
	defer raw.Close()

	br := bufio.NewReader(raw)
	clientNonce, serverNonce, err := HandleHandshake(br, raw, s.key, false)
	if err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	sessionKey := DeriveSessionKey(s.key, serverNonce, clientNonce)

	conn, err := WrapConn(&bufConn{Conn: raw, br: br}, sessionKey)
	if err != nil {
		return fmt.Errorf("wrap session: %w", err)
	}

	timer := time.AfterFunc(s.config.ConnectionTimeout, func() { _ = raw.Close() })
	defer timer.Stop()
	ctx := context.WithValue(context.Background(), device.ConnTimerKey, timer)

	ks := s.newStream()
	frame := make([]byte, scanFrameSize)
	for {
		if _, err := io.ReadFull(conn, frame); err != nil {
			return fmt.Errorf("read scan frame: %w", err)
		}
		resetIdleTimer(ctx, s.config.ConnectionTimeout)
		if s.rawLogger != nil {
			s.rawLogger.Log(true, frame)
		}

		var local, peer [8]keyevent.Pos
		for i := 0; i < 8; i++ {
			local[i] = keyevent.Pos(frame[i])
			peer[i] = keyevent.Pos(frame[8+i])
		}
		clk := binary.LittleEndian.Uint32(frame[16:20])

		ks.Push(local, peer, clk)
		var writeErr error
		ks.Read(clk, func(report []byte) {
			if s.rawLogger != nil {
				s.rawLogger.Log(false, report)
			}
			if _, err := conn.Write(report); err != nil {
				writeErr = err
			}
		})
		if writeErr != nil {
			return fmt.Errorf("write report: %w", writeErr)
		}
		if ks.RequestsReset() {
			s.logger.Warn("peer requested reset", "remote", raw.RemoteAddr())
		}
	}
}

func resetIdleTimer(ctx context.Context, d time.Duration) {
	if t := device.GetConnTimer(ctx); t != nil {
		t.Reset(d)
	}
}

func isClientDisconnect(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errno, ok := opErr.Err.(syscall.Errno); ok {
			if errno == syscall.ECONNRESET || errno == syscall.EPIPE {
				return true
			}
		}
	}
	e := strings.ToLower(err.Error())
	return strings.Contains(e, "connection reset by peer") || strings.Contains(e, "forcibly closed") || strings.Contains(e, "use of closed network connection")
}
