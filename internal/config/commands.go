package config

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keyglitch/keyglitch/internal/keystream"
	"github.com/keyglitch/keyglitch/internal/log"
	"github.com/keyglitch/keyglitch/internal/peerlink"
	"github.com/keyglitch/keyglitch/internal/typedemo"
	"github.com/keyglitch/keyglitch/internal/util"
)

// Run starts the peer-link server and blocks until it's interrupted or a
// peer drives it into an unrecoverable error.
func (s *ServeCmd) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	opts, err := BuildOptions(s.Timing, s.Keymap)
	if err != nil {
		return err
	}

	password := s.Password
	if password == "" {
		generated, err := peerlink.GenerateKey()
		if err != nil {
			return fmt.Errorf("generate password: %w", err)
		}
		password = generated
		logger.Warn("no password configured, generated a one-time passphrase", "password", password)
	}

	srv, err := peerlink.New(peerlink.Config{
		Addr:              s.Addr,
		Password:          password,
		ConnectionTimeout: s.ConnectionTimeout,
	}, func() *keystream.KeyStream {
		return keystream.New(opts)
	}, logger, rawLogger)
	if err != nil {
		return fmt.Errorf("construct peerlink server: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		_ = srv.Close()
	}()

	if util.IsRunFromGUI() {
		go func() {
			<-srv.Ready()
			time.Sleep(250 * time.Millisecond)
			util.HideConsoleWindow()
		}()
	}

	return srv.ListenAndServe()
}

// Run starts the interactive terminal typing demo on stdin.
func (t *TypeCmd) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	opts, err := BuildOptions(t.Timing, t.Keymap)
	if err != nil {
		return err
	}
	return typedemo.Run(os.Stdin, t.TickHz, opts, rawLogger)
}
