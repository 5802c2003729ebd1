//go:build windows

package main

import (
	"log/slog"
	"os"

	"github.com/keyglitch/keyglitch/internal/util"
)

// init defaults a GUI-launched keyglitchd (e.g. double-clicked from
// Explorer) into the serve subcommand, since a GUI launch has no terminal
// to read a subcommand name from.
func init() {
	if util.IsRunFromGUI() {
		args := os.Args
		if len(args) < 2 || args[1] != "serve" {
			slog.Info("detected GUI startup, injecting 'serve' argument")
			slog.Warn("run from a terminal for more options")
			newArgs := make([]string, 0, len(args)+1)
			newArgs = append(newArgs, args[0], "serve")
			newArgs = append(newArgs, args[1:]...)
			os.Args = newArgs
		}
	}
}
