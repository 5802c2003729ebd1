// Command keyglitchd runs the peer-link server: it accepts a connection from
// a keyboard's peer half, authenticates and encrypts the session, and drives
// a keystream.KeyStream that turns scan-tick frames into HID boot-keyboard
// reports.
package main

import (
	"os"
	"strings"

	"github.com/keyglitch/keyglitch/internal/config"
	"github.com/keyglitch/keyglitch/internal/configpaths"
	"github.com/keyglitch/keyglitch/internal/log"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {
	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("keyglitchd"),
		kong.Description("Split-keyboard event transformer: ring buffer, layered keymap, combo resolution, HID boot reports"),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closeFiles, err := log.SetupLogger(cli.Log.Level, cli.Log.File)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	rawLogger, rawCloser, err := log.SetupRawLogger(cli.Log.Level, cli.Log.RawFile)
	if err != nil {
		logger.Error("failed to open raw log file", "file", cli.Log.RawFile, "error", err)
		rawLogger = log.NewRaw(nil)
	} else if rawCloser != nil {
		closeFiles = append(closeFiles, rawCloser)
	}

	ctx.Bind(logger)
	ctx.BindTo(rawLogger, (*log.RawLogger)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("KEYGLITCH_CONFIG"); v != "" {
		return v
	}
	return ""
}
