package config

import (
	"fmt"
	"os"

	"github.com/keyglitch/keyglitch/internal/keymap"
	"github.com/keyglitch/keyglitch/internal/keystream"
)

// BuildOptions turns the timing/keymap CLI config into a keystream.Options,
// loading a keymap override file if one was configured.
func BuildOptions(t TimingConfig, k KeymapConfig) (keystream.Options, error) {
	opts := keystream.Options{
		ComboThresholdCnt:  t.ComboThresholdCnt,
		ComboSeparationCnt: t.ComboSeparationCnt,
	}

	if k.OverridePath == "" {
		return opts, nil
	}

	f, err := os.Open(k.OverridePath)
	if err != nil {
		return opts, fmt.Errorf("open keymap override: %w", err)
	}
	defer f.Close()

	var format keymap.Format
	switch k.Format {
	case "yaml":
		format = keymap.FormatYAML
	case "toml":
		format = keymap.FormatTOML
	default:
		format = keymap.FormatJSON
	}

	simple, mod1, mod2, mod3, combos, err := keymap.LoadOverride(f, format)
	if err != nil {
		return opts, fmt.Errorf("load keymap override: %w", err)
	}
	opts.Layers = &keystream.LayerSet{Simple: simple, Mod1: mod1, Mod2: mod2, Mod3: mod3}
	opts.Combos = combos
	return opts, nil
}
