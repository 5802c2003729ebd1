package keymap

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/keyglitch/keyglitch/internal/keyevent"
	toml "github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Binding is the serializable form of a single keymap slot, used by config
// files that want to override the compiled-in tables at startup.
type Binding struct {
	Pos  uint8    `json:"pos" yaml:"pos" toml:"pos"`
	Kind string   `json:"kind" yaml:"kind" toml:"kind"` // nop|key|mod|modkey|reset
	Code uint8    `json:"code,omitempty" yaml:"code,omitempty" toml:"code,omitempty"`
	Mod  string   `json:"mod,omitempty" yaml:"mod,omitempty" toml:"mod,omitempty"`
	Mods []string `json:"mods,omitempty" yaml:"mods,omitempty" toml:"mods,omitempty"`
}

// Override is a full keymap replacement: one binding list per layer, plus
// an optional combo list.
type Override struct {
	Simple []Binding `json:"simple" yaml:"simple" toml:"simple"`
	Mod1   []Binding `json:"mod1" yaml:"mod1" toml:"mod1"`
	Mod2   []Binding `json:"mod2" yaml:"mod2" toml:"mod2"`
	Mod3   []Binding `json:"mod3" yaml:"mod3" toml:"mod3"`
	Combos []struct {
		P1  uint8   `json:"p1" yaml:"p1" toml:"p1"`
		P2  uint8   `json:"p2" yaml:"p2" toml:"p2"`
		Cmd Binding `json:"cmd" yaml:"cmd" toml:"cmd"`
	} `json:"combos" yaml:"combos" toml:"combos"`
}

func parseModifier(s string) (keyevent.Modifier, error) {
	switch strings.ToLower(s) {
	case "ctrl":
		return keyevent.ModCtrl, nil
	case "shift":
		return keyevent.ModShift, nil
	case "alt":
		return keyevent.ModAlt, nil
	case "ui", "gui", "super":
		return keyevent.ModUI, nil
	case "mod1":
		return keyevent.ModMod1, nil
	case "mod2":
		return keyevent.ModMod2, nil
	case "mod3":
		return keyevent.ModMod3, nil
	default:
		return 0, fmt.Errorf("keymap: unknown modifier %q", s)
	}
}

func (b Binding) toCommand() (keyevent.Command, error) {
	switch strings.ToLower(b.Kind) {
	case "", "nop":
		return keyevent.CmdNop, nil
	case "key":
		return keyevent.CmdKeyPress(b.Code), nil
	case "mod":
		m, err := parseModifier(b.Mod)
		if err != nil {
			return keyevent.Command{}, err
		}
		return keyevent.CmdPressModifier(m), nil
	case "modkey":
		mods := make([]keyevent.Modifier, 0, len(b.Mods))
		for _, s := range b.Mods {
			m, err := parseModifier(s)
			if err != nil {
				return keyevent.Command{}, err
			}
			mods = append(mods, m)
		}
		return keyevent.CmdModifiedKey(b.Code, mods...), nil
	case "reset":
		return keyevent.CmdRequestReset, nil
	default:
		return keyevent.Command{}, fmt.Errorf("keymap: unknown binding kind %q", b.Kind)
	}
}

func applyBindings(l *Layer, bindings []Binding) error {
	for _, b := range bindings {
		cmd, err := b.toCommand()
		if err != nil {
			return err
		}
		idx := keyevent.Pos(b.Pos).MapIndex()
		if idx < 0 || idx >= keyevent.MapIndexCount {
			return fmt.Errorf("keymap: position 0x%02x out of range", b.Pos)
		}
		l[idx] = cmd
	}
	return nil
}

// Format names the serialization used by LoadOverride.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatTOML
)

// LoadOverride decodes r per format into a fresh set of four layer tables
// plus a combo table, replacing the compiled-in defaults. It runs once at
// KeyStream construction time — the core never reconfigures itself at
// runtime.
func LoadOverride(r io.Reader, format Format) (simple, mod1, mod2, mod3 Layer, combos []ComboEntry, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Layer{}, Layer{}, Layer{}, Layer{}, nil, fmt.Errorf("keymap: read override: %w", err)
	}

	var ov Override
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &ov)
	case FormatYAML:
		err = yaml.Unmarshal(data, &ov)
	case FormatTOML:
		err = toml.Unmarshal(data, &ov)
	default:
		err = fmt.Errorf("keymap: unknown format %d", format)
	}
	if err != nil {
		return Layer{}, Layer{}, Layer{}, Layer{}, nil, fmt.Errorf("keymap: decode override: %w", err)
	}

	simple = buildLayer(nil)
	mod1 = buildLayer(nil)
	mod2 = buildLayer(nil)
	mod3 = buildLayer(nil)

	for _, step := range []struct {
		l *Layer
		b []Binding
	}{
		{&simple, ov.Simple}, {&mod1, ov.Mod1}, {&mod2, ov.Mod2}, {&mod3, ov.Mod3},
	} {
		if err := applyBindings(step.l, step.b); err != nil {
			return Layer{}, Layer{}, Layer{}, Layer{}, nil, err
		}
	}

	for _, c := range ov.Combos {
		cmd, cerr := c.Cmd.toCommand()
		if cerr != nil {
			return Layer{}, Layer{}, Layer{}, Layer{}, nil, cerr
		}
		combos = append(combos, ComboEntry{P1: keyevent.Pos(c.P1), P2: keyevent.Pos(c.P2), Cmd: cmd})
	}

	return simple, mod1, mod2, mod3, combos, nil
}
