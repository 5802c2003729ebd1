package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyglitch/keyglitch/internal/config"
)

func TestBuildOptionsWithoutOverride(t *testing.T) {
	timing := config.TimingConfig{ComboThresholdCnt: 219, ComboSeparationCnt: 10}
	opts, err := config.BuildOptions(timing, config.KeymapConfig{})
	require.NoError(t, err)
	assert.Equal(t, uint16(219), opts.ComboThresholdCnt)
	assert.Equal(t, uint16(10), opts.ComboSeparationCnt)
	assert.Nil(t, opts.Layers)
	assert.Nil(t, opts.Combos)
}

func TestBuildOptionsLoadsJSONOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.json")
	doc := `{"simple": [{"pos": 17, "kind": "key", "code": 4}], "mod1": [], "mod2": [], "mod3": []}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	opts, err := config.BuildOptions(config.TimingConfig{}, config.KeymapConfig{OverridePath: path, Format: "json"})
	require.NoError(t, err)
	require.NotNil(t, opts.Layers)
}

func TestBuildOptionsMissingFileErrors(t *testing.T) {
	_, err := config.BuildOptions(config.TimingConfig{}, config.KeymapConfig{OverridePath: "/nonexistent/path.json"})
	assert.Error(t, err)
}

func TestBuildOptionsYAMLFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	doc := "simple:\n  - pos: 17\n    kind: key\n    code: 4\nmod1: []\nmod2: []\nmod3: []\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	opts, err := config.BuildOptions(config.TimingConfig{}, config.KeymapConfig{OverridePath: path, Format: "yaml"})
	require.NoError(t, err)
	require.NotNil(t, opts.Layers)
}
