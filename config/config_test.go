package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashion-show/show"
)

func TestDefaultsMatchStockShow(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"model1", "model2", "model3", "model4"}, cfg.ModelKeys())
	assert.Equal(t, Vec3{55, 10, -50}, cfg.Models[2].Position)
	assert.Equal(t, float32(32), cfg.Models[3].Scale)
	assert.Equal(t, uint32(0xffee88), cfg.Lighting.Spot.Color)
	assert.Equal(t, 1024, cfg.Lighting.Directional.ShadowMapSize)
	assert.Equal(t, [][2]float32{{30, 20}, {-130, 20}}, cfg.Smoke.Fields)
	assert.Equal(t, 0.5, cfg.Audio.Volume)
	assert.Equal(t, float32(75), cfg.Camera.FOV)

	table, err := cfg.PermutationTable()
	require.NoError(t, err)
	keys, ok := table.Lookup("3")
	require.True(t, ok)
	assert.Equal(t, []string{"model3", "model1", "model2", "model4"}, keys)
}

func TestDefaultPermutationsCopyShowTable(t *testing.T) {
	perms := DefaultPermutations()
	assert.Equal(t, show.DefaultPermutations, perms)

	perms["1"][0] = 3
	perms["5"] = []int{0, 1, 2, 3}
	assert.Equal(t, []int{0, 1, 2, 3}, show.DefaultPermutations["1"])
	assert.NotContains(t, show.DefaultPermutations, "5")
}

func TestParseEmptyReturnsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseMergesOverrides(t *testing.T) {
	cfg, err := Parse([]byte(`
window:
  width: 800
assets:
  backoff: 1s
lighting:
  spot:
    intensity: 5
overlap: reject
`))
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "untouched keys keep their default")
	assert.Equal(t, time.Second, cfg.Assets.Backoff)
	assert.Equal(t, float32(5), cfg.Lighting.Spot.Intensity)
	assert.Equal(t, uint32(0xffee88), cfg.Lighting.Spot.Color)

	policy, err := cfg.OverlapPolicy()
	require.NoError(t, err)
	assert.Equal(t, show.OverlapReject, policy)
}

func TestParseModelEntries(t *testing.T) {
	cfg, err := Parse([]byte(`
models:
  - runway/jacket.glb
  - key: gown
    path: runway/gown_v2.glb
    position: [1, 2, 3]
    scale: 12
permutations:
  a: [0, 1]
  b: [1, 0]
`))
	require.NoError(t, err)
	require.Len(t, cfg.Models, 2)

	jacket := cfg.Models[0]
	assert.Equal(t, "jacket", jacket.Key)
	assert.Equal(t, DefaultRunwayPosition, jacket.Position)
	assert.Equal(t, float32(-90), jacket.Yaw)

	gown := cfg.Models[1]
	assert.Equal(t, "gown", gown.Key)
	assert.Equal(t, Vec3{1, 2, 3}, gown.Position)
	assert.Equal(t, float32(12), gown.Scale)
	assert.Equal(t, float32(-90), gown.Yaw, "missing map keys keep the defaults")

	assert.Len(t, cfg.Permutations, 2, "permutations replace the defaults")
	require.NoError(t, cfg.Validate())
}

func TestParseRejectsBadModelEntries(t *testing.T) {
	_, err := Parse([]byte("models:\n  - key: nopath\n"))
	assert.ErrorContains(t, err, "missing path")

	_, err = Parse([]byte("models:\n  - path: a.glb\n    colour: red\n"))
	assert.Error(t, err, "unknown model fields are rejected")

	_, err = Parse([]byte("models:\n  - [a, b]\n"))
	assert.ErrorContains(t, err, "path or a map")
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("windows:\n  width: 3\n"))
	assert.Error(t, err)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Permutations = map[string][]int{"1": {0, 0, 1, 2}}
	cfg.Overlap = "queue"
	cfg.Audio.Volume = 2

	err := cfg.Validate()
	assert.ErrorIs(t, err, show.ErrInvalidPermutation)
	assert.ErrorContains(t, err, "overlap policy")
	assert.ErrorContains(t, err, "audio volume")
}

func TestLoadAndMissingAssets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "show.yaml")
	require.NoError(t, os.WriteFile(path, []byte("assets:\n  root: "+dir+"\naudio:\n  disabled: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "3Dmodels/stage1.glb"), cfg.AssetPath(cfg.Stage.Path))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "3Dmodels"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "3Dmodels/stage1.glb"), nil, 0o644))

	missing := cfg.MissingAssets()
	assert.NotContains(t, missing, cfg.AssetPath(cfg.Stage.Path))
	assert.Contains(t, missing, cfg.AssetPath("3Dmodels/model1.glb"))
	assert.NotContains(t, missing, cfg.AssetPath(cfg.Audio.Path), "disabled audio is not required")

	_, err = Load(filepath.Join(dir, "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
