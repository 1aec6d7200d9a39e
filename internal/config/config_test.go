package config

import (
	"collection-route-service/internal/engine"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	t.Setenv("CRS_TEST_STR", "  value ")
	t.Setenv("CRS_TEST_FLOAT", "2.5")
	t.Setenv("CRS_TEST_BAD_FLOAT", "two")
	t.Setenv("CRS_TEST_DUR", "90s")

	assert.Equal(t, "value", Get("CRS_TEST_STR", "x"))
	assert.Equal(t, "x", Get("CRS_TEST_UNSET", "x"))

	f, err := GetFloat("CRS_TEST_FLOAT", 1)
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	f, err = GetFloat("CRS_TEST_UNSET", 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, f)

	_, err = GetFloat("CRS_TEST_BAD_FLOAT", 1)
	assert.Error(t, err)

	d, err := GetDuration("CRS_TEST_DUR", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)
}

func TestParseEngineConfigOverlaysDefaults(t *testing.T) {
	doc := []byte(`
depot:
  lat: 10.5
connection_threshold: 0.05
cache_validity: 30s
invalidation: content
selection:
  epsilon: 0.2
  priority_boosts:
    default: 0.5
    by_id:
      BRGY-001: 3
`)

	cfg, err := ParseEngineConfig(doc, engine.DefaultConfig())
	require.NoError(t, err)

	def := engine.DefaultConfig()
	assert.Equal(t, def.Depot.ID, cfg.Depot.ID)
	assert.Equal(t, 10.5, cfg.Depot.Lat)
	assert.Equal(t, def.Depot.Lng, cfg.Depot.Lng)
	assert.Equal(t, 0.05, cfg.ConnectionThreshold)
	assert.Equal(t, 30*time.Second, cfg.ValidityWindow)
	assert.Equal(t, engine.InvalidateByContent, cfg.Invalidation)
	assert.Equal(t, 0.2, cfg.Selection.Epsilon)
	assert.Equal(t, 0.5, cfg.Selection.Boosts.For("C1"))
	assert.Equal(t, 3.0, cfg.Selection.Boosts.For("BRGY-001"))
}

func TestParseEngineConfigRejectsBadInput(t *testing.T) {
	base := engine.DefaultConfig()

	_, err := ParseEngineConfig([]byte("invalidation: sometimes\n"), base)
	assert.Error(t, err)

	_, err = ParseEngineConfig([]byte("cache_validity: soon\n"), base)
	assert.Error(t, err)

	_, err = ParseEngineConfig([]byte("threshold: 3\n"), base)
	assert.Error(t, err, "unknown keys must be rejected")

	cfg, err := ParseEngineConfig(nil, base)
	require.NoError(t, err)
	assert.Equal(t, base, cfg)
}

func TestEngineReadsFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("connection_threshold: 7\ninvalidation: content\n"), 0o600))

	t.Setenv("ENGINE_CONFIG_PATH", path)
	t.Setenv("DEPOT_LAT", "1.25")
	t.Setenv("DEPOT_LNG", "")
	t.Setenv("CONNECTION_THRESHOLD", "")
	t.Setenv("CACHE_VALIDITY", "1m")
	t.Setenv("INVALIDATION", "")

	cfg, err := Engine()
	require.NoError(t, err)
	assert.Equal(t, 7.0, cfg.ConnectionThreshold)
	assert.Equal(t, engine.InvalidateByContent, cfg.Invalidation)
	assert.Equal(t, 1.25, cfg.Depot.Lat)
	assert.Equal(t, time.Minute, cfg.ValidityWindow)

	t.Setenv("INVALIDATION", "never")
	_, err = Engine()
	assert.Error(t, err)
}

func TestLoadEngineFileMissing(t *testing.T) {
	_, err := LoadEngineFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
