package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Connect-4-AI/internals/engine"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 9090
database:
  sqlite_path: /tmp/c4.db
game:
  matchmaking_timeout_seconds: 3
  reconnect_timeout_seconds: 15
engine:
  search_depth: 8
  cache_bits: 16
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/c4.db", cfg.Database.SQLitePath)
	assert.Equal(t, 3*time.Second, cfg.MatchmakingTimeout())
	assert.Equal(t, 15*time.Second, cfg.ReconnectTimeout())
	assert.Equal(t, time.Second, cfg.BotMoveDelay())
	assert.Equal(t, 100, cfg.Game.DisconnectedCacheSize)
	assert.Equal(t, engine.Options{Depth: 8, ThreatDepth: 6, CacheBits: 16}, cfg.EngineOptions())
	assert.Equal(t, 4, cfg.Engine.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "engine:\n  search_depth: 8\n")
	t.Setenv("ENGINE_SEARCH_DEPTH", "4")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Engine.SearchDepth)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
