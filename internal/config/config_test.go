package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_PORT", "9090")
	t.Setenv("REFUGES_MASSIFS", "12, 339,,45")
	t.Setenv("UPSTREAM_CACHE_TTL", "60")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.GetServerAddr())
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
	assert.Equal(t, []string{"12", "339", "45"}, cfg.Upstream.RefugesMassifs)
	assert.Equal(t, time.Minute, cfg.Cache.UpstreamTTL)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "https://overpass.osm.ch/api/interpreter", cfg.Upstream.OverpassURL)
	assert.Equal(t, 3600, cfg.Upstream.PhotoMaxSize)
	assert.Equal(t, "stream:hut:convert", cfg.Worker.InputStream)
	assert.Equal(t, 10, cfg.Worker.BatchSize)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestParseList(t *testing.T) {
	assert.Nil(t, parseList(""))
	assert.Equal(t, []string{"a", "b"}, parseList(" a ,b,"))
}
