package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polithane/pkg/hitfeed"
)

func TestFillDefaults(t *testing.T) {
	var c Config
	c.FillDefaults()

	assert.Equal(t, ":8080", c.HTTP.Addr)
	assert.Equal(t, "polithane", c.Mongo.Database)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, 200, c.Feed.PoolSize)
	assert.Equal(t, hitfeed.HomeConfig, c.Feed.Home)
	assert.Equal(t, hitfeed.HitPageConfig, c.Feed.HitPage)
	assert.Equal(t, "@every 10m", c.Fast.SweepSchedule)
	assert.Error(t, c.Validate())

	c.Auth.SecretKey = "s3cr3t"
	assert.NoError(t, c.Validate())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "polithane.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
http:
  addr: ":9000"
  allowed_origins: ["https://polithane.com"]
auth:
  secret_key: from-file
feed:
  pool_size: 120
  home:
    per_user_cap: 1
`), 0o600))

	cfg, err := Load(viper.New(), file)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, []string{"https://polithane.com"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "from-file", cfg.Auth.SecretKey)
	assert.Equal(t, 120, cfg.Feed.PoolSize)
	assert.Equal(t, 1, cfg.Feed.Home.PerUserCap)
	assert.Equal(t, 20, cfg.Feed.Home.Limit)
	assert.Equal(t, 0.45, cfg.Feed.Home.PerRoleRatio)
	assert.Equal(t, hitfeed.HitPageConfig, cfg.Feed.HitPage)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("POLITHANE_LOG_LEVEL", "debug")
	t.Setenv("POLITHANE_FEED_HIT_PAGE_LIMIT", "30")
	t.Setenv("SECRET_KEY", "legacy")
	t.Setenv("MONGODB_URI", "mongodb://mongo:27017")

	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("POLITHANE_REDIS_ADDR=redis://cache:6379\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("POLITHANE_REDIS_ADDR") })

	_, err := Load(viper.New(), filepath.Join(dir, "missing.yaml"), dotenv)
	require.Error(t, err)

	cfg, err := Load(viper.New(), "", dotenv)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 30, cfg.Feed.HitPage.Limit)
	assert.Equal(t, 3, cfg.Feed.HitPage.PerUserCap)
	assert.Equal(t, "legacy", cfg.Auth.SecretKey)
	assert.Equal(t, "mongodb://mongo:27017", cfg.Mongo.URI)
	assert.Equal(t, "redis://cache:6379", cfg.Redis.Addr)
}
