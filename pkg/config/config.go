package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"polithane/pkg/fast"
	"polithane/pkg/feed"
	"polithane/pkg/hitfeed"
)

const EnvPrefix = "POLITHANE"

type HTTPConfig struct {
	Addr           string   `mapstructure:"addr"`
	StaticDir      string   `mapstructure:"static_dir"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

type AuthConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// FeedConfig sizes the post pool and tunes both Hit presets.
type FeedConfig struct {
	PoolSize int            `mapstructure:"pool_size"`
	Home     hitfeed.Config `mapstructure:"home"`
	HitPage  hitfeed.Config `mapstructure:"hit_page"`
}

type FastConfig struct {
	SweepSchedule string `mapstructure:"sweep_schedule"`
}

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Fast     FastConfig     `mapstructure:"fast"`
}

// FillDefaults applies default values if not provided. A Hit preset with
// no limit falls back to the built in one as a whole.
func (c *Config) FillDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.StaticDir == "" {
		c.HTTP.StaticDir = "template"
	}
	if c.Postgres.DSN == "" {
		c.Postgres.DSN = "postgresql://localhost/polithane?sslmode=disable"
	}
	if c.Mongo.URI == "" {
		c.Mongo.URI = "mongodb://localhost:27017"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "polithane"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "redis://localhost:6379"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Feed.PoolSize <= 0 {
		c.Feed.PoolSize = feed.DefaultPoolSize
	}
	if c.Feed.Home.Limit <= 0 {
		c.Feed.Home = hitfeed.HomeConfig
	}
	if c.Feed.HitPage.Limit <= 0 {
		c.Feed.HitPage = hitfeed.HitPageConfig
	}
	if c.Fast.SweepSchedule == "" {
		c.Fast.SweepSchedule = fast.DefaultSweepSchedule
	}
}

func (c *Config) Validate() error {
	if c.Auth.SecretKey == "" {
		return errors.New("config: auth.secret_key is required")
	}
	return nil
}

// legacyEnv maps the bare variable names of older .env files to keys.
var legacyEnv = map[string]string{
	"postgres.dsn":    "DATABASE_URL",
	"mongo.uri":       "MONGODB_URI",
	"redis.addr":      "REDIS_ADDR",
	"auth.secret_key": "SECRET_KEY",
	"log.level":       "LOG_LEVEL",
}

// Load reads .env files (missing ones are ignored), the optional config file
// and the environment into a Config with defaults applied. Environment
// variables look like POLITHANE_FEED_POOL_SIZE.
func Load(v *viper.Viper, cfgFile string, dotenv ...string) (Config, error) {
	var cfg Config

	if err := godotenv.Load(dotenv...); err != nil && len(dotenv) > 0 {
		return cfg, fmt.Errorf("config: failed reading .env: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/polithane")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return cfg, fmt.Errorf("config: error reading config: %w", err)
		}
	}

	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range knownKeys {
		if legacy, ok := legacyEnv[key]; ok {
			_ = v.BindEnv(key, EnvPrefix+"_"+envKey(key), legacy)
			continue
		}
		_ = v.BindEnv(key)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: error parsing config: %w", err)
	}
	cfg.FillDefaults()
	return cfg, nil
}

// knownKeys lets Unmarshal see values that only exist in the environment.
var knownKeys = []string{
	"http.addr", "http.static_dir", "http.allowed_origins",
	"postgres.dsn",
	"mongo.uri", "mongo.database",
	"redis.addr",
	"auth.secret_key",
	"log.level",
	"feed.pool_size",
	"feed.home.limit", "feed.home.per_user_cap", "feed.home.per_role_ratio", "feed.home.alternate_types",
	"feed.hit_page.limit", "feed.hit_page.per_user_cap", "feed.hit_page.per_role_ratio", "feed.hit_page.alternate_types",
	"fast.sweep_schedule",
}

func setDefaults(v *viper.Viper) {
	presets := map[string]hitfeed.Config{"feed.home": hitfeed.HomeConfig, "feed.hit_page": hitfeed.HitPageConfig}
	for prefix, p := range presets {
		v.SetDefault(prefix+".limit", p.Limit)
		v.SetDefault(prefix+".per_user_cap", p.PerUserCap)
		v.SetDefault(prefix+".per_role_ratio", p.PerRoleRatio)
		v.SetDefault(prefix+".alternate_types", p.AlternateTypes)
	}
	v.SetDefault("feed.pool_size", feed.DefaultPoolSize)
	v.SetDefault("fast.sweep_schedule", fast.DefaultSweepSchedule)
}

func envKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
