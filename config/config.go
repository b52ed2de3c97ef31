package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Addr          string   `mapstructure:"addr"`
	Mode          string   `mapstructure:"mode"` // gin mode: debug | release | test
	CorsOrigins   []string `mapstructure:"cors_origins"`
	SessionSecret string   `mapstructure:"session_secret"`
}

type DBConfig struct {
	Driver       string `mapstructure:"driver"` // mysql | sqlite
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

type CacheConfig struct {
	Driver        string        `mapstructure:"driver"` // memory | redis
	TTL           time.Duration `mapstructure:"ttl"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	JSON       bool   `mapstructure:"json"`
}

type MapConfig struct {
	GeometryFile    string        `mapstructure:"geometry_file"`
	StatsFile       string        `mapstructure:"stats_file"`
	ViewportWidth   int           `mapstructure:"viewport_width"`
	ViewportHeight  int           `mapstructure:"viewport_height"`
	MaxRenderSize   int           `mapstructure:"max_render_size"`
	ClampLatitude   bool          `mapstructure:"clamp_latitude"`
	ViewSessionTTL  time.Duration `mapstructure:"view_session_ttl"`
	MaxViewSessions int           `mapstructure:"max_view_sessions"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Log     LogConfig     `mapstructure:"log"`
	Map     MapConfig     `mapstructure:"map"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":4500")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.session_secret", "geomap-view-session")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "geogame.db")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.auto_migrate", true)

	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.redis_addr", "127.0.0.1:6379")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("map.geometry_file", "data/world.geo.json")
	v.SetDefault("map.stats_file", "data/stats.yaml")
	v.SetDefault("map.viewport_width", 800)
	v.SetDefault("map.viewport_height", 450)
	v.SetDefault("map.max_render_size", 4096)
	v.SetDefault("map.clamp_latitude", true)
	v.SetDefault("map.view_session_ttl", 30*time.Minute)
	v.SetDefault("map.max_view_sessions", 10000)

	v.SetDefault("tracing.service_name", "geomap-api")
}

// Load 读取 .env、config.yaml 与 GEOMAP_* 环境变量；配置文件不存在时只用默认值与环境变量
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("GEOMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
