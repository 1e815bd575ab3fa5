package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Upstream UpstreamConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	Enabled bool
	// TTL ответов внешних источников
	UpstreamTTL time.Duration
	Prefix      string
}

type LogConfig struct {
	Level string
}

// UpstreamConfig - адреса и ограничения внешних источников
type UpstreamConfig struct {
	OverpassURL    string
	RefugesURL     string
	RefugesMassifs []string
	WikidataURL    string
	CommonsURL     string
	NominatimURL   string
	ElevationURL   string
	UserAgent      string
	Timeout        time.Duration
	RateLimit      float64
	Burst          int
	MaxRetries     int
	PhotoMaxSize   int
}

type WorkerConfig struct {
	Enabled           bool
	InputStream       string
	OutputStream      string
	ConsumerGroup     string
	ConsumerName      string
	BatchSize         int
	StreamReadTimeout time.Duration
	IncludePhotos     bool
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// без .env используются только переменные окружения
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	viper.SetDefault("CACHE_ENABLED", true)

	cfg := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("API_HOST"),
			Port:         viper.GetInt("API_PORT"),
			Env:          viper.GetString("API_ENV"),
			ReadTimeout:  time.Duration(viper.GetInt("API_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(viper.GetInt("API_WRITE_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Enabled:     viper.GetBool("CACHE_ENABLED"),
			UpstreamTTL: time.Duration(viper.GetInt("UPSTREAM_CACHE_TTL")) * time.Second,
			Prefix:      viper.GetString("CACHE_PREFIX"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Upstream: UpstreamConfig{
			OverpassURL:    viper.GetString("OVERPASS_URL"),
			RefugesURL:     viper.GetString("REFUGES_URL"),
			RefugesMassifs: parseList(viper.GetString("REFUGES_MASSIFS")),
			WikidataURL:    viper.GetString("WIKIDATA_URL"),
			CommonsURL:     viper.GetString("COMMONS_URL"),
			NominatimURL:   viper.GetString("NOMINATIM_URL"),
			ElevationURL:   viper.GetString("ELEVATION_URL"),
			UserAgent:      viper.GetString("UPSTREAM_USER_AGENT"),
			Timeout:        time.Duration(viper.GetInt("UPSTREAM_TIMEOUT")) * time.Second,
			RateLimit:      viper.GetFloat64("UPSTREAM_RATE_LIMIT"),
			Burst:          viper.GetInt("UPSTREAM_BURST"),
			MaxRetries:     viper.GetInt("UPSTREAM_MAX_RETRIES"),
			PhotoMaxSize:   viper.GetInt("PHOTO_MAX_SIZE"),
		},
		Worker: WorkerConfig{
			Enabled:           viper.GetBool("WORKER_ENABLED"),
			InputStream:       viper.GetString("WORKER_INPUT_STREAM"),
			OutputStream:      viper.GetString("WORKER_OUTPUT_STREAM"),
			ConsumerGroup:     viper.GetString("WORKER_CONSUMER_GROUP"),
			ConsumerName:      viper.GetString("WORKER_CONSUMER_NAME"),
			BatchSize:         viper.GetInt("WORKER_BATCH_SIZE"),
			StreamReadTimeout: time.Duration(viper.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			IncludePhotos:     viper.GetBool("WORKER_INCLUDE_PHOTOS"),
		},
	}

	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		// конвертация с фото может занять время
		c.Server.WriteTimeout = 120 * time.Second
	}
	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Cache.UpstreamTTL == 0 {
		c.Cache.UpstreamTTL = 48 * time.Hour
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "hut-services"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	u := &c.Upstream
	if u.OverpassURL == "" {
		u.OverpassURL = "https://overpass.osm.ch/api/interpreter"
	}
	if u.RefugesURL == "" {
		u.RefugesURL = "https://www.refuges.info"
	}
	if len(u.RefugesMassifs) == 0 {
		u.RefugesMassifs = []string{
			"12", "339", "407", "45", "342", "20", "29", "343", "412", "8", "344", "408", "432", "406", "52", "9",
		}
	}
	if u.WikidataURL == "" {
		u.WikidataURL = "https://www.wikidata.org"
	}
	if u.CommonsURL == "" {
		u.CommonsURL = "https://magnus-toolserver.toolforge.org/commonsapi.php"
	}
	if u.NominatimURL == "" {
		u.NominatimURL = "https://nominatim.openstreetmap.org"
	}
	if u.ElevationURL == "" {
		u.ElevationURL = "https://api.open-elevation.com/api/v1/lookup"
	}
	if u.UserAgent == "" {
		u.UserAgent = "hut-services/1.0"
	}
	if u.Timeout == 0 {
		u.Timeout = 60 * time.Second
	}
	if u.RateLimit == 0 {
		u.RateLimit = 2
	}
	if u.Burst == 0 {
		u.Burst = 4
	}
	if u.MaxRetries == 0 {
		u.MaxRetries = 4
	}
	if u.PhotoMaxSize == 0 {
		u.PhotoMaxSize = 3600
	}

	w := &c.Worker
	if w.InputStream == "" {
		w.InputStream = "stream:hut:convert"
	}
	if w.OutputStream == "" {
		w.OutputStream = "stream:hut:done"
	}
	if w.ConsumerGroup == "" {
		w.ConsumerGroup = "hut-convert-workers"
	}
	if w.ConsumerName == "" {
		w.ConsumerName = "hut-convert-1"
	}
	if w.BatchSize == 0 {
		w.BatchSize = 10
	}
	if w.StreamReadTimeout == 0 {
		w.StreamReadTimeout = 5000 * time.Millisecond
	}
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
