package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Redis    RedisConfig
	Snapshot SnapshotConfig
	Map      MapConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// StoreConfig - параметры клиента удалённого хранилища
type StoreConfig struct {
	BaseURL string
	// RequestTimeout - бюджет одной попытки, секунды
	RequestTimeout int
	// ReadRetries - максимум попыток для чтений (записи не повторяются)
	ReadRetries int
	// RetryBackoff - стартовая пауза между попытками
	RetryBackoff time.Duration
	// WarmupInterval - минимальный интервал между прогревочными запросами
	WarmupInterval time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type SnapshotConfig struct {
	TTL time.Duration
}

// MapConfig - стартовое состояние карты и параметры отрисовки
type MapConfig struct {
	CenterLat       float64
	CenterLng       float64
	Zoom            int
	Debounce        time.Duration
	ClusterRadiusPx float64
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Store: StoreConfig{
			BaseURL:        viper.GetString("STORE_BASE_URL"),
			RequestTimeout: viper.GetInt("STORE_REQUEST_TIMEOUT"),
			ReadRetries:    viper.GetInt("STORE_READ_RETRIES"),
			RetryBackoff:   time.Duration(viper.GetInt("STORE_RETRY_BACKOFF_MS")) * time.Millisecond,
			WarmupInterval: time.Duration(viper.GetInt("STORE_WARMUP_INTERVAL")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Snapshot: SnapshotConfig{
			TTL: time.Duration(viper.GetInt("SNAPSHOT_TTL")) * time.Second,
		},
		Map: MapConfig{
			CenterLat:       viper.GetFloat64("MAP_CENTER_LAT"),
			CenterLng:       viper.GetFloat64("MAP_CENTER_LNG"),
			Zoom:            viper.GetInt("MAP_ZOOM"),
			Debounce:        time.Duration(viper.GetInt("MAP_DEBOUNCE_MS")) * time.Millisecond,
			ClusterRadiusPx: viper.GetFloat64("MAP_CLUSTER_RADIUS_PX"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	// Set default values if not provided
	if cfg.Store.BaseURL == "" {
		cfg.Store.BaseURL = "http://127.0.0.1:8000"
	}
	if cfg.Store.RequestTimeout == 0 {
		cfg.Store.RequestTimeout = 8
	}
	if cfg.Store.ReadRetries == 0 {
		cfg.Store.ReadRetries = 3
	}
	if cfg.Store.RetryBackoff == 0 {
		cfg.Store.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.Store.WarmupInterval == 0 {
		cfg.Store.WarmupInterval = 60 * time.Second
	}
	if cfg.Snapshot.TTL == 0 {
		cfg.Snapshot.TTL = 12 * time.Hour
	}
	if cfg.Map.CenterLat == 0 {
		cfg.Map.CenterLat = 53.9
	}
	if cfg.Map.CenterLng == 0 {
		cfg.Map.CenterLng = 27.5667
	}
	if cfg.Map.Zoom == 0 {
		cfg.Map.Zoom = 12
	}
	if cfg.Map.Debounce == 0 {
		cfg.Map.Debounce = 300 * time.Millisecond
	}
	if cfg.Map.ClusterRadiusPx == 0 {
		cfg.Map.ClusterRadiusPx = 30
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
