package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "CLEANSLIDE"

// Inpainting strategies understood by the service layer.
const (
	StrategyFastMarching = "fast_marching"
	StrategyOpenCV       = "opencv"
	StrategyLearned      = "learned"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Inpaint InpaintConfig `mapstructure:"inpaint"`
	Model   ModelConfig   `mapstructure:"model"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// CORSConfig lists what cross-origin callers may do. "*" in a list allows everything.
type CORSConfig struct {
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	AllowedMethods []string      `mapstructure:"allowed_methods"`
	AllowedHeaders []string      `mapstructure:"allowed_headers"`
	MaxAge         time.Duration `mapstructure:"max_age"`
}

type UploadConfig struct {
	MaxSize int64 `mapstructure:"max_size"`
}

type InpaintConfig struct {
	Strategy      string        `mapstructure:"strategy"`
	Radius        int           `mapstructure:"radius"`
	JPEGQuality   int           `mapstructure:"jpeg_quality"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
	QueueTimeout  time.Duration `mapstructure:"queue_timeout"`
	// MaxPixels caps width*height of decoded inputs, checked from the image header.
	MaxPixels int `mapstructure:"max_pixels"`
}

// ModelConfig points at an external inpainting model server used by the learned strategy.
type ModelConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Load reads configuration from a YAML file, then applies CLEANSLIDE_* environment overrides.
// A missing file is not an error: defaults and environment are used instead.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// New loads .env (if any) and the config file named by CONFIG_PATH, defaulting to config.yaml.
func New() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	return Load(path)
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.Inpaint.Strategy {
	case StrategyFastMarching, StrategyOpenCV:
	case StrategyLearned:
		if c.Model.Endpoint == "" {
			return errors.New("model.endpoint is required for the learned strategy")
		}
	default:
		return fmt.Errorf("unknown inpaint strategy %q", c.Inpaint.Strategy)
	}

	if c.Inpaint.Radius < 1 || c.Inpaint.Radius > 100 {
		return fmt.Errorf("inpaint.radius must be within [1,100], got %d", c.Inpaint.Radius)
	}
	if c.Inpaint.JPEGQuality < 1 || c.Inpaint.JPEGQuality > 100 {
		return fmt.Errorf("inpaint.jpeg_quality must be within [1,100], got %d", c.Inpaint.JPEGQuality)
	}
	if c.Inpaint.MaxPixels <= 0 {
		return fmt.Errorf("inpaint.max_pixels must be positive, got %d", c.Inpaint.MaxPixels)
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		return errors.New("cors.allowed_origins must not be empty")
	}
	for _, origin := range c.CORS.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("cors origin %q must be \"*\" or start with http:// or https://", origin)
		}
	}
	if c.Upload.MaxSize <= 0 {
		return fmt.Errorf("upload.max_size must be positive, got %d", c.Upload.MaxSize)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"*"})
	v.SetDefault("cors.max_age", 12*time.Hour)

	v.SetDefault("upload.max_size", 20*1024*1024)

	v.SetDefault("inpaint.strategy", DefaultStrategy)
	v.SetDefault("inpaint.radius", 3)
	v.SetDefault("inpaint.jpeg_quality", 95)
	v.SetDefault("inpaint.max_concurrent", 0)
	v.SetDefault("inpaint.queue_timeout", 30*time.Second)
	v.SetDefault("inpaint.max_pixels", 40_000_000)

	v.SetDefault("model.endpoint", "")
	v.SetDefault("model.timeout", 60*time.Second)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", time.Hour)
}
