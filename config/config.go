package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root configuration struct. Rope physics lives in the prefab
// yaml; this covers how the rope is driven and shown.
type Config struct {
	TickRate         int          `mapstructure:"tick_rate"`
	MaxStepsPerFrame int          `mapstructure:"max_steps_per_frame"`
	Prefab           string       `mapstructure:"prefab"`
	Anchor           AnchorConfig `mapstructure:"anchor"`
	Window           WindowConfig `mapstructure:"window"`
	Camera           CameraConfig `mapstructure:"camera"`
	Server           ServerConfig `mapstructure:"server"`
	Redis            RedisConfig  `mapstructure:"redis"`
	Trace            TraceConfig  `mapstructure:"trace"`
}

type AnchorConfig struct {
	Script string  `mapstructure:"script"`
	Speed  float64 `mapstructure:"speed"`
}

type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

type CameraConfig struct {
	PixelsPerUnit float64 `mapstructure:"pixels_per_unit"`
	CenterX       float64 `mapstructure:"center_x"`
	CenterY       float64 `mapstructure:"center_y"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type RedisConfig struct {
	Addr    string `mapstructure:"addr"`
	Channel string `mapstructure:"channel"`
}

type TraceConfig struct {
	Path string `mapstructure:"path"`
}

// Step returns the fixed physics step in seconds.
func (c *Config) Step() float64 {
	return 1 / float64(c.TickRate)
}

func (c *Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("config: tick_rate %d must be positive", c.TickRate)
	}
	if c.MaxStepsPerFrame < 0 {
		return fmt.Errorf("config: max_steps_per_frame %d must not be negative", c.MaxStepsPerFrame)
	}
	if c.Camera.PixelsPerUnit <= 0 {
		return fmt.Errorf("config: camera.pixels_per_unit %v must be positive", c.Camera.PixelsPerUnit)
	}
	return nil
}

// Load reads configuration from file and environment. Variables from a .env
// file in the working directory are loaded first when present.
func Load(cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()

	// 50 ticks per second matches the 0.02s fixed step the rope was tuned for
	v.SetDefault("tick_rate", 50)
	v.SetDefault("max_steps_per_frame", 5)
	v.SetDefault("prefab", "rope.yaml")
	v.SetDefault("anchor.script", "")
	v.SetDefault("anchor.speed", 0.0)
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.title", "ropesim")
	v.SetDefault("camera.pixels_per_unit", 80.0)
	v.SetDefault("camera.center_x", 0.0)
	v.SetDefault("camera.center_y", -1.25)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.channel", "ropesim:frames")
	v.SetDefault("trace.path", "ropesim.trace")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ROPESIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
