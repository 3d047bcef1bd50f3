package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jaywantadh/midasclient/pkg/logging"
	"github.com/spf13/viper"
)

// AppConfig holds the client configuration
type AppConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	ChunkSize   int           `mapstructure:"chunk_size"`
	Debug       bool          `mapstructure:"debug"`
	JournalPath string        `mapstructure:"journal_path"`
}

var Config *AppConfig

const (
	DefaultTimeout   = 20000 * time.Second
	DefaultChunkSize = 64 * 1024
)

// LoadConfig reads config.yaml from path (if present), overlays the
// environment and stores the result in Config.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.SetEnvPrefix("midas")
	v.AutomaticEnv()

	// HISTORICAL_URL is what the service deployment scripts export.
	if err := v.BindEnv("base_url", "MIDAS_BASE_URL", "HISTORICAL_URL"); err != nil {
		return nil, err
	}

	v.SetDefault("base_url", "")
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("chunk_size", DefaultChunkSize)
	v.SetDefault("debug", false)
	v.SetDefault("journal_path", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		logging.Log.Debugf("no config file in %s, using defaults and environment", path)
	}

	var appConfig AppConfig
	if err := v.Unmarshal(&appConfig); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := appConfig.Validate(); err != nil {
		return nil, err
	}

	Config = &appConfig
	return &appConfig, nil
}

func (c *AppConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required (set it in config.yaml or HISTORICAL_URL)")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	return nil
}
