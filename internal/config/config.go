// Package config provides configuration loading for the Bruno to Postman converter.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	configloader "github.com/GabrielNunesIT/go-libs/config-loader"
	"github.com/joho/godotenv"
)

const (
	// EnvPrefix is the prefix of environment variables read by Load.
	EnvPrefix = "BRU2POSTMAN_"

	// FileName is the optional configuration file looked up in the working directory.
	FileName = "config.yaml"
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Convert ConvertConfig `koanf:"convert"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	MaxUploadBytes    int64         `koanf:"max_upload_bytes"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	AllowedOrigins    []string      `koanf:"allowed_origins"`
}

// ConvertConfig configures the conversion engine.
type ConvertConfig struct {
	// MaxDepth limits folder nesting. Zero means unlimited.
	MaxDepth int `koanf:"max_depth"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":3000",
			MaxUploadBytes:    10 << 20,
			ReadHeaderTimeout: 10 * time.Second,
			AllowedOrigins:    []string{"*"},
		},
	}
}

// Load returns the application configuration using go-libs config-loader.
// Values from a .env file are exported to the environment first.
func Load() (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	hasFile, err := fileExists(FileName)
	if err != nil {
		return nil, err
	}

	// Later sources override earlier ones: defaults, then file, then env.
	opts := []configloader.Option[Config]{configloader.WithDefaults(Default())}
	if hasFile {
		opts = append(opts, configloader.WithFile[Config](FileName))
	}

	opts = append(opts, configloader.WithEnv[Config](EnvPrefix))

	cfg, err := configloader.NewConfigLoader(opts...).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return false, fmt.Errorf("failed to stat config file: %w", err)
}
