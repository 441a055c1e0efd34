// ABOUTME: YAML configuration parsing and validation
// ABOUTME: Defines input, Klangbecken file, show service, and logging settings
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Listen      ListenConfig      `yaml:"listen"`
	PollMs      int               `yaml:"poll_ms"`
	Input       InputConfig       `yaml:"input"`
	Klangbecken KlangbeckenConfig `yaml:"klangbecken"`
	Show        ShowConfig        `yaml:"show"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ListenConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type InputConfig struct {
	File string `yaml:"file"`
}

type KlangbeckenConfig struct {
	NowPlayingFile string `yaml:"now_playing_file"`
	ShowName       string `yaml:"show_name"`
	ShowURL        string `yaml:"show_url"`
	// Timezone names the zone whose offset completes song timestamps.
	// Empty means the process's local zone.
	Timezone string `yaml:"timezone"`
}

type ShowConfig struct {
	URL        string `yaml:"url"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	CacheTTLMs int    `yaml:"cache_ttl_ms"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.Listen.Port == 0 {
		c.Listen.Port = 8000
	}
	if c.PollMs == 0 {
		c.PollMs = 1000
	}
	if c.Klangbecken.ShowName == "" {
		c.Klangbecken.ShowName = "Klangbecken"
	}
	if c.Klangbecken.ShowURL == "" {
		c.Klangbecken.ShowURL = "http://www.rabe.ch/sendungen/musik/klangbecken.html"
	}
	if c.Show.TimeoutMs == 0 {
		c.Show.TimeoutMs = 5000
	}
	if c.Show.CacheTTLMs == 0 {
		c.Show.CacheTTLMs = 60000
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	if c.Input.File == "" {
		return fmt.Errorf("%w: input.file is required", ErrInvalidConfig)
	}
	if c.Klangbecken.NowPlayingFile == "" {
		return fmt.Errorf("%w: klangbecken.now_playing_file is required", ErrInvalidConfig)
	}
	if c.Show.URL == "" {
		return fmt.Errorf("%w: show.url is required", ErrInvalidConfig)
	}
	if c.PollMs < 0 {
		return fmt.Errorf("%w: poll_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
