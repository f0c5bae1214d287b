package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Window selects the part of the buffer that gets scanned. A nil Length
// runs to the end of the buffer.
type Window struct {
	Start  int  `yaml:"start"`
	Length *int `yaml:"length"`
}

// Config drives one scan run.
type Config struct {
	// Elements is the size of the native buffer in bytes.
	Elements int `yaml:"elements"`
	// Input is an optional zstd-compressed file copied into the buffer.
	Input  string `yaml:"input"`
	Needle uint8  `yaml:"needle"`
	// Plant writes the needle at these offsets before scanning.
	Plant    []int  `yaml:"plant"`
	Window   Window `yaml:"window"`
	Digest   bool   `yaml:"digest"`
	Format   string `yaml:"format"`
	Pprof    string `yaml:"pprof"`
	LogLevel string `yaml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		Elements: 1 << 20,
		Needle:   0x2a,
		Format:   "text",
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

var ErrInvalidConfig = errors.New("invalid config")

// ParseNeedle checks that a needle given as an unsigned number fits a byte.
func ParseNeedle(v uint) (uint8, error) {
	if v > math.MaxUint8 {
		return 0, fmt.Errorf("%w: needle %d does not fit a byte", ErrInvalidConfig, v)
	}
	return uint8(v), nil
}

func (c Config) Validate() error {
	if c.Elements < 0 {
		return fmt.Errorf("%w: negative elements %d", ErrInvalidConfig, c.Elements)
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
	return nil
}
