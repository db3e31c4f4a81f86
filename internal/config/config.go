// Package config holds the CLI configuration.
//
// Configuration is loaded from a single YAML file named by the --config
// flag or, failing that, the PNGME_CONFIG environment variable. There is no
// automatic discovery: with neither set the defaults are used.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1ureka/pngme/internal/payload"
	"github.com/1ureka/pngme/internal/png"
)

// EnvVar names the environment variable consulted when no --config flag
// is given.
const EnvVar = "PNGME_CONFIG"

// Config stores every tunable of the CLI.
type Config struct {
	// Debug enables debug logging, as --debug does.
	Debug bool `yaml:"debug"`

	Encode EncodeConfig `yaml:"encode"`
	Print  PrintConfig  `yaml:"print"`
}

// EncodeConfig sets defaults for the encode command.
type EncodeConfig struct {
	// Compress zstd-compresses every message unless --compress=false.
	Compress bool `yaml:"compress"`

	// WorkFactor is the scrypt work factor (log2 N) for passphrase
	// encryption.
	WorkFactor int `yaml:"work_factor"`
}

// PrintConfig sets defaults for the print command.
type PrintConfig struct {
	// IgnoreTypes lists chunk types never reported as hidden messages.
	IgnoreTypes []string `yaml:"ignore_types"`
}

// DefaultWorkFactor matches age's own scrypt default.
const DefaultWorkFactor = 18

// standardTypes are the chunk types registered by the PNG specification.
var standardTypes = []string{
	"IHDR", "PLTE", "IDAT", "IEND",
	"cHRM", "cICP", "gAMA", "iCCP", "mDCV", "cLLI", "sBIT", "sRGB",
	"bKGD", "hIST", "tRNS", "eXIf", "pHYs", "sPLT", "tIME",
	"iTXt", "tEXt", "zTXt",
	"acTL", "fcTL", "fdAT",
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Encode: EncodeConfig{WorkFactor: DefaultWorkFactor},
		Print:  PrintConfig{IgnoreTypes: append([]string(nil), standardTypes...)},
	}
}

// Load reads the file at path, or at $PNGME_CONFIG when path is empty.
// Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and chunk type syntax.
func (c *Config) Validate() error {
	var errs []error
	if c.Encode.WorkFactor < 1 || c.Encode.WorkFactor > payload.MaxWorkFactor {
		errs = append(errs, fmt.Errorf("encode.work_factor %d out of range 1..%d", c.Encode.WorkFactor, payload.MaxWorkFactor))
	}
	for _, name := range c.Print.IgnoreTypes {
		if _, err := png.ParseChunkType(name); err != nil {
			errs = append(errs, fmt.Errorf("print.ignore_types: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Ignored reports whether print should skip chunks of the given type.
func (c *Config) Ignored(chunkType string) bool {
	for _, name := range c.Print.IgnoreTypes {
		if name == chunkType {
			return true
		}
	}
	return false
}
