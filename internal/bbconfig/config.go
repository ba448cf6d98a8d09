// Package bbconfig loads the YAML configuration for the bbattack
// demonstration command: which fixture to attack and how to size it.
package bbconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config drives cmd/bbattack's fixture selection. It never configures TLS,
// transport, or a real target: those stay external per the core's scope.
type Config struct {
	// Mode selects the fixture: "plaintext" or "ciphertext".
	Mode string `yaml:"mode"`

	// KeyBits is the RSA modulus size used when Mode is "ciphertext".
	KeyBits int `yaml:"key_bits"`

	// BlockSize is the byte width used when Mode is "plaintext".
	BlockSize int `yaml:"block_size"`

	// MsgIsPKCS seeds Engine's msgIsPKCS flag.
	MsgIsPKCS bool `yaml:"msg_is_pkcs"`

	// MaxQueries, if non-zero, caps the run via WithMaxQueries.
	MaxQueries uint64 `yaml:"max_queries"`

	// LogLevel is one of "trace", "debug", "info", "error".
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is found, a small
// plaintext-oracle run that finishes in a reasonable time.
func Default() Config {
	return Config{
		Mode:      "plaintext",
		BlockSize: 32,
		MsgIsPKCS: false,
		LogLevel:  "info",
	}
}

// Load reads and parses a YAML config file at path. A missing file is not
// an error: it yields Default().
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
