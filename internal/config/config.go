// Package config loads the simulator settings shared by the uartsim commands.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jangala-dev/uartsim/internal/charset"
	"github.com/jangala-dev/uartsim/uartx"
)

var ErrInvalid = errors.New("invalid configuration")

// Config is the on-disk configuration.
//
//	baud: 115200
//	parity: even
//	charset: cp437
//	base: 0x10000000
//	echo: true
type Config struct {
	Baud    uint32 `yaml:"baud"`
	Parity  string `yaml:"parity"`
	Charset string `yaml:"charset"`
	Base    uint32 `yaml:"base"`
	Echo    bool   `yaml:"echo"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Baud:    uartx.DefaultBaudRate,
		Parity:  "none",
		Charset: "utf-8",
		Base:    uartx.DefaultBase,
		Echo:    true,
	}
}

// Load reads path on top of Default. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := Parse(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping fields the document leaves out, and
// validates the result.
func Parse(raw []byte, cfg *Config) error {
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate checks the baud rate and the enumerated fields.
func (c Config) Validate() error {
	if c.Baud == 0 {
		return fmt.Errorf("%w: baud must be non-zero", ErrInvalid)
	}
	if _, err := uartx.ParseParity(c.Parity); err != nil {
		return errors.Join(ErrInvalid, err)
	}
	if _, err := charset.Lookup(c.Charset); err != nil {
		return errors.Join(ErrInvalid, err)
	}
	return nil
}

// UARTConfig converts c into the line configuration for uartx.UART.Configure.
func (c Config) UARTConfig() uartx.Config {
	p, _ := uartx.ParseParity(c.Parity)
	return uartx.Config{BaudRate: c.Baud, Parity: p}
}
