// Package config loads the sidelen configuration file.
//
// Encoding constants of the transmitter are deliberately absent: they must
// match the device exactly and live as named constants in the decoder.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"gopkg.in/yaml.v3"
)

// Input formats.
const (
	FormatText = "text"
	FormatPcap = "pcap"
)

const defaultCharset = "utf-8"

var (
	ErrUnknownCharset = errors.New("config: unknown charset")
	ErrUnknownFormat  = errors.New("config: unknown input format")
)

// Config is the on-disk configuration.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Decoder DecoderConfig `yaml:"decoder"`
	Store   StoreConfig   `yaml:"store"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

// InputConfig selects how frames are read.
type InputConfig struct {
	Format string `yaml:"format"` // "text" (default) or "pcap"
}

// DecoderConfig tunes how decoded bytes are presented.
type DecoderConfig struct {
	// Charset is a WHATWG encoding label. Phone apps send UTF-8, other
	// transmitters use their platform's default charset.
	Charset string `yaml:"charset"`
}

// StoreConfig enables persistence of decoded credentials.
type StoreConfig struct {
	Path string `yaml:"path"` // directory holding the results database; empty disables
}

// MetricsConfig enables the Prometheus endpoint.
type MetricsConfig struct {
	Listen string `yaml:"listen"` // e.g. "127.0.0.1:9464"; empty disables
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Verbose bool `yaml:"verbose"` // log every extraction attempt
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Input:   InputConfig{Format: FormatText},
		Decoder: DecoderConfig{Charset: defaultCharset},
	}
}

// Load reads and validates a YAML configuration file. Missing keys keep
// their defaults.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	c.Input.Format = strings.ToLower(strings.TrimSpace(c.Input.Format))
	switch c.Input.Format {
	case "":
		c.Input.Format = FormatText
	case FormatText, FormatPcap:
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, c.Input.Format)
	}
	if _, err := c.Charset(); err != nil {
		return err
	}
	return nil
}

// Charset resolves Decoder.Charset. UTF-8 resolves to nil so decoded bytes
// are passed through untouched, invalid sequences included.
func (c *Config) Charset() (encoding.Encoding, error) {
	return LookupCharset(c.Decoder.Charset)
}

// LookupCharset resolves a WHATWG encoding label. Empty and UTF-8 labels
// resolve to nil.
func LookupCharset(label string) (encoding.Encoding, error) {
	if strings.TrimSpace(label) == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownCharset, label)
	}
	if enc == unicode.UTF8 {
		return nil, nil
	}
	return enc, nil
}
