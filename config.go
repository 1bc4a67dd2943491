package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	// BindAddress is the address the server listens on (e.g. "0.0.0.0:8080")
	BindAddress string `yaml:"bind_address" toml:"bind_address"`
	// SerialPort is the path to the radio's serial port (e.g. "/dev/ttyUSB0")
	SerialPort string `yaml:"serial_port" toml:"serial_port"`
	// BaudRate is the baud rate for serial communication with the radio (e.g. 115200)
	BaudRate int `yaml:"baud_rate" toml:"baud_rate"`
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string `yaml:"log_level" toml:"log_level"`
	// Verbose prints the byte-level exchange with the radio to stdout
	Verbose bool `yaml:"verbose" toml:"verbose"`
	// MatchMode selects how reply tokens are recognised ("inorder", "contiguous")
	MatchMode string `yaml:"match_mode" toml:"match_mode"`
	// AbortOnFailure stops bonding at the first unanswered command
	AbortOnFailure bool `yaml:"abort_on_failure" toml:"abort_on_failure"`
	// PinCode is the pairing code programmed during bonding
	PinCode string `yaml:"pin_code" toml:"pin_code"`
	// Bond holds default addresses for the bond command
	Bond BondConfig `yaml:"bond" toml:"bond"`
}

// BondConfig names the two radios to pair. Either may be the attached one.
type BondConfig struct {
	Address1 string `yaml:"address1" toml:"address1"`
	Address2 string `yaml:"address2" toml:"address2"`
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.BindAddress = "0.0.0.0:8080"
		c.SerialPort = "/dev/ttyUSB0"
		c.BaudRate = 115200
		c.LogLevel = "info"
		c.MatchMode = "inorder"
		c.PinCode = "c0de"
		return nil
	}
}

// WithFile loads configuration from a YAML or TOML file, chosen by
// extension. Keys not present in the file keep their current value; unknown
// keys are an error. An empty path is ignored.
func WithFile(path string) ConfigOption {
	return func(c *Config) error {
		if path == "" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("config load failed (%s): %w", path, err)
		}

		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			dec := yaml.NewDecoder(bytes.NewReader(data))
			dec.KnownFields(true)
			if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("config parse failed (%s): %w", path, err)
			}
		case ".toml":
			md, err := toml.Decode(string(data), c)
			if err != nil {
				return fmt.Errorf("config parse failed (%s): %w", path, err)
			}
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return fmt.Errorf("config parse failed (%s): unknown keys %v", path, undecoded)
			}
		default:
			return fmt.Errorf("config load failed (%s): unsupported format %q", path, ext)
		}
		return nil
	}
}

// WithEnv loads configuration from environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
			c.BindAddress = addr
		}

		if serial := os.Getenv("SERIAL_PORT"); serial != "" {
			c.SerialPort = serial
		}

		if baud := os.Getenv("BAUD_RATE"); baud != "" {
			if b, err := strconv.Atoi(baud); err == nil {
				c.BaudRate = b
			}
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.LogLevel = level
		}

		if verbose := os.Getenv("BT_VERBOSE"); verbose != "" {
			if v, err := strconv.ParseBool(verbose); err == nil {
				c.Verbose = v
			}
		}

		if mode := os.Getenv("BT_MATCH_MODE"); mode != "" {
			c.MatchMode = mode
		}

		if abort := os.Getenv("BT_ABORT_ON_FAILURE"); abort != "" {
			if v, err := strconv.ParseBool(abort); err == nil {
				c.AbortOnFailure = v
			}
		}

		if pin := os.Getenv("BT_PIN_CODE"); pin != "" {
			c.PinCode = pin
		}

		return nil
	}
}

// WithFlags loads configuration from command-line flags
func WithFlags(fSet *flag.FlagSet) ConfigOption {
	return func(c *Config) error {
		fSet.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "bind-address":
				c.BindAddress = f.Value.String()
			case "serial-port":
				c.SerialPort = f.Value.String()
			case "baud-rate":
				if b, err := strconv.Atoi(f.Value.String()); err == nil {
					c.BaudRate = b
				}
			case "log-level":
				c.LogLevel = f.Value.String()
			case "verbose":
				if v, err := strconv.ParseBool(f.Value.String()); err == nil {
					c.Verbose = v
				}
			case "match-mode":
				c.MatchMode = f.Value.String()
			case "abort-on-failure":
				if v, err := strconv.ParseBool(f.Value.String()); err == nil {
					c.AbortOnFailure = v
				}
			case "pin-code":
				c.PinCode = f.Value.String()
			}
		})
		return nil
	}
}
