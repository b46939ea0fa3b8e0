package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/acceptance/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the harness configuration file.
type Config struct {
	DefaultTimeout time.Duration     `mapstructure:"default_timeout"`
	RebootTimeout  time.Duration     `mapstructure:"reboot_timeout"`
	ProbeInterval  time.Duration     `mapstructure:"probe_interval"`
	CommandTimeout time.Duration     `mapstructure:"command_timeout"`
	LogLevel       string            `mapstructure:"log_level"`
	Hosts          map[string]string `mapstructure:"hosts"`
	UI             UI                `mapstructure:"ui"`
	Redis          Redis             `mapstructure:"redis"`
}

// UI configures the web console guard.
type UI struct {
	Marker             string        `mapstructure:"marker"`
	Wait               time.Duration `mapstructure:"wait"`
	RequestTimeoutText string        `mapstructure:"request_timeout_text"`
	ReloadButton       string        `mapstructure:"reload_button"`
}

// Redis selects the shared context store. An empty Addr means in-memory.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DefaultTimeout: domain.DefaultTimeout,
		RebootTimeout:  domain.DefaultRebootTimeout,
		ProbeInterval:  domain.DefaultProbeInterval,
		CommandTimeout: domain.DefaultCommandTimeout,
		LogLevel:       "info",
		Hosts:          map[string]string{},
		UI: UI{
			Marker:             domain.DefaultTransitionMarker,
			Wait:               domain.DefaultTransitionWait,
			RequestTimeoutText: domain.DefaultRequestTimeoutText,
			ReloadButton:       domain.DefaultReloadButton,
		},
	}
}

// Load reads a YAML or JSON file over the defaults.
// A missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := decode(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(raw map[string]any, out *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			secondsToDurationHook,
		),
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// secondsToDurationHook reads bare numbers as seconds, e.g. `reboot_timeout: 600`.
func secondsToDurationHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	switch v := data.(type) {
	case int:
		return time.Duration(v) * time.Second, nil
	case int64:
		return time.Duration(v) * time.Second, nil
	case uint64:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	}
	return data, nil
}

// Validate rejects non-positive timeouts.
func (c Config) Validate() error {
	var errs []error
	check := func(name string, d time.Duration) {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s: %w", name, d, domain.ErrInvalidPolicy))
		}
	}
	check("default_timeout", c.DefaultTimeout)
	check("reboot_timeout", c.RebootTimeout)
	check("probe_interval", c.ProbeInterval)
	check("command_timeout", c.CommandTimeout)
	check("ui.wait", c.UI.Wait)
	return errors.Join(errs...)
}

// Resolve maps a suite host name to its address, falling back to the name itself.
func (c Config) Resolve(host string) string {
	if addr, ok := c.Hosts[host]; ok && addr != "" {
		return addr
	}
	return host
}
