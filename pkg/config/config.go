// Package config loads censusacs settings from a TOML file and resolves the
// Census API key.
//
// The file lives at $XDG_CONFIG_HOME/censusacs/config.toml (falling back to
// ~/.config/censusacs/config.toml). Every field is optional:
//
//	api_key             = "..."
//	base_url            = "https://api.census.gov/data"
//	max_retries         = 3
//	base_delay          = "1.5s"
//	connect_timeout     = "60s"
//	read_timeout        = "180s"
//	requests_per_second = 0   # 0 disables client-side rate limiting
//	burst               = 1
//
// The CENSUS_API_KEY environment variable takes precedence over api_key and
// is read each time a query runs, not when the file is loaded.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/censusacs/pkg/census"
	errs "github.com/matzehuels/censusacs/pkg/errors"
)

// AppName names the config directory.
const AppName = "censusacs"

// Duration is a time.Duration that decodes from a Go duration string.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds client settings.
type Config struct {
	APIKey            string   `toml:"api_key"`
	BaseURL           string   `toml:"base_url" validate:"required,http_url"`
	MaxRetries        int      `toml:"max_retries" validate:"gte=1,lte=10"`
	BaseDelay         Duration `toml:"base_delay"`
	ConnectTimeout    Duration `toml:"connect_timeout"`
	ReadTimeout       Duration `toml:"read_timeout"`
	RequestsPerSecond float64  `toml:"requests_per_second" validate:"gte=0"`
	Burst             int      `toml:"burst" validate:"gte=0"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		BaseURL:        census.DefaultBaseURL,
		MaxRetries:     census.DefaultMaxRetries,
		BaseDelay:      Duration{census.DefaultBaseDelay},
		ConnectTimeout: Duration{census.DefaultConnectTimeout},
		ReadTimeout:    Duration{census.DefaultReadTimeout},
		Burst:          1,
	}
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/censusacs/config.toml).
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Load reads the config file at path on top of [Default]. An empty path
// means [DefaultPath]; a missing default file is not an error, a missing
// explicit one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, cfg)
	switch {
	case err == nil:
		cfg.Path = path
	case !explicit && errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	default:
		return nil, errs.Wrap(errs.ErrCodeConfiguration, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeConfiguration, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges. Durations must not be negative.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errs.New(errs.ErrCodeConfiguration, "invalid %s: failed %q check (got %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return errs.Wrap(errs.ErrCodeConfiguration, err, "invalid config")
	}
	for name, d := range map[string]Duration{
		"base_delay":      c.BaseDelay,
		"connect_timeout": c.ConnectTimeout,
		"read_timeout":    c.ReadTimeout,
	} {
		if d.Duration < 0 {
			return errs.New(errs.ErrCodeConfiguration, "invalid %s: %s is negative", name, d)
		}
	}
	return nil
}

// KeyFunc resolves the API key at call time: the environment variable
// first, then the file's api_key.
func (c *Config) KeyFunc() census.KeyFunc {
	fileKey := c.APIKey
	return func() (string, error) {
		if key := strings.TrimSpace(os.Getenv(census.KeyEnv)); key != "" {
			return key, nil
		}
		if key := strings.TrimSpace(fileKey); key != "" {
			return key, nil
		}
		return "", fmt.Errorf("%s is not set and no api_key is configured", census.KeyEnv)
	}
}

// ClientConfig converts c to a census client configuration.
func (c *Config) ClientConfig(logger *log.Logger) census.ClientConfig {
	return census.ClientConfig{
		BaseURL:           c.BaseURL,
		Key:               c.KeyFunc(),
		MaxRetries:        c.MaxRetries,
		BaseDelay:         c.BaseDelay.Duration,
		ConnectTimeout:    c.ConnectTimeout.Duration,
		ReadTimeout:       c.ReadTimeout.Duration,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.Burst,
		Logger:            logger,
	}
}

// Redacted returns a copy of c safe to print.
func (c *Config) Redacted() Config {
	out := *c
	if out.APIKey != "" {
		out.APIKey = "REDACTED"
	}
	return out
}
