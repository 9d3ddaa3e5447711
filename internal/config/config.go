package config

import (
	"errors"
	"fmt"
	"time"

	"iliad-account/internal/scrapers/iliad"
	"iliad-account/lib/configutil"
)

// Domain prefixes every published state key.
const Domain = "iliad_account"

// DefaultScanInterval is how often the account page is polled.
const DefaultScanInterval = time.Second * 900

var ErrMissingField = errors.New("missing required field")

type SQLiteConfig struct {
	// Database is the path of the sqlite file, it may start with <dev_state>.
	// Empty disables the sqlite sink.
	Database string `json:"database"`
}

type HttpConfig struct {
	// Port of the state endpoint, 0 disables it.
	Port int `json:"port"`
}

type Config struct {
	Username     string              `json:"username"`
	Password     string              `json:"password"`
	ScanInterval configutil.Duration `json:"scan_interval"`
	Timeout      configutil.Duration `json:"timeout"`
	BaseUrl      string              `json:"base_url"`
	SQLite       SQLiteConfig        `json:"sqlite"`
	Http         HttpConfig          `json:"http"`
}

// Defaults are applied to every field the config files leave empty.
func Defaults() Config {
	return Config{
		ScanInterval: configutil.Duration(DefaultScanInterval),
		Timeout:      configutil.Duration(iliad.DefaultTimeout),
		BaseUrl:      iliad.DefaultBaseUrl,
	}
}

// Validate checks the required fields.
func (c Config) Validate() error {
	var errs []error
	if c.Username == "" {
		errs = append(errs, fmt.Errorf("username: %w", ErrMissingField))
	}
	if c.Password == "" {
		errs = append(errs, fmt.Errorf("password: %w", ErrMissingField))
	}
	if c.ScanInterval.Std() <= 0 {
		errs = append(errs, fmt.Errorf("scan_interval: must be positive, got %s", c.ScanInterval))
	}
	if c.Http.Port < 0 || c.Http.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port: %d is out of range", c.Http.Port))
	}
	return errors.Join(errs...)
}

// Read reads `path` (plus its .local override), applies defaults and validates the result.
func Read(path string) (Config, error) {
	cfg, err := configutil.ReadConfigWithDefaults(path, Defaults())
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	err = cfg.Validate()
	if err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
