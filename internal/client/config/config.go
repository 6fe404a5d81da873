package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds runtime settings for the campus client.
type Config struct {
	// APIURL overrides the base URL derived from Platform, LANHost and APIPort.
	APIURL   string `env:"CAMPUS_API_URL" validate:"omitempty,url"`
	Platform string `env:"CAMPUS_PLATFORM" validate:"required,oneof=android-emulator ios-simulator device web"`
	LANHost  string `env:"CAMPUS_LAN_HOST" validate:"required_if=Platform device,omitempty,hostname_rfc1123|ip"`
	APIPort  int    `env:"CAMPUS_API_PORT" validate:"min=1,max=65535"`

	RequestTimeout time.Duration `env:"CAMPUS_REQUEST_TIMEOUT" validate:"gt=0"`

	StorePath       string `env:"CAMPUS_STORE_PATH" validate:"required"`
	StorePassphrase string `env:"CAMPUS_STORE_PASSPHRASE"`

	OnlineCheckInterval time.Duration `env:"CAMPUS_ONLINE_CHECK_INTERVAL" validate:"gt=0"`

	LogLevel  string `env:"CAMPUS_LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat string `env:"CAMPUS_LOG_FORMAT" validate:"oneof=text json"`

	// ExpireOnUnauthorized signs the user out when the backend rejects the
	// stored credential.
	ExpireOnUnauthorized bool `env:"CAMPUS_EXPIRE_ON_UNAUTHORIZED"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = ""
	c.Platform = "web"
	c.LANHost = ""
	c.APIPort = 8080
	c.RequestTimeout = 10 * time.Second
	c.StorePath = defaultStorePath()
	c.StorePassphrase = ""
	c.OnlineCheckInterval = 5 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.ExpireOnUnauthorized = false
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "campus.db"
	}
	return filepath.Join(dir, "campus", "store.db")
}

// LoadConfig builds a Config from os.Args and the environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load applies defaults, .env, JSON, environment and flags in that order, then
// validates the result. args excludes the program name.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
