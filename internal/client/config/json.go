package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Duration accepts either a time.ParseDuration string or integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		d.Duration = v
		return nil
	}

	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %s: %w", b, err)
	}
	d.Duration = time.Duration(n)
	return nil
}

// JsonConfig is the on-disk shape. Pointer fields tell absent keys apart from
// zero values.
type JsonConfig struct {
	APIURL               *string   `json:"api_url"`
	Platform             *string   `json:"platform"`
	LANHost              *string   `json:"lan_host"`
	APIPort              *int      `json:"api_port"`
	RequestTimeout       *Duration `json:"request_timeout"`
	StorePath            *string   `json:"store_path"`
	StorePassphrase      *string   `json:"store_passphrase"`
	OnlineCheckInterval  *Duration `json:"online_check_interval"`
	LogLevel             *string   `json:"log_level"`
	LogFormat            *string   `json:"log_format"`
	ExpireOnUnauthorized *bool     `json:"expire_on_unauthorized"`
}

// parseJson overlays cfg with the file named by -c/-config. Without the flag
// it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := configPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setIf(&cfg.APIURL, jc.APIURL)
	setIf(&cfg.Platform, jc.Platform)
	setIf(&cfg.LANHost, jc.LANHost)
	setIf(&cfg.APIPort, jc.APIPort)
	setIf(&cfg.StorePath, jc.StorePath)
	setIf(&cfg.StorePassphrase, jc.StorePassphrase)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.LogFormat, jc.LogFormat)
	setIf(&cfg.ExpireOnUnauthorized, jc.ExpireOnUnauthorized)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
