package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Token         string `toml:"token"`
	Dataset       string `toml:"dataset"`
	Format        string `toml:"format"`
	Header        string `toml:"header"`
	Encoding      string `toml:"encoding"`
	ServiceURL    string `toml:"service_url"`
	FlushInterval string `toml:"flush_interval"`
	HTTPTimeout   string `toml:"http_timeout"`
	UseRemoteTime *bool  `toml:"use_remote_time"`
	Follow        *bool  `toml:"follow"`
	MetricsAddr   string `toml:"metrics_addr"`
	LogLevel      string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.axship/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".axship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("token", fc.Token, &cfg.Token)
	s.setString("dataset", fc.Dataset, &cfg.Dataset)
	s.setString("format", fc.Format, &cfg.Format)
	s.setString("header", fc.Header, &cfg.Header)
	s.setString("encoding", fc.Encoding, &cfg.Encoding)
	s.setString("service-url", fc.ServiceURL, &cfg.ServiceURL)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("flush-interval", fc.FlushInterval, &cfg.FlushInterval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setBool("use-remote-time", fc.UseRemoteTime, &cfg.UseRemoteTime)
	s.setBool("follow", fc.Follow, &cfg.Follow)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
