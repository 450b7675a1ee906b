package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (AXSHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("token", os.Getenv("AXSHIP_TOKEN"), &cfg.Token)
	s.setString("dataset", os.Getenv("AXSHIP_DATASET"), &cfg.Dataset)
	s.setString("format", os.Getenv("AXSHIP_FORMAT"), &cfg.Format)
	s.setString("header", os.Getenv("AXSHIP_HEADER"), &cfg.Header)
	s.setString("encoding", os.Getenv("AXSHIP_ENCODING"), &cfg.Encoding)
	s.setString("service-url", os.Getenv("AXSHIP_SERVICE_URL"), &cfg.ServiceURL)
	s.setString("metrics-addr", os.Getenv("AXSHIP_METRICS_ADDR"), &cfg.MetricsAddr)
	s.setString("log-level", os.Getenv("AXSHIP_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("flush-interval", os.Getenv("AXSHIP_FLUSH_INTERVAL"), &cfg.FlushInterval); err != nil {
		return err
	}
	if err := s.setDuration("timeout", os.Getenv("AXSHIP_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setBoolFromString("use-remote-time", os.Getenv("AXSHIP_USE_REMOTE_TIME"), &cfg.UseRemoteTime)
	s.setBoolFromString("follow", os.Getenv("AXSHIP_FOLLOW"), &cfg.Follow)

	return nil
}
