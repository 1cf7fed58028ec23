package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIURL      = "RESUME_API_URL"
	EnvPort        = "PORT"
	EnvMaxFileSize = "RESUME_MAX_FILE_SIZE"
	EnvResetDelay  = "RESUME_RESET_DELAY_MS"
	EnvSessionTTL  = "RESUME_SESSION_TTL_MINUTES"
)

// ApplyEnv overrides fields with values from the environment.
// Unset or empty variables leave the field as it is.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}

	if err := envInt(EnvPort, &c.Port); err != nil {
		return err
	}
	if err := envInt(EnvResetDelay, &c.ResetDelayMS); err != nil {
		return err
	}
	if err := envInt(EnvSessionTTL, &c.SessionTTLMinutes); err != nil {
		return err
	}

	if v := os.Getenv(EnvMaxFileSize); v != "" {
		size, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %v", EnvMaxFileSize, err)
		}
		c.MaxFileSize = size
	}
	return nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %v", name, err)
	}
	*dst = n
	return nil
}
