package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "SALESDESK"

// parseEnv overlays cfg with SALESDESK_* variables. Only variables that
// are set are applied.
func parseEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{"base_url", "state_path", "request_timeout", "log_level", "log_backend", "clear_workspace_on_logout"} {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if v.IsSet("base_url") {
		cfg.BaseURL = v.GetString("base_url")
	}
	if v.IsSet("state_path") {
		cfg.StatePath = v.GetString("state_path")
	}
	if v.IsSet("request_timeout") {
		d, err := time.ParseDuration(v.GetString("request_timeout"))
		if err != nil {
			return fmt.Errorf("%s_REQUEST_TIMEOUT: %w", envPrefix, err)
		}
		cfg.RequestTimeout = d
	}
	if v.IsSet("log_level") {
		cfg.LogLevel = v.GetString("log_level")
	}
	if v.IsSet("log_backend") {
		cfg.LogBackend = v.GetString("log_backend")
	}
	if v.IsSet("clear_workspace_on_logout") {
		b, err := strconv.ParseBool(v.GetString("clear_workspace_on_logout"))
		if err != nil {
			return fmt.Errorf("%s_CLEAR_WORKSPACE_ON_LOGOUT: %w", envPrefix, err)
		}
		cfg.ClearWorkspaceOnLogout = b
	}
	return nil
}
