package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/salesdesk/internal/flagx"
	"github.com/dmitrijs2005/salesdesk/internal/timex"
)

// JSONConfig is the on-disk shape of the config file. Absent keys leave
// the current value alone.
type JSONConfig struct {
	BaseURL                *string         `json:"base_url"`
	StatePath              *string         `json:"state_path"`
	RequestTimeout         *timex.Duration `json:"request_timeout"`
	LogLevel               *string         `json:"log_level"`
	LogBackend             *string         `json:"log_backend"`
	ClearWorkspaceOnLogout *bool           `json:"clear_workspace_on_logout"`
}

// parseJSON overlays cfg with the file named by -c / -config, if any.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if jc.BaseURL != nil {
		cfg.BaseURL = *jc.BaseURL
	}
	if jc.StatePath != nil {
		cfg.StatePath = *jc.StatePath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogBackend != nil {
		cfg.LogBackend = *jc.LogBackend
	}
	if jc.ClearWorkspaceOnLogout != nil {
		cfg.ClearWorkspaceOnLogout = *jc.ClearWorkspaceOnLogout
	}
	return nil
}
