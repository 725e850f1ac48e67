package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ktech-edu/ktechhub/internal/flagx"
	"github.com/ktech-edu/ktechhub/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the DTO decoded from a config file. Durations use
// timex.Duration so files can say "15s" as well as integer nanoseconds.
type FileConfig struct {
	APIBaseURL        string         `json:"api_base_url" yaml:"api_base_url"`
	RequestTimeout    timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	DataDir           string         `json:"data_dir" yaml:"data_dir"`
	StoreBackend      string         `json:"store_backend" yaml:"store_backend"`
	StoreDSN          string         `json:"store_dsn" yaml:"store_dsn"`
	LogFile           string         `json:"log_file" yaml:"log_file"`
	LogLevel          string         `json:"log_level" yaml:"log_level"`
	ChallengeAttempts int            `json:"challenge_attempts" yaml:"challenge_attempts"`
}

// parseFile overlays cfg with the file named by -c/-config in args. Files
// ending in .yaml or .yml are decoded as YAML, everything else as JSON. Only
// fields present in the file replace current values. Read and decode errors
// panic.
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	if fc.APIBaseURL != "" {
		cfg.APIBaseURL = fc.APIBaseURL
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.DataDir != "" {
		cfg.DataDir = fc.DataDir
	}
	if fc.StoreBackend != "" {
		cfg.StoreBackend = fc.StoreBackend
	}
	if fc.StoreDSN != "" {
		cfg.StoreDSN = fc.StoreDSN
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.ChallengeAttempts > 0 {
		cfg.ChallengeAttempts = fc.ChallengeAttempts
	}
}
