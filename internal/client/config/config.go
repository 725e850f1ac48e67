package config

import (
	"os"
	"time"

	"github.com/ktech-edu/ktechhub/internal/common"
)

// Config holds runtime settings for the KTech Hub client.
//
// Fields:
//   - APIBaseURL: root of the student-services API; the login endpoint is
//     APIBaseURL + "/auth/login".
//   - RequestTimeout: upper bound for one API request.
//   - DataDir: directory for the local store and the log file.
//   - StoreBackend: key-value backend: sqlite, bolt, file, redis or memory.
//   - StoreDSN: backend location. A file name (relative to DataDir) for the
//     file-based backends, a redis:// URL for redis. Empty selects the
//     backend default.
//   - LogFile: log destination (relative to DataDir). Empty selects
//     "ktechhub.log".
//   - LogLevel: debug, info, warn or error.
//   - ChallengeAttempts: passcode tries per unlock prompt.
type Config struct {
	APIBaseURL        string
	RequestTimeout    time.Duration
	DataDir           string
	StoreBackend      string
	StoreDSN          string
	LogFile           string
	LogLevel          string
	ChallengeAttempts int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = common.DefaultAPIBaseURL
	c.RequestTimeout = 15 * time.Second
	c.DataDir = ".ktechhub"
	c.StoreBackend = "sqlite"
	c.StoreDSN = ""
	c.LogFile = ""
	c.LogLevel = "info"
	c.ChallengeAttempts = 3
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if one is named with -c/-config) and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
