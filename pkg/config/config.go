// Package config loads the daemon configuration: a YAML file merged with
// COURIER_* environment overrides, with command-line flags taking the
// final word. A .env file is honored when present so local runs need no
// exported environment.
package config

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"courier/pkg/keys"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
		Port    int    `yaml:"port"`
		TLS     struct {
			CertFile string `yaml:"cert_file"`
			KeyFile  string `yaml:"key_file"`
		} `yaml:"tls"`
	} `yaml:"server"`
	Storage struct {
		DBPath string `yaml:"db_path"`
		// CheckpointCron is a cron expression; empty disables checkpoints.
		CheckpointCron string `yaml:"checkpoint_cron"`
	} `yaml:"storage"`
	Program struct {
		// ID is the base58 program address that owns every record.
		ID string `yaml:"id"`
		// Vault is the base58 address receiving the protocol fee cut.
		Vault string `yaml:"vault"`
		// FeePct overrides the protocol percentage when > 0.
		FeePct uint64 `yaml:"fee_pct"`
	} `yaml:"program"`
	Security struct {
		APIKeys struct {
			Backend     []string `yaml:"backend"`
			AllowUnauth bool     `yaml:"allow_unauth"`
		} `yaml:"api_keys"`
		RateLimit struct {
			RPS   float64 `yaml:"rps"`
			Burst int     `yaml:"burst"`
		} `yaml:"rate_limit"`
		CORS struct {
			AllowedOrigins []string `yaml:"allowed_origins"`
		} `yaml:"cors"`
	} `yaml:"security"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Addr returns host:port for the HTTP server.
func (c *Config) Addr() string {
	addr := c.Server.Address
	if addr == "" {
		addr = "0.0.0.0"
	}
	p := c.Server.Port
	if p == 0 {
		p = 8080
	}
	return fmt.Sprintf("%s:%d", addr, p)
}

// ProgramID parses the configured program address.
func (c *Config) ProgramID() (keys.Pubkey, error) {
	if c.Program.ID == "" {
		return keys.Zero, fmt.Errorf("program.id is required")
	}
	return keys.Parse(c.Program.ID)
}

// VaultKey parses the configured protocol vault address.
func (c *Config) VaultKey() (keys.Pubkey, error) {
	if c.Program.Vault == "" {
		return keys.Zero, fmt.Errorf("program.vault is required")
	}
	return keys.Parse(c.Program.Vault)
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseCommandFlags defines and parses the daemon's command-line flags and
// reports which were explicitly set.
func ParseCommandFlags() (addr, dbPath, cfgPath string, setFlags map[string]bool) {
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	dbPtr := flag.String("db", "./.courierdb", "Pebble DB path")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	setFlags = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	return *addrPtr, *dbPtr, *cfgPtr, setFlags
}

// LoadEnvOverrides applies COURIER_* environment overrides onto cfg and
// reports whether any were present.
func LoadEnvOverrides(cfg *Config) bool {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	envUsed := false
	parseList := func(v string) []string {
		if v == "" {
			return nil
		}
		var parts []string
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				parts = append(parts, s)
			}
		}
		return parts
	}

	if v := os.Getenv("COURIER_ADDR"); v != "" {
		envUsed = true
		if h, p, err := net.SplitHostPort(v); err == nil {
			cfg.Server.Address = h
			if pi, err := strconv.Atoi(p); err == nil {
				cfg.Server.Port = pi
			}
		} else {
			cfg.Server.Address = v
		}
	}
	if v := os.Getenv("COURIER_DB_PATH"); v != "" {
		envUsed = true
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("COURIER_CHECKPOINT_CRON"); v != "" {
		envUsed = true
		cfg.Storage.CheckpointCron = v
	}
	if v := os.Getenv("COURIER_PROGRAM_ID"); v != "" {
		envUsed = true
		cfg.Program.ID = v
	}
	if v := os.Getenv("COURIER_VAULT"); v != "" {
		envUsed = true
		cfg.Program.Vault = v
	}
	if v := os.Getenv("COURIER_FEE_PCT"); v != "" {
		if n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64); err == nil {
			envUsed = true
			cfg.Program.FeePct = n
		}
	}
	if v := os.Getenv("COURIER_API_KEYS"); v != "" {
		envUsed = true
		cfg.Security.APIKeys.Backend = parseList(v)
	}
	if v := os.Getenv("COURIER_API_ALLOW_UNAUTH"); v != "" {
		envUsed = true
		vl := strings.ToLower(strings.TrimSpace(v))
		cfg.Security.APIKeys.AllowUnauth = vl == "1" || vl == "true" || vl == "yes"
	}
	if v := os.Getenv("COURIER_RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			envUsed = true
			cfg.Security.RateLimit.RPS = f
		}
	}
	if v := os.Getenv("COURIER_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Security.RateLimit.Burst = n
		}
	}
	if v := os.Getenv("COURIER_CORS_ORIGINS"); v != "" {
		envUsed = true
		cfg.Security.CORS.AllowedOrigins = parseList(v)
	}
	if v := os.Getenv("COURIER_LOG_LEVEL"); v != "" {
		envUsed = true
		cfg.Logging.Level = v
	}
	if c := os.Getenv("COURIER_TLS_CERT"); c != "" {
		envUsed = true
		cfg.Server.TLS.CertFile = c
	}
	if k := os.Getenv("COURIER_TLS_KEY"); k != "" {
		envUsed = true
		cfg.Server.TLS.KeyFile = k
	}
	return envUsed
}

// LoadEffective loads config from path and applies environment overrides.
// A missing file yields an empty config so env-only deployments work.
func LoadEffective(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if err != nil {
		cfg = &Config{}
	}
	envUsed := LoadEnvOverrides(cfg)
	return cfg, envUsed, nil
}

// ResolveConfigPath decides the config file path using the flag value and
// the COURIER_CONFIG variable when the flag was not set.
func ResolveConfigPath(flagPath string, flagSet bool) string {
	if flagSet {
		return flagPath
	}
	if p := os.Getenv("COURIER_CONFIG"); p != "" {
		return p
	}
	return flagPath
}

var (
	runtimeMu   sync.RWMutex
	runtimeKeys map[string]struct{}
)

// SetAPIKeys installs the accepted API key set for the running server.
func SetAPIKeys(keysList []string) {
	m := make(map[string]struct{}, len(keysList))
	for _, k := range keysList {
		m[k] = struct{}{}
	}
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	runtimeKeys = m
}

// APIKeys returns a copy of the accepted API key set.
func APIKeys() map[string]struct{} {
	runtimeMu.RLock()
	defer runtimeMu.RUnlock()
	out := make(map[string]struct{}, len(runtimeKeys))
	for k := range runtimeKeys {
		out[k] = struct{}{}
	}
	return out
}
