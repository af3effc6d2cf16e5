package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type ServerConfig struct {
	URL string `toml:"url"`
}

type DefaultsConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	Style    string `toml:"style"`
}

type ArenaConfig struct {
	Models []string `toml:"models"`
}

type SecurityConfig struct {
	Method     string `toml:"method"` // "plaintext" or "ssh_key"
	SSHKeyPath string `toml:"ssh_key_path,omitempty"`
}

type UserConfig struct {
	Server   ServerConfig   `toml:"server"`
	Defaults DefaultsConfig `toml:"defaults"`
	Arena    ArenaConfig    `toml:"arena"`
	Security SecurityConfig `toml:"security"`
}

type Config struct {
	DataDirectory   string
	ServerURL       string
	DefaultProvider string
	DefaultModel    string
	DefaultStyle    string
	ArenaModels     []string
	Security        SecurityMethod
	SSHKeyPath      string
}

var Debug = false
var DebugLog *log.Logger

// Logf writes to the debug log when SCTUI_DEBUG is active; otherwise a no-op.
func Logf(format string, args ...any) {
	if DebugLog != nil {
		DebugLog.Printf(format, args...)
	}
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("SCTUI_SERVER_URL"); url != "" {
		c.ServerURL = url
	}
	if model := os.Getenv("SCTUI_MODEL"); model != "" {
		c.DefaultModel = model
	}
	if dataDir := os.Getenv("SCTUI_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func CheckDebug() bool {
	debug := os.Getenv("SCTUI_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - may contain request details
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (SCTUI_DEBUG=%s) ===", os.Getenv("SCTUI_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Load reads the system config (data directory location), then the user
// config inside the data directory, applies SCTUI_* env overrides on top,
// and ensures the data directory exists with user-only permissions.
func Load() (*Config, error) {
	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}

	cfg := &Config{DataDirectory: systemCfg.DataDirectory}
	if dataDir := os.Getenv("SCTUI_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.ServerURL = userCfg.Server.URL
	cfg.DefaultProvider = userCfg.Defaults.Provider
	cfg.DefaultModel = userCfg.Defaults.Model
	cfg.DefaultStyle = userCfg.Defaults.Style
	cfg.ArenaModels = userCfg.Arena.Models
	cfg.Security = SecurityMethod(userCfg.Security.Method)
	cfg.SSHKeyPath = ExpandPath(userCfg.Security.SSHKeyPath)

	cfg.applyEnvOverrides()

	if cfg.Security == "" {
		cfg.Security = SecurityPlainText
	}
	if !strings.HasPrefix(cfg.ServerURL, "http://") && !strings.HasPrefix(cfg.ServerURL, "https://") {
		return nil, fmt.Errorf("server url %q must start with http:// or https://", cfg.ServerURL)
	}

	return cfg, nil
}
