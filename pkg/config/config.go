// Package config handles configuration loading and management
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAppName names the application directory and the config file
const DefaultAppName = "modkeeper"

// ConfigFileNames are searched in order by FindConfigFile
var ConfigFileNames = []string{"modkeeper.yaml", "modkeeper.yml", "modkeeper.json"}

// NotificationConfig controls desktop notifications
type NotificationConfig struct {
	Enabled      *bool  `json:"enabled,omitempty"`
	SuccessSound string `json:"successSound,omitempty"`
	FailureSound string `json:"failureSound,omitempty"`
}

// Config is the modkeeper configuration
type Config struct {
	// AppName is the application directory name guarding removals
	AppName string `json:"appName"`
	// DataDir holds the packages directory; its base name must be AppName
	// unless Sandboxed is set
	DataDir string `json:"dataDir"`
	// PackagesDir is the name of the packages folder inside DataDir
	PackagesDir string `json:"packagesDir"`
	// SystemDirs are read-only package directories
	SystemDirs []string `json:"systemDirs,omitempty"`
	// ConfigDir holds modSettings.json
	ConfigDir string `json:"configDir"`
	Sandboxed bool   `json:"sandboxed,omitempty"`
	// AppVersion is matched against package compatibility windows
	AppVersion string `json:"appVersion,omitempty"`

	// PollInterval is the extraction poll period in milliseconds
	PollInterval     int `json:"pollInterval"`
	MessageQueueSize int `json:"messageQueueSize"`
	SizeWorkers      int `json:"sizeWorkers"`
	// WatchSettle is the watcher debounce in milliseconds
	WatchSettle int `json:"watchSettle"`

	Repositories  []string            `json:"repositories,omitempty"`
	Notifications *NotificationConfig `json:"notifications,omitempty"`

	LogLevel string `json:"logLevel"`
	LogFile  string `json:"logFile,omitempty"`
}

// PackagesPath returns the absolute location of the packages directory
func (c *Config) PackagesPath() string {
	return filepath.Join(c.DataDir, c.PackagesDir)
}

// PollDuration returns PollInterval as a duration
func (c *Config) PollDuration() time.Duration {
	return time.Duration(c.PollInterval) * time.Millisecond
}

// WatchSettleDuration returns WatchSettle as a duration
func (c *Config) WatchSettleDuration() time.Duration {
	return time.Duration(c.WatchSettle) * time.Millisecond
}

// NotificationsEnabled reports whether desktop notifications are on
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications != nil && c.Notifications.Enabled != nil && *c.Notifications.Enabled
}

// Manager handles configuration operations
type Manager struct{}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{}
}

// LoadConfig loads configuration from a file. Missing fields take their
// default values.
func (m *Manager) LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := m.GetDefaultConfig()

	// Try JSON first
	if err := json.Unmarshal(data, cfg); err == nil {
		return m.validateConfig(cfg)
	}

	// YAML is converted to JSON so both formats share one set of tags
	var yamlData map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlData); err == nil {
		jsonData, err := json.Marshal(yamlData)
		if err == nil {
			cfg = m.GetDefaultConfig()
			if err := json.Unmarshal(jsonData, cfg); err == nil {
				return m.validateConfig(cfg)
			}
		}
	}

	return nil, fmt.Errorf("failed to parse config as JSON or YAML")
}

// FindConfigFile returns the first known config file in dir
func (m *Manager) FindConfigFile(dir string) (string, bool) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// ValidateConfig validates a configuration
func (m *Manager) ValidateConfig(config *Config) error {
	if config.AppName == "" {
		return fmt.Errorf("appName must not be empty")
	}
	if config.DataDir == "" {
		return fmt.Errorf("dataDir must not be empty")
	}
	if config.ConfigDir == "" {
		return fmt.Errorf("configDir must not be empty")
	}
	if config.PackagesDir == "" || strings.ContainsAny(config.PackagesDir, `/\`) {
		return fmt.Errorf("packagesDir must be a plain directory name, got %q", config.PackagesDir)
	}

	// Removals are only allowed below <AppName>/<PackagesDir>
	if !config.Sandboxed && !strings.EqualFold(filepath.Base(filepath.Clean(config.DataDir)), config.AppName) {
		return fmt.Errorf("dataDir %s must be named after the application (%s) unless sandboxed", config.DataDir, config.AppName)
	}

	if config.PollInterval <= 0 {
		return fmt.Errorf("pollInterval must be positive")
	}
	if config.MessageQueueSize < 0 {
		return fmt.Errorf("messageQueueSize must not be negative")
	}
	if config.SizeWorkers < 0 {
		return fmt.Errorf("sizeWorkers must not be negative")
	}
	if config.WatchSettle < 0 {
		return fmt.Errorf("watchSettle must not be negative")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(config.LogLevel)] {
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}

	return nil
}

// GetDefaultConfig returns the default configuration for the current user
func (m *Manager) GetDefaultConfig() *Config {
	enabled := true

	return &Config{
		AppName:          DefaultAppName,
		DataDir:          filepath.Join(defaultDataHome(), DefaultAppName),
		PackagesDir:      "Mods",
		ConfigDir:        filepath.Join(defaultConfigHome(), DefaultAppName),
		PollInterval:     50,
		MessageQueueSize: 64,
		SizeWorkers:      runtime.NumCPU(),
		WatchSettle:      500,
		Notifications: &NotificationConfig{
			Enabled: &enabled,
		},
		LogLevel: "info",
	}
}

// Private methods

func (m *Manager) validateConfig(cfg *Config) (*Config, error) {
	if err := m.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultDataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support")
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return dir
		}
		return filepath.Join(home, "AppData", "Local")
	default:
		return filepath.Join(home, ".local", "share")
	}
}

func defaultConfigHome() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return os.TempDir()
	}
	return dir
}
