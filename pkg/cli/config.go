package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/modkeeper/modkeeper/pkg/config"
)

// Config holds the command-line flags shared by all commands
type Config struct {
	ConfigFile   string
	DataDir      string
	ConfigDir    string
	Verbosity    string
	Repositories []string
	Sandboxed    bool
	Version      string
}

// NewConfig creates a new CLI configuration with defaults
func NewConfig() *Config {
	return &Config{
		Verbosity: "info",
	}
}

// overrides maps configuration keys to their flag and environment variable
var overrides = []struct {
	key  string
	flag string
	env  string
}{
	{"dataDir", "data-dir", "MODKEEPER_DATA_DIR"},
	{"configDir", "config-dir", "MODKEEPER_CONFIG_DIR"},
	{"logLevel", "verbosity", "MODKEEPER_LOG_LEVEL"},
	{"sandboxed", "sandboxed", "MODKEEPER_SANDBOXED"},
	{"repositories", "repo", "MODKEEPER_REPOSITORIES"},
	{"appVersion", "", "MODKEEPER_APP_VERSION"},
	{"logFile", "", "MODKEEPER_LOG_FILE"},
}

// bindOverrides registers flags and environment variables with v
func bindOverrides(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, o := range overrides {
		if o.flag != "" {
			if f := flags.Lookup(o.flag); f != nil {
				if err := v.BindPFlag(o.key, f); err != nil {
					return fmt.Errorf("failed to bind flag %s: %w", o.flag, err)
				}
			}
		}
		if err := v.BindEnv(o.key, o.env); err != nil {
			return fmt.Errorf("failed to bind %s: %w", o.env, err)
		}
	}
	return nil
}

// resolveConfig loads the configuration file, then applies flags and
// environment variables on top. Without a file the defaults are used.
func resolveConfig(v *viper.Viper, cfg *Config) (*config.Config, string, error) {
	manager := config.NewManager()

	path := cfg.ConfigFile
	if path == "" {
		path = findConfigFile(manager)
	}

	var loaded *config.Config
	if path != "" {
		c, err := manager.LoadConfig(path)
		if err != nil {
			return nil, path, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		loaded = c
	} else {
		loaded = manager.GetDefaultConfig()
	}

	if v.IsSet("dataDir") {
		loaded.DataDir = v.GetString("dataDir")
	}
	if v.IsSet("configDir") {
		loaded.ConfigDir = v.GetString("configDir")
	}
	if v.IsSet("logLevel") {
		loaded.LogLevel = v.GetString("logLevel")
	}
	if v.IsSet("sandboxed") {
		loaded.Sandboxed = v.GetBool("sandboxed")
	}
	if v.IsSet("appVersion") {
		loaded.AppVersion = v.GetString("appVersion")
	}
	if v.IsSet("logFile") {
		loaded.LogFile = v.GetString("logFile")
	}
	if v.IsSet("repositories") {
		loaded.Repositories = append(loaded.Repositories, splitList(v.GetStringSlice("repositories"))...)
	}

	if err := manager.ValidateConfig(loaded); err != nil {
		return nil, path, err
	}
	return loaded, path, nil
}

func findConfigFile(manager *config.Manager) string {
	if wd, err := os.Getwd(); err == nil {
		if path, ok := manager.FindConfigFile(wd); ok {
			return path
		}
	}
	if path, ok := manager.FindConfigFile(manager.GetDefaultConfig().ConfigDir); ok {
		return path
	}
	return ""
}

// splitList accepts both repeated flags and comma or path-list separated
// environment values
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.FieldsFunc(value, func(r rune) bool {
			return r == ',' || r == os.PathListSeparator
		}) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
