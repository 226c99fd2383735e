package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"branchsync/pkg/cache"
	"branchsync/pkg/github"
	"branchsync/pkg/logging"
)

const (
	configName        = "branchsync"
	configType        = "yaml"
	environmentPrefix = "BRANCHSYNC"
)

// Config represents the branchsync tool configuration
type Config struct {
	SettingsFile string       `mapstructure:"settings_file"`
	GitHub       GitHubConfig `mapstructure:"github"`
	Log          LogConfig    `mapstructure:"log"`
}

// GitHubConfig represents GitHub API settings
type GitHubConfig struct {
	APIURL string `mapstructure:"api_url"`
}

// LogConfig represents logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Defaults returns the values used when neither a file nor the environment sets a key
func Defaults() map[string]any {
	return map[string]any{
		"settings_file":  cache.DefaultFileName,
		"github.api_url": github.DefaultBaseURL,
		"log.level":      string(logging.LevelWarn),
		"log.format":     string(logging.FormatConsole),
	}
}

// LoadConfigFromPath loads configuration from a specific file, falling back
// to the default search paths when path is empty. Environment variables
// prefixed with BRANCHSYNC_ override file values.
func LoadConfigFromPath(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(environmentPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	configFile := findConfigFile()
	if path != "" {
		configFile = path
		v.SetConfigType(configType)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	return filepath.Join(xdg.ConfigHome, configName, configName+"."+configType)
}

func searchPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, configName),
		".",
	}
}

// findConfigFile returns the first branchsync.yaml or branchsync.yml found on
// the search paths. Names without an extension are never considered, so the
// branchsync binary sitting in the working directory is not read as config.
func findConfigFile() string {
	for _, dir := range searchPaths() {
		for _, ext := range []string{"yaml", "yml"} {
			candidate := filepath.Join(dir, configName+"."+ext)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
	}
	return ""
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SettingsFile) == "" {
		return fmt.Errorf("settings file path is required")
	}

	u, err := url.Parse(c.GitHub.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("GitHub API URL %q must be an absolute URL", c.GitHub.APIURL)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return err
	}

	return nil
}
