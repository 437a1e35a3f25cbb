package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/codex-labs/create-codex-app/internal/branding"
	"github.com/codex-labs/create-codex-app/internal/platform"
	"github.com/spf13/viper"
)

const (
	fileName   = "settings"
	fileType   = "yaml"
	recordName = "config.json"
)

// Setting keys.
const (
	KeyConfigFile    = "config_file"
	KeyLogLevel      = "log_level"
	KeyPromptRetries = "prompt_retries"
	KeySeedDefaults  = "seed_defaults"
	KeyTemplatesDir  = "templates_dir"
)

// ErrUnknownKey is returned by Set for keys outside Keys().
var ErrUnknownKey = errors.New("unknown setting")

var defaults = map[string]any{
	KeyConfigFile:    "",
	KeyLogLevel:      "warn",
	KeyPromptRetries: 3,
	KeySeedDefaults:  false,
	KeyTemplatesDir:  "",
}

// Keys returns the known setting keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dir returns the path to the tool directory (~/.codex/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the settings file (~/.codex/settings.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// RecordPath returns where saved answers are kept: the config_file setting,
// or ~/.codex/config.json.
func RecordPath() string {
	if p := viper.GetString(KeyConfigFile); p != "" {
		return p
	}
	return filepath.Join(Dir(), recordName)
}

// EnsureDir creates the tool directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := platform.MkdirPrivate(dir, 0700); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the settings file and environment.
func Load() {
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// Ignore error if the settings file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a setting by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// GetInt returns a setting as an int.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a setting as a bool.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// Set validates value for key, stores it, and saves the settings file.
func Set(key, value string) error {
	v, err := parse(key, value)
	if err != nil {
		return err
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, v)

	settingsFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(settingsFile); os.IsNotExist(err) {
		f, err := os.Create(settingsFile)
		if err != nil {
			return fmt.Errorf("creating settings file %s: %w", settingsFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(settingsFile); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}

	return nil
}

func parse(key, value string) (any, error) {
	def, ok := defaults[key]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownKey, key, Keys())
	}
	switch def.(type) {
	case int:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s must be a non-negative integer, got %q", key, value)
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be true or false, got %q", key, value)
		}
		return b, nil
	default:
		return value, nil
	}
}
