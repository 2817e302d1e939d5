// Package config provides configuration management for CodeWeaver.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultConfigDir  = ".config/codeweaver"
	DefaultConfigFile = "config.yaml"
	DefaultDataDir    = ".local/share/codeweaver"

	DefaultSafeChars = "abcdefghijklmnopqrstuvwxyz0123456789_-."
)

// Runtime limits.
const (
	MinRuntimeHours = 0.1
	MaxRuntimeHours = 24
)

// Sentinel errors for configuration operations.
var (
	ErrInvalidKey     = errors.New("invalid configuration key")
	ErrInvalidBackend = errors.New("invalid input backend")
	ErrNoEditor       = errors.New("$EDITOR environment variable not set")
)

// validBackends contains the allowed input backend names (unexported).
var validBackends = map[string]bool{
	"xdotool": true,
	"tmux":    true,
}

// validKeys is built once from Config struct reflection.
var validKeys = buildValidKeys()

// validate is the shared validator instance.
var validate = newValidator()

// Config represents the full CodeWeaver configuration.
type Config struct {
	Output  OutputConfig  `mapstructure:"output" yaml:"output" validate:"required"`
	Editor  EditorConfig  `mapstructure:"editor" yaml:"editor" validate:"required"`
	Input   InputConfig   `mapstructure:"input" yaml:"input" validate:"required"`
	Timing  TimingConfig  `mapstructure:"timing" yaml:"timing"`
	Run     RunConfig     `mapstructure:"run" yaml:"run"`
	Content ContentConfig `mapstructure:"content" yaml:"content"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage" validate:"required"`
}

// OutputConfig controls where and how generated files are named.
type OutputConfig struct {
	Dir               string   `mapstructure:"dir" yaml:"dir" validate:"required"`
	MaxFilenameLength int      `mapstructure:"max_filename_length" yaml:"max_filename_length" validate:"gt=0"`
	MaxPathLength     int      `mapstructure:"max_path_length" yaml:"max_path_length" validate:"gt=0"`
	Extensions        []string `mapstructure:"extensions" yaml:"extensions" validate:"min=1,dive,startswith=."`
	SafeChars         string   `mapstructure:"safe_chars" yaml:"safe_chars" validate:"required"`
	MaxAttempts       int      `mapstructure:"max_attempts" yaml:"max_attempts" validate:"gt=0"`
}

// EditorConfig describes the editor to launch.
type EditorConfig struct {
	Executable string         `mapstructure:"executable" yaml:"executable" validate:"required,safeexec"`
	Flags      map[string]any `mapstructure:"flags" yaml:"flags"`
}

// InputConfig selects and tunes the synthetic input backend.
type InputConfig struct {
	Backend      string        `mapstructure:"backend" yaml:"backend" validate:"oneof=xdotool tmux"`
	TypeInterval time.Duration `mapstructure:"type_interval" yaml:"type_interval" validate:"gte=0"`
	PathInterval time.Duration `mapstructure:"path_interval" yaml:"path_interval" validate:"gte=0"`
	TmuxTarget   string        `mapstructure:"tmux_target" yaml:"tmux_target"`
}

// TimingConfig holds the open-loop delays between UI actions.
type TimingConfig struct {
	Launch       time.Duration `mapstructure:"launch" yaml:"launch" validate:"gte=0"`
	NewFile      time.Duration `mapstructure:"new_file" yaml:"new_file" validate:"gte=0"`
	SaveDialog   time.Duration `mapstructure:"save_dialog" yaml:"save_dialog" validate:"gte=0"`
	LoopInterval time.Duration `mapstructure:"loop_interval" yaml:"loop_interval" validate:"gte=0"`
	RetryDelay   time.Duration `mapstructure:"retry_delay" yaml:"retry_delay" validate:"gte=0"`
	Pause        time.Duration `mapstructure:"pause" yaml:"pause" validate:"gte=0"`
}

// RunConfig bounds a bot run.
type RunConfig struct {
	Hours                  float64 `mapstructure:"hours" yaml:"hours" validate:"gt=0,lte=24"`
	MaxConsecutiveFailures int     `mapstructure:"max_consecutive_failures" yaml:"max_consecutive_failures" validate:"gt=0"`
}

// ContentConfig limits typed content.
type ContentConfig struct {
	MaxLength int    `mapstructure:"max_length" yaml:"max_length" validate:"gt=0"`
	Snippets  string `mapstructure:"snippets" yaml:"snippets"`
}

// StorageConfig holds storage location configuration.
type StorageConfig struct {
	History string `mapstructure:"history" yaml:"history" validate:"required"`
	Logs    string `mapstructure:"logs" yaml:"logs" validate:"required"`
}

// Validate checks the configuration for errors using struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config validation failed: %s fails %q: %w", fe.Namespace(), fe.Tag(), err)
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// RunDuration returns the configured run length clamped to the safe range.
func (c *Config) RunDuration() time.Duration {
	return SafeRuntime(c.Run.Hours)
}

// SafeRuntime clamps a requested number of hours to [MinRuntimeHours, MaxRuntimeHours].
func SafeRuntime(hours float64) time.Duration {
	hours = max(MinRuntimeHours, min(hours, MaxRuntimeHours))
	return time.Duration(hours * float64(time.Hour))
}

// Loader provides configuration loading and saving.
type Loader struct {
	v       *viper.Viper
	path    string
	homeDir string
}

// NewLoader creates a new configuration loader.
func NewLoader() (*Loader, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}

	configPath := filepath.Join(home, DefaultConfigDir, DefaultConfigFile)

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Environment variable binding
	v.SetEnvPrefix("CODEWEAVER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("editor.executable", "VSCODE_EXECUTABLE", "CODEWEAVER_EDITOR")
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("input.backend", "CODEWEAVER_BACKEND")
	//nolint:errcheck // BindEnv only fails with zero arguments
	v.BindEnv("output.dir", "CODEWEAVER_OUTPUT_DIR")

	l := &Loader{
		v:       v,
		path:    configPath,
		homeDir: home,
	}

	l.setDefaults()

	return l, nil
}

// setDefaults sets all default configuration values using Viper.
func (l *Loader) setDefaults() {
	l.v.SetDefault("output.dir", "~/codeweaver/generated_files")
	l.v.SetDefault("output.max_filename_length", 100)
	l.v.SetDefault("output.max_path_length", 260)
	l.v.SetDefault("output.extensions", []string{".py"})
	l.v.SetDefault("output.safe_chars", DefaultSafeChars)
	l.v.SetDefault("output.max_attempts", 9999)
	l.v.SetDefault("editor.executable", "code")
	l.v.SetDefault("editor.flags", map[string]any{"new-window": true})
	l.v.SetDefault("input.backend", "xdotool")
	l.v.SetDefault("input.type_interval", "30ms")
	l.v.SetDefault("input.path_interval", "50ms")
	l.v.SetDefault("input.tmux_target", "")
	l.v.SetDefault("timing.launch", "4s")
	l.v.SetDefault("timing.new_file", "1.5s")
	l.v.SetDefault("timing.save_dialog", "2.5s")
	l.v.SetDefault("timing.loop_interval", "8s")
	l.v.SetDefault("timing.retry_delay", "5s")
	l.v.SetDefault("timing.pause", "1s")
	l.v.SetDefault("run.hours", 1)
	l.v.SetDefault("run.max_consecutive_failures", 5)
	l.v.SetDefault("content.max_length", 10000)
	l.v.SetDefault("content.snippets", "")
	l.v.SetDefault("storage.history", "~/.local/share/codeweaver/history.json")
	l.v.SetDefault("storage.logs", "~/.local/share/codeweaver/logs")
}

// Load reads the configuration file, creating defaults if it doesn't exist.
func (l *Loader) Load() (*Config, error) {
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		if err := l.createDefault(); err != nil {
			return nil, fmt.Errorf("create default config: %w", err)
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Expand paths
	cfg.Output.Dir = l.expandPath(cfg.Output.Dir)
	cfg.Content.Snippets = l.expandPath(cfg.Content.Snippets)
	cfg.Storage.History = l.expandPath(cfg.Storage.History)
	cfg.Storage.Logs = l.expandPath(cfg.Storage.Logs)

	return &cfg, nil
}

// Path returns the configuration file path.
func (l *Loader) Path() string {
	return l.path
}

// Get returns a configuration value by dot-notation key.
func (l *Loader) Get(key string) (any, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	return l.v.Get(key), nil
}

// Set sets a configuration value by dot-notation key.
func (l *Loader) Set(key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	if key == "input.backend" && !validBackends[value] {
		return fmt.Errorf("%w: %s (valid: %s)", ErrInvalidBackend, value, strings.Join(ValidBackendNames(), ", "))
	}

	if key == "editor.executable" {
		if err := ValidateExecutable(value); err != nil {
			return err
		}
	}

	l.v.Set(key, value)
	return l.v.WriteConfig()
}

// createDefault writes the default configuration file using Viper.
func (l *Loader) createDefault() error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	return l.v.SafeWriteConfigAs(l.path)
}

// expandPath replaces ~ with the home directory.
func (l *Loader) expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(l.homeDir, path[2:])
	}
	if path == "~" {
		return l.homeDir
	}
	return path
}

// ValidateKey checks if a key is a valid configuration key.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	if validKeys[key] {
		return nil
	}

	// editor.flags.<name> addresses a single launch flag
	if strings.HasPrefix(key, "editor.flags.") && len(key) > len("editor.flags.") {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrInvalidKey, key)
}

// buildValidKeys builds the set of valid keys from Config struct using reflection.
func buildValidKeys() map[string]bool {
	keys := make(map[string]bool)
	addKeysFromType(reflect.TypeOf(Config{}), "", keys)
	return keys
}

// addKeysFromType recursively adds keys from a struct type.
func addKeysFromType(t reflect.Type, prefix string, keys map[string]bool) {
	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		keys[key] = true

		// Recurse into nested structs (but not maps)
		if field.Type.Kind() == reflect.Struct {
			addKeysFromType(field.Type, key, keys)
		}
	}
}

// IsValidBackend is a package-level helper for checking backend validity.
func IsValidBackend(name string) bool {
	return validBackends[name]
}

// ValidBackendNames returns the list of valid input backend names.
func ValidBackendNames() []string {
	return []string{"xdotool", "tmux"}
}
