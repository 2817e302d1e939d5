package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load_CreatesDefaultIfMissing(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	loader, err := NewLoader()
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)

	// Check defaults
	assert.Equal(t, filepath.Join(tmpHome, "codeweaver", "generated_files"), cfg.Output.Dir)
	assert.Equal(t, 100, cfg.Output.MaxFilenameLength)
	assert.Equal(t, 260, cfg.Output.MaxPathLength)
	assert.Equal(t, []string{".py"}, cfg.Output.Extensions)
	assert.Equal(t, 9999, cfg.Output.MaxAttempts)
	assert.Equal(t, "code", cfg.Editor.Executable)
	assert.Equal(t, true, cfg.Editor.Flags["new-window"])
	assert.Equal(t, "xdotool", cfg.Input.Backend)
	assert.Equal(t, 30*time.Millisecond, cfg.Input.TypeInterval)
	assert.Equal(t, 4*time.Second, cfg.Timing.Launch)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timing.NewFile)
	assert.Equal(t, 8*time.Second, cfg.Timing.LoopInterval)
	assert.InDelta(t, 1.0, cfg.Run.Hours, 0.0001)
	assert.Equal(t, 5, cfg.Run.MaxConsecutiveFailures)
	assert.Equal(t, 10000, cfg.Content.MaxLength)
	assert.Contains(t, cfg.Storage.History, "history.json")
	assert.Contains(t, cfg.Storage.Logs, "logs")

	require.NoError(t, cfg.Validate())

	// Verify file was created
	_, err = os.Stat(loader.Path())
	assert.NoError(t, err)
}

func TestLoader_Load_ReadsExistingConfig(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	configDir := filepath.Join(tmpHome, ".config", "codeweaver")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	configContent := `
output:
  dir: ~/custom/out
  extensions: [".go"]
editor:
  executable: nvim
  flags:
    n: true
input:
  backend: tmux
  type_interval: 10ms
timing:
  save_dialog: 3s
run:
  hours: 2.5
storage:
  history: ~/custom/history.json
  logs: ~/custom/logs
`
	require.NoError(t, os.WriteFile(
		filepath.Join(configDir, "config.yaml"),
		[]byte(configContent),
		0644,
	))

	loader, err := NewLoader()
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpHome, "custom", "out"), cfg.Output.Dir)
	assert.Equal(t, []string{".go"}, cfg.Output.Extensions)
	assert.Equal(t, "nvim", cfg.Editor.Executable)
	assert.Equal(t, "tmux", cfg.Input.Backend)
	assert.Equal(t, 10*time.Millisecond, cfg.Input.TypeInterval)
	assert.Equal(t, 3*time.Second, cfg.Timing.SaveDialog)
	assert.InDelta(t, 2.5, cfg.Run.Hours, 0.0001)
	assert.Equal(t, filepath.Join(tmpHome, "custom", "history.json"), cfg.Storage.History)
	assert.Equal(t, filepath.Join(tmpHome, "custom", "logs"), cfg.Storage.Logs)

	// Unset keys keep their defaults
	assert.Equal(t, 100, cfg.Output.MaxFilenameLength)
	assert.Equal(t, 8*time.Second, cfg.Timing.LoopInterval)
}

func TestLoader_Load_EnvVarOverride(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)
	t.Setenv("VSCODE_EXECUTABLE", "code-insiders")
	t.Setenv("CODEWEAVER_BACKEND", "tmux")

	loader, err := NewLoader()
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "code-insiders", cfg.Editor.Executable)
	assert.Equal(t, "tmux", cfg.Input.Backend)
}

func TestLoader_Path(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	loader, err := NewLoader()
	require.NoError(t, err)

	expected := filepath.Join(tmpHome, ".config", "codeweaver", "config.yaml")
	assert.Equal(t, expected, loader.Path())
}

func TestLoader_Get(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	loader, err := NewLoader()
	require.NoError(t, err)

	_, err = loader.Load()
	require.NoError(t, err)

	t.Run("valid key returns value", func(t *testing.T) {
		val, err := loader.Get("editor.executable")
		require.NoError(t, err)
		assert.Equal(t, "code", val)
	})

	t.Run("invalid key returns error", func(t *testing.T) {
		_, err := loader.Get("invalid.key")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestLoader_Set(t *testing.T) {
	tmpHome := t.TempDir()
	t.Setenv("HOME", tmpHome)

	loader, err := NewLoader()
	require.NoError(t, err)

	_, err = loader.Load()
	require.NoError(t, err)

	t.Run("sets valid key", func(t *testing.T) {
		err := loader.Set("input.backend", "tmux")
		require.NoError(t, err)

		val, err := loader.Get("input.backend")
		require.NoError(t, err)
		assert.Equal(t, "tmux", val)
	})

	t.Run("rejects invalid key", func(t *testing.T) {
		err := loader.Set("invalid.key", "value")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("rejects invalid backend", func(t *testing.T) {
		err := loader.Set("input.backend", "xdg")
		assert.ErrorIs(t, err, ErrInvalidBackend)
	})

	t.Run("rejects unsafe executable", func(t *testing.T) {
		err := loader.Set("editor.executable", "code; rm -rf ~")
		assert.ErrorIs(t, err, ErrUnsafeExecutable)
	})

	t.Run("persists to file", func(t *testing.T) {
		require.NoError(t, loader.Set("output.dir", "/tmp/out"))

		data, err := os.ReadFile(loader.Path())
		require.NoError(t, err)
		assert.Contains(t, string(data), "/tmp/out")
	})
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"output", false},
		{"output.dir", false},
		{"output.max_attempts", false},
		{"editor.flags", false},
		{"editor.flags.new-window", false},
		{"input.type_interval", false},
		{"timing.save_dialog", false},
		{"run.hours", false},
		{"storage.history", false},
		{"", true},
		{"editor.flags.", true},
		{"timing.save_dialog.seconds", true},
		{"unknown", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKey)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Output: OutputConfig{
				Dir:               "/tmp/out",
				MaxFilenameLength: 100,
				MaxPathLength:     260,
				Extensions:        []string{".py"},
				SafeChars:         DefaultSafeChars,
				MaxAttempts:       9999,
			},
			Editor:  EditorConfig{Executable: "code"},
			Input:   InputConfig{Backend: "xdotool"},
			Run:     RunConfig{Hours: 1, MaxConsecutiveFailures: 5},
			Content: ContentConfig{MaxLength: 10000},
			Storage: StorageConfig{History: "/tmp/h.json", Logs: "/tmp/logs"},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("rejects unknown backend", func(t *testing.T) {
		cfg := valid()
		cfg.Input.Backend = "wayland"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects extension without dot", func(t *testing.T) {
		cfg := valid()
		cfg.Output.Extensions = []string{"py"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects empty extension list", func(t *testing.T) {
		cfg := valid()
		cfg.Output.Extensions = nil
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects runtime over limit", func(t *testing.T) {
		cfg := valid()
		cfg.Run.Hours = 25
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects unsafe executable", func(t *testing.T) {
		cfg := valid()
		cfg.Editor.Executable = "code && evil"
		assert.Error(t, cfg.Validate())
	})
}

func TestSafeRuntime(t *testing.T) {
	assert.Equal(t, time.Hour, SafeRuntime(1))
	assert.Equal(t, 24*time.Hour, SafeRuntime(100))
	assert.Equal(t, 6*time.Minute, SafeRuntime(0))
	assert.Equal(t, 6*time.Minute, SafeRuntime(-3))
}

func TestValidateExecutable(t *testing.T) {
	assert.NoError(t, ValidateExecutable("code"))
	assert.NoError(t, ValidateExecutable("/usr/local/bin/code"))

	for _, bad := range []string{"", "  ", "code;ls", "code|cat", "a&b", "`x`", "$HOME/code", "code\n", "(x)", "<x>"} {
		assert.ErrorIs(t, ValidateExecutable(bad), ErrUnsafeExecutable, bad)
	}

	long := make([]byte, MaxExecutableLength+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.ErrorIs(t, ValidateExecutable(string(long)), ErrUnsafeExecutable)
}
