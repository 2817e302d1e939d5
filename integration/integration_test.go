// Package integration provides integration tests for the cwb CLI using testscript.
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/jmgilman/codeweaver/internal/cmd"
)

// TestMain lets scripts run cwb in-process.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"cwb": cwbMain,
	}))
}

func cwbMain() int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// TestScripts runs all testscript files in testdata/scripts.
func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:   "testdata/scripts",
		Setup: setupTestEnv,
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"count_files": cmdCountFiles,
		},
		Condition: evalCondition,
	})
}

// setupTestEnv isolates configuration and data under the script's work dir.
func setupTestEnv(env *testscript.Env) error {
	testHome := filepath.Join(env.WorkDir, "home")
	configDir := filepath.Join(testHome, ".config", "codeweaver")
	dataDir := filepath.Join(testHome, ".local", "share", "codeweaver")

	for _, dir := range []string{configDir, filepath.Join(dataDir, "logs")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	env.Setenv("HOME", testHome)
	env.Setenv("XDG_CONFIG_HOME", filepath.Join(testHome, ".config"))
	env.Setenv("XDG_DATA_HOME", filepath.Join(testHome, ".local", "share"))
	env.Setenv("EDITOR", "")

	configContent := fmt.Sprintf(`output:
  dir: %[1]s/generated_files
  max_filename_length: 100
  max_path_length: 260
  extensions: [.py]
  safe_chars: abcdefghijklmnopqrstuvwxyz0123456789_-.
  max_attempts: 9999
editor:
  executable: code
  flags:
    new-window: true
input:
  backend: xdotool
  type_interval: 30ms
  path_interval: 50ms
  tmux_target: ""
timing:
  launch: 4s
  new_file: 1.5s
  save_dialog: 2.5s
  loop_interval: 8s
  retry_delay: 5s
  pause: 1s
run:
  hours: 1
  max_consecutive_failures: 5
content:
  max_length: 10000
  snippets: ""
storage:
  history: %[2]s/history.json
  logs: %[2]s/logs
`, env.WorkDir, dataDir)

	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// evalCondition evaluates custom conditions for testscript.
func evalCondition(cond string) (bool, error) {
	switch cond {
	case "tmux", "xdotool":
		_, err := exec.LookPath(cond)
		return err == nil, nil
	case "linux":
		return runtime.GOOS == "linux", nil
	case "darwin":
		return runtime.GOOS == "darwin", nil
	default:
		return false, fmt.Errorf("unknown condition: %s", cond)
	}
}

// cmdCountFiles asserts the number of files in a directory.
func cmdCountFiles(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 2 {
		ts.Fatalf("usage: count_files <dir> <n>")
	}

	var want int
	if _, err := fmt.Sscanf(args[1], "%d", &want); err != nil {
		ts.Fatalf("invalid count: %s", args[1])
	}

	entries, err := os.ReadDir(ts.MkAbs(args[0]))
	if err != nil && !os.IsNotExist(err) {
		ts.Fatalf("read %s: %v", args[0], err)
	}

	got := len(entries)
	if (got == want) == neg {
		ts.Fatalf("%s has %d files, want %s%d", args[0], got, map[bool]string{true: "not ", false: ""}[neg], want)
	}
}
