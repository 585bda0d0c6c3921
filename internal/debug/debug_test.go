package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(data)
}

func TestSetupDisabled(t *testing.T) {
	t.Setenv(EnvVar, "")

	closeLog, err := Setup("")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer closeLog()

	if IsEnabled() {
		t.Error("logging should stay disabled without a path")
	}
	Log("dropped %d", 1)
	Timed("noop")()
}

func TestSetupFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "twig.log")
	t.Setenv(EnvVar, path)

	closeLog, err := Setup("")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if !IsEnabled() {
		t.Fatal("logging should be enabled from " + EnvVar)
	}
	Log("issue #%d %s", 3, "git branch -vv")
	Timed("listing")()
	closeLog()

	if IsEnabled() {
		t.Error("logging should be disabled after close")
	}

	out := readLog(t, path)
	for _, want := range []string{"debug logging enabled", "issue #3 git branch -vv", "listing started", "listing completed in"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestSetupFlagWinsOverEnv(t *testing.T) {
	dir := t.TempDir()
	envPath, flagPath := filepath.Join(dir, "env.log"), filepath.Join(dir, "flag.log")
	t.Setenv(EnvVar, envPath)

	closeLog, err := Setup(flagPath)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	Log("hello")
	closeLog()

	if !strings.Contains(readLog(t, flagPath), "hello") {
		t.Error("expected the message in the flag log")
	}
	if _, err := os.Stat(envPath); !os.IsNotExist(err) {
		t.Error("the env log should not be created")
	}
}
