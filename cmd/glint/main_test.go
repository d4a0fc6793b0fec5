package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"glint", "help"}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	err := runCLI([]string{"glint", "unknown"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCLIWithoutCommand(t *testing.T) {
	err := runCLI([]string{"glint"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandCheckOnly(t *testing.T) {
	scriptPath := writeScript(t, `def run()
  "ok"
end`)

	if err := runCommand([]string{"-check", scriptPath}); err != nil {
		t.Fatalf("runCommand check failed: %v", err)
	}
}

func TestRunCommandCheckReportsCompileErrors(t *testing.T) {
	scriptPath := writeScript(t, `def broken(`)

	err := runCommand([]string{"-check", scriptPath})
	if err == nil {
		t.Fatalf("expected a compile error")
	}
	if !strings.Contains(err.Error(), "compile failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandPrintsLastValue(t *testing.T) {
	scriptPath := writeScript(t, `total = 40
total + 2`)

	out, err := captureStdout(t, func() error {
		return runCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if got := strings.TrimSpace(out); got != "42" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestRunCommandExecutesFunctionAndPrintsResult(t *testing.T) {
	scriptPath := writeScript(t, `def greet(name)
  return name
end`)

	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-function", "greet", scriptPath, "hello"})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if got := strings.TrimSpace(out); got != "hello" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestRunCommandScientificFlag(t *testing.T) {
	scriptPath := writeScript(t, `a = 6
b = 7
a b`)

	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-scientific", scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if got := strings.TrimSpace(out); got != "42" {
		t.Fatalf("unexpected stdout: %q", got)
	}
}

func TestRunCommandStepQuota(t *testing.T) {
	scriptPath := writeScript(t, `total = 0
for n in range(1000)
  total = total + n
end`)

	err := runCommand([]string{"-steps", "10", scriptPath})
	if err == nil {
		t.Fatalf("expected step quota error")
	}
	if !strings.Contains(err.Error(), "step quota exceeded") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandRequiresScriptPath(t *testing.T) {
	err := runCommand(nil)
	if err == nil {
		t.Fatalf("expected script path error")
	}
	if !strings.Contains(err.Error(), "script path required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func writeScript(t *testing.T, source string) string {
	t.Helper()
	scriptPath := filepath.Join(t.TempDir(), "script.glint")
	if err := os.WriteFile(scriptPath, []byte(source), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return scriptPath
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("read captured stdout: %v", err)
	}
	return buf.String(), runErr
}
