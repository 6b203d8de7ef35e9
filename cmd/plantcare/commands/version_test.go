// ABOUTME: Tests for version command
// ABOUTME: Verifies version info display, --short, and JSON output

package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func setTestVersion(t *testing.T) {
	t.Helper()
	original := versionInfo
	t.Cleanup(func() { versionInfo = original })
	SetVersion("1.2.3", "abc123", "2026-01-31")
}

func runVersion(t *testing.T, args ...string) string {
	t.Helper()
	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs(append([]string{"version"}, args...))

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	return output.String()
}

func TestNewVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()

	if cmd.Use != "version" {
		t.Errorf("Use = %q, want %q", cmd.Use, "version")
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("descriptions should not be empty")
	}
	if cmd.Flags().Lookup("short") == nil {
		t.Error("--short flag not found")
	}
}

func TestVersionCmd_Output(t *testing.T) {
	setTestVersion(t)

	out := runVersion(t)
	for _, want := range []string{"plantcare 1.2.3", "abc123", "2026-01-31", "Go:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q should contain %q", out, want)
		}
	}
}

func TestVersionCmd_Short(t *testing.T) {
	setTestVersion(t)

	if out := runVersion(t, "--short"); out != "1.2.3\n" {
		t.Errorf("output = %q, want %q", out, "1.2.3\n")
	}
}

func TestVersionCmd_JSON(t *testing.T) {
	setTestVersion(t)

	out := runVersion(t, "--format", "json")
	var got VersionInfo
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Version != "1.2.3" || got.Commit != "abc123" {
		t.Errorf("got %+v", got)
	}
}
