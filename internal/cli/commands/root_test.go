package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "reflex" {
		t.Errorf("expected Use to be 'reflex', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}

	// Check subcommands are registered
	expectedCommands := []string{
		"version",
		"fmt",
		"inspect",
		"validate",
	}

	for _, expected := range expectedCommands {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected command %s to be registered", expected)
		}
	}
}

func TestNewVersionCommand(t *testing.T) {
	// Set test version info
	Version = "1.0.0-test"
	GitCommit = "abc123"
	BuildDate = "2025-01-01"
	GoVersion = "go1.23"
	color.NoColor = true

	cmd := NewVersionCommand()

	if cmd.Use != "version" {
		t.Errorf("expected Use to be 'version', got %s", cmd.Use)
	}

	if cmd.Run == nil {
		t.Fatal("version command Run function is nil")
	}

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.Run(cmd, []string{})

	got := strings.TrimSpace(out.String())
	want := "reflex 1.0.0-test (commit abc123, built 2025-01-01, go1.23)"
	if got != want {
		t.Errorf("expected version output %q, got %q", want, got)
	}
}
