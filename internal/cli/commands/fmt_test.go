package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const compactFixture = `Point {"x": 1,"y": 2}`

const prettyFixture = "Point {\n\t\"x\": 1,\n\t\"y\": 2\n}\n"

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func resetFmtFlags() {
	fmtWrite = false
	fmtCheck = false
	fmtCompact = false
}

func TestFmt_PrintsFormatted(t *testing.T) {
	resetFmtFlags()
	path := writeFixture(t, "graph.rfx", compactFixture)

	cmd := NewFmtCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{path})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("fmt failed: %v\nstderr: %s", err, errOut.String())
	}
	if out.String() != prettyFixture {
		t.Errorf("output mismatch:\ngot  %q\nwant %q", out.String(), prettyFixture)
	}
}

func TestFmt_WriteRewritesFile(t *testing.T) {
	resetFmtFlags()
	path := writeFixture(t, "graph.rfx", compactFixture)

	cmd := NewFmtCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--write", path})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("fmt --write failed: %v\noutput: %s", err, out.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if string(data) != prettyFixture {
		t.Errorf("file content mismatch:\ngot  %q\nwant %q", string(data), prettyFixture)
	}
}

func TestFmt_CheckReportsUnformatted(t *testing.T) {
	resetFmtFlags()
	path := writeFixture(t, "graph.rfx", compactFixture)

	cmd := NewFmtCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--check", path})

	if err := cmd.Execute(); err == nil {
		t.Error("expected check to fail on unformatted input")
	}
}

func TestFmt_CheckPassesFormatted(t *testing.T) {
	resetFmtFlags()
	path := writeFixture(t, "graph.rfx", prettyFixture)

	cmd := NewFmtCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--check", path})

	if err := cmd.Execute(); err != nil {
		t.Errorf("expected check to pass on formatted input, got %v", err)
	}
}

func TestFmt_MalformedInput(t *testing.T) {
	resetFmtFlags()
	path := writeFixture(t, "bad.rfx", "Point {")

	cmd := NewFmtCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{path})

	if err := cmd.Execute(); err == nil {
		t.Error("expected fmt to fail on malformed input")
	}
}
