package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

const inspectFixture = `Track {
	"$id": "1",
	"name": "loop",
	"points": [
		Point {
			"x": 0,
			"y": 0
		}
	],
	"next": Track {
		"$ref": "1"
	}
}`

func TestInspect_Summary(t *testing.T) {
	color.NoColor = true
	path := writeFixture(t, "graph.rfx", inspectFixture)

	cmd := NewInspectCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{path})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("inspect failed: %v\nstderr: %s", err, errOut.String())
	}

	got := out.String()
	for _, want := range []string{"TYPE", "Track", "Point", "collections: 1", "identities", "references"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestInspect_MalformedInput(t *testing.T) {
	color.NoColor = true
	path := writeFixture(t, "bad.rfx", "[1, 2")

	cmd := NewInspectCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{path})

	if err := cmd.Execute(); err == nil {
		t.Error("expected inspect to fail on malformed input")
	}
}
