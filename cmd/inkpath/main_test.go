package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inkpad-go/curve"
)

func writeJob(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	path := writeJob(t, `
points: [[0, 0], [20, 0], [40, 0], [60, 0], [80, 0]]
tolerance: 0.5
stroke:
  width: 4
  cap: round
  end_arrow: triangle
erase: [[30, -20], [50, -20], [50, 30], [30, 30]]
`)
	var sb strings.Builder
	if err := run(path, 2, &sb); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox=`) {
		t.Errorf("unexpected document start: %.60s", out)
	}
	// Erasing the middle leaves two outline pieces.
	if n := strings.Count(out, `class="outline"`); n != 2 {
		t.Errorf("got %d outline paths, want 2", n)
	}
	for _, want := range []string{`class="arrowhead end"`, `class="centerline"`, `d="M0,0 L80,0"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %s", want)
		}
	}
	if strings.Contains(out, "arrowhead start") {
		t.Error("got a start arrowhead that wasn't requested")
	}
}

func TestRunCenterlineOnly(t *testing.T) {
	path := writeJob(t, "points: [[0, 0], [10, 0], [10, 10], [0, 10], [0, 0]]\nclose: true\n")
	var sb strings.Builder
	if err := run(path, 3, &sb); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if strings.Contains(out, "outline") || strings.Contains(out, "markers") {
		t.Errorf("got stroke output without a stroke: %s", out)
	}
	if !strings.Contains(out, `viewBox="0 0 10 10"`) {
		t.Errorf("output lacks the centerline's view box: %s", out)
	}
	if !strings.Contains(out, " Z") {
		t.Error("closed centerline isn't closed")
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		job  string
		want error
	}{
		{"single point", "points: [[1, 1]]", curve.ErrDegenerateInput},
		{"negative tolerance", "points: [[0, 0], [1, 1]]\ntolerance: -1", curve.ErrInvalidTolerance},
		{"bad stroke", "points: [[0, 0], [1, 1]]\nstroke: {width: -2}", curve.ErrNotOutlinable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(writeJob(t, tt.job), 3, &strings.Builder{})
			if !errors.Is(err, tt.want) {
				t.Errorf("got error %v, want %v", err, tt.want)
			}
		})
	}

	if err := run(writeJob(t, "points: {"), 3, &strings.Builder{}); err == nil {
		t.Error("malformed job didn't fail")
	}
	if err := run(filepath.Join(t.TempDir(), "missing.yaml"), 3, &strings.Builder{}); err == nil {
		t.Error("missing job file didn't fail")
	}
}
