package curve

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"gopkg.in/yaml.v3"
)

func TestParseStrokeStyle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want StrokeStyle
	}{
		{"empty", "", DefaultStrokeStyle},
		{"width only", "width: 3", DefaultStrokeStyle.WithWidth(3)},
		{
			"everything",
			`
width: 2.5
cap: round
join: Bevel
miter_limit: 10
dashes: [4, 2]
dash_offset: 1
start_arrow: bar
end_arrow: triangle
`,
			StrokeStyle{
				Width:      2.5,
				Cap:        RoundCap,
				Join:       BevelJoin,
				MiterLimit: 10,
				Dashes:     []float64{4, 2},
				DashOffset: 1,
				StartArrow: ArrowBar,
				EndArrow:   ArrowTriangle,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrokeStyle([]byte(tt.in))
			if err != nil {
				t.Fatal(err)
			}
			diff(t, got, tt.want, cmpopts.EquateEmpty())
		})
	}
}

func TestParseStrokeStyleErrors(t *testing.T) {
	tests := []struct {
		in          string
		outlineable bool
	}{
		{"cap: pointy", true},
		{"join: [round]", true},
		{"width: wide", true},
		{"width: -1", false},
		{"width: 0", false},
		{"miter_limit: -2", false},
		{"dashes: [0, 0]", false},
		{"dashes: [1, -1]", false},
	}
	for _, tt := range tests {
		_, err := ParseStrokeStyle([]byte(tt.in))
		if err == nil {
			t.Errorf("%q: got no error", tt.in)
			continue
		}
		if got := errors.Is(err, ErrNotOutlinable); got == tt.outlineable {
			t.Errorf("%q: got error %v", tt.in, err)
		}
	}
}

func TestStrokeStyleYAMLRoundTrip(t *testing.T) {
	style := DefaultStrokeStyle.
		WithWidth(4).
		WithCap(SquareCap).
		WithJoin(RoundJoin).
		WithDashes(0.5, []float64{3, 1, 1, 1}).
		WithArrows(ArrowOpen, ArrowCircle)
	data, err := yaml.Marshal(style)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseStrokeStyle(data)
	if err != nil {
		t.Fatalf("parsing %q: %s", data, err)
	}
	diff(t, got, style)

	// Solid strokes without arrows omit those fields.
	data, err = yaml.Marshal(DefaultStrokeStyle)
	if err != nil {
		t.Fatal(err)
	}
	want := "width: 1\ncap: butt\njoin: miter\nmiter_limit: 4\n"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestEnumText(t *testing.T) {
	b, err := RoundJoin.MarshalText()
	if err != nil || string(b) != "round" {
		t.Errorf("got %q, %v", b, err)
	}
	var c Cap
	if err := c.UnmarshalText([]byte(" SQUARE ")); err != nil || c != SquareCap {
		t.Errorf("got %v, %v", c, err)
	}
	var a ArrowKind
	if err := a.UnmarshalText([]byte("arrow")); err == nil {
		t.Error("unmarshaled unknown arrow kind")
	}
	if _, err := Cap(7).MarshalText(); err == nil {
		t.Error("marshaled out of range cap")
	}
	if s := Cap(7).String(); s != "Cap(7)" {
		t.Errorf("got %q", s)
	}

	var doc struct {
		Rule FillRule `yaml:"rule"`
	}
	if err := yaml.Unmarshal([]byte("rule: evenodd"), &doc); err != nil || doc.Rule != EvenOdd {
		t.Errorf("got %v, %v", doc.Rule, err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil || string(out) != "rule: evenodd\n" {
		t.Errorf("got %q, %v", out, err)
	}
}

func TestStrokeStyleValidate(t *testing.T) {
	tests := []struct {
		name  string
		style StrokeStyle
	}{
		{"nan width", DefaultStrokeStyle.WithWidth(math.NaN())},
		{"bad join", DefaultStrokeStyle.WithJoin(Join(-1))},
		{"bad cap", DefaultStrokeStyle.WithCap(Cap(3))},
		{"infinite dash", DefaultStrokeStyle.WithDashes(0, []float64{math.Inf(1)})},
		{"nan offset", DefaultStrokeStyle.WithDashes(math.NaN(), []float64{1, 1})},
	}
	for _, tt := range tests {
		if err := tt.style.Validate(); !errors.Is(err, ErrNotOutlinable) {
			t.Errorf("%s: got error %v, want ErrNotOutlinable", tt.name, err)
		}
	}
	if err := DefaultStrokeStyle.Validate(); err != nil {
		t.Errorf("default style: %s", err)
	}
	// The dash offset doesn't matter for solid strokes.
	if err := DefaultStrokeStyle.WithDashes(math.NaN(), nil).Validate(); err != nil {
		t.Errorf("solid stroke with NaN offset: %s", err)
	}
}
