// Command inkpath fits a curve to sampled points and renders the result as
// an SVG document.
//
// It reads a YAML job from the file named by -job, or from standard input:
//
//	points: [[0, 0], [40, 10], [80, 0]]
//	tolerance: 0.5
//	close: false
//	stroke:
//	  width: 4
//	  cap: round
//	  end_arrow: triangle
//	erase: [[30, -20], [50, -20], [50, 30], [30, 30]]
//
// The document contains the fitted centerline, the stroke outline with the
// erase polygon removed from it, and any arrowheads.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/inkpad-go/curve"
	"gopkg.in/yaml.v3"
)

type job struct {
	Points    [][2]float64 `yaml:"points"`
	Tolerance float64      `yaml:"tolerance"`
	Close     bool         `yaml:"close"`
	Stroke    yaml.Node    `yaml:"stroke"`
	Erase     [][2]float64 `yaml:"erase"`
}

func toPoints(in [][2]float64) []curve.Point {
	out := make([]curve.Point, len(in))
	for i, p := range in {
		out[i] = curve.Pt(p[0], p[1])
	}
	return out
}

func main() {
	jobPath := flag.String("job", "", "YAML job file (default: standard input)")
	precision := flag.Int("precision", 3, "maximum number of decimals in path data")
	debug := flag.Bool("debug", false, "log diagnostics to standard error")
	flag.Parse()

	if *debug {
		curve.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if err := run(*jobPath, *precision, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "inkpath: %v\n", err)
		os.Exit(1)
	}
}

func readJob(path string) (job, error) {
	var data []byte
	var err error
	if path == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return job{}, err
	}
	j := job{Tolerance: 1}
	if err := yaml.Unmarshal(data, &j); err != nil {
		return job{}, fmt.Errorf("failed to parse job: %w", err)
	}
	return j, nil
}

func run(jobPath string, precision int, w io.Writer) error {
	j, err := readJob(jobPath)
	if err != nil {
		return err
	}
	centerline, err := curve.FitPoints(toPoints(j.Points), j.Tolerance, j.Close)
	if err != nil {
		return fmt.Errorf("fitting points: %w", err)
	}

	opts := curve.SVGOptions{MaxPrecision: precision}
	bounds := centerline.BoundingBox()
	doc := &curve.Element{Name: "svg"}
	path := func(s *curve.PathShape, attrs ...curve.Attr) *curve.Element {
		return &curve.Element{
			Name:  "path",
			Attrs: append([]curve.Attr{{Name: "d", Value: curve.PathData(s, opts)}}, attrs...),
		}
	}

	if j.Stroke.Kind != 0 {
		raw, err := yaml.Marshal(&j.Stroke)
		if err != nil {
			return err
		}
		style, err := curve.ParseStrokeStyle(raw)
		if err != nil {
			return fmt.Errorf("stroke: %w", err)
		}
		outline, err := centerline.ToOutline(style)
		if err != nil {
			return fmt.Errorf("outlining: %w", err)
		}
		pieces := []*curve.PathShape{outline}
		if len(j.Erase) > 0 {
			eraser := curve.NewPathShapeFromPolygon(curve.Polygon{Points: toPoints(j.Erase), Closed: true}, curve.NonZero)
			pieces = curve.Erase(outline, eraser)
		}
		for _, p := range pieces {
			bounds = bounds.Union(p.BoundingBox())
			doc.AppendElement(path(p, curve.Attr{Name: "class", Value: "outline"}))
		}
		markers := &curve.Element{Name: "g", Attrs: []curve.Attr{{Name: "class", Value: "markers"}}}
		if curve.EmitArrowheads(centerline, style, markers) > 0 {
			doc.AppendElement(markers)
		}
		// Markers reach up to three stroke widths past the ends.
		bounds = bounds.Inflate(3*style.Width, 3*style.Width)
	}
	doc.AppendElement(path(centerline,
		curve.Attr{Name: "class", Value: "centerline"},
		curve.Attr{Name: "fill", Value: "none"},
		curve.Attr{Name: "stroke", Value: "red"},
	))

	doc.Attrs = []curve.Attr{
		{Name: "xmlns", Value: "http://www.w3.org/2000/svg"},
		{Name: "viewBox", Value: fmt.Sprintf("%g %g %g %g", bounds.X0, bounds.Y0, bounds.Width(), bounds.Height())},
	}
	if err := doc.WriteXML(w); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}
