package curve

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Join defines the connection between two segments of a stroke.
type Join int

const (
	// The offset edges are extended to their intersection, falling back to
	// BevelJoin beyond the miter limit.
	MiterJoin Join = iota
	// An arc between the segments.
	RoundJoin
	// A straight line connecting the segments.
	BevelJoin
)

// Cap defines the shape drawn at the ends of an open stroke.
type Cap int

const (
	// Flat cap through the end point.
	ButtCap Cap = iota
	// Rounded cap with radius equal to half the stroke width.
	RoundCap
	// Square cap extending half the stroke width past the end point.
	SquareCap
)

// ArrowKind selects the marker drawn at an end of an open stroke.
type ArrowKind int

const (
	ArrowNone ArrowKind = iota
	ArrowTriangle
	ArrowOpen
	ArrowCircle
	ArrowSquare
	ArrowBar
)

var (
	joinNames  = []string{"miter", "round", "bevel"}
	capNames   = []string{"butt", "round", "square"}
	arrowNames = []string{"none", "triangle", "open", "circle", "square", "bar"}
	ruleNames  = []string{"nonzero", "evenodd"}
)

func enumName[T ~int](names []string, v T) (string, error) {
	if int(v) < 0 || int(v) >= len(names) {
		return "", fmt.Errorf("%T value %d out of range", v, int(v))
	}
	return names[v], nil
}

func parseEnum[T ~int](names []string, s string) (T, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if name == s {
			return T(i), nil
		}
	}
	var zero T
	return zero, fmt.Errorf("invalid %T %q, want one of %s", zero, s, strings.Join(names, ", "))
}

func decodeEnum[T ~int](node *yaml.Node, names []string, dst *T) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := parseEnum[T](names, s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*dst = v
	return nil
}

func (j Join) String() string {
	if s, err := enumName(joinNames, j); err == nil {
		return s
	}
	return fmt.Sprintf("Join(%d)", int(j))
}

func (j Join) MarshalText() ([]byte, error) {
	s, err := enumName(joinNames, j)
	return []byte(s), err
}

func (j *Join) UnmarshalText(b []byte) (err error) {
	*j, err = parseEnum[Join](joinNames, string(b))
	return err
}

func (j Join) MarshalYAML() (any, error) { return enumName(joinNames, j) }

// UnmarshalYAML implements yaml.Unmarshaler for Join.
func (j *Join) UnmarshalYAML(node *yaml.Node) error { return decodeEnum(node, joinNames, j) }

func (c Cap) String() string {
	if s, err := enumName(capNames, c); err == nil {
		return s
	}
	return fmt.Sprintf("Cap(%d)", int(c))
}

func (c Cap) MarshalText() ([]byte, error) {
	s, err := enumName(capNames, c)
	return []byte(s), err
}

func (c *Cap) UnmarshalText(b []byte) (err error) {
	*c, err = parseEnum[Cap](capNames, string(b))
	return err
}

func (c Cap) MarshalYAML() (any, error) { return enumName(capNames, c) }

// UnmarshalYAML implements yaml.Unmarshaler for Cap.
func (c *Cap) UnmarshalYAML(node *yaml.Node) error { return decodeEnum(node, capNames, c) }

func (a ArrowKind) String() string {
	if s, err := enumName(arrowNames, a); err == nil {
		return s
	}
	return fmt.Sprintf("ArrowKind(%d)", int(a))
}

func (a ArrowKind) MarshalText() ([]byte, error) {
	s, err := enumName(arrowNames, a)
	return []byte(s), err
}

func (a *ArrowKind) UnmarshalText(b []byte) (err error) {
	*a, err = parseEnum[ArrowKind](arrowNames, string(b))
	return err
}

func (a ArrowKind) MarshalYAML() (any, error) { return enumName(arrowNames, a) }

// UnmarshalYAML implements yaml.Unmarshaler for ArrowKind.
func (a *ArrowKind) UnmarshalYAML(node *yaml.Node) error { return decodeEnum(node, arrowNames, a) }

func (r FillRule) MarshalText() ([]byte, error) {
	s, err := enumName(ruleNames, r)
	return []byte(s), err
}

func (r *FillRule) UnmarshalText(b []byte) (err error) {
	*r, err = parseEnum[FillRule](ruleNames, string(b))
	return err
}

func (r FillRule) MarshalYAML() (any, error) { return enumName(ruleNames, r) }

// UnmarshalYAML implements yaml.Unmarshaler for FillRule.
func (r *FillRule) UnmarshalYAML(node *yaml.Node) error { return decodeEnum(node, ruleNames, r) }

// StrokeStyle describes how a centerline is stroked. It is a value type; the
// functions in this package never modify a StrokeStyle or retain its dash
// slice.
type StrokeStyle struct {
	// Width of the stroke. Must be positive.
	Width float64 `yaml:"width"`
	// Style for both ends of open subpaths.
	Cap Cap `yaml:"cap"`
	// Style for connecting segments.
	Join Join `yaml:"join"`
	// Limit for miter joins, as a ratio of miter length to stroke width.
	MiterLimit float64 `yaml:"miter_limit"`
	// Lengths of dashes in alternating on/off order. Empty means solid.
	Dashes []float64 `yaml:"dashes,omitempty"`
	// Distance into the dash pattern at which the stroke starts.
	DashOffset float64 `yaml:"dash_offset,omitempty"`
	// Markers for the start and end of open subpaths.
	StartArrow ArrowKind `yaml:"start_arrow,omitempty"`
	EndArrow   ArrowKind `yaml:"end_arrow,omitempty"`
}

var DefaultStrokeStyle = StrokeStyle{
	Width:      1.0,
	Cap:        ButtCap,
	Join:       MiterJoin,
	MiterLimit: 4.0,
}

func (s StrokeStyle) WithWidth(width float64) StrokeStyle      { s.Width = width; return s }
func (s StrokeStyle) WithJoin(join Join) StrokeStyle           { s.Join = join; return s }
func (s StrokeStyle) WithMiterLimit(limit float64) StrokeStyle { s.MiterLimit = limit; return s }
func (s StrokeStyle) WithCap(cap Cap) StrokeStyle              { s.Cap = cap; return s }
func (s StrokeStyle) WithArrows(start, end ArrowKind) StrokeStyle {
	s.StartArrow, s.EndArrow = start, end
	return s
}
func (s StrokeStyle) WithDashes(offset float64, pattern []float64) StrokeStyle {
	s.DashOffset, s.Dashes = offset, pattern
	return s
}

// Validate reports whether the style can be used for outlining.
func (s StrokeStyle) Validate() error {
	if !(s.Width > 0) || math.IsInf(s.Width, 0) {
		return fmt.Errorf("stroke width %g: %w", s.Width, ErrNotOutlinable)
	}
	if s.MiterLimit < 0 || math.IsNaN(s.MiterLimit) {
		return fmt.Errorf("miter limit %g: %w", s.MiterLimit, ErrNotOutlinable)
	}
	if err := validateDashes(s.Dashes, s.DashOffset); err != nil {
		return err
	}
	if _, err := enumName(capNames, s.Cap); err != nil {
		return fmt.Errorf("%v: %w", err, ErrNotOutlinable)
	}
	if _, err := enumName(joinNames, s.Join); err != nil {
		return fmt.Errorf("%v: %w", err, ErrNotOutlinable)
	}
	return nil
}

func validateDashes(dashes []float64, offset float64) error {
	if len(dashes) == 0 {
		return nil
	}
	var period float64
	for _, d := range dashes {
		if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return fmt.Errorf("dash length %g: %w", d, ErrNotOutlinable)
		}
		period += d
	}
	if period == 0 {
		return fmt.Errorf("dash pattern has zero length: %w", ErrNotOutlinable)
	}
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		return fmt.Errorf("dash offset %g: %w", offset, ErrNotOutlinable)
	}
	return nil
}

// ParseStrokeStyle decodes a YAML stroke style. Fields that are absent keep
// their values from [DefaultStrokeStyle]. The result is validated.
func ParseStrokeStyle(data []byte) (StrokeStyle, error) {
	style := DefaultStrokeStyle
	if err := yaml.Unmarshal(data, &style); err != nil {
		return StrokeStyle{}, fmt.Errorf("failed to parse stroke style: %w", err)
	}
	if err := style.Validate(); err != nil {
		return StrokeStyle{}, err
	}
	return style, nil
}
