package curve

import (
	"fmt"
	"strconv"
)

// ParsePathData parses SVG path data into a NonZero shape.
//
// The commands M, L, H, V, C, S, Q, T and Z are supported in their absolute
// and relative forms, including implicit repetition. Quadratic segments are
// raised to cubics, which represent them exactly. Elliptical arcs are
// rejected with [ErrUnsupportedCommand].
//
// Parsing the output of [PathData] yields a shape with the same segments.
func ParsePathData(d string) (*PathShape, error) {
	p := pathParser{lex: pathLexer{s: d}}
	p.b.shape = NewPathShape(NonZero)
	if err := p.parse(); err != nil {
		return nil, err
	}
	p.b.flush()
	return p.b.shape, nil
}

type pathParser struct {
	lex pathLexer
	b   shapeBuilder
	// Control points available for reflection by S and T.
	lastCubicCtrl option[Point]
	lastQuadCtrl  option[Point]
}

func (p *pathParser) parse() error {
	var cmd byte
	started := false
	for {
		p.lex.skipSeparators()
		if p.lex.done() {
			return nil
		}
		if c, ok := p.lex.command(); ok {
			cmd = c
		} else if !started || cmd == 'Z' || cmd == 'z' {
			return p.lex.errorf("expected command")
		}
		if !started && cmd != 'M' && cmd != 'm' {
			return p.lex.errorf("path data must start with a move command")
		}
		started = true
		next, err := p.exec(cmd)
		if err != nil {
			return err
		}
		cmd = next
	}
}

// exec runs one instance of cmd and returns the command that implicitly
// repeats when more numbers follow.
func (p *pathParser) exec(cmd byte) (byte, error) {
	rel := cmd >= 'a' && cmd <= 'z'
	cur := p.b.lastPt
	abs := func(pt Point) Point {
		if rel {
			return pt.Translate(Vec2(cur))
		}
		return pt
	}
	var cubicCtrl, quadCtrl option[Point]
	next := cmd

	switch cmd {
	case 'M', 'm':
		pt, err := p.lex.point()
		if err != nil {
			return 0, err
		}
		p.b.moveTo(abs(pt))
		next = 'L'
		if rel {
			next = 'l'
		}
	case 'L', 'l':
		pt, err := p.lex.point()
		if err != nil {
			return 0, err
		}
		p.b.lineTo(abs(pt))
	case 'H', 'h':
		x, err := p.lex.number()
		if err != nil {
			return 0, err
		}
		if rel {
			x += cur.X
		}
		p.b.lineTo(Pt(x, cur.Y))
	case 'V', 'v':
		y, err := p.lex.number()
		if err != nil {
			return 0, err
		}
		if rel {
			y += cur.Y
		}
		p.b.lineTo(Pt(cur.X, y))
	case 'C', 'c':
		pts, err := p.lex.points(3)
		if err != nil {
			return 0, err
		}
		p1, p2, p3 := abs(pts[0]), abs(pts[1]), abs(pts[2])
		p.b.cubicTo(p1, p2, p3)
		cubicCtrl.set(p2)
	case 'S', 's':
		pts, err := p.lex.points(2)
		if err != nil {
			return 0, err
		}
		p1 := cur
		if p.lastCubicCtrl.isSet {
			p1 = cur.Translate(cur.Sub(p.lastCubicCtrl.value))
		}
		p2, p3 := abs(pts[0]), abs(pts[1])
		p.b.cubicTo(p1, p2, p3)
		cubicCtrl.set(p2)
	case 'Q', 'q':
		pts, err := p.lex.points(2)
		if err != nil {
			return 0, err
		}
		q1, q2 := abs(pts[0]), abs(pts[1])
		c := QuadBez{cur, q1, q2}.Raise()
		p.b.cubicTo(c.P1, c.P2, c.P3)
		quadCtrl.set(q1)
	case 'T', 't':
		pt, err := p.lex.point()
		if err != nil {
			return 0, err
		}
		q1 := cur
		if p.lastQuadCtrl.isSet {
			q1 = cur.Translate(cur.Sub(p.lastQuadCtrl.value))
		}
		q2 := abs(pt)
		c := QuadBez{cur, q1, q2}.Raise()
		p.b.cubicTo(c.P1, c.P2, c.P3)
		quadCtrl.set(q1)
	case 'Z', 'z':
		p.b.closePath()
	default:
		// Including the elliptical arcs A and a.
		return 0, fmt.Errorf("command %q at offset %d: %w", cmd, p.lex.pos-1, ErrUnsupportedCommand)
	}
	p.lastCubicCtrl = cubicCtrl
	p.lastQuadCtrl = quadCtrl
	return next, nil
}

type pathLexer struct {
	s   string
	pos int
}

func (l *pathLexer) done() bool { return l.pos >= len(l.s) }

func (l *pathLexer) errorf(msg string) error {
	return fmt.Errorf("%s at offset %d: %w", msg, l.pos, ErrPathSyntax)
}

func (l *pathLexer) skipSeparators() {
	for l.pos < len(l.s) {
		switch l.s[l.pos] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			l.pos++
		default:
			return
		}
	}
}

func isCommandLetter(c byte) bool {
	return (c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') && c != 'e' && c != 'E'
}

func (l *pathLexer) command() (byte, bool) {
	if l.done() || !isCommandLetter(l.s[l.pos]) {
		return 0, false
	}
	c := l.s[l.pos]
	l.pos++
	return c, true
}

func (l *pathLexer) number() (float64, error) {
	l.skipSeparators()
	start := l.pos
	digits := func() int {
		n := 0
		for l.pos < len(l.s) && l.s[l.pos] >= '0' && l.s[l.pos] <= '9' {
			l.pos++
			n++
		}
		return n
	}
	if l.pos < len(l.s) && (l.s[l.pos] == '+' || l.s[l.pos] == '-') {
		l.pos++
	}
	n := digits()
	if l.pos < len(l.s) && l.s[l.pos] == '.' {
		l.pos++
		n += digits()
	}
	if n == 0 {
		l.pos = start
		return 0, l.errorf("expected number")
	}
	if l.pos < len(l.s) && (l.s[l.pos] == 'e' || l.s[l.pos] == 'E') {
		save := l.pos
		l.pos++
		if l.pos < len(l.s) && (l.s[l.pos] == '+' || l.s[l.pos] == '-') {
			l.pos++
		}
		if digits() == 0 {
			l.pos = save
		}
	}
	v, err := strconv.ParseFloat(l.s[start:l.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("number %q at offset %d: %w", l.s[start:l.pos], start, ErrPathSyntax)
	}
	return v, nil
}

func (l *pathLexer) point() (Point, error) {
	x, err := l.number()
	if err != nil {
		return Point{}, err
	}
	y, err := l.number()
	if err != nil {
		return Point{}, err
	}
	return Pt(x, y), nil
}

func (l *pathLexer) points(n int) ([]Point, error) {
	out := make([]Point, n)
	for i := range out {
		pt, err := l.point()
		if err != nil {
			return nil, err
		}
		out[i] = pt
	}
	return out, nil
}
