package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"drawboard/internal/editor"
	"drawboard/internal/geom"
	"drawboard/internal/scene"
)

const curveSamples = 16

var selectedCellStyle = lipgloss.NewStyle().Reverse(true)

// grid is a character canvas in screen cells. Marked cells belong to the
// selected element and are drawn reversed.
type grid struct {
	width  int
	height int
	cells  [][]rune
	marked [][]bool
	mark   bool
}

func newGrid(width, height int) *grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	g := &grid{width: width, height: height}
	g.cells = make([][]rune, height)
	g.marked = make([][]bool, height)
	for y := range g.cells {
		g.cells[y] = []rune(strings.Repeat(" ", width))
		g.marked[y] = make([]bool, width)
	}
	return g
}

func (g *grid) set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return
	}
	g.cells[y][x] = r
	g.marked[y][x] = g.mark
}

func (g *grid) text(x, y int, s string) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r)
	}
}

// line draws a segment between two screen points. A zero rune picks a
// character from the slope.
func (g *grid) line(a, b geom.Point, r rune) {
	dx, dy := b.X-a.X, b.Y-a.Y
	if r == 0 {
		r = slopeRune(dx, dy)
	}
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		g.set(round(a.X), round(a.Y), r)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		g.set(round(a.X+dx*t), round(a.Y+dy*t), r)
	}
}

func (g *grid) polyline(pts []geom.Point, r rune, closed bool) {
	for i := 1; i < len(pts); i++ {
		g.line(pts[i-1], pts[i], r)
	}
	if closed && len(pts) > 2 {
		g.line(pts[len(pts)-1], pts[0], r)
	}
}

func (g *grid) lines(styled bool) []string {
	out := make([]string, g.height)
	for y, row := range g.cells {
		if !styled {
			out[y] = string(row)
			continue
		}
		var sb strings.Builder
		for x := 0; x < len(row); {
			end := x
			for end < len(row) && g.marked[y][end] == g.marked[y][x] {
				end++
			}
			if g.marked[y][x] {
				sb.WriteString(selectedCellStyle.Render(string(row[x:end])))
			} else {
				sb.WriteString(string(row[x:end]))
			}
			x = end
		}
		out[y] = sb.String()
	}
	return out
}

func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

func slopeRune(dx, dy float64) rune {
	ax, ay := math.Abs(dx), math.Abs(dy)
	switch {
	case ay <= ax/2:
		return '-'
	case ax <= ay/2:
		return '|'
	case (dx > 0) == (dy > 0):
		return '\\'
	default:
		return '/'
	}
}

func arrowRune(dx, dy float64) rune {
	if math.Abs(dx) >= math.Abs(dy) {
		if dx < 0 {
			return '<'
		}
		return '>'
	}
	if dy < 0 {
		return '^'
	}
	return 'v'
}

const (
	noteTimeLayout = "15:04"
	notePinMark    = "pinned"
)

type renderOptions struct {
	// preview draws in-flight gestures: the rubber band, the stroke being
	// drawn and the pending connector endpoint.
	preview bool
	styled  bool
}

// renderBoard paints the board of s into width x height screen cells.
// Connectors go first so element labels stay readable; everything else is
// painted in insertion order.
func renderBoard(s *editor.Session, width, height int, opts renderOptions) []string {
	r := &boardRenderer{session: s, store: s.Store(), g: newGrid(width, height)}
	elements := r.store.All()
	for _, e := range elements {
		if c, ok := e.(*scene.Connector); ok {
			r.connector(c)
		}
	}
	for _, e := range elements {
		if _, ok := e.(*scene.Connector); !ok {
			r.element(e)
		}
	}
	if opts.preview {
		r.previews()
	}
	return r.g.lines(opts.styled)
}

type boardRenderer struct {
	session *editor.Session
	store   *scene.Store
	g       *grid
}

func (r *boardRenderer) screen(p geom.Point) geom.Point {
	sp, err := r.session.Viewport().ToScreen(p)
	if err != nil {
		return geom.Pt(-1, -1)
	}
	return sp
}

func (r *boardRenderer) screenAll(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = r.screen(p)
	}
	return out
}

// screenBox maps a scene rectangle to the inclusive cell range it covers.
func (r *boardRenderer) screenBox(b geom.Rect) (x0, y0, x1, y1 int) {
	lo, hi := r.screen(b.Min), r.screen(b.Max)
	x0, y0 = round(lo.X), round(lo.Y)
	x1, y1 = round(hi.X)-1, round(hi.Y)-1
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return x0, y0, x1, y1
}

func (r *boardRenderer) element(e scene.Element) {
	selected := e.ElementID() == r.session.Selected()
	r.g.mark = selected
	defer func() { r.g.mark = false }()

	switch e := e.(type) {
	case *scene.Shape:
		b := r.store.Bounds(e)
		if e.Shape == scene.ShapeRect {
			r.box(b, selected, '+', '+', '+', '+', '-', '|')
		} else {
			ch := '*'
			if selected {
				ch = '#'
			}
			r.g.polyline(r.screenAll(scene.Outline(e.Shape, b)), ch, true)
		}
		r.label(e.Label, b)
	case *scene.MindNode:
		b := r.store.Bounds(e)
		r.box(b, selected, '╭', '╮', '╰', '╯', '─', '│')
		r.label(e.Label, b)
	case *scene.Note:
		b := r.store.Bounds(e)
		r.box(b, selected, '┌', '┐', '└', '┘', '─', '│')
		x0, y0, x1, _ := r.screenBox(b)
		if !e.Created.IsZero() {
			r.g.text(x0+1, y0+1, e.Created.Format(noteTimeLayout))
		}
		if e.Pinned {
			r.g.text(x1-len(notePinMark), y0+1, notePinMark)
		}
		for i, line := range strings.Split(e.Label, "\n") {
			r.g.text(x0+1, y0+2+i, line)
		}
	case *scene.Text:
		p := r.screen(e.Position)
		for i, line := range strings.Split(e.Label, "\n") {
			r.g.text(round(p.X), round(p.Y)+i, line)
		}
	case *scene.Stroke:
		r.g.polyline(r.screenAll(e.Points), '·', false)
	}
}

// box draws a bordered rectangle the way a selected flowchart box is shown:
// every border cell becomes '#'.
func (r *boardRenderer) box(b geom.Rect, selected bool, tl, tr, bl, br, h, v rune) {
	if selected {
		tl, tr, bl, br, h, v = '#', '#', '#', '#', '#', '#'
	}
	x0, y0, x1, y1 := r.screenBox(b)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			switch {
			case y == y0 && x == x0:
				r.g.set(x, y, tl)
			case y == y0 && x == x1:
				r.g.set(x, y, tr)
			case y == y1 && x == x0:
				r.g.set(x, y, bl)
			case y == y1 && x == x1:
				r.g.set(x, y, br)
			case y == y0 || y == y1:
				r.g.set(x, y, h)
			case x == x0 || x == x1:
				r.g.set(x, y, v)
			default:
				r.g.set(x, y, ' ')
			}
		}
	}
}

// label centers multi-line text on b.
func (r *boardRenderer) label(text string, b geom.Rect) {
	if text == "" {
		return
	}
	c := r.screen(b.Center())
	lines := strings.Split(text, "\n")
	top := int(math.Floor(c.Y)) - (len(lines)-1)/2
	for i, line := range lines {
		r.g.text(int(math.Floor(c.X))-len([]rune(line))/2, top+i, line)
	}
}

func (r *boardRenderer) connector(c *scene.Connector) {
	path, ok := r.store.Registry().Path(c.ID)
	if !ok {
		return
	}
	n := 1
	if path.Curved {
		n = curveSamples
	}
	pts := r.screenAll(path.Sample(n))

	r.g.mark = c.ID == r.session.Selected()
	defer func() { r.g.mark = false }()
	r.g.polyline(pts, 0, false)

	// the arrowhead sits just outside the target's border
	tip := pts[len(pts)-1]
	prev := pts[0]
	for i := len(pts) - 2; i >= 0; i-- {
		if pts[i].Dist(tip) >= 1 {
			prev = pts[i]
			break
		}
	}
	dir := tip.Sub(prev)
	if c.To.Attached() {
		if e, err := r.store.Get(c.To.ElementID); err == nil {
			tip = r.edgePoint(prev, tip, r.store.Bounds(e))
		}
	}
	r.g.set(round(tip.X), round(tip.Y), arrowRune(dir.X, dir.Y))
}

// edgePoint walks from the target's center back toward from and returns the
// first cell outside the target's box.
func (r *boardRenderer) edgePoint(from, center geom.Point, target geom.Rect) geom.Point {
	x0, y0, x1, y1 := r.screenBox(target)
	d := from.Sub(center)
	steps := int(math.Ceil(math.Max(math.Abs(d.X), math.Abs(d.Y))))
	for i := 1; i <= steps; i++ {
		p := center.Add(d.Scale(float64(i) / float64(steps)))
		x, y := round(p.X), round(p.Y)
		if x < x0 || x > x1 || y < y0 || y > y1 {
			return p
		}
	}
	return center
}

func (r *boardRenderer) previews() {
	if band, ok := r.session.Band(); ok {
		x0, y0, x1, y1 := r.screenBox(band)
		for x := x0; x <= x1; x++ {
			r.g.set(x, y0, '.')
			r.g.set(x, y1, '.')
		}
		for y := y0; y <= y1; y++ {
			r.g.set(x0, y, ':')
			r.g.set(x1, y, ':')
		}
	}
	if stroke := r.session.StrokePreview(); len(stroke) > 0 {
		r.g.polyline(r.screenAll(stroke), '·', false)
	}
	if b, ok := r.session.PendingBinding(); ok {
		p := b.Point
		if b.Attached() {
			e, err := r.store.Get(b.ElementID)
			if err != nil {
				return
			}
			p = r.store.Bounds(e).Center()
		}
		sp := r.screen(p)
		r.g.set(round(sp.X), round(sp.Y), 'o')
	}
}
