package mindtree

import "drawboard/internal/geom"

// Horizontal gap between a node and its children, and vertical gap between
// sibling subtrees, in scene units.
const (
	levelGap   = 4
	siblingGap = 1
)

// SizeFunc reports the footprint of a node with the given text.
type SizeFunc func(text string) geom.Size

// Layout places the tree with root's top-left corner at origin. Children sit
// to the right of their parent, stacked vertically and centered on it.
func Layout(root *Node, origin geom.Point, size SizeFunc) map[string]geom.Point {
	l := &layout{size: size, heights: make(map[string]float64), pos: make(map[string]geom.Point)}
	l.subtreeHeight(root)
	l.pos[root.ID] = origin
	l.place(root)
	return l.pos
}

type layout struct {
	size    SizeFunc
	heights map[string]float64
	pos     map[string]geom.Point
}

func (l *layout) subtreeHeight(n *Node) float64 {
	own := l.size(n.Text).H
	total := 0.0
	for i, c := range n.Children {
		total += l.subtreeHeight(c)
		if i < len(n.Children)-1 {
			total += siblingGap
		}
	}
	if total < own {
		total = own
	}
	l.heights[n.ID] = total
	return total
}

func (l *layout) place(n *Node) {
	if len(n.Children) == 0 {
		return
	}
	p := l.pos[n.ID]
	s := l.size(n.Text)
	total := 0.0
	for i, c := range n.Children {
		total += l.heights[c.ID]
		if i < len(n.Children)-1 {
			total += siblingGap
		}
	}
	y := p.Y + s.H/2 - total/2
	for _, c := range n.Children {
		h := l.heights[c.ID]
		ch := l.size(c.Text).H
		l.pos[c.ID] = geom.Pt(p.X+s.W+levelGap, y+(h-ch)/2)
		y += h + siblingGap
		l.place(c)
	}
}
