package scene

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"drawboard/internal/apperr"
	"drawboard/internal/geom"
)

type Endpoint int

const (
	From Endpoint = iota
	To
)

func (e Endpoint) String() string {
	if e == From {
		return "from"
	}
	return "to"
}

// Path is the rendered geometry of a connector. Curved paths are quadratic
// curves with their single control point at the horizontal midpoint.
type Path struct {
	From    geom.Point
	To      geom.Point
	Curved  bool
	Control geom.Point
}

func straightPath(from, to geom.Point) Path {
	return Path{From: from, To: to}
}

func curvedPath(from, to geom.Point) Path {
	return Path{From: from, To: to, Curved: true, Control: geom.Pt((from.X+to.X)/2, from.Y)}
}

// Sample returns n+1 points along the path, endpoints included.
func (p Path) Sample(n int) []geom.Point {
	if !p.Curved || n < 1 {
		return []geom.Point{p.From, p.To}
	}
	pts := make([]geom.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		pts = append(pts, geom.Pt(
			u*u*p.From.X+2*u*t*p.Control.X+t*t*p.To.X,
			u*u*p.From.Y+2*u*t*p.Control.Y+t*t*p.To.Y,
		))
	}
	return pts
}

func (p Path) Bounds() geom.Rect {
	r, _ := geom.Bounds(p.Sample(16))
	return r
}

// Dist returns the distance from pt to the path.
func (p Path) Dist(pt geom.Point) float64 {
	pts := p.Sample(16)
	best := math.Inf(1)
	for i := 0; i+1 < len(pts); i++ {
		best = math.Min(best, geom.SegmentDist(pt, pts[i], pts[i+1]))
	}
	return best
}

// Registry tracks connectors and the elements their endpoints are bound to,
// and recomputes connector paths whenever a bound element changes.
type Registry struct {
	store *Store
	// element id -> ids of connectors bound to it
	bound map[string]map[string]struct{}
	paths map[string]Path
	log   *zap.Logger

	recomputes int
}

func newRegistry(store *Store, log *zap.Logger) *Registry {
	r := &Registry{store: store, log: log}
	r.reset()
	return r
}

func (r *Registry) reset() {
	r.bound = make(map[string]map[string]struct{})
	r.paths = make(map[string]Path)
}

// Bind replaces one endpoint of a connector.
func (r *Registry) Bind(connectorID string, end Endpoint, b Binding) error {
	c, ok := r.store.elements[connectorID].(*Connector)
	if !ok {
		return apperr.NotFound("connector %s", connectorID)
	}
	if !b.Point.Finite() {
		return apperr.InvalidGeometry("binding point %v", b.Point)
	}
	if err := r.store.checkBinding(b); err != nil {
		return err
	}
	r.untrack(connectorID)
	next := c.clone().(*Connector)
	if end == From {
		next.From = b
	} else {
		next.To = b
	}
	r.store.elements[connectorID] = next
	r.track(next)
	r.recompute(next)
	return nil
}

// ElementChanged recomputes every connector bound to id, or the connector
// itself when id names one.
func (r *Registry) ElementChanged(id string) {
	if c, ok := r.store.elements[id].(*Connector); ok {
		r.recompute(c)
		return
	}
	for _, cid := range r.BoundTo(id) {
		c, ok := r.store.elements[cid].(*Connector)
		if !ok {
			r.log.Warn("bound connector missing from store", zap.String("connector", cid))
			r.untrack(cid)
			continue
		}
		r.recompute(c)
	}
}

// ElementDeleted removes every connector bound to id and returns how many
// were removed.
func (r *Registry) ElementDeleted(id string) int {
	ids := r.BoundTo(id)
	for _, cid := range ids {
		r.store.Remove(cid)
	}
	delete(r.bound, id)
	return len(ids)
}

// Refresh recomputes every connector path.
func (r *Registry) Refresh() {
	for _, id := range r.store.IDs() {
		if c, ok := r.store.elements[id].(*Connector); ok {
			r.recompute(c)
		}
	}
}

func (r *Registry) Path(connectorID string) (Path, bool) {
	p, ok := r.paths[connectorID]
	return p, ok
}

// BoundTo returns the ids of connectors bound to elementID, in scene order.
func (r *Registry) BoundTo(elementID string) []string {
	set := r.bound[elementID]
	if len(set) == 0 {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	pos := make(map[string]int, len(r.store.order))
	for i, id := range r.store.order {
		pos[id] = i
	}
	sort.Slice(ids, func(i, j int) bool { return pos[ids[i]] < pos[ids[j]] })
	return ids
}

// Dangling returns the ids of connectors that reference a missing element.
// It is empty unless an invariant has been broken.
func (r *Registry) Dangling() []string {
	var ids []string
	for _, id := range r.store.order {
		c, ok := r.store.elements[id].(*Connector)
		if !ok {
			continue
		}
		for _, b := range []Binding{c.From, c.To} {
			if b.Attached() && !r.store.Has(b.ElementID) {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids
}

// Recomputes counts path recomputations since the registry was created.
func (r *Registry) Recomputes() int {
	return r.recomputes
}

func (r *Registry) track(c *Connector) {
	for _, b := range []Binding{c.From, c.To} {
		if !b.Attached() {
			continue
		}
		set, ok := r.bound[b.ElementID]
		if !ok {
			set = make(map[string]struct{})
			r.bound[b.ElementID] = set
		}
		set[c.ID] = struct{}{}
	}
}

func (r *Registry) untrack(connectorID string) {
	delete(r.paths, connectorID)
	for eid, set := range r.bound {
		delete(set, connectorID)
		if len(set) == 0 {
			delete(r.bound, eid)
		}
	}
}

func (r *Registry) recompute(c *Connector) {
	from, errFrom := r.resolve(c.From)
	to, errTo := r.resolve(c.To)
	if errFrom != nil || errTo != nil {
		// only reachable if the cascade was bypassed
		r.log.Warn("dropping connector with dangling binding",
			zap.String("connector", c.ID), zap.NamedError("from", errFrom), zap.NamedError("to", errTo))
		r.store.Remove(c.ID)
		return
	}
	r.recomputes++
	if c.Curved {
		r.paths[c.ID] = curvedPath(from, to)
	} else {
		r.paths[c.ID] = straightPath(from, to)
	}
}

func (r *Registry) resolve(b Binding) (geom.Point, error) {
	if !b.Attached() {
		return b.Point, nil
	}
	e, ok := r.store.elements[b.ElementID]
	if !ok || e.Kind() == KindConnector {
		return geom.Point{}, apperr.BindingDangling("element %s", b.ElementID)
	}
	return r.store.Bounds(e).Center(), nil
}
