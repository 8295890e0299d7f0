package editor

import (
	"drawboard/internal/geom"
	"drawboard/internal/scene"
)

// A point within this distance of a connector path hits the connector.
const connectorHitDistance = 2

// HitTest returns the id of the topmost element under p (scene space), or
// "" when nothing is hit. Elements are tested against their axis-aligned
// bounds, so triangles, stars and hexagons hit slightly outside their
// outline. Connectors are painted beneath everything else and only hit
// where no other element covers p.
func (s *Session) HitTest(p geom.Point) string {
	return s.hitTest(p, true)
}

func (s *Session) hitTest(p geom.Point, connectors bool) string {
	all := s.store.All()
	for i := len(all) - 1; i >= 0; i-- {
		e := all[i]
		if e.Kind() != scene.KindConnector && s.store.Bounds(e).Contains(p) {
			return e.ElementID()
		}
	}
	if !connectors {
		return ""
	}
	for i := len(all) - 1; i >= 0; i-- {
		e := all[i]
		if e.Kind() != scene.KindConnector {
			continue
		}
		if path, ok := s.store.Registry().Path(e.ElementID()); ok && path.Dist(p) <= connectorHitDistance {
			return e.ElementID()
		}
	}
	return ""
}
