package main

// handlePan moves the viewport with the arrow keys. Content follows the
// arrow, so the pan offset moves the opposite way.
func (m *model) handlePan(key string) bool {
	s := m.session()
	if s == nil {
		return false
	}
	speed := float64(m.getMoveSpeed(key))
	var dx, dy float64
	switch key {
	case "left", "shift+left":
		dx = speed
	case "right", "shift+right":
		dx = -speed
	case "up", "shift+up":
		dy = speed
	case "down", "shift+down":
		dy = -speed
	default:
		return false
	}
	if err := s.Viewport().Pan(dx, dy); err != nil {
		m.fail("pan", err)
	}
	return true
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "shift+left", "shift+right", "shift+up", "shift+down":
		return panStep * 2
	default:
		return panStep
	}
}
