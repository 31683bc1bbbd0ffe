package visualizer

import "github.com/charmbracelet/harmonica"

// springBank eases a vector of bin levels towards each frame's targets.
type springBank struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func newSpringBank(fps int, frequency, damping float64) springBank {
	return springBank{spring: harmonica.NewSpring(harmonica.FPS(max(fps, 1)), frequency, damping)}
}

// follow advances every spring one frame towards target and writes the
// eased bytes into dst. A length change snaps to the new targets.
func (s *springBank) follow(dst, target []byte) {
	if len(s.pos) != len(target) {
		s.pos = make([]float64, len(target))
		s.vel = make([]float64, len(target))
		for i, v := range target {
			s.pos[i] = float64(v)
		}
	}
	for i, v := range target {
		s.pos[i], s.vel[i] = s.spring.Update(s.pos[i], s.vel[i], float64(v))
		dst[i] = byte(max(0, min(255, s.pos[i]+0.5)))
	}
}
