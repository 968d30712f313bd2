package usecase

import "github.com/piresc/unitransport/internal/pkg/models"

// Simulator moves a virtual vehicle along a straight segment, looping back
// to the start once it passes the end
type Simulator struct {
	start    models.Point
	end      models.Point
	step     float64
	progress float64
}

// NewSimulator starts at progress 0 on the segment for direction
func NewSimulator(endpoints models.Endpoints, direction models.Direction, step float64) *Simulator {
	start, end := endpoints.Segment(direction)
	return &Simulator{start: start, end: end, step: step}
}

// Advance moves one step and returns the new position
func (s *Simulator) Advance() models.Point {
	s.progress += s.step
	if s.progress > 1 {
		s.progress = 0
	}
	return models.Interpolate(s.start, s.end, s.progress)
}

// Progress is the fraction of the segment covered
func (s *Simulator) Progress() float64 {
	return s.progress
}
