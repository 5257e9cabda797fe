package slider

import "errors"

// ErrNoSlides is returned when a slider is initialised without slides.
var ErrNoSlides = errors.New("slider: at least one slide is required")

// State is the current position in a fixed, cyclic sequence of slides. The
// invariant 0 <= Index() < Count() holds for every reachable state.
type State struct {
	index int
	count int
}

// NewState returns a state positioned on the first of count slides.
func NewState(count int) (*State, error) {
	if count < 1 {
		return nil, ErrNoSlides
	}
	return &State{count: count}, nil
}

// Index returns the current position.
func (s *State) Index() int { return s.index }

// Count returns the number of slides.
func (s *State) Count() int { return s.count }

// Next advances one position, wrapping to the first slide.
func (s *State) Next() int {
	s.index = (s.index + 1) % s.count
	return s.index
}

// Prev retreats one position, wrapping to the last slide.
func (s *State) Prev() int {
	s.index = (s.index - 1 + s.count) % s.count
	return s.index
}

// Go jumps to index modulo Count, so negative values count from the end.
func (s *State) Go(index int) int {
	s.index = ((index % s.count) + s.count) % s.count
	return s.index
}
