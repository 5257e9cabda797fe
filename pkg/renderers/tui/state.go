package tui

// State holds collected answers in prompt order.
type State struct {
	values map[string]any
	order  []string
}

// NewState returns an empty state.
func NewState() *State {
	return &State{values: make(map[string]any)}
}

// Set records value under key, keeping the position of the first write.
func (s *State) Set(key string, value any) {
	if _, ok := s.values[key]; !ok {
		s.order = append(s.order, key)
	}
	s.values[key] = value
}

// Get returns the value recorded under key.
func (s *State) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the recorded keys in prompt order.
func (s *State) Keys() []string {
	return append([]string(nil), s.order...)
}

// Values returns a copy of the recorded values.
func (s *State) Values() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
