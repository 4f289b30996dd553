package storage

import "github.com/mesh-intelligence/larder/pkg/types"

// Memory holds the whole state in memory. Read and Write deep-copy the
// state so callers never alias the stored copy across the write boundary.
type Memory struct {
	state types.State
}

// NewMemory creates an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{}
}

// Read returns a copy of the stored state, or (nil, nil) before the first
// Write.
func (s *Memory) Read() (types.State, error) {
	if s.state == nil {
		return nil, nil
	}
	return s.state.Clone(), nil
}

// Write replaces the stored state with a copy of the given one.
func (s *Memory) Write(state types.State) error {
	s.state = state.Clone()
	return nil
}
