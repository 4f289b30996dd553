package types

// State is the whole persisted structure: table name -> string-encoded
// document ID -> field mapping. Storage backends read and write the state
// as a unit; there is no partial-update primitive.
type State map[string]map[string]map[string]any

// Clone deep-copies the state.
func (s State) Clone() State {
	out := make(State, len(s))
	for table, docs := range s {
		t := make(map[string]map[string]any, len(docs))
		for id, fields := range docs {
			t[id] = CloneFields(fields)
		}
		out[table] = t
	}
	return out
}

// Storage serializes the current state of the database and keeps it in
// some place (memory, file on disk, ...).
//
// Read returns (nil, nil) when nothing has been persisted yet. Write
// replaces the prior content entirely. Backends that hold resources also
// implement io.Closer; the database calls Close once at shutdown.
type Storage interface {
	Read() (State, error)
	Write(State) error
}
