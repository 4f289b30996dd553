package types

// Document is one stored record: an integer ID plus a field mapping.
// The ID is assigned by the table on insert, is unique within the table,
// and is carried alongside the fields rather than stored as a field key.
// Documents handed back by the engine are copies; mutating one never
// affects persisted state.
type Document struct {
	ID     int            // Table-assigned identifier, >= 1.
	Fields map[string]any // Field values. JSON value domain.
}

// NewDocument builds a Document from a field mapping. The fields are
// deep-copied so the document does not alias the caller's map.
func NewDocument(id int, fields map[string]any) Document {
	return Document{ID: id, Fields: CloneFields(fields)}
}

// Copy returns a deep copy of the document.
func (d Document) Copy() Document {
	return Document{ID: d.ID, Fields: CloneFields(d.Fields)}
}

// CloneFields deep-copies a field mapping. Nested maps and slices are
// copied; scalar values are shared (they are immutable in the JSON value
// domain). A nil input yields an empty, non-nil map.
func CloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneFields(val)
	case []any:
		out := make([]any, len(val))
		for i, el := range val {
			out[i] = cloneValue(el)
		}
		return out
	default:
		return v
	}
}
