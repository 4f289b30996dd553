package larder

import "github.com/mesh-intelligence/larder/pkg/types"

// Default-table delegation. Each method forwards to the table named
// DefaultTableName, so a database used as a single-table store needs no
// explicit Table call. Delegation is spelled out method by method rather
// than done through reflection.

func (db *Database) defaultTable() (*Table, error) {
	if err := db.check(); err != nil {
		return nil, err
	}
	return db.Table(DefaultTableName), nil
}

// Insert inserts into the default table.
func (db *Database) Insert(fields map[string]any) (int, error) {
	t, err := db.defaultTable()
	if err != nil {
		return 0, err
	}
	return t.Insert(fields)
}

// InsertMultiple inserts into the default table.
func (db *Database) InsertMultiple(documents []map[string]any) ([]int, error) {
	t, err := db.defaultTable()
	if err != nil {
		return nil, err
	}
	return t.InsertMultiple(documents)
}

// All returns every document in the default table.
func (db *Database) All() ([]types.Document, error) {
	t, err := db.defaultTable()
	if err != nil {
		return nil, err
	}
	return t.All()
}

// Len returns the number of documents in the default table.
func (db *Database) Len() (int, error) {
	t, err := db.defaultTable()
	if err != nil {
		return 0, err
	}
	return t.Len()
}

// Search searches the default table.
func (db *Database) Search(q types.Query) ([]types.Document, error) {
	t, err := db.defaultTable()
	if err != nil {
		return nil, err
	}
	return t.Search(q)
}

// Count counts matches in the default table.
func (db *Database) Count(q types.Query) (int, error) {
	t, err := db.defaultTable()
	if err != nil {
		return 0, err
	}
	return t.Count(q)
}

// Get returns the first match from the default table, or nil.
func (db *Database) Get(q types.Query) (*types.Document, error) {
	t, err := db.defaultTable()
	if err != nil {
		return nil, err
	}
	return t.Get(q)
}

// GetByID returns the default-table document with the given ID, or nil.
func (db *Database) GetByID(id int) (*types.Document, error) {
	t, err := db.defaultTable()
	if err != nil {
		return nil, err
	}
	return t.GetByID(id)
}

// Contains reports whether the default table has a match.
func (db *Database) Contains(q types.Query) (bool, error) {
	t, err := db.defaultTable()
	if err != nil {
		return false, err
	}
	return t.Contains(q)
}

// ContainsID reports whether the default table has the given ID.
func (db *Database) ContainsID(id int) (bool, error) {
	t, err := db.defaultTable()
	if err != nil {
		return false, err
	}
	return t.ContainsID(id)
}

// Update updates the default table.
func (db *Database) Update(fields map[string]any, q types.Query, ids []int) ([]int, error) {
	t, err := db.defaultTable()
	if err != nil {
		return nil, err
	}
	return t.Update(fields, q, ids)
}

// UpdateTransform applies a transform to the default table.
func (db *Database) UpdateTransform(apply types.Transform, q types.Query, ids []int) ([]int, error) {
	t, err := db.defaultTable()
	if err != nil {
		return nil, err
	}
	return t.UpdateTransform(apply, q, ids)
}

// Upsert upserts into the default table.
func (db *Database) Upsert(fields map[string]any, q types.Query) ([]int, error) {
	t, err := db.defaultTable()
	if err != nil {
		return nil, err
	}
	return t.Upsert(fields, q)
}

// Remove removes from the default table.
func (db *Database) Remove(q types.Query, ids []int) ([]int, error) {
	t, err := db.defaultTable()
	if err != nil {
		return nil, err
	}
	return t.Remove(q, ids)
}

// Truncate truncates the default table.
func (db *Database) Truncate() error {
	t, err := db.defaultTable()
	if err != nil {
		return err
	}
	return t.Truncate()
}
