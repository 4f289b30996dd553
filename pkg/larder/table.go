package larder

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/mesh-intelligence/larder/internal/cache"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// Table is a named partition of the persisted state with its own ID space
// and query cache. It is the sole reader and mutator of that partition.
//
// Every mutating operation follows the whole-state read-modify-write
// discipline: read the entire persisted state, mutate a staging copy of
// this table's partition, re-embed it, and write the entire state back.
// The storage contract has no partial-update primitive, so this is a
// functional requirement, not an optimization target.
//
// A table is designed for single-process, single-writer use. Two callers
// racing on the same storage target can silently drop one writer's change;
// coordination, if any, is left to the caller.
type Table struct {
	name       string
	storage    types.Storage
	queryCache *cache.Cache[string, []types.Document]
}

func newTable(storage types.Storage, name string, cacheSize int) *Table {
	return &Table{
		name:       name,
		storage:    storage,
		queryCache: cache.New[string, []types.Document](cacheSize),
	}
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Insert stores a copy of the given fields under the next free ID and
// returns that ID. IDs start at 1 and are always max(existing)+1, so they
// stay unique and monotonic even after removals leave gaps.
func (t *Table) Insert(fields map[string]any) (int, error) {
	var id int
	err := t.updateTable(func(docs map[string]map[string]any) error {
		id = nextID(docs)
		docs[strconv.Itoa(id)] = types.CloneFields(fields)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// InsertMultiple inserts each field mapping in order within a single
// read-modify-write cycle and a single cache invalidation. The returned
// IDs are strictly increasing and match the input order.
func (t *Table) InsertMultiple(documents []map[string]any) ([]int, error) {
	ids := make([]int, 0, len(documents))
	err := t.updateTable(func(docs map[string]map[string]any) error {
		for _, fields := range documents {
			id := nextID(docs)
			docs[strconv.Itoa(id)] = types.CloneFields(fields)
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// All returns every document in the table, ordered by ID.
func (t *Table) All() ([]types.Document, error) {
	docs, err := t.readTable()
	if err != nil {
		return nil, err
	}
	ids, err := sortedIDs(docs)
	if err != nil {
		return nil, err
	}
	out := make([]types.Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, types.NewDocument(id, docs[strconv.Itoa(id)]))
	}
	return out, nil
}

// ForEach calls fn for every document in ID order until fn returns false.
func (t *Table) ForEach(fn func(doc types.Document) bool) error {
	all, err := t.All()
	if err != nil {
		return err
	}
	for _, doc := range all {
		if !fn(doc) {
			return nil
		}
	}
	return nil
}

// Len returns the number of documents in the table.
func (t *Table) Len() (int, error) {
	docs, err := t.readTable()
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Search returns every document matching the query, ordered by ID. When
// the query declares itself cacheable the result is memoized; a repeated
// search with the same key is served from the cache without touching
// storage until the next mutation invalidates it.
func (t *Table) Search(q types.Query) ([]types.Document, error) {
	key, cacheable := queryCacheKey(q)
	if cacheable {
		if hit, err := t.queryCache.Get(key); err == nil {
			return copyDocuments(hit), nil
		}
	}

	docs, err := t.readTable()
	if err != nil {
		return nil, err
	}
	ids, err := sortedIDs(docs)
	if err != nil {
		return nil, err
	}
	matched := make([]types.Document, 0)
	for _, id := range ids {
		fields := docs[strconv.Itoa(id)]
		if q.Test(fields) {
			matched = append(matched, types.NewDocument(id, fields))
		}
	}

	if cacheable {
		t.queryCache.Set(key, copyDocuments(matched))
	}
	return matched, nil
}

// Count returns the number of documents matching the query.
func (t *Table) Count(q types.Query) (int, error) {
	matched, err := t.Search(q)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

// Get returns the first document matching the query, or nil when nothing
// matches. A nil query returns nil. Absence is an expected outcome, never
// an error.
func (t *Table) Get(q types.Query) (*types.Document, error) {
	if q == nil {
		return nil, nil
	}
	matched, err := t.Search(q)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, nil
	}
	doc := matched[0]
	return &doc, nil
}

// GetByID returns the document with the given ID, or nil when absent.
func (t *Table) GetByID(id int) (*types.Document, error) {
	docs, err := t.readTable()
	if err != nil {
		return nil, err
	}
	fields, ok := docs[strconv.Itoa(id)]
	if !ok {
		return nil, nil
	}
	doc := types.NewDocument(id, fields)
	return &doc, nil
}

// GetByIDs returns the documents for each given ID, in the order the IDs
// were given. Missing IDs are skipped silently; the result is a slice,
// never nil-for-absent.
func (t *Table) GetByIDs(ids []int) ([]types.Document, error) {
	docs, err := t.readTable()
	if err != nil {
		return nil, err
	}
	out := make([]types.Document, 0, len(ids))
	for _, id := range ids {
		if fields, ok := docs[strconv.Itoa(id)]; ok {
			out = append(out, types.NewDocument(id, fields))
		}
	}
	return out, nil
}

// Contains reports whether any document matches the query.
func (t *Table) Contains(q types.Query) (bool, error) {
	doc, err := t.Get(q)
	if err != nil {
		return false, err
	}
	return doc != nil, nil
}

// ContainsID reports whether a document with the given ID exists. The
// check does not materialize the document.
func (t *Table) ContainsID(id int) (bool, error) {
	docs, err := t.readTable()
	if err != nil {
		return false, err
	}
	_, ok := docs[strconv.Itoa(id)]
	return ok, nil
}

// Update merges the given fields into every matching document, replacing
// keys present in both, and returns the IDs of the documents touched in
// ID order. A nil query and nil IDs select all documents; when both are
// given they combine with logical AND. One read-modify-write cycle and
// one cache invalidation happen regardless of how many documents matched.
func (t *Table) Update(fields map[string]any, q types.Query, ids []int) ([]int, error) {
	return t.UpdateTransform(mergeFields(fields), q, ids)
}

// UpdateTransform applies the transform to every matching document, with
// the same selector semantics as Update. A transform error aborts the
// cycle before the write; the persisted state is left unchanged but the
// query cache has already been invalidated.
func (t *Table) UpdateTransform(apply types.Transform, q types.Query, ids []int) ([]int, error) {
	idSet := toIDSet(ids)
	var updated []int
	err := t.updateTable(func(docs map[string]map[string]any) error {
		ordered, err := sortedIDs(docs)
		if err != nil {
			return err
		}
		for _, id := range ordered {
			if idSet != nil && !idSet[id] {
				continue
			}
			fields := docs[strconv.Itoa(id)]
			if q != nil && !q.Test(fields) {
				continue
			}
			if err := apply(fields); err != nil {
				return err
			}
			updated = append(updated, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateOp pairs a mutation with the query selecting the documents it
// applies to. Exactly one of Fields and Transform should be set; Fields
// merges into the matched documents, Transform mutates them. A nil Query
// selects all documents.
type UpdateOp struct {
	Fields    map[string]any
	Transform types.Transform
	Query     types.Query
}

// UpdateMultiple applies each operation in order within a single
// read-modify-write cycle. A document matched by several operations is
// mutated by each of them; the returned IDs are concatenated in
// operation-then-match order and may repeat.
func (t *Table) UpdateMultiple(ops []UpdateOp) ([]int, error) {
	var updated []int
	err := t.updateTable(func(docs map[string]map[string]any) error {
		ordered, err := sortedIDs(docs)
		if err != nil {
			return err
		}
		for _, op := range ops {
			apply := op.Transform
			if apply == nil {
				apply = mergeFields(op.Fields)
			}
			for _, id := range ordered {
				fields := docs[strconv.Itoa(id)]
				if op.Query != nil && !op.Query.Test(fields) {
					continue
				}
				if err := apply(fields); err != nil {
					return err
				}
				updated = append(updated, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Upsert updates every document matching the query with the given fields,
// or inserts the fields as a new document when nothing matches. The query
// is required; use UpsertDocument to upsert by an explicit ID.
func (t *Table) Upsert(fields map[string]any, q types.Query) ([]int, error) {
	if q == nil {
		return nil, types.ErrQueryRequired
	}
	updated, err := t.Update(fields, q, nil)
	if err != nil {
		return nil, err
	}
	if len(updated) > 0 {
		return updated, nil
	}
	id, err := t.Insert(fields)
	if err != nil {
		return nil, err
	}
	return []int{id}, nil
}

// UpsertDocument updates the document carrying the given document's ID
// with its fields, or inserts the fields as a new document when that ID
// no longer exists. The document must carry an ID.
func (t *Table) UpsertDocument(doc types.Document) ([]int, error) {
	if doc.ID <= 0 {
		return nil, types.ErrQueryRequired
	}
	updated, err := t.Update(doc.Fields, nil, []int{doc.ID})
	if err != nil {
		return nil, err
	}
	if len(updated) > 0 {
		return updated, nil
	}
	id, err := t.Insert(doc.Fields)
	if err != nil {
		return nil, err
	}
	return []int{id}, nil
}

// Remove deletes every matching document and returns their IDs in ID
// order. Selectors combine with logical AND like Update, but at least one
// must be given; removing everything is spelled Truncate.
func (t *Table) Remove(q types.Query, ids []int) ([]int, error) {
	if q == nil && ids == nil {
		return nil, types.ErrNoSelector
	}
	idSet := toIDSet(ids)
	var removed []int
	err := t.updateTable(func(docs map[string]map[string]any) error {
		ordered, err := sortedIDs(docs)
		if err != nil {
			return err
		}
		for _, id := range ordered {
			if idSet != nil && !idSet[id] {
				continue
			}
			key := strconv.Itoa(id)
			if q != nil && !q.Test(docs[key]) {
				continue
			}
			delete(docs, key)
			removed = append(removed, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// Truncate removes every document in the table.
func (t *Table) Truncate() error {
	return t.updateTable(func(docs map[string]map[string]any) error {
		for key := range docs {
			delete(docs, key)
		}
		return nil
	})
}

// ClearCache empties the query cache without touching storage.
func (t *Table) ClearCache() {
	t.queryCache.Clear()
}

// readTable reads the full persisted state and extracts this table's
// partition. The returned map may be nil when the table has never been
// written.
func (t *Table) readTable() (map[string]map[string]any, error) {
	state, err := t.storage.Read()
	if err != nil {
		return nil, fmt.Errorf("reading state: %w", err)
	}
	return state[t.name], nil
}

// updateTable performs one whole-state read-modify-write cycle: read the
// entire state, hand this table's partition to the updater as a staging
// copy, re-embed it, and write the entire state back.
//
// The query cache is invalidated up front, before the write is attempted,
// so a failed write can never leave stale cached results behind.
func (t *Table) updateTable(updater func(docs map[string]map[string]any) error) error {
	t.queryCache.Clear()

	state, err := t.storage.Read()
	if err != nil {
		return fmt.Errorf("reading state: %w", err)
	}
	if state == nil {
		state = types.State{}
	}
	docs := state[t.name]
	if docs == nil {
		docs = make(map[string]map[string]any)
	}
	if err := updater(docs); err != nil {
		return err
	}
	state[t.name] = docs
	if err := t.storage.Write(state); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}

// nextID computes the ID for a newly inserted document from the current
// partition: max(existing IDs)+1, or 1 when the table is empty. The value
// is recomputed from the stored document set on every insert rather than
// kept as a counter, so IDs stay collision-free across reopens.
func nextID(docs map[string]map[string]any) int {
	next := 1
	for key := range docs {
		if id, err := strconv.Atoi(key); err == nil && id >= next {
			next = id + 1
		}
	}
	return next
}

// sortedIDs returns the partition's document IDs in ascending order. A
// key that does not parse as an integer means the state blob is corrupt.
func sortedIDs(docs map[string]map[string]any) ([]int, error) {
	ids := make([]int, 0, len(docs))
	for key := range docs {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("corrupt document ID %q: %w", key, err)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// queryCacheKey returns the cache key for a query and whether the query
// may be memoized at all.
func queryCacheKey(q types.Query) (string, bool) {
	cq, ok := q.(types.CacheableQuery)
	if !ok || !cq.Cacheable() {
		return "", false
	}
	return cq.CacheKey(), true
}

// copyDocuments deep-copies a result set so cached entries and returned
// slices never alias each other.
func copyDocuments(docs []types.Document) []types.Document {
	out := make([]types.Document, len(docs))
	for i, doc := range docs {
		out[i] = doc.Copy()
	}
	return out
}

// mergeFields builds a transform that merges the given fields into a
// document, replacing keys present in both. Values are cloned per
// application so matched documents never share nested structures.
func mergeFields(fields map[string]any) types.Transform {
	return func(doc map[string]any) error {
		for k, v := range types.CloneFields(fields) {
			doc[k] = v
		}
		return nil
	}
}

// toIDSet converts an ID slice to a set, keeping nil as "no ID filter".
func toIDSet(ids []int) map[int]bool {
	if ids == nil {
		return nil
	}
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
