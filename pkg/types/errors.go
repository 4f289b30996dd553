package types

import "errors"

// Engine operation errors.
var (
	// ErrKeyNotFound is returned by the query cache when a key is absent.
	ErrKeyNotFound = errors.New("key not found")

	// ErrNoSelector is returned by Remove when neither a query nor
	// document IDs are given. Removing everything must be explicit via
	// Truncate.
	ErrNoSelector = errors.New("remove requires a query or document IDs")

	// ErrQueryRequired is returned by Upsert when no query is given and
	// the document carries no ID to match by.
	ErrQueryRequired = errors.New("upsert requires a query or an identified document")

	// ErrTypeMismatch is wrapped by update transforms applied to a field
	// whose current value does not support the operation.
	ErrTypeMismatch = errors.New("field value does not support the operation")

	// ErrClosed is returned by database operations after Close.
	ErrClosed = errors.New("database is closed")
)
