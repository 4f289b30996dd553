// Package types defines the Document model, the Storage and Query
// contracts, the Config struct, and standard error types for the larder
// document store.
package types
