// Shared helpers for larder CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/larder/pkg/query"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// decodeFields parses a JSON object argument into a field mapping.
func decodeFields(arg string) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(arg), &fields); err != nil {
		return nil, fmt.Errorf("parsing document %q: %w", arg, err)
	}
	return fields, nil
}

// parseWhere turns a "field=value" expression into an equality query. The
// value side is parsed as JSON when possible, so numbers and booleans
// compare as such; anything else compares as a string.
func parseWhere(expr string) (types.Query, error) {
	field, raw, ok := strings.Cut(expr, "=")
	if !ok || field == "" {
		return nil, fmt.Errorf("invalid where expression %q, want field=value", expr)
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}
	return query.Where(field).Eq(value), nil
}

// printDocuments renders documents either as a JSON array or as one
// "id: fields" line per document.
func printDocuments(docs []types.Document) error {
	if flagJSON {
		return printJSON(docs)
	}
	for _, doc := range docs {
		line, err := json.Marshal(doc.Fields)
		if err != nil {
			return err
		}
		fmt.Printf("%d: %s\n", doc.ID, line)
	}
	return nil
}

// printJSON renders any value as indented JSON on stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
