package graph

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

// Record mapping helpers. Every query result crosses exactly one of
// these on its way to a typed record; nothing downstream reads raw
// node properties.

// NodeValue pulls a named value out of a record and asserts it is a
// node. Second return is false when the column is absent or null
// (OPTIONAL MATCH that matched nothing).
func NodeValue(record *db.Record, key string) (neo4j.Node, bool) {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return neo4j.Node{}, false
	}

	node, ok := val.(neo4j.Node)
	return node, ok
}

// StringProp reads a string property off a node, empty string when the
// property is missing or not a string.
func StringProp(node neo4j.Node, key string) string {
	if val, ok := node.Props[key]; ok {
		if s, ok := val.(string); ok {
			return s
		}
	}

	return ""
}

// Int64Prop reads an integer property off a node. Bolt integers arrive
// as int64; anything else counts as absent.
func Int64Prop(node neo4j.Node, key string) int64 {
	if val, ok := node.Props[key]; ok {
		if n, ok := val.(int64); ok {
			return n
		}
	}

	return 0
}

// StringsValue converts a collect() column into []string. Null entries
// and non-strings are skipped, so COLLECT(DISTINCT a.name) over an
// optional match cannot smuggle a null into the slice.
func StringsValue(record *db.Record, key string) []string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}

	raw, ok := val.([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}

	return out
}

// StringValue reads a plain string column, empty when null or absent.
func StringValue(record *db.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}

	s, _ := val.(string)
	return s
}

// CountValue reads a count() column.
func CountValue(record *db.Record, key string) int64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}

	n, _ := val.(int64)
	return n
}

// NamesValue converts a collect(node) column into the nodes' name
// properties.
func NamesValue(record *db.Record, key string) []string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}

	raw, ok := val.([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if node, ok := v.(neo4j.Node); ok {
			if name := StringProp(node, "name"); name != "" {
				out = append(out, name)
			}
		}
	}

	return out
}
