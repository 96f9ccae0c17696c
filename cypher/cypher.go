// Package cypher builds the Cypher statements sent to the graph store.
package cypher

import (
	"sort"
	"strings"
)

const (
	// ResetLegacy deletes every node and relationship without DETACH, as accepted by the REST cypher endpoint
	ResetLegacy = "MATCH (n) OPTIONAL MATCH (n)-[r]-() DELETE n, r"
	// Reset deletes every node together with its relationships
	Reset = "MATCH (n) DETACH DELETE n"
)

// Label converts a package name into a node label: "expediagroup.package" becomes expediagroup_package
func Label(domain string) string {
	return Identifier(strings.ReplaceAll(domain, ".", "_"))
}

// Identifier returns name unchanged when it is a plain identifier, otherwise backtick-quoted
func Identifier(name string) string {
	if isPlain(name) {
		return name
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// Parameter returns the parameter reference for name, e.g. $id
func Parameter(name string) string {
	return "$" + Identifier(name)
}

// CreateNode builds CREATE (n:<label> { k : $k, ... }) RETURN <returning> with keys in sorted order
func CreateNode(label string, keys []string, returning string) string {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)

	builder := &strings.Builder{}
	builder.WriteString("CREATE (n:")
	builder.WriteString(label)
	builder.WriteString(" {")
	for i, key := range sorted {
		if i > 0 {
			builder.WriteString(",")
		}
		builder.WriteString(" ")
		builder.WriteString(Identifier(key))
		builder.WriteString(" : ")
		builder.WriteString(Parameter(key))
	}
	builder.WriteString(" }) RETURN ")
	builder.WriteString(returning)
	return builder.String()
}

// CreateRelationship builds a statement linking two nodes by element id; properties are passed as $props
func CreateRelationship(relType string, returning string) string {
	return "MATCH (a), (b) WHERE elementId(a) = $from AND elementId(b) = $to CREATE (a)-[r:" +
		Identifier(relType) + " $props]->(b) RETURN " + returning
}

// Keys returns the sorted keys of attributes
func Keys(attributes map[string]string) []string {
	keys := make([]string, 0, len(attributes))
	for k := range attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isPlain(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
