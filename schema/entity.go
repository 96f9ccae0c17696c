package schema

import "sort"

// UnknownDomain is assigned to entities registered without a package
const UnknownDomain = "unknown"

// Entity represents a message, enum or oneof group
type Entity struct {
	Name       string            `json:"name"`       // Fully qualified name, <package>.<local-name>
	Domain     string            `json:"domain"`     // Package the entity was first registered under
	Attributes map[string]string `json:"attributes"` // Attribute name to primitive type tag
}

// AttributeNames returns attribute names in sorted order
func (e *Entity) AttributeNames() []string {
	names := make([]string, 0, len(e.Attributes))
	for name := range e.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy of the entity that shares no state with the receiver
func (e *Entity) Clone() *Entity {
	clone := &Entity{
		Name:       e.Name,
		Domain:     e.Domain,
		Attributes: make(map[string]string, len(e.Attributes)),
	}
	for k, v := range e.Attributes {
		clone.Attributes[k] = v
	}
	return clone
}

// Relationship represents a field-labeled edge from Source to Target.
// Relationships compare by value, so a set keyed by Relationship dedups identical triples.
type Relationship struct {
	Source    string `json:"source"`
	FieldName string `json:"fieldName"`
	Target    string `json:"target"`
}

func (r Relationship) less(o Relationship) bool {
	if r.Source != o.Source {
		return r.Source < o.Source
	}
	if r.FieldName != o.FieldName {
		return r.FieldName < o.FieldName
	}
	return r.Target < o.Target
}
