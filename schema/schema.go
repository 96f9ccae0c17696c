// Package schema holds the entity/relationship graph built from type definitions.
package schema

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
)

// Schema is the in-memory graph of entities and the relationships between them.
// It is populated once by a single walker and read concurrently afterwards.
type Schema struct {
	mu            sync.RWMutex
	entities      map[string]*Entity
	relationships map[Relationship]struct{}
}

// New creates an empty schema
func New() *Schema {
	return &Schema{
		entities:      make(map[string]*Entity),
		relationships: make(map[Relationship]struct{}),
	}
}

// RegisterEntity creates the entity if absent; an existing entity keeps its domain and attributes
func (s *Schema) RegisterEntity(name, domain string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entities[name]; ok {
		return
	}
	if strings.TrimSpace(domain) == "" {
		domain = UnknownDomain
	}
	s.entities[name] = &Entity{
		Name:       name,
		Domain:     domain,
		Attributes: make(map[string]string),
	}
}

// RegisterAttribute adds an attribute to a registered entity; attributes of unknown entities are dropped
func (s *Schema) RegisterAttribute(entityName, name, typ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entity, ok := s.entities[entityName]
	if !ok {
		return
	}
	entity.Attributes[name] = typ
}

// RegisterRelationship adds the (source, fieldName, target) triple to the relationship set
func (s *Schema) RegisterRelationship(source, fieldName, target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relationships[Relationship{Source: source, FieldName: fieldName, Target: target}] = struct{}{}
}

// Entity returns a copy of the named entity
func (s *Schema) Entity(name string) (*Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entity, ok := s.entities[name]
	if !ok {
		return nil, false
	}
	return entity.Clone(), true
}

// HasEntity reports whether name was registered
func (s *Schema) HasEntity(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entities[name]
	return ok
}

// HasRelationship reports whether the triple was registered
func (s *Schema) HasRelationship(source, fieldName, target string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.relationships[Relationship{Source: source, FieldName: fieldName, Target: target}]
	return ok
}

// Entities returns copies of all entities ordered by name
func (s *Schema) Entities() []*Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*Entity, 0, len(s.entities))
	for _, entity := range s.entities {
		result = append(result, entity.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Relationships returns all relationships in a stable order
func (s *Schema) Relationships() []Relationship {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Relationship, 0, len(s.relationships))
	for rel := range s.relationships {
		result = append(result, rel)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].less(result[j]) })
	return result
}

// EntityCount returns number of registered entities
func (s *Schema) EntityCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// RelationshipCount returns number of distinct relationships
func (s *Schema) RelationshipCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.relationships)
}

type document struct {
	Entities      map[string]*Entity `json:"entities"`
	Relationships []Relationship     `json:"relationships"`
}

// MarshalJSON renders the schema as {"entities": {...}, "relationships": [...]}
func (s *Schema) MarshalJSON() ([]byte, error) {
	doc := document{Entities: map[string]*Entity{}, Relationships: s.Relationships()}
	for _, entity := range s.Entities() {
		doc.Entities[entity.Name] = entity
	}
	return json.Marshal(doc)
}
