// Package memory implements an in-process store.Client used for dry runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/viant/protograph/store"
)

// Node is a stored node
type Node struct {
	Ref        string
	Label      string
	Attributes map[string]string
}

// Relationship is a stored relationship
type Relationship struct {
	Ref        string
	From       string
	To         string
	Type       string
	Attributes map[string]string
}

// Store keeps nodes and relationships in memory
type Store struct {
	mu            sync.RWMutex
	nodes         map[string]*Node
	relationships map[string]*Relationship
	resets        int
}

// New creates an empty store
func New() *Store {
	return &Store{
		nodes:         make(map[string]*Node),
		relationships: make(map[string]*Relationship),
	}
}

// Reset drops all nodes and relationships
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = make(map[string]*Node)
	s.relationships = make(map[string]*Relationship)
	s.resets++
	return nil
}

// CreateNode stores a node under a generated reference
func (s *Store) CreateNode(ctx context.Context, label string, attributes map[string]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", store.NewBackendError(store.OpCreateNode, err)
	}
	ref := "memory://node/" + uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[ref] = &Node{Ref: ref, Label: label, Attributes: copyMap(attributes)}
	return ref, nil
}

// CreateRelationship stores a relationship; both node references must exist
func (s *Store) CreateRelationship(ctx context.Context, from, to, relType string, attributes map[string]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", store.NewBackendError(store.OpCreateRelationship, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ref := range []string{from, to} {
		if _, ok := s.nodes[ref]; !ok {
			return "", store.NewBackendError(store.OpCreateRelationship, fmt.Errorf("unknown node %s", ref))
		}
	}
	ref := "memory://relationship/" + uuid.NewString()
	s.relationships[ref] = &Relationship{Ref: ref, From: from, To: to, Type: relType, Attributes: copyMap(attributes)}
	return ref, nil
}

// Node returns the node stored under ref
func (s *Store) Node(ref string) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node, ok := s.nodes[ref]
	return node, ok
}

// Nodes returns stored nodes ordered by reference
func (s *Store) Nodes() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*Node, 0, len(s.nodes))
	for _, node := range s.nodes {
		result = append(result, node)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Ref < result[j].Ref })
	return result
}

// Relationships returns stored relationships ordered by reference
func (s *Store) Relationships() []*Relationship {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*Relationship, 0, len(s.relationships))
	for _, rel := range s.relationships {
		result = append(result, rel)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Ref < result[j].Ref })
	return result
}

// Resets returns how many times Reset was called
func (s *Store) Resets() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resets
}

func copyMap(src map[string]string) map[string]string {
	dest := make(map[string]string, len(src))
	for k, v := range src {
		dest[k] = v
	}
	return dest
}
