package schema_test

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/protograph/schema"
)

func TestSchema_RegisterEntity(t *testing.T) {
	tests := []struct {
		description string
		register    [][2]string
		name        string
		wantDomain  string
	}{
		{
			description: "first registration wins",
			register:    [][2]string{{"hello.Greeting", "hello"}, {"hello.Greeting", "other"}},
			name:        "hello.Greeting",
			wantDomain:  "hello",
		},
		{
			description: "blank package falls back to unknown",
			register:    [][2]string{{".Orphan", ""}},
			name:        ".Orphan",
			wantDomain:  schema.UnknownDomain,
		},
		{
			description: "whitespace package falls back to unknown",
			register:    [][2]string{{"x", "  "}, {"x", "pkg"}},
			name:        "x",
			wantDomain:  schema.UnknownDomain,
		},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			s := schema.New()
			for _, item := range tc.register {
				s.RegisterEntity(item[0], item[1])
			}
			entity, ok := s.Entity(tc.name)
			require.True(t, ok)
			assert.Equal(t, tc.wantDomain, entity.Domain)
			assert.Equal(t, 1, s.EntityCount())
		})
	}
}

func TestSchema_RegisterEntityKeepsAttributes(t *testing.T) {
	s := schema.New()
	s.RegisterEntity("node1", "pkg")
	s.RegisterAttribute("node1", "id", "STRING")
	s.RegisterEntity("node1", "other")

	entity, ok := s.Entity("node1")
	require.True(t, ok)
	assert.Equal(t, "pkg", entity.Domain)
	assert.Equal(t, map[string]string{"id": "STRING"}, entity.Attributes)
}

func TestSchema_RegisterAttribute(t *testing.T) {
	s := schema.New()
	s.RegisterAttribute("missing", "id", "STRING")
	assert.Equal(t, 0, s.EntityCount())
	assert.False(t, s.HasEntity("missing"))

	s.RegisterEntity("present", "pkg")
	s.RegisterAttribute("present", "id", "STRING")
	s.RegisterAttribute("present", "id", "INT64")
	entity, _ := s.Entity("present")
	assert.Equal(t, map[string]string{"id": "INT64"}, entity.Attributes)
}

func TestSchema_RegisterRelationship(t *testing.T) {
	s := schema.New()
	s.RegisterRelationship("a", "f", "b")
	s.RegisterRelationship("a", "f", "b")
	s.RegisterRelationship("a", "g", "b")
	s.RegisterRelationship("b", "f", "a")

	assert.Equal(t, 3, s.RelationshipCount())
	assert.Equal(t, []schema.Relationship{
		{Source: "a", FieldName: "f", Target: "b"},
		{Source: "a", FieldName: "g", Target: "b"},
		{Source: "b", FieldName: "f", Target: "a"},
	}, s.Relationships())
	assert.True(t, s.HasRelationship("a", "g", "b"))
	assert.False(t, s.HasRelationship("b", "g", "a"))
}

func TestSchema_EntityReturnsCopy(t *testing.T) {
	s := schema.New()
	s.RegisterEntity("a", "pkg")
	entity, _ := s.Entity("a")
	entity.Attributes["x"] = "STRING"
	entity.Domain = "changed"

	again, _ := s.Entity("a")
	assert.Empty(t, again.Attributes)
	assert.Equal(t, "pkg", again.Domain)
}

func TestSchema_ConcurrentReads(t *testing.T) {
	s := schema.New()
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("pkg.T%d", i)
		s.RegisterEntity(name, "pkg")
		s.RegisterAttribute(name, "id", "STRING")
		s.RegisterRelationship(name, "next", fmt.Sprintf("pkg.T%d", i+1))
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, s.Entities(), 50)
			assert.Len(t, s.Relationships(), 50)
		}()
	}
	wg.Wait()
}

func TestSchema_MarshalJSON(t *testing.T) {
	s := schema.New()
	s.RegisterEntity("hello.Greeting", "hello")
	s.RegisterAttribute("hello.Greeting", "name", "STRING")
	s.RegisterRelationship("hello.Request", "greeting", "hello.Greeting")

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"entities": {
			"hello.Greeting": {"name": "hello.Greeting", "domain": "hello", "attributes": {"name": "STRING"}}
		},
		"relationships": [
			{"source": "hello.Request", "fieldName": "greeting", "target": "hello.Greeting"}
		]
	}`, string(data))
}

func TestSchema_Fingerprint(t *testing.T) {
	build := func(reverse bool) *schema.Schema {
		s := schema.New()
		names := []string{"pkg.A", "pkg.B", "pkg.C"}
		if reverse {
			names = []string{"pkg.C", "pkg.B", "pkg.A"}
		}
		for _, name := range names {
			s.RegisterEntity(name, "pkg")
			s.RegisterAttribute(name, "id", "STRING")
		}
		s.RegisterRelationship("pkg.A", "b", "pkg.B")
		s.RegisterRelationship("pkg.B", "c", "pkg.C")
		return s
	}

	first, err := build(false).Fingerprint()
	require.NoError(t, err)
	second, err := build(true).Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	changed := build(false)
	changed.RegisterAttribute("pkg.A", "extra", "BOOL")
	third, err := changed.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}
