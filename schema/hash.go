package schema

import (
	"strings"

	"github.com/minio/highwayhash"
)

var key = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns the 64-bit HighwayHash of data
func Hash(data []byte) (uint64, error) {
	hash, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(data)
	return hash.Sum64(), err
}

// Fingerprint hashes a canonical listing of entities, attributes and relationships.
// Two schemas built from the same definitions share a fingerprint regardless of registration order.
func (s *Schema) Fingerprint() (uint64, error) {
	builder := &strings.Builder{}
	for _, entity := range s.Entities() {
		builder.WriteString("E ")
		builder.WriteString(entity.Name)
		builder.WriteString(" ")
		builder.WriteString(entity.Domain)
		builder.WriteString("\n")
		for _, name := range entity.AttributeNames() {
			builder.WriteString("A ")
			builder.WriteString(name)
			builder.WriteString(" ")
			builder.WriteString(entity.Attributes[name])
			builder.WriteString("\n")
		}
	}
	for _, rel := range s.Relationships() {
		builder.WriteString("R ")
		builder.WriteString(rel.Source)
		builder.WriteString(" ")
		builder.WriteString(rel.FieldName)
		builder.WriteString(" ")
		builder.WriteString(rel.Target)
		builder.WriteString("\n")
	}
	return Hash([]byte(builder.String()))
}
