package export

import (
	"strings"
	"sync"

	"github.com/viant/protograph/cypher"
)

// Log accumulates audit records; each append is atomic with respect to other appends
type Log struct {
	mu      sync.Mutex
	builder strings.Builder
}

// AppendNode records a created node
func (l *Log) AppendNode(ref, statement string, attributes map[string]string) {
	record := &strings.Builder{}
	record.WriteString("==========Node (")
	record.WriteString(ref)
	record.WriteString(")==========\n")
	record.WriteString(statement)
	writeData(record, attributes)
	l.append(record.String())
}

// AppendRelationship records a created relationship
func (l *Log) AppendRelationship(ref, from, to, relType string, attributes map[string]string) {
	record := &strings.Builder{}
	record.WriteString("==========Relationship (")
	record.WriteString(ref)
	record.WriteString(")==========\n")
	record.WriteString("type: ")
	record.WriteString(relType)
	record.WriteString("\nfrom: ")
	record.WriteString(from)
	record.WriteString("\nto: ")
	record.WriteString(to)
	writeData(record, attributes)
	l.append(record.String())
}

// String returns the accumulated log
func (l *Log) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.builder.String()
}

func (l *Log) append(record string) {
	l.mu.Lock()
	l.builder.WriteString(record)
	l.mu.Unlock()
}

func writeData(record *strings.Builder, attributes map[string]string) {
	if len(attributes) > 0 {
		record.WriteString("\ndata:\n")
		for _, key := range cypher.Keys(attributes) {
			record.WriteString(" ")
			record.WriteString(key)
			record.WriteString(" : {")
			record.WriteString(attributes[key])
			record.WriteString("},")
		}
	}
	record.WriteString("\n")
}
