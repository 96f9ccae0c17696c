package descriptor

import "fmt"

// StructureError reports a field whose oneof index does not resolve to a declared oneof
type StructureError struct {
	Message    string
	Field      string
	OneofIndex int
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("message %s: field %s refers to undeclared oneof index %d", e.Message, e.Field, e.OneofIndex)
}
