package descriptor

import (
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"
)

// Kind classifies a field. Implementations are Primitive, Reference and UnionMember.
type Kind interface {
	kind()
}

// Primitive is a scalar field stored as an entity attribute
type Primitive struct {
	Type string // primitive type tag, e.g. STRING, INT64
}

// Reference is a field typed by a message or enum, stored as a relationship
type Reference struct {
	TypeName string // fully qualified <package>.<Type>
}

// UnionMember is a field declared inside a oneof group
type UnionMember struct {
	Group  string // oneof name
	Member Kind   // Primitive or Reference
}

func (Primitive) kind()   {}
func (Reference) kind()   {}
func (UnionMember) kind() {}

// Classify returns the kind of field declared on message
func Classify(message *descriptorpb.DescriptorProto, field *descriptorpb.FieldDescriptorProto) (Kind, error) {
	member := classifyType(field)
	if field.OneofIndex == nil || field.GetProto3Optional() {
		return member, nil
	}
	index := int(field.GetOneofIndex())
	decls := message.GetOneofDecl()
	if index < 0 || index >= len(decls) {
		return nil, &StructureError{
			Message:    message.GetName(),
			Field:      field.GetName(),
			OneofIndex: index,
		}
	}
	return UnionMember{Group: decls[index].GetName(), Member: member}, nil
}

func classifyType(field *descriptorpb.FieldDescriptorProto) Kind {
	switch field.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		return Reference{TypeName: TypeName(field.GetTypeName())}
	}
	return Primitive{Type: PrimitiveType(field.GetType())}
}

// TypeName normalizes an absolute descriptor reference: ".hello.Request" becomes "hello.Request"
func TypeName(name string) string {
	return strings.TrimPrefix(name, ".")
}

// PrimitiveType returns the type tag of a scalar field type: TYPE_STRING becomes STRING
func PrimitiveType(typ descriptorpb.FieldDescriptorProto_Type) string {
	return strings.TrimPrefix(typ.String(), "TYPE_")
}
