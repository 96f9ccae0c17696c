// Package descriptortest provides descriptor fixtures for tests.
package descriptortest

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Field builds a scalar field descriptor
func Field(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

// MessageField builds a field typed by the absolute message reference typeName
func MessageField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	field := Field(name, number, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	field.TypeName = proto.String(typeName)
	return field
}

// EnumField builds a field typed by the absolute enum reference typeName
func EnumField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	field := Field(name, number, descriptorpb.FieldDescriptorProto_TYPE_ENUM)
	field.TypeName = proto.String(typeName)
	return field
}

// InOneof assigns field to the oneof at index
func InOneof(field *descriptorpb.FieldDescriptorProto, index int32) *descriptorpb.FieldDescriptorProto {
	field.OneofIndex = proto.Int32(index)
	return field
}

// Hello returns the descriptor of:
//
//	package hello;
//	enum OrderType { UNKNOWN = 0; ONLINE = 1; }
//	message Greeting { string name = 1; }
//	message Order { string id = 1; OrderType orderType = 2; int64 quantity = 3; }
//	message Request { Order order = 1; google.protobuf.Timestamp created = 2; optional string note = 3; }
//	message Response { oneof response_oneof { Greeting greeting = 1; string error = 2; } int32 code = 3; }
func Hello() *descriptorpb.FileDescriptorProto {
	note := Field("note", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING)
	note.OneofIndex = proto.Int32(0)
	note.Proto3Optional = proto.Bool(true)

	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String("hello.proto"),
		Package:    proto.String("hello"),
		Syntax:     proto.String("proto3"),
		Dependency: []string{"google/protobuf/timestamp.proto"},
		EnumType: []*descriptorpb.EnumDescriptorProto{
			{
				Name: proto.String("OrderType"),
				Value: []*descriptorpb.EnumValueDescriptorProto{
					{Name: proto.String("UNKNOWN"), Number: proto.Int32(0)},
					{Name: proto.String("ONLINE"), Number: proto.Int32(1)},
				},
			},
		},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name:  proto.String("Greeting"),
				Field: []*descriptorpb.FieldDescriptorProto{Field("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)},
			},
			{
				Name: proto.String("Order"),
				Field: []*descriptorpb.FieldDescriptorProto{
					Field("id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					EnumField("orderType", 2, ".hello.OrderType"),
					Field("quantity", 3, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				},
			},
			{
				Name: proto.String("Request"),
				Field: []*descriptorpb.FieldDescriptorProto{
					MessageField("order", 1, ".hello.Order"),
					MessageField("created", 2, ".google.protobuf.Timestamp"),
					note,
				},
				OneofDecl: []*descriptorpb.OneofDescriptorProto{{Name: proto.String("_note")}},
			},
			{
				Name: proto.String("Response"),
				Field: []*descriptorpb.FieldDescriptorProto{
					InOneof(MessageField("greeting", 1, ".hello.Greeting"), 0),
					InOneof(Field("error", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING), 0),
					Field("code", 3, descriptorpb.FieldDescriptorProto_TYPE_INT32),
				},
				OneofDecl: []*descriptorpb.OneofDescriptorProto{{Name: proto.String("response_oneof")}},
			},
		},
	}
}
