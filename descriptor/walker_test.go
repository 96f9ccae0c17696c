package descriptor_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/protograph/descriptor"
	"github.com/viant/protograph/descriptor/descriptortest"
	"github.com/viant/protograph/schema"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"gopkg.in/yaml.v3"
)

func TestWalker_Build(t *testing.T) {
	expectYaml := `
entities:
  hello.Greeting:
    name: hello.Greeting
    domain: hello
    attributes:
      name: STRING
  hello.Order:
    name: hello.Order
    domain: hello
    attributes:
      id: STRING
      quantity: INT64
  hello.OrderType:
    name: hello.OrderType
    domain: hello
    attributes: {}
  hello.Request:
    name: hello.Request
    domain: hello
    attributes:
      note: STRING
  hello.Response:
    name: hello.Response
    domain: hello
    attributes:
      code: INT32
  hello.response_oneof:
    name: hello.response_oneof
    domain: hello
    attributes:
      error: STRING
relationships:
  - source: hello.Order
    fieldName: orderType
    target: hello.OrderType
  - source: hello.Request
    fieldName: created
    target: google.protobuf.Timestamp
  - source: hello.Request
    fieldName: order
    target: hello.Order
  - source: hello.Response
    fieldName: response_oneof
    target: hello.response_oneof
  - source: hello.response_oneof
    fieldName: greeting
    target: hello.Greeting
`
	s, err := descriptor.NewWalker(nil).Build([]*descriptorpb.FileDescriptorProto{descriptortest.Hello()})
	require.NoError(t, err)

	var expect interface{}
	require.NoError(t, yaml.Unmarshal([]byte(expectYaml), &expect))
	expectJSON, err := json.Marshal(expect)
	require.NoError(t, err)
	actualJSON, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, string(expectJSON), string(actualJSON))
}

func TestWalker_Scenarios(t *testing.T) {
	s, err := descriptor.NewWalker(nil).Build([]*descriptorpb.FileDescriptorProto{descriptortest.Hello()})
	require.NoError(t, err)

	t.Run("message with string field", func(t *testing.T) {
		entity, ok := s.Entity("hello.Greeting")
		require.True(t, ok)
		assert.Equal(t, "hello", entity.Domain)
		assert.Equal(t, map[string]string{"name": "STRING"}, entity.Attributes)
	})

	t.Run("enum has no attributes", func(t *testing.T) {
		entity, ok := s.Entity("hello.OrderType")
		require.True(t, ok)
		assert.Empty(t, entity.Attributes)
	})

	t.Run("oneof fields attach to the group entity", func(t *testing.T) {
		group, ok := s.Entity("hello.response_oneof")
		require.True(t, ok)
		assert.Equal(t, map[string]string{"error": "STRING"}, group.Attributes)

		parent, _ := s.Entity("hello.Response")
		assert.NotContains(t, parent.Attributes, "error")
		assert.True(t, s.HasRelationship("hello.Response", "response_oneof", "hello.response_oneof"))
		assert.True(t, s.HasRelationship("hello.response_oneof", "greeting", "hello.Greeting"))
		assert.False(t, s.HasRelationship("hello.Response", "greeting", "hello.Greeting"))

		count := 0
		for _, rel := range s.Relationships() {
			if rel.Source == "hello.Response" && rel.Target == "hello.response_oneof" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("enum typed field is a relationship", func(t *testing.T) {
		assert.True(t, s.HasRelationship("hello.Order", "orderType", "hello.OrderType"))
		order, _ := s.Entity("hello.Order")
		assert.NotContains(t, order.Attributes, "orderType")
	})

	t.Run("proto3 optional is a plain field", func(t *testing.T) {
		assert.False(t, s.HasEntity("hello._note"))
		request, _ := s.Entity("hello.Request")
		assert.Equal(t, "STRING", request.Attributes["note"])
	})

	t.Run("external reference is left unresolved", func(t *testing.T) {
		assert.True(t, s.HasRelationship("hello.Request", "created", "google.protobuf.Timestamp"))
		assert.False(t, s.HasEntity("google.protobuf.Timestamp"))
	})
}

func TestWalker_UndeclaredOneof(t *testing.T) {
	file := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("broken.proto"),
		Package: proto.String("broken"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Broken"),
				Field: []*descriptorpb.FieldDescriptorProto{
					descriptortest.InOneof(descriptortest.Field("x", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING), 2),
				},
				OneofDecl: []*descriptorpb.OneofDescriptorProto{{Name: proto.String("choice")}},
			},
		},
	}
	s, err := descriptor.NewWalker(nil).Build([]*descriptorpb.FileDescriptorProto{file})
	require.Error(t, err)
	assert.Nil(t, s)

	var structureErr *descriptor.StructureError
	require.True(t, errors.As(err, &structureErr))
	assert.Equal(t, "Broken", structureErr.Message)
	assert.Equal(t, "x", structureErr.Field)
	assert.Equal(t, 2, structureErr.OneofIndex)
}

func TestWalker_SharedPackageAcrossFiles(t *testing.T) {
	first := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("a.proto"),
		Package: proto.String("shared"),
		MessageType: []*descriptorpb.DescriptorProto{
			{Name: proto.String("A"), Field: []*descriptorpb.FieldDescriptorProto{descriptortest.MessageField("b", 1, ".shared.B")}},
		},
	}
	second := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("b.proto"),
		Package: proto.String("shared"),
		MessageType: []*descriptorpb.DescriptorProto{
			{Name: proto.String("B"), Field: []*descriptorpb.FieldDescriptorProto{descriptortest.Field("flag", 1, descriptorpb.FieldDescriptorProto_TYPE_BOOL)}},
		},
	}
	s, err := descriptor.NewWalker(nil).Build([]*descriptorpb.FileDescriptorProto{first, second})
	require.NoError(t, err)
	assert.True(t, s.HasRelationship("shared.A", "b", "shared.B"))
	b, ok := s.Entity("shared.B")
	require.True(t, ok)
	assert.Equal(t, "BOOL", b.Attributes["flag"])
}

func TestWalker_EmptyPackage(t *testing.T) {
	file := &descriptorpb.FileDescriptorProto{
		Name:        proto.String("nopkg.proto"),
		MessageType: []*descriptorpb.DescriptorProto{{Name: proto.String("Loose")}},
	}
	s, err := descriptor.NewWalker(nil).Build([]*descriptorpb.FileDescriptorProto{file})
	require.NoError(t, err)
	entity, ok := s.Entity(".Loose")
	require.True(t, ok)
	assert.Equal(t, schema.UnknownDomain, entity.Domain)
}
