// Package descriptor walks protobuf file descriptors into a schema.Schema.
package descriptor

import (
	"fmt"

	"github.com/viant/protograph/schema"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Walker registers enums, messages, oneof groups and fields of file descriptors with a schema
type Walker struct {
	logger *zap.Logger
}

// NewWalker creates a walker; a nil logger disables logging
func NewWalker(logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{logger: logger}
}

// Build walks files into a new schema
func (w *Walker) Build(files []*descriptorpb.FileDescriptorProto) (*schema.Schema, error) {
	s := schema.New()
	if err := w.Walk(files, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Walk registers every file with s; a structurally inconsistent message aborts the walk
func (w *Walker) Walk(files []*descriptorpb.FileDescriptorProto, s *schema.Schema) error {
	for _, file := range files {
		if err := w.walkFile(file, s); err != nil {
			return fmt.Errorf("failed to walk %s: %w", file.GetName(), err)
		}
	}
	return nil
}

func (w *Walker) walkFile(file *descriptorpb.FileDescriptorProto, s *schema.Schema) error {
	pkg := file.GetPackage()
	w.logger.Debug("walking file",
		zap.String("file", file.GetName()),
		zap.String("package", pkg),
		zap.Int("enums", len(file.GetEnumType())),
		zap.Int("messages", len(file.GetMessageType())))

	for _, enum := range file.GetEnumType() {
		s.RegisterEntity(qualify(pkg, enum.GetName()), pkg)
	}
	for _, message := range file.GetMessageType() {
		if err := w.walkMessage(pkg, message, s); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) walkMessage(pkg string, message *descriptorpb.DescriptorProto, s *schema.Schema) error {
	owner := qualify(pkg, message.GetName())
	s.RegisterEntity(owner, pkg)

	synthetic := syntheticOneofs(message)
	for i, oneof := range message.GetOneofDecl() {
		if synthetic[i] {
			continue
		}
		s.RegisterEntity(qualify(pkg, oneof.GetName()), pkg)
	}

	for _, field := range message.GetField() {
		kind, err := Classify(message, field)
		if err != nil {
			return err
		}
		switch actual := kind.(type) {
		case UnionMember:
			group := qualify(pkg, actual.Group)
			s.RegisterRelationship(owner, actual.Group, group)
			registerField(s, group, field.GetName(), actual.Member)
		default:
			registerField(s, owner, field.GetName(), kind)
		}
	}
	return nil
}

func registerField(s *schema.Schema, owner, fieldName string, kind Kind) {
	switch actual := kind.(type) {
	case Reference:
		s.RegisterRelationship(owner, fieldName, actual.TypeName)
	case Primitive:
		s.RegisterAttribute(owner, fieldName, actual.Type)
	}
}

// syntheticOneofs returns indexes of oneofs generated for proto3 optional fields
func syntheticOneofs(message *descriptorpb.DescriptorProto) map[int]bool {
	members := map[int]int{}
	optional := map[int]int{}
	for _, field := range message.GetField() {
		if field.OneofIndex == nil {
			continue
		}
		index := int(field.GetOneofIndex())
		members[index]++
		if field.GetProto3Optional() {
			optional[index]++
		}
	}
	result := map[int]bool{}
	for index, count := range members {
		if optional[index] == count {
			result[index] = true
		}
	}
	return result
}

func qualify(pkg, name string) string {
	return pkg + "." + name
}
