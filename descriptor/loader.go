package descriptor

import (
	"context"
	"fmt"
	"io"

	"github.com/viant/afs"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"
)

// LoadSet downloads and decodes a serialized FileDescriptorSet from any afs supported URL
func LoadSet(ctx context.Context, fs afs.Service, URL string) ([]*descriptorpb.FileDescriptorProto, error) {
	if fs == nil {
		fs = afs.New()
	}
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download descriptor set %s: %w", URL, err)
	}
	set := &descriptorpb.FileDescriptorSet{}
	if err := proto.Unmarshal(data, set); err != nil {
		return nil, fmt.Errorf("failed to decode descriptor set %s: %w", URL, err)
	}
	return set.GetFile(), nil
}

// ReadRequest decodes a protoc CodeGeneratorRequest
func ReadRequest(r io.Reader) (*pluginpb.CodeGeneratorRequest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read code generator request: %w", err)
	}
	request := &pluginpb.CodeGeneratorRequest{}
	if err := proto.Unmarshal(data, request); err != nil {
		return nil, fmt.Errorf("failed to decode code generator request: %w", err)
	}
	return request, nil
}
