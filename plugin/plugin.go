// Package plugin runs the exporter as a protoc plugin.
package plugin

import (
	"context"
	"fmt"
	"io"

	"github.com/viant/protograph/descriptor"
	"github.com/viant/protograph/export"
	"github.com/viant/protograph/schema"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/pluginpb"
)

// Exporter publishes a schema and returns the audit artifact
type Exporter interface {
	Export(ctx context.Context, s *schema.Schema) (*export.Result, error)
}

// ExporterFactory creates an exporter for the plugin parameter passed by protoc
type ExporterFactory func(ctx context.Context, parameter string) (Exporter, error)

// Generate builds a schema from the request files and exports it
func Generate(ctx context.Context, request *pluginpb.CodeGeneratorRequest, exporter Exporter, logger *zap.Logger) (*pluginpb.CodeGeneratorResponse, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s, err := descriptor.NewWalker(logger).Build(request.GetProtoFile())
	if err != nil {
		return nil, err
	}
	if fingerprint, err := s.Fingerprint(); err == nil {
		logger.Info("built schema",
			zap.Int("entities", s.EntityCount()),
			zap.Int("relationships", s.RelationshipCount()),
			zap.Uint64("fingerprint", fingerprint))
	}
	result, err := exporter.Export(ctx, s)
	if err != nil {
		return nil, err
	}
	return &pluginpb.CodeGeneratorResponse{
		SupportedFeatures: proto.Uint64(uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL)),
		File: []*pluginpb.CodeGeneratorResponse_File{{
			Name:    proto.String(result.Name),
			Content: proto.String(result.Content),
		}},
	}, nil
}

// Run reads a request from in, exports it and writes the response to out.
// On failure the response carries the error and no file, and the error is returned.
func Run(ctx context.Context, in io.Reader, out io.Writer, factory ExporterFactory, logger *zap.Logger) error {
	request, err := descriptor.ReadRequest(in)
	if err != nil {
		return err
	}
	response, runErr := generate(ctx, request, factory, logger)
	if runErr != nil {
		response = &pluginpb.CodeGeneratorResponse{Error: proto.String(runErr.Error())}
	}
	data, err := proto.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return runErr
}

func generate(ctx context.Context, request *pluginpb.CodeGeneratorRequest, factory ExporterFactory, logger *zap.Logger) (*pluginpb.CodeGeneratorResponse, error) {
	exporter, err := factory(ctx, request.GetParameter())
	if err != nil {
		return nil, err
	}
	return Generate(ctx, request, exporter, logger)
}
