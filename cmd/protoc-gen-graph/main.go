// Command protoc-gen-graph exports protobuf message, enum and oneof relationships to a Neo4j graph.
//
// As a protoc plugin:
//
//	protoc --plugin=protoc-gen-graph --graph_out=. --graph_opt=url=http://localhost:7474 hello.proto
//
// Standalone, over a descriptor set produced by protoc --descriptor_set_out:
//
//	protoc-gen-graph neo4j http://localhost:7474 neo4j secret --descriptor-set hello.pb
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/protograph/config"
	"github.com/viant/protograph/connector"
	"github.com/viant/protograph/descriptor"
	"github.com/viant/protograph/export"
	"github.com/viant/protograph/plugin"
	"github.com/viant/protograph/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	configPath    string
	descriptorSet string
	out           string
	dryRun        bool
	concurrency   int
	logLevel      string
	metricsFile   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "protoc-gen-graph [neo4j [url [username [password]]]]",
		Short: "Export protobuf type relationships to Neo4j",
		Long: `protoc-gen-graph walks protobuf descriptors into entities (messages, enums, oneofs)
and "uses" relationships, wipes the target Neo4j database, then creates every node
followed by every relationship. The audit log of issued statements is written as
neo4j-query-log.txt.

Without --descriptor-set it runs as a protoc plugin on stdin/stdout.`,
		Args:          cobra.MaximumNArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	flags.StringVar(&opts.descriptorSet, "descriptor-set", "", "FileDescriptorSet URL; when empty runs as a protoc plugin")
	flags.StringVarP(&opts.out, "out", "o", "", "Audit log destination URL (defaults to the log name)")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Export into an in-memory store")
	flags.IntVar(&opts.concurrency, "concurrency", config.DefaultConcurrency, "Maximum in-flight store calls per phase")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write export counters in Prometheus text format to this file")
	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	ctx := cmd.Context()
	logger, err := newLogger(opts.logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(cmd, args, opts)
	if err != nil {
		return err
	}
	registry := prometheus.NewRegistry()
	app := &app{cfg: cfg, logger: logger, registry: registry, factory: connector.New()}
	defer app.close(ctx)

	if opts.descriptorSet == "" {
		err = plugin.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), app.exporter, logger)
	} else {
		err = app.exportSet(ctx, opts.descriptorSet, opts.out)
	}
	if err != nil {
		return err
	}
	if opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, registry); err != nil {
			return fmt.Errorf("failed to write metrics %s: %w", opts.metricsFile, err)
		}
	}
	return nil
}

func loadConfig(cmd *cobra.Command, args []string, opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		if err := cfg.Load(opts.configPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.FromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.ApplyArgs(args); err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = opts.dryRun
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = opts.concurrency
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", level, err)
	}
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(parsed)
	return zapConfig.Build()
}

type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry prometheus.Registerer
	factory  *connector.Factory
	client   store.Client
}

// exporter connects to the configured store; parameter carries protoc --graph_opt overrides
func (a *app) exporter(ctx context.Context, parameter string) (plugin.Exporter, error) {
	cfg := *a.cfg
	if err := cfg.ApplyParameter(parameter); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := a.factory.Client(ctx, &cfg)
	if err != nil {
		return nil, err
	}
	a.client = client
	a.logger.Info("connected graph store", zap.String("url", cfg.URL), zap.Bool("dryRun", cfg.DryRun))
	return export.New(client,
		export.WithLogger(a.logger),
		export.WithConcurrency(cfg.Concurrency),
		export.WithLogName(cfg.LogName),
		export.WithRegisterer(a.registry),
	), nil
}

func (a *app) exportSet(ctx context.Context, setURL, outURL string) error {
	fs := afs.New()
	files, err := descriptor.LoadSet(ctx, fs, setURL)
	if err != nil {
		return err
	}
	s, err := descriptor.NewWalker(a.logger).Build(files)
	if err != nil {
		return err
	}
	if fingerprint, err := s.Fingerprint(); err == nil {
		a.logger.Info("built schema",
			zap.Int("entities", s.EntityCount()),
			zap.Int("relationships", s.RelationshipCount()),
			zap.Uint64("fingerprint", fingerprint))
	}
	exporter, err := a.exporter(ctx, "")
	if err != nil {
		return err
	}
	result, err := exporter.Export(ctx, s)
	if err != nil {
		return err
	}
	if outURL == "" {
		outURL = result.Name
	}
	if err := fs.Upload(ctx, outURL, 0o644, strings.NewReader(result.Content)); err != nil {
		return fmt.Errorf("failed to write %s: %w", outURL, err)
	}
	a.logger.Info("wrote audit log", zap.String("url", outURL))
	return nil
}

func (a *app) close(ctx context.Context) {
	if a.client == nil {
		return
	}
	if err := connector.Close(context.WithoutCancel(ctx), a.client); err != nil {
		a.logger.Warn("failed to close graph store", zap.Error(err))
	}
}
