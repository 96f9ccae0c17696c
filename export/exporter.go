// Package export publishes a schema to a graph store: all nodes first, then all relationships.
package export

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/viant/protograph/cypher"
	"github.com/viant/protograph/schema"
	"github.com/viant/protograph/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// FullNameKey holds the entity name on every node
	FullNameKey = "_full_name_"
	// DomainKey holds the entity domain on every node
	DomainKey = "_domain_"
	// RelationshipFieldKey holds the field name on a relationship
	RelationshipFieldKey = "field"
	// RelationshipType is the type of every created relationship
	RelationshipType = "uses"
	// DefaultLogName is the name of the audit log artifact
	DefaultLogName = "neo4j-query-log.txt"
	// DefaultConcurrency bounds in-flight store calls per phase
	DefaultConcurrency = 10
)

// Stats summarizes an export run
type Stats struct {
	Nodes         int
	Relationships int
	Dropped       int
}

// Result is the audit log artifact of a successful export
type Result struct {
	Name    string
	Content string
	Stats   Stats
}

// Exporter publishes schemas through a store client
type Exporter struct {
	client      store.Client
	logger      *zap.Logger
	concurrency int
	logName     string
	registerer  prometheus.Registerer
	metrics     *metrics
}

// New creates an exporter writing to client
func New(client store.Client, options ...Option) *Exporter {
	ret := &Exporter{
		client:      client,
		logger:      zap.NewNop(),
		concurrency: DefaultConcurrency,
		logName:     DefaultLogName,
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.metrics = newMetrics(ret.registerer)
	return ret
}

// Export resets the store, creates a node per entity, waits for all of them, then creates a relationship
// per schema relationship whose endpoints both have nodes. Relationships with a missing endpoint are skipped.
// Any create failure aborts the export and no result is returned.
func (e *Exporter) Export(ctx context.Context, s *schema.Schema) (*Result, error) {
	logger := e.logger.With(zap.String("run", uuid.NewString()))
	if err := e.client.Reset(ctx); err != nil {
		logger.Warn("failed to reset graph store", zap.Error(err))
	}

	run := &run{exporter: e, logger: logger, log: &Log{}}
	entities := s.Entities()
	if err := run.createNodes(ctx, entities); err != nil {
		return nil, err
	}
	relationships := s.Relationships()
	if err := run.createRelationships(ctx, relationships); err != nil {
		return nil, err
	}

	stats := Stats{
		Nodes:         int(run.nodes.Load()),
		Relationships: int(run.relationships.Load()),
		Dropped:       int(run.dropped.Load()),
	}
	logger.Info("exported schema",
		zap.Int("nodes", stats.Nodes),
		zap.Int("relationships", stats.Relationships),
		zap.Int("dropped", stats.Dropped))
	return &Result{Name: e.logName, Content: run.log.String(), Stats: stats}, nil
}

type run struct {
	exporter      *Exporter
	logger        *zap.Logger
	log           *Log
	refs          sync.Map
	nodes         atomic.Int64
	relationships atomic.Int64
	dropped       atomic.Int64
}

func (r *run) createNodes(ctx context.Context, entities []*schema.Entity) error {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(r.exporter.concurrency)
	for _, entity := range entities {
		entity := entity
		group.Go(func() error {
			return r.createNode(ctx, entity)
		})
	}
	return group.Wait()
}

func (r *run) createNode(ctx context.Context, entity *schema.Entity) error {
	label := cypher.Label(entity.Domain)
	attributes := NodeAttributes(entity)
	ref, err := r.exporter.client.CreateNode(ctx, label, attributes)
	if err != nil {
		return fmt.Errorf("failed to create node %s: %w", entity.Name, err)
	}
	r.refs.Store(entity.Name, ref)
	r.log.AppendNode(ref, cypher.CreateNode(label, cypher.Keys(attributes), "n"), attributes)
	r.nodes.Add(1)
	r.exporter.metrics.nodes.Inc()
	return nil
}

func (r *run) createRelationships(ctx context.Context, relationships []schema.Relationship) error {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(r.exporter.concurrency)
	for _, relationship := range relationships {
		relationship := relationship
		group.Go(func() error {
			return r.createRelationship(ctx, relationship)
		})
	}
	return group.Wait()
}

func (r *run) createRelationship(ctx context.Context, relationship schema.Relationship) error {
	from, ok := r.ref(relationship.Source)
	if !ok {
		r.drop(relationship)
		return nil
	}
	to, ok := r.ref(relationship.Target)
	if !ok {
		r.drop(relationship)
		return nil
	}
	attributes := RelationshipAttributes(relationship)
	ref, err := r.exporter.client.CreateRelationship(ctx, from, to, RelationshipType, attributes)
	if err != nil {
		return fmt.Errorf("failed to create relationship %s -[%s]-> %s: %w", relationship.Source, relationship.FieldName, relationship.Target, err)
	}
	r.log.AppendRelationship(ref, from, to, RelationshipType, attributes)
	r.relationships.Add(1)
	r.exporter.metrics.relationships.Inc()
	return nil
}

func (r *run) ref(name string) (string, bool) {
	value, ok := r.refs.Load(name)
	if !ok {
		return "", false
	}
	return value.(string), true
}

func (r *run) drop(relationship schema.Relationship) {
	r.dropped.Add(1)
	r.exporter.metrics.dropped.Inc()
	r.logger.Debug("skipped relationship with unresolved endpoint",
		zap.String("source", relationship.Source),
		zap.String("field", relationship.FieldName),
		zap.String("target", relationship.Target))
}

// NodeAttributes returns the properties sent for entity: its attributes plus the full name and domain keys
func NodeAttributes(entity *schema.Entity) map[string]string {
	ret := make(map[string]string, len(entity.Attributes)+2)
	for name, typ := range entity.Attributes {
		ret[name] = typ
	}
	ret[FullNameKey] = entity.Name
	ret[DomainKey] = entity.Domain
	return ret
}

// RelationshipAttributes returns the properties sent for relationship; the field key is omitted when blank
func RelationshipAttributes(relationship schema.Relationship) map[string]string {
	ret := map[string]string{}
	if relationship.FieldName != "" {
		ret[RelationshipFieldKey] = relationship.FieldName
	}
	return ret
}
