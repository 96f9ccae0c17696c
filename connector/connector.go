// Package connector selects a graph store client for a configuration.
package connector

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/viant/protograph/config"
	"github.com/viant/protograph/store"
	"github.com/viant/protograph/store/bolt"
	"github.com/viant/protograph/store/memory"
	"github.com/viant/protograph/store/neo4j"
)

// Factory creates store clients based on the URL scheme
type Factory struct {
	options []neo4j.Option
}

// New creates a factory; options are passed to REST clients
func New(options ...neo4j.Option) *Factory {
	return &Factory{options: options}
}

// Client returns a client for cfg. Dry runs always use the in-memory store.
func (f *Factory) Client(ctx context.Context, cfg *config.Config) (store.Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if cfg.DryRun {
		return memory.New(), nil
	}
	scheme, err := Scheme(cfg.URL)
	if err != nil {
		return nil, err
	}
	switch scheme {
	case "http", "https":
		return neo4j.New(cfg.URL, cfg.Username, cfg.Password, f.options...), nil
	case "bolt", "bolt+s", "bolt+ssc", "neo4j", "neo4j+s", "neo4j+ssc":
		return bolt.New(ctx, cfg.URL, cfg.Username, cfg.Password, cfg.Database)
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported graph store scheme: %s", scheme)
	}
}

// Scheme returns the lower-cased scheme of a graph store URL
func Scheme(URL string) (string, error) {
	parsed, err := url.Parse(URL)
	if err != nil {
		return "", fmt.Errorf("invalid graph store url %s: %w", URL, err)
	}
	if parsed.Scheme == "" {
		return "", fmt.Errorf("missing scheme in graph store url: %s", URL)
	}
	return strings.ToLower(parsed.Scheme), nil
}

// Close releases client connections when the client holds any
func Close(ctx context.Context, client store.Client) error {
	if closer, ok := client.(store.Closer); ok {
		return closer.Close(ctx)
	}
	return nil
}
