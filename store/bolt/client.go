// Package bolt implements store.Client with the official Neo4j Go driver.
package bolt

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/config"
	"github.com/viant/protograph/cypher"
	"github.com/viant/protograph/store"
)

// PoolSize caps concurrent driver connections
const PoolSize = 10

const refKey = "ref"

type queryFunc func(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)

// Client executes write queries through a driver
type Client struct {
	driver neo4j.DriverWithContext
	run    queryFunc
}

// New connects to url (bolt://, neo4j://, neo4j+s:// ...) with basic authentication.
// An empty database selects the server default.
func New(ctx context.Context, url, username, password, database string) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(url, neo4j.BasicAuth(username, password, ""), func(c *config.Config) {
		c.MaxConnectionPoolSize = PoolSize
	})
	if err != nil {
		return nil, store.NewBackendError("connect", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, store.NewBackendError("connect", err)
	}
	options := []neo4j.ExecuteQueryConfigurationOption{neo4j.ExecuteQueryWithWritersRouting()}
	if database != "" {
		options = append(options, neo4j.ExecuteQueryWithDatabase(database))
	}
	return &Client{
		driver: driver,
		run: func(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
			return neo4j.ExecuteQuery(ctx, driver, query, params, neo4j.EagerResultTransformer, options...)
		},
	}, nil
}

// Reset deletes all nodes with their relationships
func (c *Client) Reset(ctx context.Context) error {
	if _, err := c.run(ctx, cypher.Reset, nil); err != nil {
		return store.NewBackendError(store.OpReset, err)
	}
	return nil
}

// CreateNode creates a node and returns its element id
func (c *Client) CreateNode(ctx context.Context, label string, attributes map[string]string) (string, error) {
	query := cypher.CreateNode(label, cypher.Keys(attributes), "elementId(n) AS "+refKey)
	params := make(map[string]any, len(attributes))
	for k, v := range attributes {
		params[k] = v
	}
	result, err := c.run(ctx, query, params)
	if err != nil {
		return "", store.NewBackendError(store.OpCreateNode, err)
	}
	ref, err := reference(result)
	if err != nil {
		return "", store.NewBackendError(store.OpCreateNode, err)
	}
	return ref, nil
}

// CreateRelationship links two element ids and returns the relationship element id
func (c *Client) CreateRelationship(ctx context.Context, from, to, relType string, attributes map[string]string) (string, error) {
	props := make(map[string]any, len(attributes))
	for k, v := range attributes {
		props[k] = v
	}
	params := map[string]any{"from": from, "to": to, "props": props}
	result, err := c.run(ctx, cypher.CreateRelationship(relType, "elementId(r) AS "+refKey), params)
	if err != nil {
		return "", store.NewBackendError(store.OpCreateRelationship, err)
	}
	ref, err := reference(result)
	if err != nil {
		return "", store.NewBackendError(store.OpCreateRelationship, err)
	}
	return ref, nil
}

// Close releases driver connections
func (c *Client) Close(ctx context.Context) error {
	if c.driver == nil {
		return nil
	}
	return c.driver.Close(ctx)
}

func reference(result *neo4j.EagerResult) (string, error) {
	if result == nil || len(result.Records) == 0 {
		return "", errors.New("query returned no records")
	}
	value, ok := result.Records[0].Get(refKey)
	if !ok {
		return "", fmt.Errorf("query result has no %s column", refKey)
	}
	ref, ok := value.(string)
	if !ok || ref == "" {
		return "", fmt.Errorf("unexpected %s value: %v", refKey, value)
	}
	return ref, nil
}
