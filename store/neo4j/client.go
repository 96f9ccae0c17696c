// Package neo4j implements store.Client over the Neo4j REST API.
package neo4j

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/viant/protograph/cypher"
	"github.com/viant/protograph/store"
)

// PoolSize caps concurrent connections to the server
const PoolSize = 10

const cypherPath = "/db/data/cypher"

// Client sends cypher and relationship requests to a Neo4j server
type Client struct {
	url        string
	username   string
	password   string
	httpClient *http.Client
}

// Option customizes a Client
type Option func(c *Client)

// WithHTTPClient replaces the pooled default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a client for the server at url using basic authentication
func New(url, username, password string, options ...Option) *Client {
	ret := &Client{
		url:      strings.TrimRight(url, "/"),
		username: username,
		password: password,
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.httpClient == nil {
		ret.httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        PoolSize,
				MaxIdleConnsPerHost: PoolSize,
				MaxConnsPerHost:     PoolSize,
			},
		}
	}
	return ret
}

type cypherRequest struct {
	Query  string            `json:"query"`
	Params map[string]string `json:"params,omitempty"`
}

type cypherResponse struct {
	Columns []string      `json:"columns"`
	Data    [][]reference `json:"data"`
}

type relationshipRequest struct {
	To   string            `json:"to"`
	Type string            `json:"type"`
	Data map[string]string `json:"data,omitempty"`
}

type reference struct {
	Self string `json:"self"`
}

// Reset deletes all nodes and relationships
func (c *Client) Reset(ctx context.Context) error {
	response := &cypherResponse{}
	if err := c.post(ctx, store.OpReset, c.url+cypherPath, &cypherRequest{Query: cypher.ResetLegacy}, response); err != nil {
		return err
	}
	return nil
}

// CreateNode creates a node and returns its self URL
func (c *Client) CreateNode(ctx context.Context, label string, attributes map[string]string) (string, error) {
	request := &cypherRequest{
		Query:  cypher.CreateNode(label, cypher.Keys(attributes), "n"),
		Params: attributes,
	}
	response := &cypherResponse{}
	if err := c.post(ctx, store.OpCreateNode, c.url+cypherPath, request, response); err != nil {
		return "", err
	}
	if len(response.Data) == 0 || len(response.Data[0]) == 0 || response.Data[0][0].Self == "" {
		return "", store.NewBackendError(store.OpCreateNode, errors.New("response has no node reference"))
	}
	return response.Data[0][0].Self, nil
}

// CreateRelationship posts to the relationships resource of the from node and returns the new relationship self URL
func (c *Client) CreateRelationship(ctx context.Context, from, to, relType string, attributes map[string]string) (string, error) {
	request := &relationshipRequest{To: to, Type: relType, Data: attributes}
	response := &reference{}
	if err := c.post(ctx, store.OpCreateRelationship, strings.TrimRight(from, "/")+"/relationships", request, response); err != nil {
		return "", err
	}
	if response.Self == "" {
		return "", store.NewBackendError(store.OpCreateRelationship, errors.New("response has no relationship reference"))
	}
	return response.Self, nil
}

func (c *Client) post(ctx context.Context, op, URL string, request, response interface{}) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return store.NewBackendError(op, fmt.Errorf("failed to encode request: %w", err))
	}
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, URL, bytes.NewReader(payload))
	if err != nil {
		return store.NewBackendError(op, err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("Accept", "application/json")
	if c.username != "" || c.password != "" {
		httpRequest.SetBasicAuth(c.username, c.password)
	}

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return store.NewBackendError(op, err)
	}
	defer httpResponse.Body.Close()

	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return &store.BackendError{Op: op, StatusCode: httpResponse.StatusCode, Err: err}
	}
	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		return &store.BackendError{Op: op, StatusCode: httpResponse.StatusCode, Err: errors.New(errorMessage(body))}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, response); err != nil {
		return &store.BackendError{Op: op, StatusCode: httpResponse.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// errorMessage extracts the server message from a REST error body
func errorMessage(body []byte) string {
	var failure struct {
		Message   string `json:"message"`
		Exception string `json:"exception"`
		Errors    []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &failure); err == nil {
		switch {
		case failure.Message != "":
			return failure.Message
		case len(failure.Errors) > 0:
			return failure.Errors[0].Code + ": " + failure.Errors[0].Message
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 256 {
		text = text[:256]
	}
	if text == "" {
		return "empty response"
	}
	return text
}
