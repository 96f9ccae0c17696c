package store_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/protograph/store"
)

func TestBackendError(t *testing.T) {
	err := fmt.Errorf("export failed: %w", &store.BackendError{Op: store.OpCreateNode, StatusCode: 401, Err: io.EOF})
	var backendErr *store.BackendError
	assert.True(t, errors.As(err, &backendErr))
	assert.Equal(t, store.OpCreateNode, backendErr.Op)
	assert.True(t, errors.Is(err, io.EOF))
	assert.Equal(t, "graph store create node failed with status 401: EOF", backendErr.Error())

	assert.Equal(t, "graph store reset failed: EOF", store.NewBackendError(store.OpReset, io.EOF).Error())
}
