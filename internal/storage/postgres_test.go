package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolRejectsMalformedURL(t *testing.T) {
	_, err := NewPool(context.Background(), "://not-a-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestNewStoreRequiresPool(t *testing.T) {
	assert.Panics(t, func() { NewStore(nil) })
}
