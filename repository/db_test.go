package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRejectsMalformedDSN(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	db, err := Open(ctx, "not a dsn", PoolOptions{MaxOpenConns: 1})
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "open mysql")
}
