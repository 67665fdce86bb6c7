package es

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestingEnv is an Env backed by in-memory store and snapshotter.
type TestingEnv struct {
	*Env
	t *testing.T
}

func StartTestEnv(t *testing.T, opts ...EnvOption) *TestingEnv {
	e, err := NewEnv(append([]EnvOption{WithInMemory()}, opts...)...)
	require.NoError(t, err)
	return &TestingEnv{t: t, Env: e}
}
