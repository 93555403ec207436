package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnowflakeNode(t *testing.T) {
	node, err := NewSnowflakeNode("2024-01-01", 1)
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := node.GenerateID()
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}

	_, err = NewSnowflakeNode("bad", 1)
	require.Error(t, err)
	_, err = NewSnowflakeNode("2024-01-01", 4096)
	require.Error(t, err)
}
