package explain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaido-cli/kaido/internal/tools"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "explanations.db")
	c, err := OpenCache(path, 90)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_PutThenGet_Hits(t *testing.T) {
	c := openTestCache(t)

	explanation := tools.ErrorExplanation{ErrorType: "not_found", Reason: "the pod is gone"}
	require.NoError(t, c.Put("not_found", "Error: POD NOT Found!!", explanation))

	got, ok := c.Get("not_found", "error: pod not found")
	require.True(t, ok)
	assert.Equal(t, "the pod is gone", got.Reason)
}

func TestCache_Get_MissReturnsFalse(t *testing.T) {
	c := openTestCache(t)

	_, ok := c.Get("not_found", "never stored")
	assert.False(t, ok)
}

func TestCache_Put_OverwritesExistingKey(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.Put("timeout", "connection timeout", tools.ErrorExplanation{Reason: "first"}))
	require.NoError(t, c.Put("timeout", "connection timeout", tools.ErrorExplanation{Reason: "second"}))

	got, ok := c.Get("timeout", "connection timeout")
	require.True(t, ok)
	assert.Equal(t, "second", got.Reason)
}

func TestNormalize_StripsPunctuationAndCase(t *testing.T) {
	assert.Equal(t, "pod not found", normalize("Pod, NOT found!!"))
}
