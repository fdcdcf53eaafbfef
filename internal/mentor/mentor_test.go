package mentor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaido-cli/kaido/internal/explain"
	"github.com/kaido-cli/kaido/internal/llm"
	"github.com/kaido-cli/kaido/internal/tools"
)

type stubBackend struct {
	reasoning string
	err       error
	calls     int
}

func (s *stubBackend) Infer(ctx context.Context, prompt string) (llm.InferResult, error) {
	s.calls++
	return llm.InferResult{Reasoning: s.reasoning}, s.err
}

func openTestCache(t *testing.T) *explain.Cache {
	t.Helper()
	c, err := explain.OpenCache(filepath.Join(t.TempDir(), "explanations.db"), 90)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestGenerate_PatternWinsOverLLM(t *testing.T) {
	backend := &stubBackend{reasoning: "should never be seen"}
	e := New(nil, backend, true)

	g := e.Generate(context.Background(), "docker", "docker ps -a")
	assert.NotEmpty(t, g.Explanation)
	assert.Equal(t, 0, backend.calls)
}

func TestGenerate_LLMDisabledFallsBackToGeneric(t *testing.T) {
	backend := &stubBackend{reasoning: "should never be seen"}
	e := New(nil, backend, false)

	g := e.Generate(context.Background(), "sql", "SELECT * FROM users LIMIT 1")
	assert.Equal(t, "pattern", g.Source)
	assert.Equal(t, 0, backend.calls)
}

func TestGenerate_LLMUsedWhenNoPatternMatches(t *testing.T) {
	backend := &stubBackend{reasoning: "this command inspects live request throughput."}
	e := New(nil, backend, true)

	g := e.Generate(context.Background(), "sql", "SELECT * FROM users LIMIT 1")
	assert.Equal(t, "llm", g.Source)
	assert.Equal(t, "this command inspects live request throughput.", g.Explanation)
	assert.Equal(t, 1, backend.calls)
}

func TestGenerate_LLMErrorFallsBackToGeneric(t *testing.T) {
	backend := &stubBackend{err: errors.New("backend down")}
	e := New(nil, backend, true)

	g := e.Generate(context.Background(), "sql", "SELECT * FROM users LIMIT 1")
	assert.Equal(t, "pattern", g.Source)
}

func TestGenerate_CacheHitSkipsLLM(t *testing.T) {
	cache := openTestCache(t)
	backend := &stubBackend{reasoning: "should never be seen"}
	e := New(cache, backend, true)

	require.NoError(t, cache.Put("mentor:sql", "SELECT * FROM users LIMIT 1", tools.ErrorExplanation{Reason: "cached guidance"}))

	g := e.Generate(context.Background(), "sql", "SELECT * FROM users LIMIT 1")
	assert.Equal(t, "cached", g.Source)
	assert.Equal(t, "cached guidance", g.Explanation)
	assert.Equal(t, 0, backend.calls)
}
