package explain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaido-cli/kaido/internal/llm"
	"github.com/kaido-cli/kaido/internal/tools"
)

type stubBackend struct {
	result llm.InferResult
	err    error
	calls  int
}

func (s *stubBackend) Infer(ctx context.Context, prompt string) (llm.InferResult, error) {
	s.calls++
	return s.result, s.err
}

func TestExplain_FastPathWinsOverLLM(t *testing.T) {
	backend := &stubBackend{}
	e := New(nil, backend)

	result, err := e.Explain(context.Background(), "Error from server (Forbidden): pods is forbidden: User cannot list resource \"pods\"")
	require.NoError(t, err)
	assert.Equal(t, "RBAC Permission Denied", result.ErrorType)
	assert.Equal(t, 0, backend.calls, "pattern match should short-circuit before the LLM is consulted")
}

func TestExplain_CacheHitSkipsLLM(t *testing.T) {
	cache := openTestCache(t)
	backend := &stubBackend{}
	e := New(cache, backend)

	errText := "some bespoke error the fast-path patterns never match"
	require.NoError(t, cache.Put(classifyErrorType(errText), errText, tools.ErrorExplanation{Reason: "cached reason"}))

	result, err := e.Explain(context.Background(), errText)
	require.NoError(t, err)
	assert.Equal(t, "cached reason", result.Reason)
	assert.Equal(t, "cached", result.Source)
	assert.Equal(t, 0, backend.calls)
}

func TestExplain_LLMFallbackOnUnmatchedError(t *testing.T) {
	backend := &stubBackend{result: llm.InferResult{Reasoning: `{"error_type": "Weird Error", "reason": "something odd happened", "solutions": [{"description": "check logs", "risk_level": "low"}]}`}}
	e := New(nil, backend)

	result, err := e.Explain(context.Background(), "some bespoke error the fast-path patterns never match")
	require.NoError(t, err)
	assert.Equal(t, "Weird Error", result.ErrorType)
	assert.Equal(t, "llm", result.Source)
	assert.Equal(t, 1, backend.calls)
}

func TestExplain_LLMErrorFallsBackGracefully(t *testing.T) {
	backend := &stubBackend{err: errors.New("network unreachable")}
	e := New(nil, backend)

	result, err := e.Explain(context.Background(), "some bespoke error the fast-path patterns never match")
	require.Error(t, err)
	assert.Equal(t, "fallback", result.Source)
}

func TestExplain_NilBackendUsesFallback(t *testing.T) {
	e := New(nil, nil)

	result, err := e.Explain(context.Background(), "some bespoke error\nwith a real first line")
	require.NoError(t, err)
	assert.Equal(t, "fallback", result.Source)
	assert.Equal(t, "some bespoke error", result.Reason)
}

func TestExplain_CachesLLMDerivedExplanation(t *testing.T) {
	cache := openTestCache(t)
	backend := &stubBackend{result: llm.InferResult{Reasoning: `{"error_type": "Weird Error", "reason": "something odd"}`}}
	e := New(cache, backend)

	errText := "some bespoke error the fast-path patterns never match"
	_, err := e.Explain(context.Background(), errText)
	require.NoError(t, err)

	cached, ok := cache.Get(classifyErrorType(errText), errText)
	require.True(t, ok)
	assert.Equal(t, "something odd", cached.Reason)
}

func TestParseExplanation_DirectJSON(t *testing.T) {
	result, err := parseExplanation(`{"error_type": "X", "reason": "Y"}`)
	require.NoError(t, err)
	assert.Equal(t, "X", result.ErrorType)
}

func TestParseExplanation_FencedCodeBlock(t *testing.T) {
	raw := "Here you go:\n```json\n{\"error_type\": \"X\", \"reason\": \"Y\"}\n```\nhope that helps"
	result, err := parseExplanation(raw)
	require.NoError(t, err)
	assert.Equal(t, "X", result.ErrorType)
}

func TestParseExplanation_BraceSubstring(t *testing.T) {
	raw := "sure, the answer is {\"error_type\": \"X\", \"reason\": \"Y\"} as requested"
	result, err := parseExplanation(raw)
	require.NoError(t, err)
	assert.Equal(t, "X", result.ErrorType)
}

func TestParseExplanation_NoJSONErrors(t *testing.T) {
	_, err := parseExplanation("no json anywhere in this text")
	assert.Error(t, err)
}

func TestRiskFromString(t *testing.T) {
	assert.Equal(t, tools.RiskLow, riskFromString(""))
	assert.Equal(t, tools.RiskMedium, riskFromString("Medium"))
	assert.Equal(t, tools.RiskHigh, riskFromString("HIGH"))
	assert.Equal(t, tools.RiskCritical, riskFromString("critical"))
}

func TestClassifyErrorType(t *testing.T) {
	assert.Equal(t, "permission_denied", classifyErrorType("Permission denied while accessing /etc"))
	assert.Equal(t, "not_found", classifyErrorType("resource not found"))
	assert.Equal(t, "connection_refused", classifyErrorType("dial tcp: connection refused"))
	assert.Equal(t, "timeout", classifyErrorType("context deadline exceeded: timeout"))
	assert.Equal(t, "generic", classifyErrorType("something else entirely"))
}
