package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() map[string]any {
	return map[string]any{
		"execution": map[string]any{
			"id":          "exec-1",
			"name":        "deploy-main",
			"application": "orca-demo",
		},
	}
}

func TestEvaluatePreservesShape(t *testing.T) {
	value := map[string]any{
		"subject": "{{ .execution.name }} finished",
		"nested": map[string]any{
			"app":   "{{ .execution.application }}",
			"count": 3,
		},
		"targets": []any{"{{ .execution.id }}", "static"},
	}

	result, err := Evaluate(value, testContext(), false)
	require.NoError(t, err)

	resolved, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "deploy-main finished", resolved["subject"])

	nested, ok := resolved["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "orca-demo", nested["app"])
	assert.Equal(t, 3, nested["count"])

	targets, ok := resolved["targets"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"exec-1", "static"}, targets)
}

func TestEvaluateLeavesUnresolvedExpressions(t *testing.T) {
	value := map[string]any{
		"known":   "{{ .execution.id }}",
		"unknown": "{{ .deployment.region }}",
	}

	result, err := Evaluate(value, testContext(), true)
	require.NoError(t, err)

	resolved, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "exec-1", resolved["known"])
	assert.Equal(t, "{{ .deployment.region }}", resolved["unknown"])
}

func TestEvaluateFailsOnUnresolvedWhenNotAllowed(t *testing.T) {
	_, err := Evaluate("{{ .deployment.region }}", testContext(), false)

	require.Error(t, err)
}

func TestEvaluatePassesThroughNonTemplates(t *testing.T) {
	result, err := Evaluate("plain string", testContext(), false)
	require.NoError(t, err)
	assert.Equal(t, "plain string", result)

	result, err = Evaluate(42, testContext(), false)
	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestRenderTypedResults(t *testing.T) {
	data := map[string]any{"count": 3, "enabled": "true"}

	result, err := Render("{{ .count }}", data)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, result, 0)

	result, err = Render("{{ .enabled }}", data)
	require.NoError(t, err)
	assert.Equal(t, true, result)

	result, err = Render(`{"a": {{ .count }}}`, data)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 3.0}, result)
}
