package exposure

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetermineLevel(t *testing.T) {
	assert.Equal(t, ExposureLevelNone, DetermineLevel(nil))
	assert.Equal(t, ExposureLevelClusterInternal, DetermineLevel([]ExposurePoint{{Type: ExposureTypeService}}))
	assert.Equal(t, ExposureLevelNodePort, DetermineLevel([]ExposurePoint{{Type: ExposureTypeNodePort}}))
	assert.Equal(t, ExposureLevelExternal, DetermineLevel([]ExposurePoint{{Type: ExposureTypeIngress}}))

	// external wins over the others even when every tier is present
	mixed := []ExposurePoint{{Type: ExposureTypeService}, {Type: ExposureTypeNodePort}, {Type: ExposureTypeGateway}}
	assert.Equal(t, ExposureLevelExternal, DetermineLevel(mixed))
}

func TestGenerateSummary(t *testing.T) {
	summary := GenerateSummary(ExposureLevelExternal, []ExposurePoint{{Type: ExposureTypeIngress, Name: "web-ingress"}})
	assert.Contains(t, summary, "externally exposed")
	assert.Contains(t, summary, "ingress/web-ingress")

	assert.Contains(t, GenerateSummary(ExposureLevelNone, nil), "no exposure detected")
}

type stubChecker struct {
	name   string
	points []ExposurePoint
	err    error
}

func (s stubChecker) Name() string { return s.name }
func (s stubChecker) Check(ctx context.Context, workload Workload) ([]ExposurePoint, error) {
	return s.points, s.err
}

func TestAnalyzer_Analyze_MergesCheckerResults(t *testing.T) {
	analyzer := NewAnalyzer(
		stubChecker{name: "svc", points: []ExposurePoint{{Type: ExposureTypeService, Name: "web"}}},
		stubChecker{name: "ingress", points: []ExposurePoint{{Type: ExposureTypeIngress, Name: "web-ingress"}}},
	)

	result, err := analyzer.Analyze(context.Background(), Workload{Kind: "Deployment", Name: "web", Namespace: "default"})
	require.NoError(t, err)
	assert.Len(t, result.ExposurePoints, 2)
	assert.Equal(t, ExposureLevelExternal, result.Level)
}

func TestAnalyzer_Analyze_SkipsFailingCheckerButContinues(t *testing.T) {
	analyzer := NewAnalyzer(
		stubChecker{name: "broken", err: errors.New("api server unreachable")},
		stubChecker{name: "svc", points: []ExposurePoint{{Type: ExposureTypeService, Name: "web"}}},
	)

	result, err := analyzer.Analyze(context.Background(), Workload{Kind: "Deployment", Name: "web", Namespace: "default"})
	require.NoError(t, err)
	assert.Len(t, result.ExposurePoints, 1)
	assert.Equal(t, ExposureLevelClusterInternal, result.Level)
}

func TestResult_CompactString(t *testing.T) {
	result := &Result{
		Workload:       Workload{Kind: "Deployment", Name: "web", Namespace: "default"},
		Level:          ExposureLevelExternal,
		ExposurePoints: []ExposurePoint{{Type: ExposureTypeIngress, Name: "web-ingress", Ports: []int32{80}}},
		Summary:        "externally exposed",
	}

	out := result.CompactString()
	assert.Contains(t, out, "default/web (Deployment)")
	assert.Contains(t, out, "ingress: web-ingress")
	assert.Contains(t, out, "externally exposed")
}
