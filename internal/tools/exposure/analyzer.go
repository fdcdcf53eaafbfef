package exposure

import (
	"context"
	"fmt"
	"strings"
)

// Analyzer fans a workload out to every registered Checker and folds their
// findings into one Result.
type Analyzer struct {
	checkers []Checker
}

// NewAnalyzer builds an Analyzer over the given checkers. The kubectl tool
// always wires it up with the Service, Ingress and Gateway API checkers; if
// it cannot build both the typed and the dynamic client, no analysis runs.
func NewAnalyzer(checkers ...Checker) *Analyzer {
	return &Analyzer{checkers: checkers}
}

// Analyze runs every checker and merges their exposure points into a single
// Result. A checker that errors (its CRD not installed, an RBAC denial) is
// skipped so one missing capability never blocks the rest of the read-out.
func (a *Analyzer) Analyze(ctx context.Context, workload Workload) (*Result, error) {
	var allPoints []ExposurePoint

	for _, checker := range a.checkers {
		points, err := checker.Check(ctx, workload)
		if err != nil {
			continue
		}
		allPoints = append(allPoints, points...)
	}

	level := DetermineLevel(allPoints)
	summary := GenerateSummary(level, allPoints)

	return &Result{
		Workload:       workload,
		ExposurePoints: allPoints,
		Level:          level,
		Summary:        summary,
	}, nil
}

// DetermineLevel picks the widest-reach exposure level implied by points:
// any external route wins over NodePort, which wins over cluster-internal.
func DetermineLevel(points []ExposurePoint) ExposureLevel {
	if len(points) == 0 {
		return ExposureLevelNone
	}

	hasExternal := false
	hasNodePort := false
	hasClusterInternal := false

	for _, p := range points {
		switch p.Type {
		case ExposureTypeIngress, ExposureTypeHTTPRoute, ExposureTypeGRPCRoute, ExposureTypeUDPRoute, ExposureTypeGateway, ExposureTypeLoadbalancer:
			hasExternal = true
		case ExposureTypeNodePort:
			hasNodePort = true
		case ExposureTypeService:
			hasClusterInternal = true
		}
	}

	if hasExternal {
		return ExposureLevelExternal
	}
	if hasNodePort {
		return ExposureLevelNodePort
	}
	if hasClusterInternal {
		return ExposureLevelClusterInternal
	}
	return ExposureLevelNone
}

// GenerateSummary renders level and points as a one-line verdict plus an
// optional "via: ..." clause the coach can fold into its observation text.
func GenerateSummary(level ExposureLevel, points []ExposurePoint) string {
	var details []string
	for _, p := range points {
		details = append(details, fmt.Sprintf("%s/%s", p.Type, p.Name))
	}

	base := ""
	switch level {
	case ExposureLevelExternal:
		base = "externally exposed: this workload appears reachable from outside the cluster."
	case ExposureLevelNodePort:
		base = "nodeport exposed: reachable on node IPs, may be external depending on network."
	case ExposureLevelClusterInternal:
		base = "internal only: ClusterIP service, accessible within the cluster network only."
	case ExposureLevelNone:
		base = "no exposure detected: no services found selecting this workload."
	}

	if len(details) > 0 {
		return fmt.Sprintf("%s via: %s", base, strings.Join(details, ", "))
	}
	return base
}

// CompactString renders a Result as token-efficient text for the agent's
// thought/observation prompts (§4.6) instead of dumping the full struct.
func (r *Result) CompactString() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("workload: %s/%s (%s)\n", r.Workload.Namespace, r.Workload.Name, r.Workload.Kind))
	b.WriteString(fmt.Sprintf("exposure level: %s\n\n", r.Level))

	if len(r.ExposurePoints) == 0 {
		b.WriteString("no exposure points detected.\n")
	} else {
		b.WriteString("exposure points:\n")
		const maxPoints = 10
		for i, p := range r.ExposurePoints {
			if i >= maxPoints {
				b.WriteString(fmt.Sprintf("  ... and %d more\n", len(r.ExposurePoints)-maxPoints))
				break
			}
			line := fmt.Sprintf("  - %s: %s", p.Type, p.Name)
			if len(p.Ports) > 0 {
				line += fmt.Sprintf(" (ports: %v)", p.Ports)
			}
			if len(p.Hosts) > 0 {
				line += fmt.Sprintf(" (hosts: %v)", p.Hosts)
			}
			b.WriteString(line + "\n")
		}
	}
	b.WriteString(fmt.Sprintf("\nassessment: %s\n", r.Summary))

	return b.String()
}
