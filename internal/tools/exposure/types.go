// Package exposure answers the "can anything outside reach this workload?"
// question an operator asks the coach about a Deployment, DaemonSet,
// StatefulSet, or bare Pod. A Checker inspects one class of routing object
// (Service, Ingress, Gateway API route) and reports the exposure points it
// finds; the Analyzer merges every Checker's findings into a single Result
// the kubectl tool folds into its observation text (§11).
package exposure

import "context"

// ExposureType names the kind of routing object that exposes a workload.
type ExposureType string

const (
	ExposureTypeService      ExposureType = "service"
	ExposureTypeIngress      ExposureType = "ingress"
	ExposureTypeHTTPRoute    ExposureType = "httproute"
	ExposureTypeGRPCRoute    ExposureType = "grpcroute"
	ExposureTypeUDPRoute     ExposureType = "udproute"
	ExposureTypeGateway      ExposureType = "gateway"
	ExposureTypeLoadbalancer ExposureType = "loadbalancer"
	ExposureTypeNodePort     ExposureType = "nodePort"
)

// ExposureLevel is the coach's best guess at how far traffic can travel to
// reach the workload, from "nothing routes to it" up to "reachable from
// outside the cluster."
type ExposureLevel string

const (
	// ExposureLevelExternal means an Ingress, Gateway API route, or
	// LoadBalancer Service fronts the workload.
	ExposureLevelExternal ExposureLevel = "external"

	// ExposureLevelNodePort means the workload is reachable only via a
	// NodePort Service, so reachability depends on node network exposure.
	ExposureLevelNodePort ExposureLevel = "nodePort"

	// ExposureLevelClusterInternal means only a ClusterIP Service selects
	// the workload.
	ExposureLevelClusterInternal ExposureLevel = "clusterInternal"

	// ExposureLevelNone means no checker found anything routing to it.
	ExposureLevelNone ExposureLevel = "none"
)

// Workload identifies the kubectl-visible object the operator asked about.
type Workload struct {
	Kind      string            `json:"kind"` // Deployment, DaemonSet, StatefulSet, Pod
	Name      string            `json:"name"`
	Namespace string            `json:"namespace"`
	Labels    map[string]string `json:"labels"`
}

// ExposurePoint is one concrete path traffic could take to the workload.
type ExposurePoint struct {
	Type        ExposureType `json:"type"`
	Name        string       `json:"name"`
	Namespace   string       `json:"namespace,omitempty"`
	Details     string       `json:"details,omitempty"`
	Ports       []int32      `json:"ports,omitempty"`
	Hosts       []string     `json:"hosts,omitempty"`
	ServiceName string       `json:"serviceName,omitempty"`
}

// Result is the full exposure read-out the coach attaches to an
// investigation step.
type Result struct {
	Workload       Workload        `json:"workload"`
	ExposurePoints []ExposurePoint `json:"exposurePoints"`
	Level          ExposureLevel   `json:"level"`
	Summary        string          `json:"summary"`
}

// Checker inspects one class of routing object against a workload. Add a
// new Checker (a NetworkPolicy or mesh-specific one, say) to extend what
// the coach can reason about without touching the Analyzer.
type Checker interface {
	// Name identifies the checker for logging and per-checker error handling.
	Name() string

	// Check returns every exposure point this checker finds for workload.
	Check(ctx context.Context, workload Workload) ([]ExposurePoint, error)
}
