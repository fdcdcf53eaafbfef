package exposure

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// ServiceChecker is the baseline Checker: it lists every Service in the
// workload's namespace and keeps the ones whose selector matches the
// workload's labels. The Ingress and Gateway checkers do not use its
// findings; they look up the Services their routes point at themselves.
type ServiceChecker struct {
	clientset kubernetes.Interface
}

// NewServiceChecker builds a ServiceChecker against the given cluster client.
func NewServiceChecker(clientset kubernetes.Interface) *ServiceChecker {
	return &ServiceChecker{clientset: clientset}
}

func (s *ServiceChecker) Name() string {
	return "service"
}

// Check lists Services in the workload's namespace and keeps those whose
// selector matches.
func (s *ServiceChecker) Check(ctx context.Context, workload Workload) ([]ExposurePoint, error) {
	if len(workload.Labels) == 0 {
		return nil, nil
	}

	services, err := s.clientset.CoreV1().Services(workload.Namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing services in %s: %w", workload.Namespace, err)
	}

	var points []ExposurePoint

	for _, svc := range services.Items {
		if svc.Spec.Selector == nil {
			continue
		}

		if matchesSelector(workload.Labels, svc.Spec.Selector) {
			points = append(points, serviceToExposurePoint(&svc))
		}
	}

	return points, nil
}

// matchesSelector reports whether every key/value in selector is present
// in workloadLabels (a Service selector, not the workload, decides the
// match direction).
func matchesSelector(workloadLabels, selector map[string]string) bool {
	for key, value := range selector {
		if workloadLabels[key] != value {
			return false
		}
	}
	return true
}

// serviceToExposurePoint classifies a Service by its .spec.type and
// surfaces its ports and, for LoadBalancer services, the assigned
// address.
func serviceToExposurePoint(svc *corev1.Service) ExposurePoint {
	expType := ExposureTypeService
	switch svc.Spec.Type {
	case corev1.ServiceTypeLoadBalancer:
		expType = ExposureTypeLoadbalancer
	case corev1.ServiceTypeNodePort:
		expType = ExposureTypeNodePort
	}

	var ports []int32
	for _, p := range svc.Spec.Ports {
		ports = append(ports, p.Port)
	}

	details := fmt.Sprintf("type: %s", svc.Spec.Type)
	if svc.Spec.Type == corev1.ServiceTypeLoadBalancer && len(svc.Status.LoadBalancer.Ingress) > 0 {
		ing := svc.Status.LoadBalancer.Ingress[0]
		if ing.Hostname != "" {
			details += fmt.Sprintf(", lb: %s", ing.Hostname)
		} else if ing.IP != "" {
			details += fmt.Sprintf(", lb: %s", ing.IP)
		}
	}

	return ExposurePoint{
		Type:      expType,
		Name:      svc.Name,
		Namespace: svc.Namespace,
		Details:   details,
		Ports:     ports,
	}
}
