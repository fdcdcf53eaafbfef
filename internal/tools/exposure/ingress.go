package exposure

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// IngressChecker finds Ingresses whose backend Services select the
// workload, the classic "something outside routes HTTP(S) traffic in"
// exposure path.
type IngressChecker struct {
	clientset kubernetes.Interface
}

// NewIngressChecker builds an IngressChecker against the given cluster
// client.
func NewIngressChecker(clientset kubernetes.Interface) *IngressChecker {
	return &IngressChecker{clientset: clientset}
}

func (i *IngressChecker) Name() string {
	return "ingress"
}

// Check walks every Ingress in the workload's namespace, resolves each
// backend to a Service, and keeps the Ingress if any backend Service
// selects the workload.
func (i *IngressChecker) Check(ctx context.Context, workload Workload) ([]ExposurePoint, error) {
	if len(workload.Labels) == 0 {
		return nil, nil
	}

	ingresses, err := i.clientset.NetworkingV1().Ingresses(workload.Namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing ingresses in %s: %w", workload.Namespace, err)
	}

	serviceCache := make(map[string]bool) // serviceName -> selects workload?

	var points []ExposurePoint

	for _, ing := range ingresses.Items {
		var hosts []string
		var matchingServices []string

		if ing.Spec.DefaultBackend != nil && ing.Spec.DefaultBackend.Service != nil {
			svcName := ing.Spec.DefaultBackend.Service.Name
			if i.serviceSelectsWorkload(ctx, workload, svcName, serviceCache) {
				matchingServices = append(matchingServices, svcName)
			}
		}

		for _, rule := range ing.Spec.Rules {
			if rule.Host != "" {
				hosts = append(hosts, rule.Host)
			}

			if rule.HTTP == nil {
				continue
			}

			for _, path := range rule.HTTP.Paths {
				if path.Backend.Service == nil {
					continue
				}

				svcName := path.Backend.Service.Name
				if i.serviceSelectsWorkload(ctx, workload, svcName, serviceCache) {
					matchingServices = append(matchingServices, svcName)
				}
			}
		}

		if len(matchingServices) > 0 {
			points = append(points, ExposurePoint{
				Type:        ExposureTypeIngress,
				Name:        ing.Name,
				Namespace:   ing.Namespace,
				Hosts:       uniqueStrings(hosts),
				ServiceName: matchingServices[0],
				Details:     fmt.Sprintf("routes to service(s): %v", uniqueStrings(matchingServices)),
			})
		}
	}

	return points, nil
}

// serviceSelectsWorkload fetches serviceName and reports whether its
// selector matches the workload's labels, memoizing the answer since the
// same backend Service is often named by several Ingress rules.
func (i *IngressChecker) serviceSelectsWorkload(ctx context.Context, workload Workload, serviceName string, cache map[string]bool) bool {
	if result, ok := cache[serviceName]; ok {
		return result
	}

	svc, err := i.clientset.CoreV1().Services(workload.Namespace).Get(ctx, serviceName, metav1.GetOptions{})
	if err != nil {
		cache[serviceName] = false
		return false
	}

	if svc.Spec.Selector == nil {
		cache[serviceName] = false
		return false
	}

	result := matchesSelector(workload.Labels, svc.Spec.Selector)
	cache[serviceName] = result
	return result
}

// uniqueStrings drops duplicate entries, preserving first-seen order.
func uniqueStrings(input []string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, s := range input {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}
