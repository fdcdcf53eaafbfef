// Package kubectlctx derives operational context (cluster, namespace,
// environment classification) from the active kubeconfig.
package kubectlctx

import (
	"strings"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// EnvironmentType classifies a kubectl context by how much caution its
// commands deserve.
type EnvironmentType int

const (
	EnvUnknown EnvironmentType = iota
	EnvDevelopment
	EnvStaging
	EnvProduction
)

func (e EnvironmentType) String() string {
	switch e {
	case EnvDevelopment:
		return "development"
	case EnvStaging:
		return "staging"
	case EnvProduction:
		return "production"
	default:
		return "unknown"
	}
}

// EnvironmentFromContext derives an EnvironmentType from a kubectl context
// name via case-insensitive substring match, checked in a fixed order for
// determinism.
func EnvironmentFromContext(name string) EnvironmentType {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "prod"):
		return EnvProduction
	case strings.Contains(lower, "stag"):
		return EnvStaging
	case strings.Contains(lower, "dev"):
		return EnvDevelopment
	default:
		return EnvUnknown
	}
}

// Context is the kubectl-specific sub-context threaded through tool
// translation and risk classification.
type Context struct {
	Cluster     string
	Namespace   string
	User        string
	Environment EnvironmentType
}

// Load reads the active context out of the default kubeconfig loading
// rules (KUBECONFIG env var, then ~/.kube/config), mirroring the loading
// convention the teacher's client construction uses elsewhere for its own
// exposure-analysis Kubernetes client.
func Load() (*Context, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	cfg, err := rules.Load()
	if err != nil {
		return nil, err
	}

	ctxName := cfg.CurrentContext
	kctx, ok := cfg.Contexts[ctxName]
	namespace := "default"
	clusterName := ctxName
	userName := ""
	if ok {
		if kctx.Namespace != "" {
			namespace = kctx.Namespace
		}
		clusterName = kctx.Cluster
		userName = kctx.AuthInfo
	}

	return &Context{
		Cluster:     clusterName,
		Namespace:   namespace,
		User:        userName,
		Environment: EnvironmentFromContext(ctxName),
	}, nil
}

// BuildClientsets constructs a typed and a dynamic Kubernetes client from
// the same default kubeconfig loading rules Load uses, for callers (the
// exposure analyzer) that need to talk to the API server rather than just
// read context metadata.
func BuildClientsets() (kubernetes.Interface, dynamic.Interface, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	restConfig, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).ClientConfig()
	if err != nil {
		return nil, nil, err
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, nil, err
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, nil, err
	}

	return clientset, dynamicClient, nil
}
