package tools

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/kaido-cli/kaido/internal/kubectlctx"
	"github.com/kaido-cli/kaido/internal/llm"
	"github.com/kaido-cli/kaido/internal/tools/exposure"
)

// exposureCommandPrefix marks a Translation's Command as a request to run
// through the exposure analyzer rather than a literal shell command; see
// Execute.
const exposureCommandPrefix = "exposure-analyze:"

// KubectlTool translates natural-language Kubernetes requests into kubectl
// invocations. Risk table grounded on
// original_source/src/tools/kubectl_tool.rs.
type KubectlTool struct{}

func NewKubectlTool() *KubectlTool { return &KubectlTool{} }

func (t *KubectlTool) Name() string { return "kubectl" }

func (t *KubectlTool) DetectIntent(input string) float64 {
	lower := strings.ToLower(input)
	if strings.HasPrefix(lower, "kubectl ") || strings.HasPrefix(lower, "k ") {
		return 1.0
	}
	switch {
	case strings.Contains(lower, "kubectl") || strings.Contains(lower, "kubernetes") || strings.Contains(lower, "k8s"):
		return 0.9
	case strings.Contains(lower, "pod") || strings.Contains(lower, "deployment") || strings.Contains(lower, "namespace") ||
		strings.Contains(lower, "node") || strings.Contains(lower, "service") || strings.Contains(lower, "cluster"):
		return 0.6
	default:
		return 0.0
	}
}

var exposureQuery = regexp.MustCompile(`(?i)(expose|external|public|reachable from outside)`)
var workloadRef = regexp.MustCompile(`(?i)(deployment|pod|statefulset|daemonset)s?\s+([a-z0-9][a-z0-9-]*)`)

func (t *KubectlTool) Translate(ctx context.Context, input string, tc *Context, backend llm.Backend) (Translation, error) {
	if exposureQuery.MatchString(input) {
		kind := "Deployment"
		name := ""
		if m := workloadRef.FindStringSubmatch(input); m != nil {
			kind = titleCase(m[1])
			name = m[2]
		}
		namespace := "default"
		if tc != nil && tc.Kubectl != nil && tc.Kubectl.Namespace != "" {
			namespace = tc.Kubectl.Namespace
		}
		if name == "" {
			return Translation{
				Command:    "kubectl get svc,ingress -o wide",
				Confidence: 55,
				Reasoning:  "exposure-style question but no specific workload named; listing services/ingresses instead of running the exposure analyzer",
				Tool:       t.Name(),
			}, nil
		}
		return Translation{
			Command:    fmt.Sprintf("%s%s/%s/%s", exposureCommandPrefix, kind, namespace, name),
			Confidence: 80,
			Reasoning:  fmt.Sprintf("checking whether %s/%s in namespace %s is reachable from outside the cluster", kind, name, namespace),
			Tool:       t.Name(),
		}, nil
	}

	nsHint := "default"
	if tc != nil && tc.Kubectl != nil && tc.Kubectl.Namespace != "" {
		nsHint = tc.Kubectl.Namespace
	}

	prompt := fmt.Sprintf(`You are translating a natural-language Kubernetes operations request into a single kubectl command.
Namespace: %s
Request: %s

Respond with strict JSON: {"command": "...", "confidence": 0-100, "reasoning": "..."}`, nsHint, input)

	result, err := backend.Infer(ctx, prompt)
	if err != nil {
		return Translation{}, err
	}
	return parseTranslation(result, t.Name())
}

func (t *KubectlTool) ClassifyRisk(command string, tc *Context) RiskLevel {
	lower := strings.ToLower(command)

	deleteAll := strings.Contains(lower, "delete") && (strings.Contains(lower, "--all") || strings.Contains(lower, "namespace"))
	if deleteAll {
		return RiskCritical
	}
	if strings.Contains(lower, "delete") || strings.Contains(lower, "drain") {
		return RiskHigh
	}
	if scaleZero(lower) {
		return RiskHigh
	}
	for _, verb := range []string{"apply", "create", "patch", "edit", "scale", "rollout", "restart", "label", "annotate"} {
		if strings.Contains(lower, verb) {
			return RiskMedium
		}
	}
	return RiskLow
}

func titleCase(s string) string {
	lower := strings.ToLower(s)
	if lower == "" {
		return lower
	}
	return strings.ToUpper(lower[:1]) + lower[1:]
}

var scaleReplicasRe = regexp.MustCompile(`--replicas[=\s]+(\d+)`)

func scaleZero(lower string) bool {
	if !strings.Contains(lower, "scale") {
		return false
	}
	m := scaleReplicasRe.FindStringSubmatch(lower)
	if m == nil {
		return false
	}
	n, err := strconv.Atoi(m[1])
	return err == nil && n == 0
}

func (t *KubectlTool) Execute(ctx context.Context, command string) (ExecutionResult, error) {
	if strings.HasPrefix(command, exposureCommandPrefix) {
		return t.runExposureAnalysis(ctx, strings.TrimPrefix(command, exposureCommandPrefix))
	}
	return runShell(ctx, command)
}

// runExposureAnalysis resolves the named workload's labels and runs the
// Service/Ingress/Gateway exposure checkers against them, adapting
// internal/tools/exposure (originally written for a CVE-prioritization
// pipeline) to answer "is this reachable from outside the cluster?"
// questions inline in the agent loop.
func (t *KubectlTool) runExposureAnalysis(ctx context.Context, ref string) (ExecutionResult, error) {
	start := time.Now()
	parts := strings.SplitN(ref, "/", 3)
	if len(parts) != 3 {
		return ExecutionResult{}, fmt.Errorf("malformed exposure reference %q", ref)
	}
	kind, namespace, name := parts[0], parts[1], parts[2]

	clientset, dynamicClient, err := kubectlctx.BuildClientsets()
	if err != nil {
		return ExecutionResult{ExitCode: 1, Stderr: err.Error(), Duration: time.Since(start)}, nil
	}

	labels, err := resolveWorkloadLabels(ctx, clientset, kind, namespace, name)
	if err != nil {
		return ExecutionResult{ExitCode: 1, Stderr: err.Error(), Duration: time.Since(start)}, nil
	}

	analyzer := exposure.NewAnalyzer(
		exposure.NewServiceChecker(clientset),
		exposure.NewIngressChecker(clientset),
		exposure.NewGatewayChecker(clientset, dynamicClient),
	)

	workload := exposure.Workload{Kind: kind, Name: name, Namespace: namespace, Labels: labels}
	result, err := analyzer.Analyze(ctx, workload)
	if err != nil {
		return ExecutionResult{ExitCode: 1, Stderr: err.Error(), Duration: time.Since(start)}, nil
	}

	return ExecutionResult{ExitCode: 0, Stdout: result.CompactString(), Duration: time.Since(start)}, nil
}

func resolveWorkloadLabels(ctx context.Context, clientset kubernetes.Interface, kind, namespace, name string) (map[string]string, error) {
	switch strings.ToLower(kind) {
	case "deployment":
		d, err := clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to get deployment %s/%s: %w", namespace, name, err)
		}
		return d.Spec.Template.Labels, nil
	case "statefulset":
		s, err := clientset.AppsV1().StatefulSets(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to get statefulset %s/%s: %w", namespace, name, err)
		}
		return s.Spec.Template.Labels, nil
	case "daemonset":
		d, err := clientset.AppsV1().DaemonSets(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to get daemonset %s/%s: %w", namespace, name, err)
		}
		return d.Spec.Template.Labels, nil
	case "pod":
		p, err := clientset.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to get pod %s/%s: %w", namespace, name, err)
		}
		return p.Labels, nil
	default:
		return nil, fmt.Errorf("unsupported workload kind %q for exposure analysis", kind)
	}
}

func (t *KubectlTool) ExplainError(errorText string) *ErrorExplanation {
	lower := strings.ToLower(errorText)
	switch {
	case strings.Contains(lower, "forbidden") || strings.Contains(lower, "cannot"):
		return &ErrorExplanation{
			ErrorType: "RBAC Permission Denied",
			Reason:    "the current kubectl user/service account lacks a role binding granting this verb on this resource",
			PossibleCauses: []string{
				"missing RoleBinding/ClusterRoleBinding for your identity",
				"wrong context/namespace selected",
			},
			Solutions: []Solution{
				{Description: "inspect bindings for your identity", Command: "kubectl auth can-i --list", Risk: RiskLow},
			},
			Source: "pattern",
		}
	case strings.Contains(lower, "current-context is not set") || strings.Contains(lower, "no current context"):
		return &ErrorExplanation{
			ErrorType: "No Active Context",
			Reason:    "kubeconfig has no current-context selected",
			Solutions: []Solution{
				{Description: "list available contexts", Command: "kubectl config get-contexts", Risk: RiskLow},
				{Description: "select a context", Command: "kubectl config use-context <name>", Risk: RiskLow},
			},
			Source: "pattern",
		}
	default:
		return nil
	}
}
