package mentor

import (
	"fmt"
	"strings"
)

// fromPattern reproduces the per-error/command-type canned guidance
// generators from original_source/src/mentor/engine.rs's
// generate_from_pattern match, keyed here by a lightweight classification
// of the command text rather than a Rust ErrorType enum variant (the
// mentor layer annotates Action steps before they run, so it classifies on
// the command, not on an observed error).
func fromPattern(tool, command string) (Guidance, bool) {
	lower := strings.ToLower(command)

	switch {
	case tool == "" && strings.Contains(lower, "command not found"):
		return commandNotFoundGuidance(command), true
	case strings.Contains(lower, "sudo"):
		return permissionGuidance(command), true
	case tool == "network" && (strings.Contains(lower, "lsof") || strings.Contains(lower, "netstat") || strings.Contains(lower, "ss ")):
		return portInUseGuidance(command), true
	case tool == "docker":
		return dockerGuidance(command), true
	case tool == "kubectl":
		return kubernetesGuidance(command), true
	case tool == "nginx" || tool == "apache2":
		return configurationGuidance(tool, command), true
	default:
		return Guidance{}, false
	}
}

func commandNotFoundGuidance(command string) Guidance {
	cmdName := extractCommandName(command)
	return Guidance{
		Explanation:     fmt.Sprintf("%q is not on this shell's PATH", cmdName),
		SuggestedSearch: []string{cmdName + " command not found install"},
		NextSteps: []NextStep{
			{Description: "check whether it's installed under a different path", Command: fmt.Sprintf("which %s", cmdName)},
			{Description: "inspect your PATH", Command: "echo $PATH"},
			{Description: "install it with your distro's package manager", Command: fmt.Sprintf("sudo apt install %s", cmdName)},
		},
		Concepts: []string{"PATH environment variable", "package managers"},
		Source:   "pattern",
	}
}

func permissionGuidance(command string) Guidance {
	return Guidance{
		Explanation: "this command needs elevated privileges to modify system state",
		NextSteps: []NextStep{
			{Description: "re-run the previous command with sudo", Command: "sudo !!"},
			{Description: "check file ownership/permissions", Command: "ls -la"},
		},
		Concepts: []string{"Unix file permissions", "sudo and privilege escalation"},
		Source:   "pattern",
	}
}

func portInUseGuidance(command string) Guidance {
	return Guidance{
		Explanation: "checking which process currently holds a port before freeing it",
		NextSteps: []NextStep{
			{Description: "list the owning process", Command: "lsof -i :<port>"},
			{Description: "alternative listing", Command: "netstat -tuln | grep <port>"},
			{Description: "stop the owning process once identified", Command: "kill <pid>"},
		},
		Concepts: []string{"TCP port binding", "process/socket ownership"},
		Source:   "pattern",
	}
}

func dockerGuidance(command string) Guidance {
	return Guidance{
		Explanation: "inspecting or changing container/image state through the Docker daemon",
		Concepts:    []string{"container lifecycle", "Docker daemon socket"},
		Source:      "pattern",
	}
}

func kubernetesGuidance(command string) Guidance {
	return Guidance{
		Explanation: "querying or changing cluster state through the Kubernetes API server",
		Concepts:    []string{"Kubernetes resource model", "RBAC"},
		Source:      "pattern",
	}
}

func configurationGuidance(tool, command string) Guidance {
	return Guidance{
		Explanation: fmt.Sprintf("validating or reloading %s's configuration before it takes effect", tool),
		Concepts:    []string{"configuration test vs. reload vs. restart"},
		Source:      "pattern",
	}
}

// extractCommandName parses "bash: foo: command not found" / "command not
// found: foo" / "foo: command not found" shapes, matching
// original_source/src/mentor/engine.rs's extract_command_name.
func extractCommandName(msg string) string {
	parts := strings.Split(msg, ":")
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" || trimmed == "bash" || trimmed == "zsh" || trimmed == "sh" {
			continue
		}
		if strings.Contains(trimmed, "command not found") {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) > 0 {
			return fields[len(fields)-1]
		}
	}
	fields := strings.Fields(msg)
	if len(fields) > 0 {
		return fields[len(fields)-1]
	}
	return "command"
}
