package mentor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromPattern(t *testing.T) {
	tests := []struct {
		name        string
		tool        string
		command     string
		wantMatched bool
		wantSource  string
	}{
		{"command not found with no tool", "", "bash: foo: command not found", true, "pattern"},
		{"sudo takes priority over tool kind", "kubectl", "sudo kubectl delete pod x", true, "pattern"},
		{"network port lookup", "network", "lsof -i :8080", true, "pattern"},
		{"docker command", "docker", "docker ps -a", true, "pattern"},
		{"kubectl command", "kubectl", "kubectl get pods", true, "pattern"},
		{"nginx config", "nginx", "nginx -t", true, "pattern"},
		{"apache2 config", "apache2", "apache2ctl configtest", true, "pattern"},
		{"unmatched tool falls through", "sql", "SELECT 1", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guidance, matched := fromPattern(tt.tool, tt.command)
			assert.Equal(t, tt.wantMatched, matched)
			if tt.wantMatched {
				assert.Equal(t, tt.wantSource, guidance.Source)
				assert.NotEmpty(t, guidance.Explanation)
			}
		})
	}
}

func TestExtractCommandName(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want string
	}{
		{"bash prefixed", "bash: foo: command not found", "foo"},
		{"zsh prefixed", "zsh: command not found: bar", "bar"},
		{"plain command colon suffix", "kubectl: command not found", "kubectl"},
		{"no colons falls back to last word", "nope this is not a real message", "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractCommandName(tt.msg))
		})
	}
}
