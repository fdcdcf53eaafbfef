package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		name          string
		errorText     string
		wantMatched   bool
		wantErrorType string
	}{
		{
			name:          "drush sql file error takes priority over generic 1064",
			errorText:     "ERROR 1064 (42000) near 'dump.mysql' at line 1",
			wantMatched:   true,
			wantErrorType: "Drush SQL File Execution Error",
		},
		{
			name:          "generic mysql syntax error",
			errorText:     "ERROR 1064 (42000): You have an error in your SQL syntax",
			wantMatched:   true,
			wantErrorType: "MySQL Syntax Error",
		},
		{
			name:          "rbac forbidden",
			errorText:     "Error from server (Forbidden): pods is forbidden: User cannot list resource",
			wantMatched:   true,
			wantErrorType: "RBAC Permission Denied",
		},
		{
			name:          "docker daemon unreachable",
			errorText:     "Cannot connect to the Docker daemon at unix:///var/run/docker.sock",
			wantMatched:   true,
			wantErrorType: "Docker Daemon Unreachable",
		},
		{
			name:          "mysql access denied",
			errorText:     "ERROR 1045 (28000): Access denied for user 'root'@'localhost'",
			wantMatched:   true,
			wantErrorType: "Access Denied",
		},
		{
			name:          "no current kubeconfig context",
			errorText:     "error: current-context is not set",
			wantMatched:   true,
			wantErrorType: "No Active Context",
		},
		{
			name:          "docker image not found",
			errorText:     "Error response from daemon: No such image: myapp:latest",
			wantMatched:   true,
			wantErrorType: "Image Not Found",
		},
		{
			name:        "unrecognized error text does not match",
			errorText:   "something entirely novel went wrong",
			wantMatched: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			explanation, matched := matchPattern(tt.errorText)
			require.Equal(t, tt.wantMatched, matched)
			if tt.wantMatched {
				assert.Equal(t, tt.wantErrorType, explanation.ErrorType)
				assert.Equal(t, "pattern", explanation.Source)
			}
		})
	}
}

func TestMatchPattern_DrushVariantExtractsFilename(t *testing.T) {
	explanation, matched := matchPattern("ERROR 1064: syntax error near dump-2024.sql")
	require.True(t, matched)
	require.Len(t, explanation.Solutions, 1)
	assert.Contains(t, explanation.Solutions[0].Command, "dump-2024.sql")
}
