package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDockerTool_DetectIntentAndRisk(t *testing.T) {
	tool := NewDockerTool()

	assert.Equal(t, 1.0, tool.DetectIntent("docker ps -a"))
	assert.Equal(t, 0.0, tool.DetectIntent("list files"))

	assert.Equal(t, RiskCritical, tool.ClassifyRisk("docker rm $(docker ps -aq)", nil))
	assert.Equal(t, RiskHigh, tool.ClassifyRisk("docker rmi myimage", nil))
	assert.Equal(t, RiskMedium, tool.ClassifyRisk("docker restart web", nil))
	assert.Equal(t, RiskLow, tool.ClassifyRisk("docker ps -a", nil))
}

func TestDockerTool_ExplainError(t *testing.T) {
	tool := NewDockerTool()

	explanation := tool.ExplainError("Cannot connect to the Docker daemon at unix:///var/run/docker.sock")
	assert.NotNil(t, explanation)
	assert.Equal(t, "Docker Daemon Unreachable", explanation.ErrorType)

	assert.Nil(t, tool.ExplainError("some unrelated error"))
}

func TestNginxTool_DetectIntentAndRisk(t *testing.T) {
	tool := NewNginxTool()

	assert.Equal(t, 1.0, tool.DetectIntent("restart nginx"))
	assert.Equal(t, 0.0, tool.DetectIntent("list files"))

	assert.Equal(t, RiskCritical, tool.ClassifyRisk("apt remove nginx", nil))
	assert.Equal(t, RiskHigh, tool.ClassifyRisk("nginx -s stop", nil))
	assert.Equal(t, RiskMedium, tool.ClassifyRisk("nginx -s reload", nil))
	assert.Equal(t, RiskLow, tool.ClassifyRisk("nginx -t", nil))
	assert.Equal(t, RiskMedium, tool.ClassifyRisk("nginx -s totallyunknown", nil))
}

func TestApache2Tool_DetectIntentAndRisk(t *testing.T) {
	tool := NewApache2Tool()

	assert.Equal(t, 1.0, tool.DetectIntent("check apache status"))
	assert.Equal(t, 0.0, tool.DetectIntent("list files"))

	assert.Equal(t, RiskCritical, tool.ClassifyRisk("apt purge apache2", nil))
	assert.Equal(t, RiskHigh, tool.ClassifyRisk("apache2ctl stop", nil))
	assert.Equal(t, RiskMedium, tool.ClassifyRisk("apache2ctl graceful", nil))
	assert.Equal(t, RiskLow, tool.ClassifyRisk("apache2ctl configtest", nil))
}

func TestNetworkTool_DetectIntentAndRisk(t *testing.T) {
	tool := NewNetworkTool()

	assert.Equal(t, 0.9, tool.DetectIntent("check open ports"))
	assert.Equal(t, 0.0, tool.DetectIntent("restart the database"))

	assert.Equal(t, RiskCritical, tool.ClassifyRisk("iptables -F", nil))
	assert.Equal(t, RiskCritical, tool.ClassifyRisk("ufw reset", nil))
	assert.Equal(t, RiskHigh, tool.ClassifyRisk("ufw allow 8080", nil))
	assert.Equal(t, RiskLow, tool.ClassifyRisk("ss -tulpn", nil))
}

func TestSQLTool_DetectIntentAndRisk(t *testing.T) {
	tool := NewSQLTool()

	assert.Equal(t, 1.0, tool.DetectIntent("SELECT * FROM users"))
	assert.Equal(t, 0.0, tool.DetectIntent("restart nginx"))

	assert.Equal(t, RiskCritical, tool.ClassifyRisk("DROP DATABASE prod", nil))
	assert.Equal(t, RiskCritical, tool.ClassifyRisk("DELETE FROM users", nil))
	assert.Equal(t, RiskHigh, tool.ClassifyRisk("DROP TABLE sessions", nil))
	assert.Equal(t, RiskMedium, tool.ClassifyRisk("DELETE FROM users WHERE id = 1", nil))
	assert.Equal(t, RiskLow, tool.ClassifyRisk("SELECT * FROM users", nil))
}

func TestDrushTool_DetectIntentAndRisk(t *testing.T) {
	tool := NewDrushTool()

	assert.Equal(t, 1.0, tool.DetectIntent("drush cr"))
	assert.Equal(t, 0.0, tool.DetectIntent("restart nginx"))

	assert.Equal(t, RiskHigh, tool.ClassifyRisk("drush sql-drop", nil))
	assert.Equal(t, RiskMedium, tool.ClassifyRisk("drush cim", nil))
	assert.Equal(t, RiskLow, tool.ClassifyRisk("drush status", nil))
}

func TestDrushTool_ExplainError_PrefersSpecificPattern(t *testing.T) {
	tool := NewDrushTool()

	explanation := tool.ExplainError("ERROR 1064: syntax error near 'foo' in dump.mysql")
	assert.NotNil(t, explanation)
	assert.Equal(t, "Drush SQL File Execution Error", explanation.ErrorType)
}
