package handler

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/config"
)

func TestHandleHealthCheck(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "a")
	fsHandler := newTestHandler(t, dir, func(c *config.Config) { c.MaxTotalSizeBytes = 0 })

	read := fsHandler.ToolMiddleware(fsHandler.HandleReadFile)
	_, err := read(context.Background(), callTool("read_file", map[string]any{"path": "a.txt"}))
	require.NoError(t, err)

	res, err := fsHandler.HandleHealthCheck(context.Background(), callTool("health_check", nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var report HealthReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &report))
	assert.Equal(t, "healthy", report.Status)
	assert.Equal(t, "test", report.Version)
	assert.GreaterOrEqual(t, report.Uptime, int64(0))
	assert.Equal(t, 1, report.Metrics.TotalOperations)
	assert.InDelta(t, 100.0, report.Metrics.SuccessRate, 0.001)
	assert.Equal(t, 1, report.Counters["read_file.success"])

	assert.Equal(t, fsHandler.Root(), report.Config.RootDir)
	assert.True(t, report.Config.Recursive)
	assert.Equal(t, 10, report.Config.MaxDepth)
	assert.Equal(t, int64(30000), report.Config.Timeout)
	assert.Equal(t, int64(10*1024*1024), report.Config.MaxFileSize)
	assert.Equal(t, "10MiB", report.Config.MaxFileSizeHuman)
	assert.Equal(t, "unlimited", report.Config.MaxTotalSizeHuman)
}

func TestHealthUptime(t *testing.T) {
	fsHandler := newTestHandler(t, t.TempDir())

	report := fsHandler.health(fsHandler.started.Add(90 * time.Second))
	assert.Equal(t, int64(90000), report.Uptime)
	assert.Equal(t, "About a minute", report.UptimeHuman)
}
