package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/docker/go-units"
	"github.com/mark3labs/mcp-go/mcp"
)

func (fs *FilesystemHandler) HandleHealthCheck(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	report := fs.health(time.Now())

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("generating JSON: %w", err)), nil
	}
	return textResult(string(jsonData)), nil
}

func (fs *FilesystemHandler) health(now time.Time) HealthReport {
	uptime := now.Sub(fs.started)
	snapshot := fs.metrics.Snapshot()

	return HealthReport{
		Status:      "healthy",
		Version:     fs.version,
		Uptime:      uptime.Milliseconds(),
		UptimeHuman: units.HumanDuration(uptime),
		Metrics:     snapshot.Summary,
		Counters:    snapshot.Counters,
		Config: HealthConfig{
			RootDir:           fs.root,
			Recursive:         fs.cfg.Recursive,
			MaxDepth:          fs.cfg.MaxDepth,
			Timeout:           fs.cfg.TimeoutMs,
			MaxFileSize:       fs.cfg.MaxFileSizeBytes,
			MaxTotalSize:      fs.cfg.MaxTotalSizeBytes,
			MaxFileSizeHuman:  humanLimit(fs.cfg.MaxFileSizeBytes),
			MaxTotalSizeHuman: humanLimit(fs.cfg.MaxTotalSizeBytes),
		},
	}
}

func humanLimit(n int64) string {
	if n <= 0 {
		return "unlimited"
	}
	return units.BytesSize(float64(n))
}
