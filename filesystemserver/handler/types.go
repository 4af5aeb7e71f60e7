package handler

import (
	"time"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/metrics"
)

const (
	// Maximum number of files read_multiple_files accepts
	MAX_BATCH_FILES = 50
	// Default cap on files reported by search_content
	DEFAULT_CONTENT_RESULTS = 20
	// Default depth for the tree tool
	DEFAULT_TREE_DEPTH = 3
)

type FileInfo struct {
	Path        string     `json:"path"`
	Size        int64      `json:"size"`
	Created     *time.Time `json:"created,omitempty"`
	Modified    time.Time  `json:"modified"`
	Accessed    time.Time  `json:"accessed"`
	IsDirectory bool       `json:"isDirectory"`
	IsFile      bool       `json:"isFile"`
	Permissions string     `json:"permissions"`
}

// ResourceEntry is one flattened entry reported by list_files.
type ResourceEntry struct {
	URI      string           `json:"uri"`
	Name     string           `json:"name"`
	MIMEType string           `json:"mimeType"`
	Metadata ResourceMetadata `json:"metadata"`
}

type ResourceMetadata struct {
	Type        string `json:"type"`
	Size        *int64 `json:"size,omitempty"`
	HasChildren bool   `json:"hasChildren"`
}

// HealthReport is the health_check payload.
type HealthReport struct {
	Status      string          `json:"status"`
	Version     string          `json:"version"`
	Uptime      int64           `json:"uptime"`
	UptimeHuman string          `json:"uptimeHuman"`
	Metrics     metrics.Summary `json:"metrics"`
	Counters    map[string]int  `json:"counters"`
	Config      HealthConfig    `json:"config"`
}

type HealthConfig struct {
	RootDir           string `json:"rootDir"`
	Recursive         bool   `json:"recursive"`
	MaxDepth          int    `json:"maxDepth"`
	Timeout           int64  `json:"timeout"`
	MaxFileSize       int64  `json:"maxFileSize"`
	MaxTotalSize      int64  `json:"maxTotalSize"`
	MaxFileSizeHuman  string `json:"maxFileSizeHuman"`
	MaxTotalSizeHuman string `json:"maxTotalSizeHuman"`
}
