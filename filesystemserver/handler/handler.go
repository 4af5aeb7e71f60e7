package handler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/config"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/fserr"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/governor"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/metrics"
)

type FilesystemHandler struct {
	root    string
	cfg     config.Config
	version string
	logger  zerolog.Logger
	metrics *metrics.Collector
	started time.Time
}

func NewFilesystemHandler(cfg config.Config, version string, logger zerolog.Logger) (*FilesystemHandler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(cfg.RootDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", cfg.RootDirectory, err)
	}
	// t.TempDir() and friends may sit behind a symlink; confine to the
	// canonical location.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", abs)
	}

	cfg.RootDirectory = abs
	return &FilesystemHandler{
		root:    abs,
		cfg:     cfg,
		version: version,
		logger:  logger,
		metrics: metrics.NewCollector(),
		started: time.Now(),
	}, nil
}

// Root returns the canonical root directory.
func (fs *FilesystemHandler) Root() string {
	return fs.root
}

// Metrics exposes the collector fed by the tool middleware.
func (fs *FilesystemHandler) Metrics() *metrics.Collector {
	return fs.metrics
}

// newGovernor returns a governor for a single request.
func (fs *FilesystemHandler) newGovernor() *governor.Governor {
	return governor.New(fs.cfg.Limits())
}

// absolutePath maps a root-relative slash path from a listing back to disk.
func (fs *FilesystemHandler) absolutePath(itemPath string) string {
	return filepath.Join(fs.root, filepath.FromSlash(strings.TrimPrefix(itemPath, "/")))
}

// pathToResourceURI converts a file path to a resource URI
func pathToResourceURI(path string) string {
	return "file://" + path
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

// errorResult renders err for the client as "Error [<number> <code>]: <msg>".
func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: errorText(err),
			},
		},
		IsError: true,
	}
}

func errorText(err error) string {
	code := fserr.CodeOf(err)
	return fmt.Sprintf("Error [%d %s]: %v", code.Number(), code, err)
}

func missingParameter(name string) *mcp.CallToolResult {
	return errorResult(fserr.Newf(fserr.CodeMissingParameter, "required parameter missing: %s", name))
}

// optionalPath returns the "path" argument, defaulting to the root.
func optionalPath(request mcp.CallToolRequest) string {
	path, err := request.RequireString("path")
	if err != nil || path == "" {
		return "."
	}
	return path
}
