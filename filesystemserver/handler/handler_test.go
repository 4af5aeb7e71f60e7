package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/config"
)

// resolveRoot returns dir with symlinks resolved, matching the canonical
// root the handler confines itself to (t.TempDir() is a symlink on some
// Unix systems).
func resolveRoot(t *testing.T, dir string) string {
	t.Helper()
	resolvedPath, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err, "Failed to resolve symlinks for directory: %s", dir)
	return resolvedPath
}

func newTestHandler(t *testing.T, dir string, opts ...func(*config.Config)) *FilesystemHandler {
	t.Helper()
	cfg := config.Default(dir)
	for _, opt := range opts {
		opt(&cfg)
	}
	h, err := NewFilesystemHandler(cfg, "test", zerolog.Nop())
	require.NoError(t, err)
	return h
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "first content is %T", result.Content[0])
	return text.Text
}

func TestNewFilesystemHandler(t *testing.T) {
	t.Run("canonical root", func(t *testing.T) {
		dir := t.TempDir()
		h := newTestHandler(t, dir)
		assert.Equal(t, resolveRoot(t, dir), h.Root())
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := NewFilesystemHandler(config.Default(filepath.Join(t.TempDir(), "missing")), "test", zerolog.Nop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to access directory")
	})

	t.Run("root is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.txt")
		writeFile(t, file, "x")
		_, err := NewFilesystemHandler(config.Default(file), "test", zerolog.Nop())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path is not a directory")
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := config.Default(t.TempDir())
		cfg.MaxDepth = -1
		_, err := NewFilesystemHandler(cfg, "test", zerolog.Nop())
		require.ErrorIs(t, err, config.ErrNegativeDepth)
	})
}

func TestToolMiddleware_RecordsMetrics(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "hello")
	h := newTestHandler(t, dir)

	read := h.ToolMiddleware(h.HandleReadFile)

	result, err := read(context.Background(), callTool("read_file", map[string]any{"path": "a.txt"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	result, err = read(context.Background(), callTool("read_file", map[string]any{"path": "missing.txt"}))
	require.NoError(t, err)
	require.True(t, result.IsError)

	snapshot := h.Metrics().Snapshot()
	assert.Equal(t, 1, snapshot.Counters["read_file.success"])
	assert.Equal(t, 1, snapshot.Counters["read_file.failure"])
	assert.Equal(t, 2, snapshot.Summary.TotalOperations)
	require.Len(t, snapshot.Operations, 2)
	assert.Contains(t, snapshot.Operations[1].Error, "file_not_found")
}

func TestToolMiddleware_RequestLogger(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewFilesystemHandler(config.Default(t.TempDir()), "test", zerolog.New(&buf))
	require.NoError(t, err)

	probe := h.ToolMiddleware(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		zerolog.Ctx(ctx).Info().Msg("inside")
		return textResult("ok"), nil
	})

	_, err = probe(context.Background(), callTool("probe", nil))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "inside", entry["message"])
	assert.Equal(t, "probe", entry["tool"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestErrorText(t *testing.T) {
	h := newTestHandler(t, t.TempDir())

	result, err := h.HandleReadFile(context.Background(), callTool("read_file", map[string]any{"path": "../etc/passwd"}))
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Equal(t,
		"Error [1001 path_traversal]: path traversal detected: access outside root directory is not allowed",
		resultText(t, result))
}
