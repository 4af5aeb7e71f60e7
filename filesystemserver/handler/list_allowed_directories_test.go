package handler

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleListAllowedDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	fsHandler := newTestHandler(t, tmpDir)

	req := callTool("list_allowed_directories", map[string]any{})

	res, err := fsHandler.HandleListAllowedDirectories(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)

	// Verify the response contains the root
	require.Len(t, res.Content, 1)
	textContent := res.Content[0].(mcp.TextContent)
	assert.Contains(t, textContent.Text, "Allowed directories:")
	assert.Contains(t, textContent.Text, resolveRoot(t, tmpDir))
	assert.Contains(t, textContent.Text, "file://"+resolveRoot(t, tmpDir))
}
