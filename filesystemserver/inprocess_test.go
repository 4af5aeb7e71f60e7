package filesystemserver_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInProcess(t *testing.T) {
	mcpClient := startTestClient(t, newTestServer(t, "."))

	// just check for a specific tool
	tool := getTool(t, mcpClient, "search_path")
	assert.NotNil(t, tool, "search_path tool not found in the list of tools")
}

// setupProject builds:
//
//	a.txt
//	sub/b.ts
//	node_modules/x/y.ts
func setupProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range map[string]string{
		"a.txt":               "alpha\nTODO: first\n",
		"sub/b.ts":            "export const b = 1 // todo: second\n",
		"node_modules/x/y.ts": "// TODO: ignored\n",
	} {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return root
}

func TestInProcess_Search(t *testing.T) {
	mcpClient := startTestClient(t, newTestServer(t, setupProject(t)))

	t.Run("search_path", func(t *testing.T) {
		result := callTool(t, mcpClient, "search_path", map[string]any{"pattern": "*.ts"})
		require.False(t, result.IsError)
		assert.Equal(t, "Found 1 matches:\n/sub/b.ts", firstText(t, result))
	})

	t.Run("search_content", func(t *testing.T) {
		result := callTool(t, mcpClient, "search_content", map[string]any{"query": "todo"})
		require.False(t, result.IsError)

		text := firstText(t, result)
		assert.Contains(t, text, "Found matches in 2 files:")
		assert.Contains(t, text, "/a.txt\n  Line 2: TODO: first")
		assert.Contains(t, text, "/sub/b.ts\n  Line 1: export const b = 1 // todo: second")
		assert.NotContains(t, text, "ignored")
	})

	t.Run("traversal is rejected", func(t *testing.T) {
		result := callTool(t, mcpClient, "read_file", map[string]any{"path": "../../etc/passwd"})
		require.True(t, result.IsError)
		assert.True(t, strings.HasPrefix(firstText(t, result), "Error [1001 path_traversal]"))
	})

	t.Run("health_check counts calls", func(t *testing.T) {
		result := callTool(t, mcpClient, "health_check", nil)
		require.False(t, result.IsError)

		var report struct {
			Status   string         `json:"status"`
			Counters map[string]int `json:"counters"`
		}
		require.NoError(t, json.Unmarshal([]byte(firstText(t, result)), &report))
		assert.Equal(t, "healthy", report.Status)
		assert.Equal(t, 1, report.Counters["search_path.success"])
		assert.Equal(t, 1, report.Counters["search_content.success"])
		assert.Equal(t, 1, report.Counters["read_file.failure"])
	})
}

func TestInProcess_ListFiles(t *testing.T) {
	mcpClient := startTestClient(t, newTestServer(t, setupProject(t)))

	result := callTool(t, mcpClient, "list_files", nil)
	require.False(t, result.IsError)

	var entries []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(firstText(t, result)), &entries))

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	// listing is not subject to the search exclusions
	assert.ElementsMatch(t, []string{
		"/a.txt",
		"/sub",
		"/sub/b.ts",
		"/node_modules",
		"/node_modules/x",
		"/node_modules/x/y.ts",
	}, names)
}

func TestInProcess_ReadResource(t *testing.T) {
	root := setupProject(t)
	mcpClient := startTestClient(t, newTestServer(t, root))

	resolved, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)

	request := mcp.ReadResourceRequest{}
	request.Params.URI = "file://" + filepath.Join(resolved, "a.txt")
	result, err := mcpClient.ReadResource(context.Background(), request)
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)

	text, ok := result.Contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "alpha\nTODO: first\n", text.Text)
	assert.Equal(t, "text/plain", text.MIMEType)
}
