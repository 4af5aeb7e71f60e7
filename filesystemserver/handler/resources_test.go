package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/fserr"
)

func readResourceRequest(uri string) mcp.ReadResourceRequest {
	request := mcp.ReadResourceRequest{}
	request.Params.URI = uri
	return request
}

func TestHandleReadResource(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "readme.md"), "# hello")
	writeFile(t, filepath.Join(tmpDir, "data.bin"), string([]byte{0x00, 0xff, 0x10}))
	writeFile(t, filepath.Join(tmpDir, "docs", "guide.txt"), "guide")

	fsHandler := newTestHandler(t, tmpDir)
	ctx := context.Background()

	t.Run("text file by absolute uri", func(t *testing.T) {
		uri := "file://" + filepath.Join(fsHandler.Root(), "readme.md")
		contents, err := fsHandler.HandleReadResource(ctx, readResourceRequest(uri))
		require.NoError(t, err)
		require.Len(t, contents, 1)

		text := contents[0].(mcp.TextResourceContents)
		assert.Equal(t, uri, text.URI)
		assert.Equal(t, "text/markdown", text.MIMEType)
		assert.Equal(t, "# hello", text.Text)
	})

	t.Run("text file by relative uri", func(t *testing.T) {
		contents, err := fsHandler.HandleReadResource(ctx, readResourceRequest("file://docs/guide.txt"))
		require.NoError(t, err)
		require.Len(t, contents, 1)
		assert.Equal(t, "guide", contents[0].(mcp.TextResourceContents).Text)
	})

	t.Run("binary file", func(t *testing.T) {
		contents, err := fsHandler.HandleReadResource(ctx, readResourceRequest("file://data.bin"))
		require.NoError(t, err)
		require.Len(t, contents, 1)

		blob := contents[0].(mcp.BlobResourceContents)
		assert.Equal(t, "application/octet-stream", blob.MIMEType)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0x00, 0xff, 0x10}), blob.Blob)
	})

	t.Run("directory listing", func(t *testing.T) {
		contents, err := fsHandler.HandleReadResource(ctx, readResourceRequest("file://"))
		require.NoError(t, err)
		require.Len(t, contents, 1)

		text := contents[0].(mcp.TextResourceContents).Text
		assert.Contains(t, text, "Directory listing for: file://")
		assert.Contains(t, text, "[DIR]  docs")
		assert.Contains(t, text, "[FILE] readme.md")
		assert.Contains(t, text, "7 bytes")
		// immediate entries only
		assert.NotContains(t, text, "guide.txt")
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := fsHandler.HandleReadResource(ctx, readResourceRequest("http://example.com/readme.md"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, fserr.ErrInvalidURI))
	})

	t.Run("traversal", func(t *testing.T) {
		_, err := fsHandler.HandleReadResource(ctx, readResourceRequest("file:///etc/passwd"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, fserr.ErrPathTraversal))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := fsHandler.HandleReadResource(ctx, readResourceRequest("file://nope.txt"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, fserr.ErrFileNotFound))
	})

	snapshot := fsHandler.Metrics().Snapshot()
	assert.Equal(t, 4, snapshot.Counters["read_resource.success"])
	assert.Equal(t, 3, snapshot.Counters["read_resource.failure"])
}
