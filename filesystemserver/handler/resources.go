package handler

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/fserr"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/pathguard"
)

const resourceScheme = "file://"

// HandleReadResource handles the MCP resource reading functionality
func (fs *FilesystemHandler) HandleReadResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {
	ctx = fs.requestContext(ctx, "read_resource")
	op := fs.metrics.StartOperation("read_resource")

	contents, err := fs.readResource(ctx, request.Params.URI)
	if err != nil {
		fs.metrics.EndOperation(op, false, err.Error())
		zerolog.Ctx(ctx).Warn().Err(err).Str("uri", request.Params.URI).Msg("resource read failed")
		return nil, err
	}
	fs.metrics.EndOperation(op, true, "")
	return contents, nil
}

func (fs *FilesystemHandler) readResource(ctx context.Context, uri string) ([]mcp.ResourceContents, error) {
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fserr.Newf(fserr.CodeInvalidURI, "only %s URIs are supported", resourceScheme)
	}
	path := strings.TrimPrefix(uri, resourceScheme)

	validPath, err := pathguard.Validate(fs.root, path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(validPath)
	if err != nil {
		return nil, fileStatError(err)
	}

	if info.IsDir() {
		return fs.directoryResource(ctx, uri, path)
	}

	file, err := fs.readFile(ctx, fs.newGovernor(), path)
	if err != nil {
		return nil, err
	}

	mimeType := detectMimeType(file.AbsolutePath)
	if isTextFile(mimeType) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: mimeType,
				Text:     file.Content,
			},
		}, nil
	}
	return []mcp.ResourceContents{
		mcp.BlobResourceContents{
			URI:      uri,
			MIMEType: mimeType,
			Blob:     base64.StdEncoding.EncodeToString([]byte(file.Content)),
		},
	}, nil
}

// directoryResource lists the immediate entries of a directory.
func (fs *FilesystemHandler) directoryResource(ctx context.Context, uri, path string) ([]mcp.ResourceContents, error) {
	items, err := fs.list(ctx, path, false, 0)
	if err != nil {
		return nil, err
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Directory listing for: %s\n\n", uri))
	for _, item := range items {
		entryURI := pathToResourceURI(fs.absolutePath(item.Path))
		switch {
		case item.IsDir():
			result.WriteString(fmt.Sprintf("[DIR]  %s (%s)\n", item.Name, entryURI))
		case item.Size != nil:
			result.WriteString(fmt.Sprintf("[FILE] %s (%s) - %d bytes\n", item.Name, entryURI, *item.Size))
		default:
			result.WriteString(fmt.Sprintf("[FILE] %s (%s)\n", item.Name, entryURI))
		}
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     result.String(),
		},
	}, nil
}
