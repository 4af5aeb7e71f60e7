package handler

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/fsutil"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/governor"
)

func (fs *FilesystemHandler) HandleReadFile(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return missingParameter("path"), nil
	}

	g := fs.newGovernor()
	file, err := fs.readFile(ctx, g, path)
	if err != nil {
		return errorResult(err), nil
	}

	return &mcp.CallToolResult{
		Content: fs.fileContents(path, file),
	}, nil
}

// readFile performs one governed, time-bounded read and charges the bytes
// to g.
func (fs *FilesystemHandler) readFile(ctx context.Context, g *governor.Governor, path string) (*fsutil.File, error) {
	file, err := governor.RunWithTimeout(ctx, g, "readFileContent", 0, func(ctx context.Context) (*fsutil.File, error) {
		return fsutil.ReadFile(ctx, fs.root, path, g)
	})
	if err != nil {
		return nil, err
	}
	if err := g.TrackSize(file.Size); err != nil {
		return nil, err
	}
	return file, nil
}

// fileContents renders a file as text, an image, or a base64 blob
// depending on its MIME type.
func (fs *FilesystemHandler) fileContents(path string, file *fsutil.File) []mcp.Content {
	mimeType := detectMimeType(file.AbsolutePath)
	resourceURI := pathToResourceURI(file.AbsolutePath)

	switch {
	case isTextFile(mimeType):
		return []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: file.Content,
			},
		}
	case isImageFile(mimeType):
		return []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: fmt.Sprintf("Image file: %s (%s, %d bytes)", path, mimeType, file.Size),
			},
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString([]byte(file.Content)),
				MIMEType: mimeType,
			},
		}
	default:
		return []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: fmt.Sprintf("Binary file: %s (%s, %d bytes)", path, mimeType, file.Size),
			},
			mcp.EmbeddedResource{
				Type: "resource",
				Resource: mcp.BlobResourceContents{
					URI:      resourceURI,
					MIMEType: mimeType,
					Blob:     base64.StdEncoding.EncodeToString([]byte(file.Content)),
				},
			},
		}
	}
}
