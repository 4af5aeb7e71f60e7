package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/fsutil"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/governor"
)

// HandleListFiles enumerates the root with the configured recursion and
// depth and returns a flat resource list.
func (fs *FilesystemHandler) HandleListFiles(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	path := optionalPath(request)

	items, err := fs.list(ctx, path, fs.cfg.Recursive, fs.cfg.MaxDepth)
	if err != nil {
		return errorResult(err), nil
	}

	entries := fs.flatten(items, []ResourceEntry{})
	jsonData, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("generating JSON: %w", err)), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: string(jsonData),
			},
		},
	}, nil
}

// list runs a governed, time-bounded enumeration for one request.
func (fs *FilesystemHandler) list(ctx context.Context, path string, recursive bool, maxDepth int) ([]*fsutil.Item, error) {
	g := fs.newGovernor()
	g.ResetSize()
	return governor.RunWithTimeout(ctx, g, "listDirectory", 0, func(ctx context.Context) ([]*fsutil.Item, error) {
		return fsutil.List(ctx, fs.root, path, fsutil.Options{
			Recursive: recursive,
			MaxDepth:  maxDepth,
			Governor:  g,
		})
	})
}

// flatten appends items and their descendants in pre-order.
func (fs *FilesystemHandler) flatten(items []*fsutil.Item, out []ResourceEntry) []ResourceEntry {
	fsutil.Walk(items, func(item *fsutil.Item) bool {
		mimeType := mimeDirectory
		if !item.IsDir() {
			mimeType = mimeTypeForName(item.Name)
		}
		out = append(out, ResourceEntry{
			URI:      pathToResourceURI(fs.absolutePath(item.Path)),
			Name:     item.Path,
			MIMEType: mimeType,
			Metadata: ResourceMetadata{
				Type:        string(item.Kind),
				Size:        item.Size,
				HasChildren: len(item.Children) > 0,
			},
		})
		return true
	})
	return out
}
