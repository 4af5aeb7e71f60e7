package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/fserr"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/fsutil"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/pathguard"
)

func (fs *FilesystemHandler) HandleTree(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	path := optionalPath(request)

	// Extract depth parameter (optional, default: 3)
	depth := DEFAULT_TREE_DEPTH
	if depthParam, err := request.RequireFloat("depth"); err == nil {
		depth = int(depthParam)
	}

	tree, err := fs.buildTree(ctx, path, depth)
	if err != nil {
		return errorResult(err), nil
	}

	jsonData, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("generating JSON: %w", err)), nil
	}

	resourceURI := pathToResourceURI(fs.absolutePath(tree.Path))

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: fmt.Sprintf("Directory tree for %s (max depth: %d):\n\n%s", tree.Path, depth, string(jsonData)),
			},
			mcp.EmbeddedResource{
				Type: "resource",
				Resource: mcp.TextResourceContents{
					URI:      resourceURI,
					MIMEType: "application/json",
					Text:     string(jsonData),
				},
			},
		},
	}, nil
}

// buildTree returns the directory at path as a root item whose children
// reach depth levels below it. A depth below 1 yields the bare directory,
// unexplored.
func (fs *FilesystemHandler) buildTree(ctx context.Context, path string, depth int) (*fsutil.Item, error) {
	validPath, err := pathguard.Validate(fs.root, path)
	if err != nil {
		return nil, err
	}
	relPath, err := pathguard.RelativeSlash(fs.root, validPath)
	if err != nil {
		return nil, fserr.Wrap(fserr.CodeInternalError, "failed to compute relative path", err)
	}

	node := &fsutil.Item{
		Name: filepath.Base(validPath),
		Path: relPath,
		Kind: fsutil.KindDirectory,
	}
	items, err := fs.list(ctx, path, true, max(depth-1, 0))
	if err != nil {
		return nil, err
	}
	if depth > 0 {
		node.Children = items
	}
	return node, nil
}
