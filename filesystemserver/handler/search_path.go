package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/governor"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/search"
)

func (fs *FilesystemHandler) HandleSearchPath(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	pattern, err := request.RequireString("pattern")
	if err != nil || pattern == "" {
		return missingParameter("pattern"), nil
	}

	g := fs.newGovernor()
	paths, err := governor.RunWithTimeout(ctx, g, "searchByPath", 0, func(ctx context.Context) ([]string, error) {
		return search.SearchByPath(ctx, fs.root, pattern, nil)
	})
	if err != nil {
		return errorResult(err), nil
	}

	if len(paths) == 0 {
		return textResult("No files found matching the pattern"), nil
	}
	return textResult(fmt.Sprintf("Found %d matches:\n%s", len(paths), strings.Join(paths, "\n"))), nil
}
