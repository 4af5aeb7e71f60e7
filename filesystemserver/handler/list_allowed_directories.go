package handler

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// HandleListAllowedDirectories reports the single root the server is
// confined to.
func (fs *FilesystemHandler) HandleListAllowedDirectories(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	return textResult(fmt.Sprintf("Allowed directories:\n\n%s (%s)\n", fs.root, pathToResourceURI(fs.root))), nil
}
