package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/fserr"
)

func (fs *FilesystemHandler) HandleReadMultipleFiles(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	pathsSlice, err := request.RequireStringSlice("paths")
	if err != nil {
		return missingParameter("paths"), nil
	}

	if len(pathsSlice) == 0 {
		return errorResult(fserr.New(fserr.CodeMissingParameter, "no files specified to read")), nil
	}
	if len(pathsSlice) > MAX_BATCH_FILES {
		return errorResult(fserr.Newf(fserr.CodeMissingParameter,
			"too many files requested, maximum is %d files per request", MAX_BATCH_FILES)), nil
	}

	// One governor for the batch so the total size limit spans every file.
	g := fs.newGovernor()

	var results []mcp.Content
	for _, path := range pathsSlice {
		file, err := fs.readFile(ctx, g, path)
		if err != nil {
			if errors.Is(err, fserr.ErrTotalSizeExceeded) {
				return errorResult(err), nil
			}
			results = append(results, mcp.TextContent{
				Type: "text",
				Text: fmt.Sprintf("Error with path '%s': %s", path, errorText(err)),
			})
			continue
		}

		results = append(results, mcp.TextContent{
			Type: "text",
			Text: fmt.Sprintf("--- File: %s ---", path),
		})
		results = append(results, fs.fileContents(path, file)...)
	}

	return &mcp.CallToolResult{
		Content: results,
	}, nil
}
