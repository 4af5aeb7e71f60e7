package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/governor"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/search"
)

func (fs *FilesystemHandler) HandleSearchContent(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil || query == "" {
		return missingParameter("query"), nil
	}

	include, _ := request.RequireString("include")

	ignoreCase := true
	if v, err := request.RequireBool("ignoreCase"); err == nil {
		ignoreCase = v
	}

	maxResults := DEFAULT_CONTENT_RESULTS
	if v, err := request.RequireFloat("maxResults"); err == nil && v > 0 {
		maxResults = int(v)
	}

	g := fs.newGovernor()
	g.ResetSize()
	results, err := governor.RunWithTimeout(ctx, g, "searchContent", 0, func(ctx context.Context) ([]search.Result, error) {
		return search.SearchContent(ctx, fs.root, query, search.ContentOptions{
			Include:       include,
			CaseSensitive: !ignoreCase,
			MaxResults:    maxResults,
			Governor:      g,
		})
	})
	if err != nil {
		return errorResult(err), nil
	}

	if len(results) == 0 {
		return textResult("No matches found"), nil
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("Found matches in %d files:\n\n", len(results)))
	for _, result := range results {
		output.WriteString(fmt.Sprintf("[FILE] %s\n", result.Path))
		for _, match := range result.Matches {
			output.WriteString(fmt.Sprintf("  Line %d: %s\n", match.LineNumber, match.LineText))
		}
		output.WriteString("\n")
	}
	return textResult(output.String()), nil
}
