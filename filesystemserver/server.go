package filesystemserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/config"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/handler"
)

const ServerName = "peekaboo-mcp"

var Version = "dev"

func NewFilesystemServer(cfg config.Config, logger zerolog.Logger) (*server.MCPServer, error) {

	h, err := handler.NewFilesystemHandler(cfg, Version, logger)
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer(
		ServerName,
		Version,
		server.WithResourceCapabilities(false, false),
		server.WithToolHandlerMiddleware(h.ToolMiddleware),
		server.WithRecovery(),
	)

	// Register resource handlers
	s.AddResource(mcp.NewResource(
		"file://",
		"File System",
		mcp.WithResourceDescription("Listing of the root directory served by this server"),
		mcp.WithMIMEType("text/plain"),
	), h.HandleReadResource)

	s.AddResourceTemplate(mcp.NewResourceTemplate(
		"file://{+path}",
		"File or directory",
		mcp.WithTemplateDescription("A file or directory under the root. Files are returned as text or base64, directories as a listing."),
	), h.HandleReadResource)

	// Register tool handlers
	s.AddTool(mcp.NewTool(
		"list_files",
		mcp.WithDescription("List files and directories under the root using the server's recursion and depth settings. Returns a flat JSON list of resources."),
		mcp.WithString("path",
			mcp.Description("Directory to list, relative to the root (default: the root)"),
		),
	), h.HandleListFiles)

	s.AddTool(mcp.NewTool(
		"read_file",
		mcp.WithDescription("Read the complete contents of a file under the root."),
		mcp.WithString("path",
			mcp.Description("Path to the file to read, relative to the root"),
			mcp.Required(),
		),
	), h.HandleReadFile)

	s.AddTool(mcp.NewTool(
		"read_multiple_files",
		mcp.WithDescription("Read the contents of multiple files in a single operation."),
		mcp.WithArray("paths",
			mcp.Description("List of file paths to read, relative to the root"),
			mcp.Required(),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), h.HandleReadMultipleFiles)

	s.AddTool(mcp.NewTool(
		"tree",
		mcp.WithDescription("Returns a hierarchical JSON representation of a directory structure."),
		mcp.WithString("path",
			mcp.Description("Directory to traverse, relative to the root (default: the root)"),
		),
		mcp.WithNumber("depth",
			mcp.Description("Maximum depth to traverse (default: 3)"),
		),
	), h.HandleTree)

	s.AddTool(mcp.NewTool(
		"get_file_info",
		mcp.WithDescription("Retrieve detailed metadata about a file or directory."),
		mcp.WithString("path",
			mcp.Description("Path to the file or directory, relative to the root"),
			mcp.Required(),
		),
	), h.HandleGetFileInfo)

	s.AddTool(mcp.NewTool(
		"list_allowed_directories",
		mcp.WithDescription("Returns the root directory this server is confined to."),
	), h.HandleListAllowedDirectories)

	s.AddTool(mcp.NewTool(
		"search_path",
		mcp.WithDescription("Search for files and directories by name pattern"),
		mcp.WithString("pattern",
			mcp.Description(`Search pattern (supports *, ?, ** and {a,b}, e.g. "*.js", "**/test/*.json")`),
			mcp.Required(),
		),
	), h.HandleSearchPath)

	s.AddTool(mcp.NewTool(
		"search_content",
		mcp.WithDescription("Search for content within files. The query is a regular expression matched line by line."),
		mcp.WithString("query",
			mcp.Description("Text or regular expression to search for in file contents"),
			mcp.Required(),
		),
		mcp.WithString("include",
			mcp.Description(`Optional file pattern to search in (e.g. "*.js", "*.md")`),
		),
		mcp.WithBoolean("ignoreCase",
			mcp.Description("Case-insensitive search (default: true)"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of files to report (default: 20)"),
		),
	), h.HandleSearchContent)

	s.AddTool(mcp.NewTool(
		"health_check",
		mcp.WithDescription("Get server health status and metrics"),
	), h.HandleHealthCheck)

	return s, nil
}
