package handler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/djherbis/times"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/fserr"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/pathguard"
)

func (fs *FilesystemHandler) HandleGetFileInfo(
	ctx context.Context,
	request mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return missingParameter("path"), nil
	}

	validPath, err := pathguard.Validate(fs.root, path)
	if err != nil {
		return errorResult(err), nil
	}

	info, err := fs.getFileStats(validPath)
	if err != nil {
		return errorResult(err), nil
	}

	// Get MIME type for files
	mimeType := mimeDirectory
	if info.IsFile {
		mimeType = detectMimeType(validPath)
	}

	resourceURI := pathToResourceURI(validPath)

	fileTypeText := "File"
	if info.IsDirectory {
		fileTypeText = "Directory"
	}

	created := "unavailable"
	if info.Created != nil {
		created = info.Created.Format(time.RFC3339)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: fmt.Sprintf(
					"File information for: %s\n\nSize: %d bytes\nCreated: %s\nModified: %s\nAccessed: %s\nIsDirectory: %v\nIsFile: %v\nPermissions: %s\nMIME Type: %s\nResource URI: %s",
					info.Path,
					info.Size,
					created,
					info.Modified.Format(time.RFC3339),
					info.Accessed.Format(time.RFC3339),
					info.IsDirectory,
					info.IsFile,
					info.Permissions,
					mimeType,
					resourceURI,
				),
			},
			mcp.EmbeddedResource{
				Type: "resource",
				Resource: mcp.TextResourceContents{
					URI:      resourceURI,
					MIMEType: "text/plain",
					Text: fmt.Sprintf("%s: %s (%s, %d bytes)",
						fileTypeText,
						info.Path,
						mimeType,
						info.Size),
				},
			},
		},
	}, nil
}

func (fs *FilesystemHandler) getFileStats(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, fileStatError(err)
	}

	relPath, err := pathguard.RelativeSlash(fs.root, path)
	if err != nil {
		return FileInfo{}, fserr.Wrap(fserr.CodeInternalError, "failed to compute relative path", err)
	}

	timespec := times.Get(info)
	var created *time.Time
	if timespec.HasBirthTime() {
		t := timespec.BirthTime()
		created = &t
	}

	return FileInfo{
		Path:        relPath,
		Size:        info.Size(),
		Created:     created,
		Modified:    timespec.ModTime(),
		Accessed:    timespec.AccessTime(),
		IsDirectory: info.IsDir(),
		IsFile:      !info.IsDir(),
		Permissions: fmt.Sprintf("%o", info.Mode().Perm()),
	}, nil
}

func fileStatError(err error) error {
	if os.IsNotExist(err) {
		return fserr.Wrap(fserr.CodeFileNotFound, "file not found", err)
	}
	if os.IsPermission(err) {
		return fserr.Wrap(fserr.CodePermissionDenied, "permission denied", err)
	}
	return fserr.Wrap(fserr.CodeInternalError, "failed to get file info", err)
}
