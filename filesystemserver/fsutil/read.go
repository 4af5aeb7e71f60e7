package fsutil

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/fserr"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/governor"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/pathguard"
)

// File is the result of a confined read.
type File struct {
	AbsolutePath string
	Content      string
	Size         int64
}

// ReadFile validates requested against root and reads the whole file. The
// governor, when set, vetoes files above its per-file ceiling before any
// byte is read.
func ReadFile(ctx context.Context, root, requested string, g *governor.Governor) (*File, error) {
	validPath, err := pathguard.Validate(root, requested)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(validPath)
	if err != nil {
		return nil, fileError(requested, err)
	}
	if info.IsDir() {
		return nil, fserr.New(fserr.CodeCannotReadDirectoryAsFile, "cannot read directory as file: "+requested)
	}
	if g != nil {
		if err := g.CheckFileSize(info.Size(), validPath); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(validPath)
	if err != nil {
		return nil, fileError(requested, err)
	}
	return &File{
		AbsolutePath: validPath,
		Content:      string(content),
		Size:         int64(len(content)),
	}, nil
}

func fileError(requested string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fserr.Wrap(fserr.CodeFileNotFound, "file not found: "+requested, err)
	case errors.Is(err, fs.ErrPermission):
		return fserr.Wrap(fserr.CodePermissionDenied, "permission denied: "+requested, err)
	}
	return fserr.Wrap(fserr.CodeInternalError, "failed to read file: "+requested, err)
}
