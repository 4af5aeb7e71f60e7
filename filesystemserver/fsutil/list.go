package fsutil

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/djherbis/times"
	"github.com/rs/zerolog"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/fserr"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/governor"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/pathguard"
)

// Options controls a listing.
type Options struct {
	Recursive bool
	// MaxDepth bounds descent. At depth == MaxDepth directories are listed
	// but not explored.
	MaxDepth int
	// Governor, when set, is charged with the size of every entry whose
	// metadata was read. Its failure aborts the listing.
	Governor *governor.Governor
}

// List enumerates the directory at relPath under root. Entries keep the
// order the directory read yields them in.
//
// An entry whose metadata cannot be read is still returned, without size
// or times, and a subdirectory that cannot be read is returned unexplored.
// A governor failure, a cancelled context, or a failure to validate or read
// relPath itself aborts the whole call.
func List(ctx context.Context, root, relPath string, opts Options) ([]*Item, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fserr.Wrap(fserr.CodeInternalError, "failed to resolve root directory", err)
	}
	return list(ctx, absRoot, relPath, opts, 0)
}

func list(ctx context.Context, absRoot, relPath string, opts Options, depth int) ([]*Item, error) {
	dirPath, err := pathguard.Validate(absRoot, relPath)
	if err != nil {
		return nil, err
	}

	entries, err := readDirUnsorted(dirPath)
	if err != nil {
		return nil, dirError(relPath, err)
	}

	items := make([]*Item, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entryPath := filepath.Join(dirPath, entry.Name())
		itemPath, err := pathguard.RelativeSlash(absRoot, entryPath)
		if err != nil {
			return nil, fserr.Wrap(fserr.CodeInternalError, "failed to compute relative path", err)
		}

		item := &Item{
			Name: entry.Name(),
			Path: itemPath,
			Kind: KindFile,
		}
		if entry.IsDir() {
			item.Kind = KindDirectory
		}

		if info, err := os.Stat(entryPath); err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Str("path", itemPath).Msg("metadata unavailable, listing degraded entry")
		} else {
			attachMetadata(item, info)
			if opts.Governor != nil {
				if err := opts.Governor.TrackSize(info.Size()); err != nil {
					return nil, err
				}
			}
		}

		if opts.Recursive && item.IsDir() && depth < opts.MaxDepth {
			children, err := list(ctx, absRoot, strings.TrimPrefix(itemPath, "/"), opts, depth+1)
			switch {
			case err == nil:
				item.Children = children
			case abortsListing(err):
				return nil, err
			default:
				// an unreadable subdirectory stays in the listing, unexplored
				zerolog.Ctx(ctx).Debug().Err(err).Str("path", itemPath).Msg("subdirectory not explored")
			}
		}

		items = append(items, item)
	}
	return items, nil
}

func abortsListing(err error) bool {
	return errors.Is(err, fserr.ErrTotalSizeExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func attachMetadata(item *Item, info os.FileInfo) {
	size := info.Size()
	item.Size = &size

	ts := times.Get(info)
	modified := ts.ModTime()
	item.Modified = &modified
	if ts.HasBirthTime() {
		created := ts.BirthTime()
		item.Created = &created
	}
}

// readDirUnsorted returns directory entries in the order the OS yields
// them. os.ReadDir would sort by name.
func readDirUnsorted(dir string) ([]os.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.ReadDir(-1)
}

func dirError(relPath string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fserr.Wrap(fserr.CodeDirectoryNotFound, "directory not found: "+relPath, err)
	case errors.Is(err, syscall.ENOTDIR):
		return fserr.Wrap(fserr.CodeNotADirectory, "not a directory: "+relPath, err)
	case errors.Is(err, fs.ErrPermission):
		return fserr.Wrap(fserr.CodePermissionDenied, "permission denied: "+relPath, err)
	}
	return fserr.Wrap(fserr.CodeInternalError, "failed to read directory: "+relPath, err)
}
