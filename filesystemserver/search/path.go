package search

import (
	"context"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/fsutil"
)

// DefaultDepth bounds the enumeration performed when a search is not
// handed a prebuilt tree.
const DefaultDepth = 10

// SearchByPath returns the root-relative paths in items matching the glob
// pattern, in pre-order. When items is nil the root is enumerated first,
// recursively to DefaultDepth.
func SearchByPath(ctx context.Context, root, pattern string, items []*fsutil.Item) ([]string, error) {
	re, err := CompileGlob(pattern)
	if err != nil {
		return nil, err
	}

	if items == nil {
		items, err = fsutil.List(ctx, root, ".", fsutil.Options{Recursive: true, MaxDepth: DefaultDepth})
		if err != nil {
			return nil, err
		}
	}

	results := []string{}
	fsutil.Walk(items, func(item *fsutil.Item) bool {
		if IsExcluded(item.Path) {
			return false
		}
		if re.MatchString(item.Path) {
			results = append(results, item.Path)
		}
		return true
	})
	return results, nil
}
