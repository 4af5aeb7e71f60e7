package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

func paths(items []*Item) []string {
	var out []string
	Walk(items, func(item *Item) bool {
		out = append(out, item.Path)
		return true
	})
	return out
}

func find(items []*Item, path string) *Item {
	var found *Item
	Walk(items, func(item *Item) bool {
		if item.Path == path {
			found = item
		}
		return found == nil
	})
	return found
}
