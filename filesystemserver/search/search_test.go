package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupProject builds:
//
//	a.txt
//	sub/b.ts
//	node_modules/x/y.ts
func setupProject(t *testing.T) string {
	t.Helper()
	return writeTree(t, map[string]string{
		"a.txt":               "alpha\nTODO: first\n",
		"sub/b.ts":            "export const b = 1 // todo: second\n",
		"node_modules/x/y.ts": "// TODO: ignored\n",
	})
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return root
}
