// Package pathguard confines client-supplied paths to a root directory.
//
// Validation happens in two layers and both must pass. The raw request is
// first screened for traversal patterns at the string level, then it is
// joined with the absolute root and the cleaned result must still lie
// under the root.
package pathguard

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/fserr"
)

// traversalPatterns are matched case-insensitively against the raw request.
var traversalPatterns = []*regexp.Regexp{
	// parent reference as a whole segment: "..", "../", "..\", "a/.."
	regexp.MustCompile(`(?i)(^|[/\\])\.\.([/\\]|$)`),
	// leading absolute marker
	regexp.MustCompile(`(?i)^[/\\]`),
	// drive letter
	regexp.MustCompile(`(?i)^[a-z]:`),
	// percent-encoded dot-dot, single or double encoded, and dot-dot
	// followed by an encoded separator
	regexp.MustCompile(`(?i)%2e%2e|%2e\.|\.%2e|%252e|\.\.%2f|\.\.%5c`),
	// three or more consecutive dots
	regexp.MustCompile(`\.{3,}`),
	// parent reference mid-path
	regexp.MustCompile(`(?i)/\.\./|\\\.\.\\`),
}

// Validate resolves requested against root and returns the absolute path.
// It fails with fserr.ErrPathTraversal when the request matches a traversal
// pattern or resolves outside root. "" and "." resolve to root itself.
//
// An absolute request that already names a location under root is accepted
// and screened on its root-relative remainder, so a path returned by
// Validate validates to itself.
func Validate(root, requested string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fserr.Wrap(fserr.CodeInternalError, "failed to resolve root directory", err)
	}

	rel := requested
	if remainder, ok := trimRoot(absRoot, requested); ok {
		rel = remainder
	}

	if hasTraversalPattern(rel) {
		return "", fserr.ErrPathTraversal
	}

	resolved := filepath.Join(absRoot, rel)
	if !IsWithin(absRoot, resolved) {
		return "", fserr.ErrPathTraversal
	}
	return resolved, nil
}

// IsWithin reports whether path equals root or lies below it. Both must be
// clean absolute paths. The comparison is by path segment, so /rootfoo is
// not within /root.
func IsWithin(root, path string) bool {
	if path == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

// RelativeSlash renders abs as a root-relative path with forward slashes
// and a leading slash, e.g. "/sub/b.ts". The root itself renders as "/".
func RelativeSlash(absRoot, abs string) (string, error) {
	rel, err := filepath.Rel(absRoot, abs)
	if err != nil {
		return "", err
	}
	if rel == "." {
		return "/", nil
	}
	return "/" + filepath.ToSlash(rel), nil
}

// trimRoot strips absRoot from an absolute request that starts with it as a
// path prefix. The remainder is returned uncleaned so the pattern screen
// still sees any traversal sequence in it.
func trimRoot(absRoot, requested string) (string, bool) {
	if !filepath.IsAbs(requested) {
		return "", false
	}
	if requested == absRoot {
		return "", true
	}
	prefix := absRoot
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if !strings.HasPrefix(requested, prefix) {
		return "", false
	}
	return strings.TrimPrefix(requested, prefix), true
}

func hasTraversalPattern(p string) bool {
	if strings.ContainsRune(p, 0) {
		return true
	}
	for _, re := range traversalPatterns {
		if re.MatchString(p) {
			return true
		}
	}
	return false
}
