// Package search implements glob-style path search and line-oriented
// content search over a listing produced by fsutil.
package search

import (
	"regexp"
	"strings"

	"github.com/gobwas/glob"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/fserr"
)

// doubleStar stands in for "**" between translation steps. It contains
// none of the characters the later steps rewrite.
const doubleStar = "\uE000"

var braceGroup = regexp.MustCompile(`\{([^}]+)\}`)

// excluded matches any path with a node_modules, dist or .git segment
// below the root. The directory entry itself is not excluded, only what
// lies inside it.
var excluded = glob.MustCompile("*/{node_modules,dist,.git}/*")

// IsExcluded reports whether a root-relative slash path falls under one of
// the standing exclusions.
func IsExcluded(path string) bool {
	return excluded.Match(path)
}

// globToRegexp translates a glob into an unanchored regular expression.
// The steps run in a fixed order so later ones never rewrite what earlier
// ones produced.
func globToRegexp(pattern string) string {
	re := strings.ReplaceAll(pattern, ".", `\.`)
	re = strings.ReplaceAll(re, "?", "[^/]")
	re = strings.ReplaceAll(re, "**", doubleStar)
	re = strings.ReplaceAll(re, "*", "[^/]*")
	re = strings.ReplaceAll(re, doubleStar+"/", "(?:.*/)?")
	re = strings.ReplaceAll(re, doubleStar, ".*")
	return braceGroup.ReplaceAllStringFunc(re, func(group string) string {
		options := strings.Split(group[1:len(group)-1], ",")
		return "(" + strings.Join(options, "|") + ")"
	})
}

// CompileGlob compiles a glob into a case-insensitive matcher for
// root-relative slash paths such as "/src/main.ts".
//
// A pattern starting with "**/" matches anywhere in the path, a pattern
// containing "/" is anchored at the root, and a pattern without "/"
// matches the last segment in any directory. Every matcher is anchored at
// the end of the path. Text other than "*", "?", "**", "{a,b}" and "."
// is passed through as regular expression syntax.
func CompileGlob(pattern string) (*regexp.Regexp, error) {
	source := globToRegexp(pattern)
	switch {
	case strings.HasPrefix(pattern, "**/"):
	case strings.Contains(pattern, "/"):
		source = "^/" + strings.TrimPrefix(source, "/")
	default:
		source = "^.*/" + source
	}

	re, err := regexp.Compile("(?i)" + source + "$")
	if err != nil {
		return nil, fserr.Wrap(fserr.CodeInvalidPattern, "invalid glob pattern "+quote(pattern), err)
	}
	return re, nil
}

func quote(s string) string {
	return "'" + s + "'"
}
