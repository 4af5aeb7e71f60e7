package search

import (
	"context"
	"errors"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/fserr"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/fsutil"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/governor"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/pathguard"
)

// MaxMatchesPerFile caps the matches recorded for a single file.
const MaxMatchesPerFile = 5

// Match is one matching line.
type Match struct {
	LineNumber int    `json:"line"`
	LineText   string `json:"content"`
}

// Result lists the matches found in one file.
type Result struct {
	Path    string  `json:"path"`
	Matches []Match `json:"matches"`
}

// ContentOptions tunes SearchContent. The zero value searches every file
// case-insensitively with no result cap.
type ContentOptions struct {
	// Include restricts the search to paths matching this glob.
	Include string
	// CaseSensitive turns off the default case-insensitive match.
	CaseSensitive bool
	// MaxResults stops the search once this many files produced results.
	// The cap is checked before each entry, so which files make the cut
	// depends on traversal order.
	MaxResults int
	// Governor, when set, vetoes oversized files and charges the bytes
	// read. Its failures abort the search.
	Governor *governor.Governor
}

// SearchContent compiles query as a regular expression and reports the
// files under root with at least one matching line. Files that cannot be
// read, or are not valid UTF-8, are skipped.
func SearchContent(ctx context.Context, root, query string, opts ContentOptions) ([]Result, error) {
	flags := "(?i)"
	if opts.CaseSensitive {
		flags = ""
	}
	re, err := regexp.Compile(flags + query)
	if err != nil {
		return nil, fserr.Wrap(fserr.CodeInvalidPattern, "invalid query "+quote(query), err)
	}

	var include *regexp.Regexp
	if opts.Include != "" {
		if include, err = CompileGlob(opts.Include); err != nil {
			return nil, err
		}
	}

	items, err := fsutil.List(ctx, root, ".", fsutil.Options{Recursive: true, MaxDepth: DefaultDepth})
	if err != nil {
		return nil, err
	}

	s := &contentSearch{
		root:    root,
		query:   re,
		include: include,
		opts:    opts,
		results: []Result{},
	}
	if err := s.walk(ctx, items); err != nil {
		return nil, err
	}
	return s.results, nil
}

type contentSearch struct {
	root    string
	query   *regexp.Regexp
	include *regexp.Regexp
	opts    ContentOptions
	results []Result
}

func (s *contentSearch) full() bool {
	return s.opts.MaxResults > 0 && len(s.results) >= s.opts.MaxResults
}

func (s *contentSearch) walk(ctx context.Context, items []*fsutil.Item) error {
	for _, item := range items {
		if s.full() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if IsExcluded(item.Path) {
			continue
		}

		if !item.IsDir() && (s.include == nil || s.include.MatchString(item.Path)) {
			matches, err := s.searchFile(ctx, item)
			if err != nil {
				return err
			}
			if len(matches) > 0 {
				s.results = append(s.results, Result{Path: item.Path, Matches: matches})
			}
		}

		if item.Children != nil {
			if err := s.walk(ctx, item.Children); err != nil {
				return err
			}
		}
	}
	return nil
}

// searchFile returns the matches in one file. Only governor limits are
// returned as errors; every other failure skips the file.
func (s *contentSearch) searchFile(ctx context.Context, item *fsutil.Item) ([]Match, error) {
	content, err := s.read(item)
	if err != nil {
		var limit *fserr.LimitError
		if errors.As(err, &limit) {
			return nil, err
		}
		zerolog.Ctx(ctx).Debug().Err(err).Str("path", item.Path).Msg("skipping unreadable file")
		return nil, nil
	}

	var matches []Match
	for i, line := range strings.Split(content, "\n") {
		if !s.query.MatchString(line) {
			continue
		}
		matches = append(matches, Match{LineNumber: i + 1, LineText: strings.TrimSpace(line)})
		if len(matches) == MaxMatchesPerFile {
			break
		}
	}
	return matches, nil
}

var errNotText = errors.New("content is not valid UTF-8")

func (s *contentSearch) read(item *fsutil.Item) (string, error) {
	fullPath, err := pathguard.Validate(s.root, strings.TrimPrefix(item.Path, "/"))
	if err != nil {
		return "", err
	}

	g := s.opts.Governor
	if g != nil {
		info, err := os.Stat(fullPath)
		if err != nil {
			return "", err
		}
		if err := g.CheckFileSize(info.Size(), fullPath); err != nil {
			return "", err
		}
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", err
	}
	if g != nil {
		if err := g.TrackSize(int64(len(data))); err != nil {
			return "", err
		}
	}
	if !utf8.Valid(data) {
		return "", errNotText
	}
	return string(data), nil
}
