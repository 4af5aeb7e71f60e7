package fsutil

import "time"

// Kind distinguishes files from directories in a listing.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Item is one filesystem entry relative to the root. Path is root-relative
// with forward slashes and a leading slash.
//
// Size, Modified and Created are nil when metadata could not be read.
// Children is nil when the directory was not explored and non-nil (possibly
// empty) when it was.
type Item struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Kind     Kind       `json:"type"`
	Size     *int64     `json:"size,omitempty"`
	Modified *time.Time `json:"modified,omitempty"`
	Created  *time.Time `json:"created,omitempty"`
	Children []*Item    `json:"children,omitempty"`
}

// IsDir reports whether the item is a directory.
func (i *Item) IsDir() bool {
	return i.Kind == KindDirectory
}

// Walk visits items and their explored children in pre-order. Returning
// false from fn skips the item's children.
func Walk(items []*Item, fn func(*Item) bool) {
	for _, item := range items {
		if fn(item) && item.Children != nil {
			Walk(item.Children, fn)
		}
	}
}
