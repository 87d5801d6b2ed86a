package reading

import "github.com/roach88/mucore/internal/store"

// Msg is a message understood by Update.
// Every implementation is a comparable struct.
type Msg interface {
	// Name identifies the message kind in traces and scenario files.
	Name() string
}

// Add asks to save an article.
type Add struct {
	URL   string
	Title string
}

// Saved reports that an article is in the store. Inserted is false when the
// URL was already saved.
type Saved struct {
	Article  store.Article
	Inserted bool
}

// Loaded carries one article read from the store at startup.
type Loaded struct {
	Article store.Article
}

// MarkRead asks to flag an article as read.
type MarkRead struct {
	ID string
}

// Marked reports that an article is now read.
type Marked struct {
	ID string
}

// Remove asks to delete an article.
type Remove struct {
	ID string
}

// Removed reports that an article is gone from the store.
type Removed struct {
	ID string
}

// Failed reports a storage operation that did not succeed.
type Failed struct {
	Op     string
	ID     string
	Reason string
}

func (Add) Name() string      { return "add" }
func (Saved) Name() string    { return "saved" }
func (Loaded) Name() string   { return "loaded" }
func (MarkRead) Name() string { return "mark_read" }
func (Marked) Name() string   { return "marked" }
func (Remove) Name() string   { return "remove" }
func (Removed) Name() string  { return "removed" }
func (Failed) Name() string   { return "failed" }
