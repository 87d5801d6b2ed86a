// Package reading is a reading-list component built on the engine runtime.
//
// The component keeps an ordered list of saved articles. User intents (Add,
// MarkRead, Remove) become commands against the article store; the store's
// answers (Saved, Marked, Removed, Failed) come back as messages and are
// folded into the state by the same pure Update.
//
// # Message flow
//
//	Add{URL, Title} -> SaveArticle -> Saved{Article}
//	MarkRead{ID}    -> MarkArticleRead -> Marked{ID}
//	Remove{ID}      -> DeleteArticle -> Removed{ID}
//
// At startup the Init command LoadArticles produces one Loaded message per
// stored article; all of them are applied before any external message.
//
// Storage failures never stop the engine: the resolver turns them into a
// Failed message recorded in State.LastError. Only context cancellation is
// reported as a resolver error.
package reading
