package reading

// Cmd is a side effect requested by Update and carried out by the Resolver.
type Cmd interface {
	Name() string
}

// LoadArticles reads every stored article.
type LoadArticles struct{}

// SaveArticle writes a new article.
type SaveArticle struct {
	URL   string
	Title string
}

// MarkArticleRead flags a stored article as read.
type MarkArticleRead struct {
	ID string
}

// DeleteArticle removes a stored article.
type DeleteArticle struct {
	ID string
}

func (LoadArticles) Name() string    { return "load_articles" }
func (SaveArticle) Name() string     { return "save_article" }
func (MarkArticleRead) Name() string { return "mark_article_read" }
func (DeleteArticle) Name() string   { return "delete_article" }
