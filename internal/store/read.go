package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Article is one reading-list entry.
// All fields are comparable so an Article can travel inside messages.
type Article struct {
	ID    string
	URL   string
	Title string
	Read  bool
	Seq   int64
}

const selectArticle = `SELECT id, url, title, read, seq FROM articles`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (Article, error) {
	var a Article
	var read int
	if err := row.Scan(&a.ID, &a.URL, &a.Title, &read, &a.Seq); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Article{}, ErrNotFound
		}
		return Article{}, fmt.Errorf("scan article: %w", err)
	}
	a.Read = read == 1
	return a, nil
}

// ReadArticle returns the article with the given id.
// Returns ErrNotFound if it does not exist.
func (s *Store) ReadArticle(ctx context.Context, id string) (Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx, selectArticle+` WHERE id = ?`, id))
	if err != nil {
		return Article{}, fmt.Errorf("read article %s: %w", id, err)
	}
	return a, nil
}

// ListArticles returns every article in deterministic order:
// ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if the list is empty.
func (s *Store) ListArticles(ctx context.Context) ([]Article, error) {
	rows, err := s.db.QueryContext(ctx, selectArticle+`
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	articles := []Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}

	return articles, nil
}

// CountUnread returns the number of articles not yet marked read.
func (s *Store) CountUnread(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles WHERE read = 0`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}
