package store

import (
	"context"
	"fmt"

	"github.com/roach88/mucore/internal/ir"
)

// WriteArticle saves an article and returns the stored row.
//
// The ID is derived from the URL (ir.ArticleID). Uses ON CONFLICT(id) DO
// NOTHING for idempotency: saving the same URL twice returns the existing
// row and inserted=false. Seq is assigned on insert as one past the
// current maximum.
func (s *Store) WriteArticle(ctx context.Context, url, title string) (a Article, inserted bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Article{}, false, fmt.Errorf("write article: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	id := ir.ArticleID(url)
	result, err := tx.ExecContext(ctx, `
		INSERT INTO articles (id, url, title, read, seq)
		VALUES (?, ?, ?, 0, (SELECT COALESCE(MAX(seq), 0) + 1 FROM articles))
		ON CONFLICT(id) DO NOTHING
	`, id, url, title)
	if err != nil {
		return Article{}, false, fmt.Errorf("write article: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return Article{}, false, fmt.Errorf("write article: rows affected: %w", err)
	}

	a, err = scanArticle(tx.QueryRowContext(ctx, selectArticle+` WHERE id = ?`, id))
	if err != nil {
		return Article{}, false, fmt.Errorf("write article: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Article{}, false, fmt.Errorf("write article: commit: %w", err)
	}

	return a, rows > 0, nil
}

// MarkRead flags an article as read. Marking twice is not an error.
// Returns ErrNotFound if no article has the id.
func (s *Store) MarkRead(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE articles SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark read %s: %w", id, err)
	}
	return requireRow(result, id)
}

// DeleteArticle removes an article.
// Returns ErrNotFound if no article has the id.
func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete article %s: %w", id, err)
	}
	return requireRow(result, id)
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func requireRow(result rowsAffecter, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("article %s: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	return nil
}
