package store

import (
	"context"
	"path/filepath"
	"testing"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustWrite saves an article or fails the test.
func mustWrite(t *testing.T, s *Store, url, title string) Article {
	t.Helper()
	a, _, err := s.WriteArticle(context.Background(), url, title)
	if err != nil {
		t.Fatalf("WriteArticle(%q) failed: %v", url, err)
	}
	return a
}
