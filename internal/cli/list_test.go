package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mucore/internal/ir"
	"github.com/roach88/mucore/internal/reading"
	"github.com/roach88/mucore/internal/store"
)

func seedDatabase(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "mucore.db")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	goDev, _, err := st.WriteArticle(ctx, "https://go.dev", "Go")
	require.NoError(t, err)
	_, _, err = st.WriteArticle(ctx, "https://pkg.go.dev", "Packages")
	require.NoError(t, err)
	require.NoError(t, st.MarkRead(ctx, goDev.ID))
	return dbPath
}

func executeList(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewListCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestList_Text(t *testing.T) {
	dbPath := seedDatabase(t)

	out, err := executeList(t, "text", "--db", dbPath)
	require.NoError(t, err)

	goID := reading.ShortID(ir.ArticleID("https://go.dev"))
	assert.Contains(t, out, "[x] "+goID+"  Go  https://go.dev")
	assert.Contains(t, out, "[ ] ")
	assert.Contains(t, out, "2 article(s), 1 unread")
}

func TestList_UnreadJSON(t *testing.T) {
	dbPath := seedDatabase(t)

	out, err := executeList(t, "json", "--db", dbPath, "--unread")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   ListResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Unread)
	require.Len(t, resp.Data.Articles, 1)
	assert.Equal(t, "https://pkg.go.dev", resp.Data.Articles[0].URL)
	assert.False(t, resp.Data.Articles[0].Read)
}

func TestList_EmptyDatabase(t *testing.T) {
	out, err := executeList(t, "text", "--db", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No articles.")
	assert.Contains(t, out, "0 article(s), 0 unread")
}
