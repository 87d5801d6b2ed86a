package reading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mucore/internal/ir"
	"github.com/roach88/mucore/internal/store"
)

func article(url string, seq int64) store.Article {
	return store.Article{ID: ir.ArticleID(url), URL: url, Title: url, Seq: seq}
}

func TestInit(t *testing.T) {
	state, cmds := Init()

	assert.Empty(t, state.Articles)
	assert.Equal(t, []Cmd{LoadArticles{}}, cmds.Items())
}

func TestUpdate_Add(t *testing.T) {
	tests := []struct {
		name     string
		msg      Add
		wantCmds []Cmd
		wantErr  string
	}{
		{
			name:     "url and title",
			msg:      Add{URL: "https://go.dev", Title: "Go"},
			wantCmds: []Cmd{SaveArticle{URL: "https://go.dev", Title: "Go"}},
		},
		{
			name:     "title defaults to url",
			msg:      Add{URL: " https://go.dev "},
			wantCmds: []Cmd{SaveArticle{URL: "https://go.dev", Title: "https://go.dev"}},
		},
		{
			name:    "empty url",
			msg:     Add{URL: "  "},
			wantErr: "add: url is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, cmds := Update(tt.msg, State{})
			assert.Equal(t, tt.wantCmds, cmds.Items())
			assert.Equal(t, tt.wantErr, state.LastError)
			assert.Empty(t, state.Articles, "add alone does not change the list")
		})
	}
}

func TestUpdate_SavedAndLoadedKeepSeqOrder(t *testing.T) {
	var state State
	state, _ = Update(Loaded{Article: article("https://c.example", 3)}, state)
	state, _ = Update(Loaded{Article: article("https://a.example", 1)}, state)
	state, _ = Update(Saved{Article: article("https://b.example", 2), Inserted: true}, state)
	state, _ = Update(Saved{Article: article("https://a.example", 1)}, state)

	var urls []string
	for _, a := range state.Articles {
		urls = append(urls, a.URL)
	}
	assert.Equal(t, []string{"https://a.example", "https://b.example", "https://c.example"}, urls)
}

func TestUpdate_MarkRead(t *testing.T) {
	a := article("https://go.dev", 1)
	state, _ := Update(Loaded{Article: a}, State{})

	next, cmds := Update(MarkRead{ID: a.ID}, state)
	assert.Equal(t, []Cmd{MarkArticleRead{ID: a.ID}}, cmds.Items())
	assert.Equal(t, state, next)

	next, _ = Update(Marked{ID: a.ID}, next)
	got, ok := next.Find(a.ID)
	require.True(t, ok)
	assert.True(t, got.Read)
	assert.Equal(t, 0, next.Unread())

	_, cmds = Update(MarkRead{ID: "missing"}, state)
	assert.Equal(t, 0, cmds.Len())
}

func TestUpdate_MarkReadUnknown(t *testing.T) {
	state, cmds := Update(MarkRead{ID: "missing"}, State{})

	assert.Equal(t, 0, cmds.Len())
	assert.Equal(t, "mark_read: unknown article missing", state.LastError)
}

func TestUpdate_Remove(t *testing.T) {
	a := article("https://go.dev", 1)
	b := article("https://pkg.go.dev", 2)
	state, _ := Update(Loaded{Article: a}, State{})
	state, _ = Update(Loaded{Article: b}, state)

	_, cmds := Update(Remove{ID: a.ID}, state)
	assert.Equal(t, []Cmd{DeleteArticle{ID: a.ID}}, cmds.Items())

	next, _ := Update(Removed{ID: a.ID}, state)
	require.Len(t, next.Articles, 1)
	assert.Equal(t, b.ID, next.Articles[0].ID)

	_, cmds = Update(Remove{ID: "missing"}, state)
	assert.Equal(t, 0, cmds.Len())
}

func TestUpdate_Failed(t *testing.T) {
	state, cmds := Update(Failed{Op: "save_article", Reason: "disk full"}, State{})

	assert.Equal(t, 0, cmds.Len())
	assert.Equal(t, "save_article: disk full", state.LastError)

	state, _ = Update(Saved{Article: article("https://go.dev", 1)}, state)
	assert.Empty(t, state.LastError, "a success clears the last error")
}

func TestUpdate_AcceptedIntentClearsLastError(t *testing.T) {
	a := article("https://go.dev", 1)
	loaded, _ := Update(Loaded{Article: a}, State{})

	tests := []struct {
		name    string
		msg     Msg
		wantCmd Cmd
	}{
		{"add", Add{URL: "https://pkg.go.dev"}, SaveArticle{URL: "https://pkg.go.dev", Title: "https://pkg.go.dev"}},
		{"mark_read", MarkRead{ID: a.ID}, MarkArticleRead{ID: a.ID}},
		{"remove", Remove{ID: a.ID}, DeleteArticle{ID: a.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stale, _ := Update(Remove{ID: "missing"}, loaded)
			require.NotEmpty(t, stale.LastError)

			next, cmds := Update(tt.msg, stale)
			assert.Empty(t, next.LastError)
			assert.Equal(t, []Cmd{tt.wantCmd}, cmds.Items())
		})
	}
}

func TestUpdate_DoesNotMutatePrevious(t *testing.T) {
	a := article("https://go.dev", 1)
	b := article("https://pkg.go.dev", 2)
	before, _ := Update(Loaded{Article: a}, State{})
	before, _ = Update(Loaded{Article: b}, before)
	snapshot := append([]store.Article(nil), before.Articles...)

	Update(Marked{ID: a.ID}, before)
	Update(Removed{ID: b.ID}, before)
	Update(Saved{Article: article("https://x.example", 0)}, before)

	assert.Equal(t, snapshot, before.Articles)
}
