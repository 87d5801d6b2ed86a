package reading

import (
	"fmt"
	"strings"

	"github.com/roach88/mucore/internal/engine"
)

// Init starts with an empty list and asks for the stored articles.
func Init() (State, engine.Set[Cmd]) {
	return State{}, engine.NewSet[Cmd](LoadArticles{})
}

// Update folds msg into state. It is pure: no I/O, no clock, and state is
// never modified in place.
//
// LastError is set by rejected intents and failures and cleared by every
// accepted intent or successful result.
func Update(msg Msg, state State) (State, engine.Set[Cmd]) {
	none := engine.Set[Cmd]{}

	switch m := msg.(type) {
	case Add:
		url := strings.TrimSpace(m.URL)
		if url == "" {
			state.LastError = "add: url is required"
			return state, none
		}
		title := strings.TrimSpace(m.Title)
		if title == "" {
			title = url
		}
		state.LastError = ""
		return state, engine.NewSet[Cmd](SaveArticle{URL: url, Title: title})

	case Saved:
		state = state.withArticle(m.Article)
		state.LastError = ""
		return state, none

	case Loaded:
		return state.withArticle(m.Article), none

	case MarkRead:
		if _, ok := state.Find(m.ID); !ok {
			state.LastError = fmt.Sprintf("mark_read: unknown article %s", m.ID)
			return state, none
		}
		state.LastError = ""
		return state, engine.NewSet[Cmd](MarkArticleRead{ID: m.ID})

	case Marked:
		state = state.withRead(m.ID)
		state.LastError = ""
		return state, none

	case Remove:
		if _, ok := state.Find(m.ID); !ok {
			state.LastError = fmt.Sprintf("remove: unknown article %s", m.ID)
			return state, none
		}
		state.LastError = ""
		return state, engine.NewSet[Cmd](DeleteArticle{ID: m.ID})

	case Removed:
		state = state.without(m.ID)
		state.LastError = ""
		return state, none

	case Failed:
		state.LastError = fmt.Sprintf("%s: %s", m.Op, m.Reason)
		return state, none

	default:
		state.LastError = fmt.Sprintf("unknown message %T", msg)
		return state, none
	}
}
