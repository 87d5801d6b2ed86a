package reading

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/mucore/internal/engine"
	"github.com/roach88/mucore/internal/store"
)

// Store is the storage the resolver needs. *store.Store implements it.
type Store interface {
	ListArticles(ctx context.Context) ([]store.Article, error)
	WriteArticle(ctx context.Context, url, title string) (store.Article, bool, error)
	MarkRead(ctx context.Context, id string) error
	DeleteArticle(ctx context.Context, id string) error
}

// NewResolver returns a Resolver that carries out commands against st.
//
// Storage errors become Failed messages so the list keeps running. Context
// errors are returned as-is and stop the processing line.
func NewResolver(st Store) engine.Resolver[Msg, Cmd] {
	return func(ctx context.Context, cmd Cmd) (engine.Set[Msg], error) {
		msgs, err := resolve(ctx, st, cmd)
		if err != nil {
			if ctx.Err() != nil {
				return engine.Set[Msg]{}, err
			}
			return engine.NewSet[Msg](failure(cmd, err)), nil
		}
		return msgs, nil
	}
}

func resolve(ctx context.Context, st Store, cmd Cmd) (engine.Set[Msg], error) {
	switch c := cmd.(type) {
	case LoadArticles:
		articles, err := st.ListArticles(ctx)
		if err != nil {
			return engine.Set[Msg]{}, err
		}
		var msgs engine.Set[Msg]
		for _, a := range articles {
			msgs.Add(Loaded{Article: a})
		}
		return msgs, nil

	case SaveArticle:
		a, inserted, err := st.WriteArticle(ctx, c.URL, c.Title)
		if err != nil {
			return engine.Set[Msg]{}, err
		}
		return engine.NewSet[Msg](Saved{Article: a, Inserted: inserted}), nil

	case MarkArticleRead:
		if err := st.MarkRead(ctx, c.ID); err != nil {
			return engine.Set[Msg]{}, err
		}
		return engine.NewSet[Msg](Marked{ID: c.ID}), nil

	case DeleteArticle:
		if err := st.DeleteArticle(ctx, c.ID); err != nil {
			return engine.Set[Msg]{}, err
		}
		return engine.NewSet[Msg](Removed{ID: c.ID}), nil

	default:
		return engine.Set[Msg]{}, fmt.Errorf("unknown command %T", cmd)
	}
}

func failure(cmd Cmd, err error) Failed {
	f := Failed{Op: cmd.Name(), Reason: err.Error()}
	switch c := cmd.(type) {
	case MarkArticleRead:
		f.ID = c.ID
	case DeleteArticle:
		f.ID = c.ID
	}
	if errors.Is(err, store.ErrNotFound) {
		f.Reason = "not found"
	}
	return f
}
