package reading

import (
	"slices"

	"github.com/roach88/mucore/internal/store"
)

// State is the reading list as seen by subscribers.
//
// A State is never modified after Update returns it; Update always builds
// a fresh Articles slice when the list changes.
type State struct {
	// Articles in store order (seq ascending).
	Articles []store.Article

	// LastError describes the most recent failed operation, or "".
	LastError string
}

// Find returns the article with id.
func (s State) Find(id string) (store.Article, bool) {
	i := s.index(id)
	if i < 0 {
		return store.Article{}, false
	}
	return s.Articles[i], true
}

// Unread returns the number of articles not marked read.
func (s State) Unread() int {
	n := 0
	for _, a := range s.Articles {
		if !a.Read {
			n++
		}
	}
	return n
}

func (s State) index(id string) int {
	return slices.IndexFunc(s.Articles, func(a store.Article) bool { return a.ID == id })
}

// withArticle returns a copy of s holding a, inserted in seq order.
// An article already present is left untouched.
func (s State) withArticle(a store.Article) State {
	if s.index(a.ID) >= 0 {
		return s
	}
	articles := slices.Clone(s.Articles)
	at, _ := slices.BinarySearchFunc(articles, a, func(x, y store.Article) int {
		switch {
		case x.Seq < y.Seq:
			return -1
		case x.Seq > y.Seq:
			return 1
		}
		return 0
	})
	s.Articles = slices.Insert(articles, at, a)
	return s
}

func (s State) withRead(id string) State {
	i := s.index(id)
	if i < 0 || s.Articles[i].Read {
		return s
	}
	articles := slices.Clone(s.Articles)
	articles[i].Read = true
	s.Articles = articles
	return s
}

func (s State) without(id string) State {
	i := s.index(id)
	if i < 0 {
		return s
	}
	s.Articles = slices.Delete(slices.Clone(s.Articles), i, i+1)
	return s
}
