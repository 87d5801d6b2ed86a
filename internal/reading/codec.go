package reading

import (
	"fmt"
	"strings"

	"github.com/roach88/mucore/internal/ir"
	"github.com/roach88/mucore/internal/store"
)

// shortIDLen is how much of an article ID appears in traces.
const shortIDLen = 12

// ShortID abbreviates an article ID for display.
func ShortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// ParseMsg builds an intent message from its name and string arguments, as
// written in scenario files and on the command line.
//
// Only intents are accepted (add, mark_read, remove); feedback messages
// come from the resolver. mark_read and remove take either "id" or "url".
func ParseMsg(name string, args map[string]string) (Msg, error) {
	switch name {
	case "add":
		url := args["url"]
		if strings.TrimSpace(url) == "" {
			return nil, fmt.Errorf("add: url is required")
		}
		return Add{URL: url, Title: args["title"]}, nil
	case "mark_read":
		id, err := targetID(name, args)
		if err != nil {
			return nil, err
		}
		return MarkRead{ID: id}, nil
	case "remove":
		id, err := targetID(name, args)
		if err != nil {
			return nil, err
		}
		return Remove{ID: id}, nil
	default:
		return nil, fmt.Errorf("unknown message %q (want add, mark_read or remove)", name)
	}
}

func targetID(name string, args map[string]string) (string, error) {
	if id := args["id"]; id != "" {
		return id, nil
	}
	if url := args["url"]; url != "" {
		return ir.ArticleID(url), nil
	}
	return "", fmt.Errorf("%s: id or url is required", name)
}

// EncodeMsg renders msg as a canonical trace object.
func EncodeMsg(msg Msg) ir.Object {
	obj := ir.Object{"type": ir.String(msg.Name())}
	switch m := msg.(type) {
	case Add:
		obj["url"] = ir.String(m.URL)
		obj["title"] = ir.String(m.Title)
	case Saved:
		obj["article"] = encodeArticle(m.Article)
		obj["inserted"] = ir.Bool(m.Inserted)
	case Loaded:
		obj["article"] = encodeArticle(m.Article)
	case MarkRead:
		obj["id"] = ir.String(ShortID(m.ID))
	case Marked:
		obj["id"] = ir.String(ShortID(m.ID))
	case Remove:
		obj["id"] = ir.String(ShortID(m.ID))
	case Removed:
		obj["id"] = ir.String(ShortID(m.ID))
	case Failed:
		obj["op"] = ir.String(m.Op)
		obj["reason"] = ir.String(m.Reason)
		if m.ID != "" {
			obj["id"] = ir.String(ShortID(m.ID))
		}
	}
	return obj
}

// EncodeCmd renders cmd as a canonical trace object.
func EncodeCmd(cmd Cmd) ir.Object {
	obj := ir.Object{"type": ir.String(cmd.Name())}
	switch c := cmd.(type) {
	case SaveArticle:
		obj["url"] = ir.String(c.URL)
		obj["title"] = ir.String(c.Title)
	case MarkArticleRead:
		obj["id"] = ir.String(ShortID(c.ID))
	case DeleteArticle:
		obj["id"] = ir.String(ShortID(c.ID))
	}
	return obj
}

// EncodeState renders state as a canonical object.
func EncodeState(state State) ir.Object {
	articles := make(ir.Array, len(state.Articles))
	for i, a := range state.Articles {
		articles[i] = encodeArticle(a)
	}
	return ir.Object{
		"articles":   articles,
		"unread":     ir.Int(state.Unread()),
		"last_error": ir.String(state.LastError),
	}
}

func encodeArticle(a store.Article) ir.Object {
	return ir.Object{
		"url":   ir.String(a.URL),
		"title": ir.String(a.Title),
		"read":  ir.Bool(a.Read),
	}
}
