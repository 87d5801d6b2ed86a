package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mucore/internal/reading"
	"github.com/roach88/mucore/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database string
	Unread   bool
}

// ArticleView is one article in list output.
type ArticleView struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
	Read  bool   `json:"read"`
	Seq   int64  `json:"seq"`
}

// ListResult holds the list output.
type ListResult struct {
	Articles []ArticleView `json:"articles"`
	Total    int           `json:"total"`
	Unread   int           `json:"unread"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored articles",
		Long: `List the articles stored in a reading-list database, in the order
they were saved.

Examples:
  mucore list --db ./mucore.db
  mucore list --db ./mucore.db --unread --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("db") {
				opts.Database = opts.Config.DB
			}
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $MUCORE_DB)")
	cmd.Flags().BoolVar(&opts.Unread, "unread", false, "only list unread articles")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := NewOutputFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	articles, err := st.ListArticles(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list articles", err)
	}
	unread, err := st.CountUnread(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count unread articles", err)
	}

	result := ListResult{
		Articles: make([]ArticleView, 0, len(articles)),
		Total:    len(articles),
		Unread:   unread,
	}
	for _, a := range articles {
		if opts.Unread && a.Read {
			continue
		}
		result.Articles = append(result.Articles, ArticleView{
			ID: a.ID, URL: a.URL, Title: a.Title, Read: a.Read, Seq: a.Seq,
		})
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	if len(result.Articles) == 0 {
		fmt.Fprintln(w, "No articles.")
	}
	for _, a := range result.Articles {
		mark := " "
		if a.Read {
			mark = "x"
		}
		fmt.Fprintf(w, "[%s] %s  %s  %s\n", mark, reading.ShortID(a.ID), a.Title, a.URL)
	}
	fmt.Fprintf(w, "%d article(s), %d unread\n", result.Total, result.Unread)
	return nil
}
