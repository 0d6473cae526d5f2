package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rushteam/bookrec/catalog"
)

func newSearchCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find books by title, author or genre",
		Long: `Case-insensitive substring search over title, author and genres.
Queries shorter than 3 characters return nothing. Results are ordered by
ratings count, most popular first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			w := cmd.OutOrStdout()
			results := catalog.Search(books, query, limit)
			if len(results) == 0 {
				fmt.Fprintf(w, "No books match %q.\n", query)
				return nil
			}
			for _, b := range results {
				fmt.Fprintf(w, "%s\t%s by %s\n", b.ID, b.Title, b.Author)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", catalog.DefaultSearchLimit, "maximum number of results")
	return cmd
}
