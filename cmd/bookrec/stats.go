package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rushteam/bookrec/catalog"
)

func newStatsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the catalog and, if configured, the reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			books, err := a.loadCatalog(ctx)
			if err != nil {
				return err
			}
			reviews, err := a.loadReviews(ctx)
			if err != nil {
				return err
			}

			out := struct {
				Catalog catalog.CatalogSummary `json:"catalog"`
				Reviews *catalog.ReviewSummary `json:"reviews,omitempty"`
			}{Catalog: catalog.Summarize(books)}
			if reviews != nil {
				rs := catalog.SummarizeReviews(reviews, books)
				out.Reviews = &rs
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, out)
			}
			fmt.Fprintf(w, "books:            %d\n", out.Catalog.Books)
			fmt.Fprintf(w, "unique authors:   %d\n", out.Catalog.UniqueAuthors)
			fmt.Fprintf(w, "with description: %d\n", out.Catalog.WithDescription)
			fmt.Fprintf(w, "with ratings:     %d\n", out.Catalog.WithRatings)
			if out.Reviews != nil {
				fmt.Fprintf(w, "reviews:          %d\n", out.Reviews.Reviews)
				fmt.Fprintf(w, "mean rating:      %.2f\n", out.Reviews.MeanRating)
				fmt.Fprintf(w, "covered works:    %d\n", out.Reviews.Covered)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
