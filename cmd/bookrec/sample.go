package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rushteam/bookrec/catalog"
)

func newSampleCmd(a *app) *cobra.Command {
	var opts catalog.SampleOptions
	cmd := &cobra.Command{
		Use:   "sample <in> <out>",
		Short: "Write a reproducible random sample of a CSV file",
		Example: `  bookrec sample goodreads_reviews.csv reviews_reduced.csv --fraction 0.2
  bookrec sample https://example.org/goodreads_works.csv works_1k.csv --rows 1000 --seed 7`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]
			ctx := cmd.Context()

			rc, err := catalog.Open(ctx, in)
			if err != nil {
				return err
			}
			defer rc.Close()

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			res, err := catalog.Sample(rc, f, opts)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(out)
				return err
			}

			a.logger.Info().
				Str("component", "sample").
				Str("in", in).
				Str("out", out).
				Int("input_rows", res.InputRows).
				Int("output_rows", res.OutputRows).
				Msg("sample written")
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d of %d rows to %s\n", res.OutputRows, res.InputRows, out)
			return nil
		},
	}
	cmd.Flags().Float64Var(&opts.Fraction, "fraction", 0, "fraction of rows to keep, in (0, 1]")
	cmd.Flags().IntVar(&opts.Rows, "rows", 0, "number of rows to keep")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", catalog.DefaultSampleSeed, "random seed")
	cmd.MarkFlagsOneRequired("fraction", "rows")
	cmd.MarkFlagsMutuallyExclusive("fraction", "rows")
	return cmd
}
