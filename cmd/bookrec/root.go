package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rushteam/bookrec/catalog"
	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/logging"
)

// app 在各子命令之间共享配置与日志。
type app struct {
	configPath string
	works      string
	reviews    string
	logLevel   string
	logFormat  string

	settings *Settings
	logger   zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "bookrec",
		Short: "Content-based book recommendations over a Goodreads-style catalog",
		Long: `bookrec recommends books similar to a set of favorites using genres,
authors, publication year, average rating and declared similar books.

Settings are read from bookrec.yaml (or --config), then BOOKREC_* environment
variables, then command-line flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "settings file (YAML)")
	flags.StringVar(&a.works, "works", "", "works CSV (path or URL)")
	flags.StringVar(&a.reviews, "reviews", "", "reviews CSV (path or URL)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: json or console")

	cmd.AddCommand(
		newRecommendCmd(a),
		newSearchCmd(a),
		newSampleCmd(a),
		newStatsCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	s, err := LoadSettings(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("works") {
		s.Works = a.works
	}
	if flags.Changed("reviews") {
		s.Reviews = a.reviews
	}
	if flags.Changed("log-level") {
		s.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		s.Log.Format = a.logFormat
	}
	if err := s.Validate(); err != nil {
		return err
	}
	a.settings = s
	a.logger = logging.New(logging.Config{
		Level:  s.Log.Level,
		Format: s.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	return nil
}

// loadCatalog 读取并清洗书目。
func (a *app) loadCatalog(ctx context.Context) (*core.Catalog, error) {
	if a.settings.Works == "" {
		return nil, fmt.Errorf("no works CSV configured (use --works or BOOKREC_WORKS)")
	}
	ctx, cancel := context.WithTimeout(ctx, a.settings.FetchTimeout)
	defer cancel()

	rc, err := catalog.Open(ctx, a.settings.Works)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	c, report, err := catalog.LoadWorks(rc)
	if err != nil {
		return nil, fmt.Errorf("load works %s: %w", a.settings.Works, err)
	}
	a.logger.Info().
		Str("component", "catalog").
		Str("source", a.settings.Works).
		Int("rows", report.Rows).
		Int("kept", report.Kept).
		Int("dropped", report.Dropped).
		Int("malformed", report.Malformed).
		Msg("catalog loaded")
	return c, nil
}

// loadReviews 读取评论；未配置时返回 nil。
func (a *app) loadReviews(ctx context.Context) ([]catalog.Review, error) {
	if a.settings.Reviews == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, a.settings.FetchTimeout)
	defer cancel()

	rc, err := catalog.Open(ctx, a.settings.Reviews)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	reviews, report, err := catalog.LoadReviews(rc)
	if err != nil {
		return nil, fmt.Errorf("load reviews %s: %w", a.settings.Reviews, err)
	}
	a.logger.Info().
		Str("component", "catalog").
		Str("source", a.settings.Reviews).
		Int("rows", report.Rows).
		Int("kept", report.Kept).
		Int("malformed", report.Malformed).
		Msg("reviews loaded")
	return reviews, nil
}
