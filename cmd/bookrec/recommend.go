package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cobra"

	"github.com/rushteam/bookrec/catalog"
	"github.com/rushteam/bookrec/config"
	_ "github.com/rushteam/bookrec/config/builders"
	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/feast"
	"github.com/rushteam/bookrec/feature"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/recommend"
	"github.com/rushteam/bookrec/session"
	"github.com/rushteam/bookrec/store"
)

type recommendOptions struct {
	favorites []string
	topN      int
	explain   bool
	json      bool
	enrich    bool
}

func newRecommendCmd(a *app) *cobra.Command {
	opts := &recommendOptions{}
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend books similar to a set of favorites",
		Example: `  bookrec recommend --works goodreads_works.csv --favorite 101 --favorite 202
  bookrec recommend --favorite 101 -n 5 --explain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("enrich-stats") {
				a.settings.EnrichStats = opts.enrich
			}
			return runRecommend(cmd.Context(), a, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringSliceVarP(&opts.favorites, "favorite", "f", nil, "favorite work_id (repeatable)")
	cmd.Flags().IntVarP(&opts.topN, "top", "n", 0, "number of recommendations (default from settings)")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "print sub-scores and labels")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON")
	cmd.Flags().BoolVar(&opts.enrich, "enrich-stats", false, "fill or override candidate rating signal from reviews or Feast before filtering")
	return cmd
}

func runRecommend(ctx context.Context, a *app, opts *recommendOptions, w io.Writer) error {
	books, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}

	sess := session.New()
	for _, id := range opts.favorites {
		title := id
		if b, ok := books.Get(id); ok {
			title = b.Title
		}
		sess.AddFavorite(title, id)
	}

	r, cleanup, err := a.newRecommender(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	topN := opts.topN
	if topN <= 0 {
		topN = a.settings.TopN
	}
	res, err := r.Run(ctx, sess.Favorites(), books, topN)
	if err != nil {
		return err
	}

	if opts.json {
		return writeJSON(w, recommendOutput(res, opts.explain))
	}
	if res.Fallback {
		fmt.Fprintln(w, "No favorites found in the catalog; showing the first books instead.")
	}
	for i, it := range res.Items {
		b := it.Book
		fmt.Fprintf(w, "%2d. %s by %s (%s)\n", i+1, b.Title, b.Author, b.ID)
		if opts.explain && !res.Cached && !res.Fallback {
			fmt.Fprintf(w, "    score=%.3f %s\n", it.Score, formatFeatures(it.Features))
		}
	}
	return nil
}

// newRecommender 按配置组装缓存、统计服务与 Pipeline。
func (a *app) newRecommender(ctx context.Context) (*recommend.Recommender, func(), error) {
	s := a.settings
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	r := recommend.NewRecommender(nil)
	r.Logger = a.logger
	r.CacheTTL = s.Cache.TTL

	switch s.Cache.Backend {
	case "memory":
		m := store.NewMemoryStore()
		closers = append(closers, func() { _ = m.Close() })
		r.Cache = m
	case "redis":
		rs, err := store.NewRedisStore(ctx, store.RedisOptions{
			Addr:     s.Cache.Addr,
			Password: s.Cache.Password,
			DB:       s.Cache.DB,
			Prefix:   s.Cache.Prefix,
		})
		if err != nil {
			a.logger.Warn().Err(err).Str("addr", s.Cache.Addr).Msg("redis cache disabled")
			break
		}
		closers = append(closers, func() { _ = rs.Close() })
		r.Cache = rs
	}

	stats, override, err := a.statsService(ctx)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if stats != nil {
		closers = append(closers, func() { _ = stats.Close(context.Background()) })
	}

	pipelineID := "default"
	if s.Pipeline != "" {
		pcfg, err := pipeline.LoadFromYAML(s.Pipeline)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("load pipeline %s: %w", s.Pipeline, err)
		}
		p, err := config.Build(pcfg, config.Resources{Store: r.Cache, Stats: stats})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if pipelineID, err = pcfg.Fingerprint(); err != nil {
			cleanup()
			return nil, nil, err
		}
		r.Pipeline = p
	} else if stats != nil {
		r.Pipeline = withStats(r.Pipeline, &feature.StatsNode{Service: stats, Override: override})
	}
	r.CacheNamespace = cacheNamespace(pipelineID, s.statsSource(stats != nil, override))
	return r, cleanup, nil
}

// cacheNamespace 组合 Pipeline 指纹与统计来源，任一变化都会换一组缓存 key。
func cacheNamespace(pipelineID, statsSource string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(pipelineID+"|"+statsSource))
}

func (s *Settings) statsSource(enabled, override bool) string {
	switch {
	case !enabled:
		return "none"
	case override:
		return "feast:" + s.Feast.Endpoint + "/" + s.Feast.Project
	default:
		return "reviews:" + s.Reviews
	}
}

// statsService 选择评分统计来源：优先在线特征库（覆盖书目值），其次评论聚合（只补缺失）。
// 未开启 EnrichStats 时不使用任何来源，候选书只看书目自带的评分信号。
func (a *app) statsService(ctx context.Context) (core.BookStatsService, bool, error) {
	s := a.settings
	if !s.EnrichStats {
		return nil, false, nil
	}
	if s.Feast.Endpoint != "" {
		client, err := feast.NewClient(ctx, s.Feast.Endpoint, s.Feast.Project, feast.WithTimeout(s.Feast.Timeout))
		if err != nil {
			return nil, false, fmt.Errorf("feast client: %w", err)
		}
		return feast.NewStatsService(client, s.Feast.Project), true, nil
	}
	reviews, err := a.loadReviews(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(reviews) == 0 {
		return nil, false, nil
	}
	return catalog.NewReviewStats(reviews), false, nil
}

// withStats 把 StatsNode 插在召回之后、过滤之前。
func withStats(p *pipeline.Pipeline, node pipeline.Node) *pipeline.Pipeline {
	nodes := make([]pipeline.Node, 0, len(p.Nodes)+1)
	for i, n := range p.Nodes {
		nodes = append(nodes, n)
		if i == 0 {
			nodes = append(nodes, node)
		}
	}
	return &pipeline.Pipeline{Nodes: nodes}
}

type recommendedBook struct {
	ID       string             `json:"id"`
	Title    string             `json:"title"`
	Author   string             `json:"author"`
	Genres   string             `json:"genres"`
	Score    float64            `json:"score,omitempty"`
	Features map[string]float64 `json:"features,omitempty"`
	Labels   map[string]string  `json:"labels,omitempty"`
}

type recommendResult struct {
	RequestID string            `json:"request_id"`
	Fallback  bool              `json:"fallback"`
	Cached    bool              `json:"cached"`
	TopGenres []string          `json:"top_genres,omitempty"`
	Books     []recommendedBook `json:"books"`
}

func recommendOutput(res *recommend.Result, explain bool) recommendResult {
	out := recommendResult{
		RequestID: res.RequestID,
		Fallback:  res.Fallback,
		Cached:    res.Cached,
		Books:     make([]recommendedBook, 0, len(res.Items)),
	}
	if res.Profile != nil {
		out.TopGenres = res.Profile.TopGenres
	}
	for _, it := range res.Items {
		rb := recommendedBook{
			ID:     it.Book.ID,
			Title:  it.Book.Title,
			Author: it.Book.Author,
			Genres: it.Book.Genres,
		}
		if explain {
			rb.Score = it.Score
			rb.Features = it.Features
			rb.Labels = make(map[string]string, len(it.Labels))
			for k, v := range it.Labels {
				rb.Labels[k] = v.Value
			}
		}
		out.Books = append(out.Books, rb)
	}
	return out
}

var featureOrder = []string{
	core.FeatureSimilarity,
	core.FeatureGenre,
	core.FeatureRating,
	core.FeatureAuthor,
	core.FeatureYear,
	core.FeatureDiversity,
	core.FeatureGenreDiversity,
}

func formatFeatures(f map[string]float64) string {
	parts := make([]string, 0, len(featureOrder))
	for _, k := range featureOrder {
		if v, ok := f[k]; ok {
			parts = append(parts, fmt.Sprintf("%s=%.2f", strings.TrimSuffix(k, "_score"), v))
		}
	}
	return strings.Join(parts, " ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
