package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/feature"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/pkg/utils"
)

// CacheKeyPrefix 是推荐结果缓存 key 的前缀。
const CacheKeyPrefix = "bookrec:rec:"

// Recommender 是推荐入口：提取偏好 → 运行 Pipeline → 返回书单。
//
// 同一组收藏、同一书目、同一 N、同一 Pipeline 的结果完全相同，因此可以按
// (命名空间, seed, 书目指纹, N) 缓存。缓存读写失败只记录日志，不影响推荐。
type Recommender struct {
	Config    core.RecommendConfig
	Pipeline  *pipeline.Pipeline
	Extractor *feature.PreferenceExtractor

	// Cache 可选，存储有序的结果 ID 列表
	Cache    core.Store
	CacheTTL time.Duration

	// CacheNamespace 区分不同 Pipeline/统计来源的缓存；为空时取 Pipeline.Fingerprint
	CacheNamespace string

	Logger zerolog.Logger
}

// Result 是一次推荐的完整结果，Items 带子分数与标签，可用于解释。
type Result struct {
	RequestID string
	Items     []*core.Item
	Profile   *core.PreferenceProfile
	Labels    map[string]utils.Label

	// Fallback 为 true 表示没有可解析的收藏，结果取自书目前 N 本
	Fallback bool

	// Cached 为 true 表示结果来自缓存，Items 不带子分数
	Cached bool
}

// Books 返回结果中的书（副本）。
func (r *Result) Books() []*core.Book {
	out := make([]*core.Book, 0, len(r.Items))
	for _, it := range r.Items {
		if it == nil || it.Book == nil {
			continue
		}
		out = append(out, it.Book.Clone())
	}
	return out
}

// NewRecommender 使用默认 Pipeline 创建推荐器；cfg 为 nil 时使用默认配置。
func NewRecommender(cfg core.RecommendConfig) *Recommender {
	if cfg == nil {
		cfg = &core.DefaultRecommendConfig{}
	}
	return &Recommender{
		Config:    cfg,
		Pipeline:  DefaultPipeline(cfg),
		Extractor: feature.NewPreferenceExtractor(cfg),
		Logger:    zerolog.Nop(),
	}
}

// GetRecommendations 用默认配置为 favorites 推荐 topN 本书（topN <= 0 时为 10）。
// 纯函数：不修改 favorites 与 catalog，相同输入得到相同输出。catalog 为 nil 时返回 nil。
func GetRecommendations(favorites []core.Favorite, catalog *core.Catalog, topN int) []*core.Book {
	books, err := NewRecommender(nil).Recommend(context.Background(), favorites, catalog, topN)
	if err != nil {
		return nil
	}
	return books
}

// Recommend 返回推荐书单，长度不超过 topN。
func (r *Recommender) Recommend(ctx context.Context, favorites []core.Favorite, catalog *core.Catalog, topN int) ([]*core.Book, error) {
	res, err := r.Run(ctx, favorites, catalog, topN)
	if err != nil {
		return nil, err
	}
	return res.Books(), nil
}

// Run 执行一次推荐并返回带解释信息的结果。
func (r *Recommender) Run(ctx context.Context, favorites []core.Favorite, catalog *core.Catalog, topN int) (*Result, error) {
	if catalog == nil {
		return nil, core.ErrNilCatalog
	}
	cfg := r.Config
	if cfg == nil {
		cfg = &core.DefaultRecommendConfig{}
	}
	if topN <= 0 {
		topN = cfg.DefaultTopN()
	}

	start := time.Now()
	rctx := &core.RecommendContext{
		RequestID: uuid.NewString(),
		Favorites: favorites,
		Catalog:   catalog,
		TopN:      topN,
		Seed:      Seed(favorites),
	}
	log := r.Logger.With().
		Str("component", "recommend").
		Str("request_id", rctx.RequestID).
		Int("favorites", len(favorites)).
		Int("top_n", topN).
		Logger()

	extractor := r.Extractor
	if extractor == nil {
		extractor = feature.NewPreferenceExtractor(cfg)
	}
	profile, ok := extractor.Extract(catalog.Resolve(rctx.FavoriteIDs()))
	if !ok {
		log.Info().Msg("no favorites found in catalog, falling back to catalog head")
		rctx.PutLabel("fallback", utils.Label{Value: "empty_profile", Source: "recommend"})
		return &Result{
			RequestID: rctx.RequestID,
			Items:     headItems(catalog, topN),
			Labels:    rctx.Labels,
			Fallback:  true,
		}, nil
	}
	rctx.Profile = profile

	p := r.Pipeline
	if p == nil {
		p = DefaultPipeline(cfg)
	}
	key := r.cacheKey(rctx, p)
	if items, hit := r.cacheGet(ctx, log, key, catalog); hit {
		log.Debug().Str("cache_key", key).Int("results", len(items)).Msg("cache hit")
		return &Result{RequestID: rctx.RequestID, Items: items, Profile: profile, Labels: rctx.Labels, Cached: true}, nil
	}

	items, err := p.Run(ctx, rctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("pipeline failed")
		return nil, fmt.Errorf("recommend: %w", err)
	}
	if len(items) > topN {
		items = items[:topN]
	}
	r.cacheSet(ctx, log, key, items)

	log.Info().
		Strs("top_genres", profile.TopGenres).
		Int("results", len(items)).
		Dur("elapsed", time.Since(start)).
		Msg("recommendations generated")
	return &Result{RequestID: rctx.RequestID, Items: items, Profile: profile, Labels: rctx.Labels}, nil
}

func (r *Recommender) cacheKey(rctx *core.RecommendContext, p *pipeline.Pipeline) string {
	ns := r.CacheNamespace
	if ns == "" {
		ns = p.Fingerprint()
	}
	return fmt.Sprintf("%s%s:%x:%s:%d", CacheKeyPrefix, ns, rctx.Seed, rctx.Catalog.Fingerprint(), rctx.TopN)
}

func (r *Recommender) cacheGet(ctx context.Context, log zerolog.Logger, key string, catalog *core.Catalog) ([]*core.Item, bool) {
	if r.Cache == nil {
		return nil, false
	}
	data, err := r.Cache.Get(ctx, key)
	if err != nil {
		if !core.IsStoreNotFound(err) {
			log.Warn().Err(err).Str("store", r.Cache.Name()).Msg("cache read failed")
		}
		return nil, false
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		log.Warn().Err(err).Str("cache_key", key).Msg("cache entry is corrupt")
		return nil, false
	}
	items := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		b, ok := catalog.Get(id)
		if !ok {
			return nil, false
		}
		it := core.NewBookItem(b)
		it.PutLabel("cache", utils.Label{Value: "hit", Source: "recommend"})
		items = append(items, it)
	}
	return items, true
}

func (r *Recommender) cacheSet(ctx context.Context, log zerolog.Logger, key string, items []*core.Item) {
	if r.Cache == nil {
		return
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return
	}
	var ttl []int
	if r.CacheTTL > 0 {
		ttl = append(ttl, int(r.CacheTTL/time.Second))
	}
	if err := r.Cache.Set(ctx, key, data, ttl...); err != nil {
		log.Warn().Err(err).Str("store", r.Cache.Name()).Msg("cache write failed")
	}
}

func headItems(catalog *core.Catalog, n int) []*core.Item {
	books := catalog.Head(n)
	items := make([]*core.Item, 0, len(books))
	for _, b := range books {
		it := core.NewBookItem(b)
		it.PutLabel("fallback", utils.Label{Value: "empty_profile", Source: "recommend"})
		items = append(items, it)
	}
	return items
}
