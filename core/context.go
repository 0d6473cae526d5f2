package core

import "github.com/rushteam/bookrec/pkg/utils"

// RecommendContext 承载一次推荐请求的全部状态，贯穿整个 Pipeline 透传。
// 收藏列表、偏好画像、书目都显式传入，核心逻辑不依赖任何全局状态。
type RecommendContext struct {
	RequestID string

	// Favorites 是调用方提交的收藏
	Favorites []Favorite

	// Profile 由 feature.ExtractPreferences 生成，请求结束后丢弃
	Profile *PreferenceProfile

	// Catalog 是只读书目快照
	Catalog *Catalog

	// TopN 是期望返回的数量
	TopN int

	// Seed 是由收藏集合派生的随机种子
	Seed uint64

	// Labels 是请求级标签，例如 fallback 原因
	Labels map[string]utils.Label

	// Params 请求级参数，可被 DSL 表达式引用
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

// FavoriteIDs 返回规范化后的收藏 ID 集合。
func (rctx *RecommendContext) FavoriteIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(rctx.Favorites))
	for _, f := range rctx.Favorites {
		id := NormalizeID(f.ID)
		if id == "" {
			continue
		}
		ids[id] = struct{}{}
	}
	return ids
}
