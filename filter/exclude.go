package filter

import (
	"context"

	"github.com/rushteam/bookrec/core"
)

// ExcludeFilter 过滤掉收藏书以及黑名单中的书。
//   - 收藏 ID 来自 RecommendContext（请求级）
//   - ItemIDs 是内存黑名单
//   - Store + Key 是存储中的黑名单（JSON 字符串数组），每个请求只读取一次
type ExcludeFilter struct {
	ItemIDs []string

	Store BlacklistStore
	Key   string

	cache blacklistCache
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	// GetBlacklist 获取黑名单 ID 列表
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewExcludeFilter 创建一个排除过滤器。
func NewExcludeFilter(itemIDs []string, storeAdapter *StoreAdapter, key string) *ExcludeFilter {
	var store BlacklistStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &ExcludeFilter{
		ItemIDs: itemIDs,
		Store:   store,
		Key:     key,
	}
}

func (f *ExcludeFilter) Name() string {
	return "filter.exclude"
}

func (f *ExcludeFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	if rctx != nil {
		if rctx.Profile != nil && rctx.Profile.FavoriteIDs != nil {
			if _, ok := rctx.Profile.FavoriteIDs[item.ID]; ok {
				return true, nil
			}
		}
		for _, fav := range rctx.Favorites {
			if core.NormalizeID(fav.ID) == item.ID {
				return true, nil
			}
		}
	}

	for _, id := range f.ItemIDs {
		if core.NormalizeID(id) == item.ID {
			return true, nil
		}
	}

	if f.Store != nil && f.Key != "" {
		blocked := f.cache.load(ctx, rctx, f.Store, f.Key)
		if _, ok := blocked[item.ID]; ok {
			return true, nil
		}
	}

	return false, nil
}
