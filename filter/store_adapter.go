package filter

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rushteam/bookrec/core"
)

// StoreAdapter 将 core.Store 适配为过滤器所需的存储接口。
type StoreAdapter struct {
	store core.Store
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetBlacklist 从 Store 读取黑名单（JSON 字符串数组）。
func (a *StoreAdapter) GetBlacklist(ctx context.Context, key string) ([]string, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// blacklistCache 按请求缓存黑名单，避免对每个候选都访问存储。
type blacklistCache struct {
	mu      sync.Mutex
	request *core.RecommendContext
	ids     map[string]struct{}
}

func (c *blacklistCache) load(ctx context.Context, rctx *core.RecommendContext, store BlacklistStore, key string) map[string]struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ids != nil && c.request == rctx {
		return c.ids
	}
	ids := make(map[string]struct{})
	if list, err := store.GetBlacklist(ctx, key); err == nil {
		for _, id := range list {
			ids[core.NormalizeID(id)] = struct{}{}
		}
	}
	c.request = rctx
	c.ids = ids
	return ids
}
