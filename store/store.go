// Package store 提供 core.Store 的实现：
//   - MemoryStore：进程内，带 TTL，用于单机 CLI 与测试
//   - RedisStore：go-redis，用于多实例共享推荐结果缓存与黑名单
//
// 接口定义在 core 包。
//
// 示例：
//
//	var cache core.Store = store.NewMemoryStore()
package store

import "github.com/rushteam/bookrec/core"

// ErrNotFound 是 core.ErrStoreNotFound 的别名。
var ErrNotFound = core.ErrStoreNotFound
