package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pipeline"
)

// 使用配置驱动时，需在 main 或入口处 import _ "github.com/rushteam/bookrec/config/builders"
// 以触发内置 Node（recall.catalog、filter、rank.weighted、rerank.diversity 等）的 init 注册。

// Resources 是构建 Node 时可注入的外部依赖，字段可为空。
type Resources struct {
	// Store 黑名单存储（filter.exclude 的 key）
	Store core.Store

	// Stats 评分统计服务（feature.stats）
	Stats core.BookStatsService

	// Settings 引擎常量，为空时使用 core.DefaultRecommendConfig
	Settings core.RecommendConfig
}

// RecommendConfig 返回 Settings，未设置时返回默认配置。
func (r Resources) RecommendConfig() core.RecommendConfig {
	if r.Settings == nil {
		return &core.DefaultRecommendConfig{}
	}
	return r.Settings
}

// Builder 根据 Resources 与 node config 构建 Node。
// 各组件在 init 中调用 Register(typeName, builder) 即可被配置驱动。
type Builder func(res Resources, cfg map[string]interface{}) (pipeline.Node, error)

var (
	defaultBuilders   = make(map[string]Builder)
	defaultBuildersMu sync.RWMutex
)

// Register 注册一种 Node 的构建逻辑，供 Factory 与配置驱动使用。
// 建议在各组件的 init 中调用，例如：func init() { config.Register("rerank.topn", BuildTopNNode) }
func Register(typeName string, builder Builder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[typeName] = builder
}

// SupportedTypes 返回当前已注册的 Node 类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	types := make([]string, 0, len(defaultBuilders))
	for t := range defaultBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Factory 返回绑定了 res 的 NodeFactory，包含所有通过 Register 注册的 Node 类型。
func Factory(res Resources) *pipeline.NodeFactory {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range defaultBuilders {
		f.Register(typeName, func(cfg map[string]interface{}) (pipeline.Node, error) {
			return builder(res, cfg)
		})
	}
	return f
}

// DefaultFactory 返回不带外部依赖的 NodeFactory。
func DefaultFactory() *pipeline.NodeFactory {
	return Factory(Resources{})
}

// ValidatePipelineConfig 校验 pipeline 配置中所有 node 类型均已注册；若有未支持类型则返回包含已支持列表的错误。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil {
		return nil
	}
	supported := SupportedTypes()
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	for _, nc := range cfg.Pipeline.Nodes {
		if nc.Type == "" {
			return fmt.Errorf("node type is empty (supported: %v)", supported)
		}
		if _, ok := defaultBuilders[nc.Type]; !ok {
			return fmt.Errorf("unsupported node type %q (supported: %v)", nc.Type, supported)
		}
	}
	return nil
}

// Build 校验并构建 pipeline。
func Build(cfg *pipeline.Config, res Resources) (*pipeline.Pipeline, error) {
	if err := ValidatePipelineConfig(cfg); err != nil {
		return nil, err
	}
	return cfg.BuildPipeline(Factory(res))
}
