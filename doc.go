// Package bookrec 是基于内容的图书推荐工具包。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（recall.catalog → filter → rank.weighted → rerank.perturb → rerank.diversity）
// - Labels-first: labels 全链路透传，支持 explain 与回退原因追踪
// - 纯函数入口: recommend.GetRecommendations 不依赖全局状态，相同收藏得到相同书单
package bookrec

import (
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/recommend"
)

// 轻量 facade：便于直接 import "bookrec" 使用核心抽象。
type (
	Pipeline    = pipeline.Pipeline
	Node        = pipeline.Node
	Kind        = pipeline.Kind
	Recommender = recommend.Recommender
)

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

// GetRecommendations 见 recommend.GetRecommendations。
var GetRecommendations = recommend.GetRecommendations
