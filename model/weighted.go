package model

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/rushteam/bookrec/core"
)

// WeightedModel 对子分数做线性加权求和（不做 Sigmoid 变换）。
//
//	score = sum(Weight_i * Feature_i)
//
// 权重表之外的特征被忽略，缺失的特征按 0 计。
// 求和顺序固定为 core.FeatureKeys，其余自定义 key 按字典序排在之后。
type WeightedModel struct {
	Weights map[string]float64

	order []string
}

// DefaultWeights 返回默认权重，合计为 1。
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		core.FeatureSimilarity:     0.35,
		core.FeatureGenre:          0.25,
		core.FeatureRating:         0.20,
		core.FeatureAuthor:         0.10,
		core.FeatureYear:           0.05,
		core.FeatureDiversity:      0.03,
		core.FeatureGenreDiversity: 0.02,
	}
}

// NewWeightedModel 创建加权模型；weights 为空时使用默认权重。
func NewWeightedModel(weights map[string]float64) *WeightedModel {
	if len(weights) == 0 {
		weights = DefaultWeights()
	}
	return &WeightedModel{Weights: weights, order: weightOrder(weights)}
}

// weightOrder 返回确定的求和顺序。
func weightOrder(weights map[string]float64) []string {
	order := make([]string, 0, len(weights))
	known := make(map[string]struct{}, len(core.FeatureKeys))
	for _, k := range core.FeatureKeys {
		known[k] = struct{}{}
		if _, ok := weights[k]; ok {
			order = append(order, k)
		}
	}
	extra := make([]string, 0)
	for k := range weights {
		if _, ok := known[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}

// SumWeights 按固定顺序累加权重。
func (m *WeightedModel) SumWeights() float64 {
	var sum float64
	for _, k := range m.keys() {
		sum += m.Weights[k]
	}
	return sum
}

func (m *WeightedModel) keys() []string {
	if len(m.order) != len(m.Weights) {
		// Weights 在构造后被直接修改
		return weightOrder(m.Weights)
	}
	return m.order
}

// LoadWeightedModel 从 JSON 文件加载权重，格式：{"weights": {"similarity_score": 0.35, ...}}
func LoadWeightedModel(path string) (*WeightedModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw struct {
		Weights map[string]float64 `json:"weights"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("weighted model: %w", err)
	}
	return NewWeightedModel(raw.Weights), nil
}

func (m *WeightedModel) Name() string { return "weighted" }

func (m *WeightedModel) Predict(features map[string]float64) (float64, error) {
	var score float64
	for _, k := range m.keys() {
		// 显式转换避免乘加融合，保证各平台结果一致
		score += float64(m.Weights[k] * features[k])
	}
	return score, nil
}

var _ RankModel = (*WeightedModel)(nil)
