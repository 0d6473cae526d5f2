package core

// RecommendConfig 是推荐引擎相关的配置接口，用于提供默认值。
type RecommendConfig interface {
	// DefaultTopN 返回默认推荐数量
	DefaultTopN() int

	// DefaultMinRatingCount 返回候选书最少评分人数（噪声下限）
	DefaultMinRatingCount() int64

	// DefaultTopGenres 返回画像保留的 top 类型数
	DefaultTopGenres() int

	// DefaultTopAuthors 返回画像保留的 top 作者数
	DefaultTopAuthors() int

	// DefaultYear 返回收藏都没有年份时的偏好年份
	DefaultYear() float64

	// DefaultRating 返回收藏都没有评分时的偏好评分
	DefaultRating() float64

	// DefaultNoiseStdDev 返回扰动噪声的标准差
	DefaultNoiseStdDev() float64

	// DefaultPoolFactor / DefaultPoolCap 决定扰动池大小 min(factor*N, cap)
	DefaultPoolFactor() int
	DefaultPoolCap() int

	// DefaultAuthorCap 返回同一作者最多入选数
	DefaultAuthorCap() int

	// DefaultMinGenreCap 返回主类型上限的下界，实际上限为 max(下界, N/3)
	DefaultMinGenreCap() int
}

// DefaultRecommendConfig 是默认的推荐配置实现。
type DefaultRecommendConfig struct{}

func (c *DefaultRecommendConfig) DefaultTopN() int { return 10 }
func (c *DefaultRecommendConfig) DefaultMinRatingCount() int64 { return 50 }
func (c *DefaultRecommendConfig) DefaultTopGenres() int { return 5 }
func (c *DefaultRecommendConfig) DefaultTopAuthors() int { return 3 }
func (c *DefaultRecommendConfig) DefaultYear() float64 { return 2000 }
func (c *DefaultRecommendConfig) DefaultRating() float64 { return 4.0 }
func (c *DefaultRecommendConfig) DefaultNoiseStdDev() float64 { return 0.1 }
func (c *DefaultRecommendConfig) DefaultPoolFactor() int { return 3 }
func (c *DefaultRecommendConfig) DefaultPoolCap() int { return 30 }
func (c *DefaultRecommendConfig) DefaultAuthorCap() int { return 2 }
func (c *DefaultRecommendConfig) DefaultMinGenreCap() int { return 2 }

var _ RecommendConfig = (*DefaultRecommendConfig)(nil)
