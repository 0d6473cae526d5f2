package core

// PreferenceProfile 是由收藏书派生的偏好画像。
//
// 生命周期：每次推荐请求开始时创建，请求结束后丢弃，不做持久化。
//
//	维度           作用
//	TopGenres      类型匹配 / 类型多样性
//	TopAuthors     作者匹配
//	MeanYear       年代接近度
//	MeanRating     评分接近度
//	GenreCounts    类型权重
//	SimilarIDs     相似书命中
type PreferenceProfile struct {
	// TopGenres 按频次降序，同频按首次出现顺序，最多 5 个
	TopGenres []string

	// TopAuthors 按频次降序，同频按首次出现顺序，最多 3 个
	TopAuthors []string

	MeanYear   float64
	MeanRating float64

	// GenreCounts 是全部类型的频次
	GenreCounts map[string]int

	// SimilarIDs 是所有收藏声明的相似书 ID 并集
	SimilarIDs map[string]struct{}

	// FavoriteIDs 是解析到书目中的收藏 ID
	FavoriteIDs map[string]struct{}
}

// HasTopGenre 判断 genre 是否为用户 top 类型。
func (p *PreferenceProfile) HasTopGenre(genre string) bool {
	for _, g := range p.TopGenres {
		if g == genre {
			return true
		}
	}
	return false
}

// HasTopAuthor 判断 author 是否为用户 top 作者。
func (p *PreferenceProfile) HasTopAuthor(author string) bool {
	for _, a := range p.TopAuthors {
		if a == author {
			return true
		}
	}
	return false
}

// MaxGenreCount 返回最高的类型频次。
func (p *PreferenceProfile) MaxGenreCount() int {
	maxCount := 0
	for _, c := range p.GenreCounts {
		if c > maxCount {
			maxCount = c
		}
	}
	return maxCount
}

// IsSimilar 判断 id 是否被收藏列为相似书。
func (p *PreferenceProfile) IsSimilar(id string) bool {
	_, ok := p.SimilarIDs[id]
	return ok
}
