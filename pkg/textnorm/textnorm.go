// Package textnorm 负责书目自由文本字段的规范化：类型 token 切分、大小写折叠。
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnknownGenre 是没有任何类型时使用的主类型。
const UnknownGenre = "unknown"

// Lower 对文本做 Unicode 小写。
// cases.Caser 有状态，不能跨 goroutine 共享，所以每次调用新建。
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// SplitGenres 按逗号切分类型字段，trim 并小写，空 token 被跳过。
// 保留原始顺序与重复项。
func SplitGenres(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	caser := cases.Lower(language.Und)
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, caser.String(p))
	}
	return out
}

// GenreSet 返回去重后的类型集合。
func GenreSet(s string) map[string]struct{} {
	genres := SplitGenres(s)
	set := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		set[g] = struct{}{}
	}
	return set
}

// MainGenre 返回第一个类型；没有类型时返回 "unknown"。
func MainGenre(s string) string {
	genres := SplitGenres(s)
	if len(genres) == 0 {
		return UnknownGenre
	}
	return genres[0]
}
