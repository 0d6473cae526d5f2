package catalog

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/textnorm"
)

const (
	// MinQueryLen 是最短查询长度（字符数），更短的查询不返回结果
	MinQueryLen = 3

	// DefaultSearchLimit 是默认返回条数
	DefaultSearchLimit = 15
)

// Index 是书目的搜索索引，预先计算小写的 "title author genres" 文本。
// 构建后只读，可并发使用。
type Index struct {
	books []*core.Book
	text  []string
}

// NewIndex 为书目构建搜索索引。
func NewIndex(c *core.Catalog) *Index {
	books := c.Books()
	idx := &Index{books: books, text: make([]string, len(books))}
	for i, b := range books {
		idx.text[i] = textnorm.Lower(b.Title + " " + b.Author + " " + b.Genres)
	}
	return idx
}

// Search 做大小写不敏感的子串匹配，结果按评分人数降序（无评分人数的排最后），
// 最多返回 limit 条（<=0 时为 15）。
func (idx *Index) Search(query string, limit int) []*core.Book {
	if utf8.RuneCountInString(query) < MinQueryLen {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := textnorm.Lower(query)

	var out []*core.Book
	for i, text := range idx.text {
		if strings.Contains(text, q) {
			out = append(out, idx.books[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].RatingsCount, out[j].RatingsCount
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a > *b
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Search 是一次性搜索的便捷函数；多次查询请复用 Index。
func Search(c *core.Catalog, query string, limit int) []*core.Book {
	if utf8.RuneCountInString(query) < MinQueryLen {
		return nil
	}
	return NewIndex(c).Search(query, limit)
}
