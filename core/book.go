package core

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Book 是书目中的一行。
// 可空的数值字段使用指针表示（nil = 缺失）。
type Book struct {
	ID           string   // 规范化后的 work_id，用于 join
	Title        string
	Author       string
	Genres       string   // 逗号分隔，大小写不敏感
	Year         *float64 // original_publication_year
	AvgRating    *float64 // 0-5
	RatingsCount *int64   // 热度代理
	SimilarBooks string   // 逗号分隔的相似书 ID
	Description  string
	ImageURL     string
}

// Clone 返回浅拷贝；指针字段重新分配，修改副本不会影响书目。
func (b *Book) Clone() *Book {
	if b == nil {
		return nil
	}
	c := *b
	if b.Year != nil {
		v := *b.Year
		c.Year = &v
	}
	if b.AvgRating != nil {
		v := *b.AvgRating
		c.AvgRating = &v
	}
	if b.RatingsCount != nil {
		v := *b.RatingsCount
		c.RatingsCount = &v
	}
	return &c
}

// Favorite 是调用方提交的（标题, ID）对，每次请求重新提供，不做持久化。
type Favorite struct {
	Title string `json:"title"`
	ID    string `json:"id"`
}

// NormalizeID 把 ID 统一成可比较的字符串形式。
// 纯数字去掉前导零（"0101" 与 "101" 等价），其余只做 trim。
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || !isDigits(id) {
		return id
	}
	trimmed := strings.TrimLeft(id, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// ParseIDList 解析逗号分隔的 ID 列表，非数字 token 被跳过。
func ParseIDList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || !isDigits(p) {
			continue
		}
		out = append(out, NormalizeID(p))
	}
	return out
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Catalog 是只读的书目快照，保持输入顺序并带 ID 索引。
// 构建后不应再修改，可在多个 goroutine 间共享。
type Catalog struct {
	books []*Book
	index map[string]int
	fp    uint64
}

// NewCatalog 构建书目；每本书先复制再规范化 ID，调用方的 books 不会被修改。
// 重复 ID 保留第一条。
func NewCatalog(books []*Book) *Catalog {
	c := &Catalog{
		books: make([]*Book, 0, len(books)),
		index: make(map[string]int, len(books)),
	}
	d := xxhash.New()
	for _, b := range books {
		if b == nil {
			continue
		}
		b = b.Clone()
		b.ID = NormalizeID(b.ID)
		if _, dup := c.index[b.ID]; dup {
			continue
		}
		c.index[b.ID] = len(c.books)
		c.books = append(c.books, b)
		_, _ = d.WriteString(b.ID)
		_, _ = d.WriteString(",")
	}
	c.fp = d.Sum64()
	return c
}

// Len 返回书目数量。
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.books)
}

// Books 返回按输入顺序排列的全部书目（只读）。
func (c *Catalog) Books() []*Book {
	if c == nil {
		return nil
	}
	return c.books
}

// Get 按 ID 查找。
func (c *Catalog) Get(id string) (*Book, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.index[NormalizeID(id)]
	if !ok {
		return nil, false
	}
	return c.books[i], true
}

// Head 返回前 n 本书。
func (c *Catalog) Head(n int) []*Book {
	if c == nil || n <= 0 {
		return nil
	}
	if n > len(c.books) {
		n = len(c.books)
	}
	out := make([]*Book, n)
	copy(out, c.books[:n])
	return out
}

// Resolve 返回 ids 中存在于书目的书，按书目顺序排列。
func (c *Catalog) Resolve(ids map[string]struct{}) []*Book {
	if c == nil || len(ids) == 0 {
		return nil
	}
	out := make([]*Book, 0, len(ids))
	for _, b := range c.books {
		if _, ok := ids[b.ID]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Fingerprint 是书目 ID 序列的 xxhash，用于缓存 key。
func (c *Catalog) Fingerprint() string {
	if c == nil {
		return "0"
	}
	return strconv.FormatUint(c.fp, 16)
}
