package catalog

import (
	"errors"
	"fmt"
	"io"

	"github.com/rushteam/bookrec/core"
)

// UnknownValue 是书名、作者缺失时的占位值，带占位值的行不会进入书目。
const UnknownValue = "Unknown"

// RequiredWorkColumns 是书目 CSV 的必需列。
var RequiredWorkColumns = []string{"work_id", "original_title", "author"}

// LoadReport 记录一次加载的行数统计。
type LoadReport struct {
	Rows      int // 数据行数（不含表头）
	Kept      int
	Dropped   int // 清洗规则剔除
	Malformed int // CSV 格式错误
}

// LoadWorks 解析书目 CSV 并清洗：
//   - original_title / author 缺失时记为 "Unknown"，genres / description 缺失记为 ""
//   - work_id 非数值记为 0
//   - 书名或作者为 "Unknown"、或 work_id 为 0 的行被剔除
//   - 重复 work_id 保留第一行
//
// 缺少必需列时返回 INVALID_INPUT。
func LoadWorks(r io.Reader) (*core.Catalog, LoadReport, error) {
	var report LoadReport
	reader := newReader(r)
	h, err := readHeader(reader, core.ModuleCatalog, RequiredWorkColumns...)
	if err != nil {
		return nil, report, err
	}

	var books []*core.Book
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		report.Rows++
		if err != nil {
			report.Malformed++
			continue
		}
		b := parseWork(h, row)
		if b.Title == UnknownValue || b.Author == UnknownValue || b.ID == "0" {
			report.Dropped++
			continue
		}
		books = append(books, b)
	}

	c := core.NewCatalog(books)
	report.Kept = c.Len()
	report.Dropped += len(books) - c.Len()
	if report.Kept == 0 && report.Rows > 0 {
		return c, report, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
			fmt.Sprintf("catalog: no valid works in %d rows", report.Rows))
	}
	return c, report, nil
}

func parseWork(h header, row []string) *core.Book {
	return &core.Book{
		ID:           parseWorkID(h.get(row, "work_id")),
		Title:        orUnknown(h.get(row, "original_title")),
		Author:       orUnknown(h.get(row, "author")),
		Genres:       h.get(row, "genres"),
		Description:  h.get(row, "description"),
		Year:         parseFloat(h.get(row, "original_publication_year")),
		AvgRating:    parseFloat(h.get(row, "avg_rating")),
		RatingsCount: parseCount(h.get(row, "ratings_count")),
		SimilarBooks: h.get(row, "similar_books"),
		ImageURL:     h.get(row, "image_url"),
	}
}

func orUnknown(s string) string {
	if s == "" {
		return UnknownValue
	}
	return s
}
