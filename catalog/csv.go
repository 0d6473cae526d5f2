package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rushteam/bookrec/core"
)

// header 是列名到下标的映射，列名 trim 并小写。
type header map[string]int

func newHeader(cols []string) header {
	h := make(header, len(cols))
	for i, c := range cols {
		if i == 0 {
			c = strings.TrimPrefix(c, "\ufeff")
		}
		h[strings.ToLower(strings.TrimSpace(c))] = i
	}
	return h
}

// missing 返回不存在的必需列。
func (h header) missing(required ...string) []string {
	var out []string
	for _, c := range required {
		if _, ok := h[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// get 返回列值，列不存在或越界时返回 ""。
func (h header) get(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader
}

// readHeader 读取表头并检查必需列。
func readHeader(reader *csv.Reader, module string, required ...string) (header, error) {
	cols, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, core.NewDomainError(module, core.ErrorCodeInvalidInput, "catalog: empty csv")
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: read header: %w", err)
	}
	h := newHeader(cols)
	if miss := h.missing(required...); len(miss) > 0 {
		return nil, core.NewDomainError(module, core.ErrorCodeInvalidInput,
			fmt.Sprintf("catalog: missing required columns: %v", miss))
	}
	return h, nil
}

// parseFloat 解析可空数值，空串、非法值以及 NaN / ±Inf 返回 nil。
func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseCount 解析计数列，兼容 "1200.0" 这种浮点写法。
func parseCount(s string) *int64 {
	f := parseFloat(s)
	if f == nil {
		return nil
	}
	n := int64(*f)
	return &n
}

// parseWorkID 解析 work_id：数值取整后转回十进制字符串，非数值返回 "0"。
func parseWorkID(s string) string {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	if f := parseFloat(s); f != nil {
		return strconv.FormatInt(int64(*f), 10)
	}
	return "0"
}
