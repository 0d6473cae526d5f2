package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rushteam/bookrec/core"
)

// DefaultFetchTimeout 是 Open 使用的默认 HTTP 超时。
const DefaultFetchTimeout = 60 * time.Second

const userAgent = "bookrec/1.0"

// Fetch 对 url 发起一次 GET 请求，返回响应体。
// 非 2xx 状态或网络错误返回 UNAVAILABLE，不做重试。调用方负责关闭返回值。
func Fetch(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/csv, */*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Join(unavailable(url), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, errors.Join(unavailable(url), fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}
	return resp.Body, nil
}

// Open 打开数据集：http(s) 开头的按 URL 下载，其余按本地路径打开。
func Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if IsURL(location) {
		return Fetch(ctx, nil, location)
	}
	f, err := os.Open(location)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Join(
			core.NewDomainError(core.ModuleCatalog, core.ErrorCodeNotFound, "catalog: dataset not found: "+location),
			err,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", location, err)
	}
	return f, nil
}

// IsURL 判断 location 是否为 http(s) 地址。
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func unavailable(url string) error {
	return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeUnavailable, "catalog: fetch failed: "+url)
}
