package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/bookrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once

	// programs 缓存已编译的表达式
	programs   = make(map[string]cel.Program)
	programsMu sync.RWMutex
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("rctx", cel.DynType),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Compile 编译表达式并缓存，可用于在配置加载阶段提前发现语法错误。
func Compile(expr string) (cel.Program, error) {
	programsMu.RLock()
	prg, ok := programs[expr]
	programsMu.RUnlock()
	if ok {
		return prg, nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err = env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}

	programsMu.Lock()
	programs[expr] = prg
	programsMu.Unlock()
	return prg, nil
}

// Eval 是基于 CEL (Common Expression Language) 的候选书规则解释器。
//
// 可用变量：
//   - item.id / item.score / item.features
//   - item.title / item.author / item.genres / item.year / item.rating / item.ratings_count
//   - label.<key>：Label 的 value
//   - rctx.top_n / rctx.params / rctx.top_genres / rctx.top_authors
//
// 示例：
//   - `item.year != null && item.year < 1900.0` → 1900 年以前出版
//   - `item.genres.contains("poetry")` → 原始类型字段包含 poetry
//   - `item.ratings_count > 100000` → 过于大众
//   - `item.author in rctx.top_authors` → 用户最爱作者
type Eval struct {
	item *core.Item
	rctx *core.RecommendContext
}

// NewEval 创建一个新的 DSL 解释器。
func NewEval(item *core.Item, rctx *core.RecommendContext) *Eval {
	return &Eval{item: item, rctx: rctx}
}

// Evaluate 执行表达式，返回布尔结果。空表达式视为 true。
// 访问不存在的字段会返回错误，请先用 `!= null` 检查。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	prg, err := Compile(expr)
	if err != nil {
		return false, err
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]any {
	labels := make(map[string]any)
	item := map[string]any{}
	if e.item != nil {
		for k, v := range e.item.Labels {
			labels[k] = v.Value
		}
		item["id"] = e.item.ID
		item["score"] = e.item.Score
		item["features"] = e.item.Features
		item["meta"] = e.item.Meta
		if b := e.item.Book; b != nil {
			item["title"] = b.Title
			item["author"] = b.Author
			item["genres"] = b.Genres
			item["year"] = nil
			if b.Year != nil {
				item["year"] = *b.Year
			}
			item["rating"] = nil
			if b.AvgRating != nil {
				item["rating"] = *b.AvgRating
			}
			item["ratings_count"] = nil
			if b.RatingsCount != nil {
				item["ratings_count"] = *b.RatingsCount
			}
		}
	}

	rctx := map[string]any{}
	if e.rctx != nil {
		rctx["request_id"] = e.rctx.RequestID
		rctx["top_n"] = int64(e.rctx.TopN)
		rctx["params"] = e.rctx.Params
		topGenres, topAuthors := []string{}, []string{}
		if e.rctx.Profile != nil {
			topGenres = e.rctx.Profile.TopGenres
			topAuthors = e.rctx.Profile.TopAuthors
		}
		rctx["top_genres"] = topGenres
		rctx["top_authors"] = topAuthors
	}

	return map[string]any{
		"item":  item,
		"label": labels,
		"rctx":  rctx,
	}
}
