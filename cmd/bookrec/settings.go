package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix 是环境变量前缀，例如 BOOKREC_WORKS、BOOKREC_CACHE_TTL。
const EnvPrefix = "BOOKREC_"

// DefaultConfigPaths 未指定 --config 时依次查找的配置文件。
var DefaultConfigPaths = []string{
	"bookrec.yaml",
	"bookrec.yml",
}

// Settings 是 CLI 的全部配置。优先级：默认值 < 配置文件 < 环境变量 < 命令行参数。
type Settings struct {
	// Works 书目 CSV，本地路径或 http(s) URL
	Works string `koanf:"works"`

	// Reviews 评论 CSV，可选；stats 命令汇总，EnrichStats 开启时补全缺失的评分信号
	Reviews string `koanf:"reviews"`

	// EnrichStats 开启后在过滤前用评论聚合或在线特征库修正候选书的评分信号，
	// 会改变哪些书通过 signal / min_rating_count 过滤；默认关闭
	EnrichStats bool `koanf:"enrich_stats"`

	// Pipeline 自定义 Pipeline YAML，为空时使用默认链路
	Pipeline string `koanf:"pipeline"`

	TopN         int           `koanf:"top_n" validate:"gte=1,lte=1000"`
	FetchTimeout time.Duration `koanf:"fetch_timeout" validate:"gt=0"`

	Log   LogSettings   `koanf:"log"`
	Cache CacheSettings `koanf:"cache"`
	Feast FeastSettings `koanf:"feast"`
}

type LogSettings struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// CacheSettings 推荐结果缓存。Backend 为 none 时不缓存。
type CacheSettings struct {
	Backend  string        `koanf:"backend" validate:"oneof=none memory redis"`
	Addr     string        `koanf:"addr" validate:"required_if=Backend redis"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db" validate:"gte=0"`
	Prefix   string        `koanf:"prefix"`
	TTL      time.Duration `koanf:"ttl" validate:"gte=0"`
}

// FeastSettings 在线特征库。Endpoint 为空时不启用。
type FeastSettings struct {
	Endpoint string        `koanf:"endpoint"`
	Project  string        `koanf:"project" validate:"required_with=Endpoint"`
	Timeout  time.Duration `koanf:"timeout" validate:"gte=0"`
}

func defaultSettings() *Settings {
	return &Settings{
		Works:        "goodreads_works.csv",
		TopN:         10,
		FetchTimeout: 60 * time.Second,
		Log: LogSettings{
			Level:  "info",
			Format: "console",
		},
		Cache: CacheSettings{
			Backend: "none",
			Addr:    "localhost:6379",
			TTL:     10 * time.Minute,
		},
		Feast: FeastSettings{
			Timeout: 2 * time.Second,
		},
	}
}

// envKeys 把去掉前缀、小写后的环境变量名映射到配置路径，未列出的变量被忽略。
var envKeys = map[string]string{
	"works":          "works",
	"reviews":        "reviews",
	"enrich_stats":   "enrich_stats",
	"pipeline":       "pipeline",
	"top_n":          "top_n",
	"fetch_timeout":  "fetch_timeout",
	"log_level":      "log.level",
	"log_format":     "log.format",
	"cache_backend":  "cache.backend",
	"cache_addr":     "cache.addr",
	"cache_password": "cache.password",
	"cache_db":       "cache.db",
	"cache_prefix":   "cache.prefix",
	"cache_ttl":      "cache.ttl",
	"feast_endpoint": "feast.endpoint",
	"feast_project":  "feast.project",
	"feast_timeout":  "feast.timeout",
}

func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return envKeys[key]
}

// LoadSettings 加载配置。path 为空时查找 DefaultConfigPaths，找不到则只用默认值与环境变量。
func LoadSettings(path string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultSettings(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	s := &Settings{}
	if err := k.Unmarshal("", s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

var validate = validator.New()

// Validate 校验配置。
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid settings: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

func findConfigFile() string {
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
