package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pkg/logx"
	"github.com/rushteam/tagrec/store"
	"github.com/rushteam/tagrec/tfidf"
)

// EnvPrefix 是环境变量前缀：TAGREC_DATA_RATINGS -> data.ratings
const EnvPrefix = "TAGREC_"

// DefaultConfigPaths 未显式指定配置文件时依次查找，使用第一个存在的文件。
var DefaultConfigPaths = []string{
	"tagrec.yaml",
	"tagrec.yml",
}

// App 是命令行程序的完整配置。
// 加载顺序：结构体默认值 -> YAML 文件 -> 环境变量（优先级最高）。
type App struct {
	Data      DataConfig      `koanf:"data"`
	Model     ModelConfig     `koanf:"model"`
	Store     store.Config    `koanf:"store"`
	Recommend RecommendConfig `koanf:"recommend"`
	Log       logx.Config     `koanf:"log"`
}

// DataConfig 是 CSV 数据文件路径。
type DataConfig struct {
	Titles  string `koanf:"titles"`
	Tags    string `koanf:"tags"`
	Users   string `koanf:"users"`
	Ratings string `koanf:"ratings"`
}

type ModelConfig struct {
	// Workers 构建并发数，0 表示 GOMAXPROCS
	Workers int `koanf:"workers"`

	// SnapshotKey 模型快照在 store 中的 key
	SnapshotKey string `koanf:"snapshot_key"`

	// Rebuild 忽略已有快照，强制重新构建
	Rebuild bool `koanf:"rebuild"`
}

type RecommendConfig struct {
	// TopN 每个用户输出的推荐数
	TopN int `koanf:"top_n"`

	// Concurrency 同时处理的用户数
	Concurrency int `koanf:"concurrency"`

	// Pipeline 可选的 pipeline YAML 文件，为空时使用内置 pipeline
	Pipeline string `koanf:"pipeline"`
}

// Default 返回默认配置。
func Default() *App {
	return &App{
		Data: DataConfig{
			Titles:  "data/movie-titles.csv",
			Tags:    "data/movie-tags.csv",
			Users:   "data/users.csv",
			Ratings: "data/ratings.csv",
		},
		Model: ModelConfig{
			SnapshotKey: tfidf.DefaultSnapshotKey,
		},
		Store: store.Config{
			Driver: store.DriverMemory,
			Prefix: "tagrec:",
		},
		Recommend: RecommendConfig{
			TopN:        5,
			Concurrency: 4,
		},
		Log: logx.Config{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load 加载配置。path 为空时查找 DefaultConfigPaths，都不存在则只使用默认值和环境变量。
func Load(path string) (*App, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, core.WrapDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, "load config file "+path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &App{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, core.WrapDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, "unmarshal config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransformFunc 将环境变量名转换为 koanf 路径，只有第一个下划线是层级分隔：
// TAGREC_MODEL_SNAPSHOT_KEY -> model.snapshot_key
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, field, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	return section + "." + field
}

// Validate 校验配置取值。
func (c *App) Validate() error {
	invalid := func(msg string) error {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, msg)
	}

	switch {
	case c.Data.Titles == "" || c.Data.Tags == "":
		return invalid("data.titles and data.tags are required")
	case c.Data.Ratings == "":
		return invalid("data.ratings is required")
	case c.Model.Workers < 0:
		return invalid("model.workers must be >= 0")
	case c.Recommend.TopN < 0:
		return invalid("recommend.top_n must be >= 0")
	case c.Recommend.Concurrency < 1:
		return invalid("recommend.concurrency must be >= 1")
	}

	switch c.Store.Driver {
	case store.DriverMemory, store.DriverRedis, store.DriverBolt, store.DriverSQLite:
	default:
		return invalid(fmt.Sprintf("unknown store.driver %q", c.Store.Driver))
	}
	return nil
}
