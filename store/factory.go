package store

import (
	"context"
	"fmt"

	"github.com/rushteam/tagrec/core"
)

// 支持的存储驱动
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

// Config 是模型快照存储的配置。
type Config struct {
	// Driver: memory / redis / bolt / sqlite
	Driver string `koanf:"driver"`

	// Redis
	Addr   string `koanf:"addr"`
	DB     int    `koanf:"db"`
	Prefix string `koanf:"prefix"`

	// Bolt / SQLite 文件路径
	Path string `koanf:"path"`

	// TTL 快照过期时间（秒），<=0 不过期
	TTL int `koanf:"ttl"`
}

// Open 按配置创建 Store。
func Open(ctx context.Context, cfg Config) (core.Store, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverRedis:
		if cfg.Addr == "" {
			return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, "store.addr is required for redis")
		}
		return NewRedisStore(ctx, cfg.Addr, cfg.DB, cfg.Prefix)
	case DriverBolt:
		if cfg.Path == "" {
			return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, "store.path is required for bolt")
		}
		return NewBoltStore(cfg.Path)
	case DriverSQLite:
		if cfg.Path == "" {
			return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, "store.path is required for sqlite")
		}
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeNotSupported,
			fmt.Sprintf("unknown store driver %q", cfg.Driver))
	}
}
