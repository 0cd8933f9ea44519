package store

import (
	"context"
	"encoding/binary"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/rushteam/tagrec/core"
)

var kvBucket = []byte("kv")

// BoltStore 是基于 bbolt 的单文件 Store。
//
// 值的前 8 字节是过期时间（UnixNano，大端序，0 表示不过期），其后为原始数据。
// 过期的 key 在读取时视为不存在，并不会主动清理。
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore 打开（或创建）path 处的数据库文件。
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "open bolt "+path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(kvBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "init bolt bucket", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Name() string { return "bolt" }

func encodeValue(value []byte, expire time.Time) []byte {
	buf := make([]byte, 8+len(value))
	if !expire.IsZero() {
		binary.BigEndian.PutUint64(buf, uint64(expire.UnixNano()))
	}
	copy(buf[8:], value)
	return buf
}

// decodeValue 返回拷贝后的数据；过期或格式错误时 ok 为 false。
func decodeValue(raw []byte, now time.Time) ([]byte, bool) {
	if len(raw) < 8 {
		return nil, false
	}
	if ns := binary.BigEndian.Uint64(raw); ns != 0 && now.UnixNano() > int64(ns) {
		return nil, false
	}
	out := make([]byte, len(raw)-8)
	copy(out, raw[8:])
	return out, true
}

func (s *BoltStore) Get(ctx context.Context, key string) ([]byte, error) {
	var val []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(kvBucket).Get([]byte(key))
		v, ok := decodeValue(raw, time.Now())
		if !ok {
			return core.ErrStoreNotFound
		}
		val = v
		return nil
	})
	return val, err
}

func (s *BoltStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(kvBucket).Put([]byte(key), encodeValue(value, expiresAt(ttl)))
	})
}

func (s *BoltStore) Delete(ctx context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(kvBucket).Delete([]byte(key))
	})
}

func (s *BoltStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	result := make(map[string][]byte, len(keys))
	now := time.Now()
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(kvBucket)
		for _, k := range keys {
			if v, ok := decodeValue(b.Get([]byte(k)), now); ok {
				result[k] = v
			}
		}
		return nil
	})
	return result, err
}

func (s *BoltStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	expire := expiresAt(ttl)
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(kvBucket)
		for k, v := range kvs {
			if err := b.Put([]byte(k), encodeValue(v, expire)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

var _ core.Store = (*BoltStore)(nil)
