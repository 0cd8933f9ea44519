// Package store 提供 core.Store 的实现，用于保存 TF-IDF 模型快照。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
// 示例：
//
//	var s core.Store = store.NewMemoryStore()
//	s, err := store.Open(ctx, store.Config{Driver: "bolt", Path: "tagrec.db"})
package store

import "time"

// expiresAt 将秒级 ttl 转为过期时间；ttl 缺省或 <=0 时返回零值（不过期）。
func expiresAt(ttl []int) time.Time {
	if len(ttl) > 0 && ttl[0] > 0 {
		return time.Now().Add(time.Duration(ttl[0]) * time.Second)
	}
	return time.Time{}
}

func expired(at time.Time, now time.Time) bool {
	return !at.IsZero() && now.After(at)
}
