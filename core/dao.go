package core

import "context"

// ItemDAO 提供物品全集。
type ItemDAO interface {
	// ItemIDs 返回所有已知物品 ID
	ItemIDs(ctx context.Context) ([]int64, error)
}

// ItemTagDAO 提供物品的标签数据，是 TF-IDF 模型的语料来源。
type ItemTagDAO interface {
	ItemDAO

	// ItemTags 返回物品的标签列表。
	// 同一标签被多个用户打上时会重复出现，每次出现都计入词频。
	ItemTags(ctx context.Context, itemID int64) ([]string, error)

	// TagVocabulary 返回所有已知标签（去重，按首次出现顺序）
	TagVocabulary(ctx context.Context) ([]string, error)
}

// ItemTitleDAO 提供物品标题，用于展示。
type ItemTitleDAO interface {
	ItemTitle(ctx context.Context, itemID int64) (string, bool)
}

// RatingDAO 提供用户评分历史。
type RatingDAO interface {
	// UserRatings 返回用户的评分。
	// found 为 false 表示用户完全未知（没有任何评分历史），
	// 与“已知用户但评分列表为空”区分开。
	UserRatings(ctx context.Context, userID int64) (ratings []Rating, found bool, err error)
}

// RatedItemDAO 提供用户有过评分记录（含取消评分）的物品集合，未知用户返回空集合。
type RatedItemDAO interface {
	RatedItems(ctx context.Context, userID int64) map[int64]struct{}
}

// UserNameDAO 提供用户名到用户 ID 的映射。
type UserNameDAO interface {
	UserIDs(ctx context.Context) []int64
	UserByName(ctx context.Context, name string) (int64, bool)
}
