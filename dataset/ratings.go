package dataset

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rushteam/tagrec/core"
)

// RatingStore 是按用户索引的评分数据集。
// 用户只要出现在任意一条评分记录（包括取消评分）中即视为已知。
type RatingStore struct {
	byUser map[int64][]core.Rating
}

func NewRatingStore() *RatingStore {
	return &RatingStore{byUser: make(map[int64][]core.Rating)}
}

// LoadRatings 读取评分文件，rating 字段为空的记录视为取消评分。
func LoadRatings(path string) (*RatingStore, error) {
	s := NewRatingStore()
	err := readCSV(path, func(_ int, record []string) error {
		if err := requireFields(record, 2); err != nil {
			return err
		}
		uid, err := parseID(record[0])
		if err != nil {
			return err
		}
		iid, err := parseID(record[1])
		if err != nil {
			return err
		}

		if len(record) < 3 || strings.TrimSpace(record[2]) == "" {
			s.Add(core.NewUnrating(uid, iid))
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return fmt.Errorf("invalid rating %q", record[2])
		}
		s.Add(core.NewRating(uid, iid, v))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Add 追加一条评分记录。
func (s *RatingStore) Add(r core.Rating) {
	s.byUser[r.UserID] = append(s.byUser[r.UserID], r)
}

func (s *RatingStore) UserRatings(ctx context.Context, userID int64) ([]core.Rating, bool, error) {
	ratings, ok := s.byUser[userID]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(ratings), true, nil
}

// RatedItems 返回用户有过评分记录的物品（含取消评分）。
func (s *RatingStore) RatedItems(ctx context.Context, userID int64) map[int64]struct{} {
	out := make(map[int64]struct{}, len(s.byUser[userID]))
	for _, r := range s.byUser[userID] {
		out[r.ItemID] = struct{}{}
	}
	return out
}

var (
	_ core.RatingDAO    = (*RatingStore)(nil)
	_ core.RatedItemDAO = (*RatingStore)(nil)
)
