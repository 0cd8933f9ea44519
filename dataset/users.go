package dataset

import (
	"context"
	"slices"
	"strings"

	"github.com/rushteam/tagrec/core"
)

// UserStore 是用户 ID 与用户名的映射。重名时后出现的记录覆盖先前的。
type UserStore struct {
	ids    []int64
	known  map[int64]struct{}
	byName map[string]int64
}

func NewUserStore() *UserStore {
	return &UserStore{
		known:  make(map[int64]struct{}),
		byName: make(map[string]int64),
	}
}

// LoadUsers 读取用户文件。
func LoadUsers(path string) (*UserStore, error) {
	s := NewUserStore()
	err := readCSV(path, func(_ int, record []string) error {
		if err := requireFields(record, 2); err != nil {
			return err
		}
		id, err := parseID(record[0])
		if err != nil {
			return err
		}
		s.Put(id, strings.Join(record[1:], ","))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *UserStore) Put(id int64, name string) {
	if _, ok := s.known[id]; !ok {
		s.known[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	s.byName[name] = id
}

func (s *UserStore) UserIDs(ctx context.Context) []int64 {
	ids := slices.Clone(s.ids)
	slices.Sort(ids)
	return ids
}

func (s *UserStore) UserByName(ctx context.Context, name string) (int64, bool) {
	id, ok := s.byName[name]
	return id, ok
}

var _ core.UserNameDAO = (*UserStore)(nil)
