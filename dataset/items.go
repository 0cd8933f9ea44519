package dataset

import (
	"context"
	"slices"
	"strings"

	"github.com/rushteam/tagrec/core"
)

// ItemStore 是物品标题与标签的内存数据集。
//
// 物品全集来自标题；标签文件中出现但没有标题的物品，其标签仍计入词表，
// 但物品本身不参与建模。
type ItemStore struct {
	ids    []int64
	titles map[int64]string
	tags   map[int64][]string
	vocab  []string
	seen   map[string]struct{}
}

func NewItemStore() *ItemStore {
	return &ItemStore{
		titles: make(map[int64]string),
		tags:   make(map[int64][]string),
		seen:   make(map[string]struct{}),
	}
}

// LoadItems 读取标题文件和标签文件。
func LoadItems(titlesPath, tagsPath string) (*ItemStore, error) {
	s := NewItemStore()

	err := readCSV(titlesPath, func(_ int, record []string) error {
		if err := requireFields(record, 2); err != nil {
			return err
		}
		id, err := parseID(record[0])
		if err != nil {
			return err
		}
		// 未加引号的标题可能包含逗号
		s.PutItem(id, strings.Join(record[1:], ","))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readCSV(tagsPath, func(_ int, record []string) error {
		if err := requireFields(record, 2); err != nil {
			return err
		}
		id, err := parseID(record[0])
		if err != nil {
			return err
		}
		s.AddTags(id, record[1])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// PutItem 登记物品及其标题，重复登记只更新标题。
func (s *ItemStore) PutItem(id int64, title string) {
	if _, ok := s.titles[id]; !ok {
		s.ids = append(s.ids, id)
	}
	s.titles[id] = title
}

// AddTags 为物品追加标签（保留重复），并按首次出现顺序扩充词表。
func (s *ItemStore) AddTags(id int64, tags ...string) {
	for _, tag := range tags {
		s.tags[id] = append(s.tags[id], tag)
		if _, ok := s.seen[tag]; !ok {
			s.seen[tag] = struct{}{}
			s.vocab = append(s.vocab, tag)
		}
	}
}

// ItemIDs 返回物品 ID（升序）。
func (s *ItemStore) ItemIDs(ctx context.Context) ([]int64, error) {
	ids := slices.Clone(s.ids)
	slices.Sort(ids)
	return ids, nil
}

func (s *ItemStore) ItemTags(ctx context.Context, itemID int64) ([]string, error) {
	return slices.Clone(s.tags[itemID]), nil
}

func (s *ItemStore) TagVocabulary(ctx context.Context) ([]string, error) {
	return slices.Clone(s.vocab), nil
}

func (s *ItemStore) ItemTitle(ctx context.Context, itemID int64) (string, bool) {
	title, ok := s.titles[itemID]
	return title, ok
}

var (
	_ core.ItemTagDAO   = (*ItemStore)(nil)
	_ core.ItemTitleDAO = (*ItemStore)(nil)
)
