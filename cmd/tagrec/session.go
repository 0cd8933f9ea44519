package main

import (
	"context"

	"github.com/rushteam/tagrec/config"
	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/dataset"
	"github.com/rushteam/tagrec/pkg/logx"
	"github.com/rushteam/tagrec/store"
	"github.com/rushteam/tagrec/tfidf"
)

// session 持有一次命令执行所需的全部数据，加载完成后只读。
type session struct {
	cfg     *config.App
	items   *dataset.ItemStore
	ratings *dataset.RatingStore
	users   *dataset.UserStore // 未配置用户文件时为 nil
	store   core.Store
	model   *tfidf.Model
}

// openSession 读取所有数据文件，并从快照加载或重新构建模型。
func openSession(ctx context.Context, cfg *config.App, rebuild bool) (*session, error) {
	s := &session{cfg: cfg}

	var err error
	if s.items, err = dataset.LoadItems(cfg.Data.Titles, cfg.Data.Tags); err != nil {
		return nil, err
	}
	if s.ratings, err = dataset.LoadRatings(cfg.Data.Ratings); err != nil {
		return nil, err
	}
	if cfg.Data.Users != "" {
		if s.users, err = dataset.LoadUsers(cfg.Data.Users); err != nil {
			logx.Warn().Err(err).Str("path", cfg.Data.Users).Msg("user names unavailable")
			s.users = nil
		}
	}

	if s.store, err = store.Open(ctx, cfg.Store); err != nil {
		return nil, err
	}

	builder := &tfidf.ModelBuilder{DAO: s.items, Workers: cfg.Model.Workers}
	logx.Info().Str("store", s.store.Name()).Msg("building recommender")
	model, loaded, err := tfidf.LoadOrBuild(ctx, s.store, cfg.Model.SnapshotKey, builder,
		rebuild || cfg.Model.Rebuild, cfg.Store.TTL)
	if err != nil {
		_ = s.store.Close()
		return nil, err
	}
	s.model = model
	logx.Debug().Bool("from_snapshot", loaded).Int("items", model.Len()).Msg("model ready")
	return s, nil
}

// env 返回构建 pipeline node 所需的依赖。
func (s *session) env() *config.Env {
	return &config.Env{
		Model:   s.model,
		Items:   s.items,
		Ratings: s.ratings,
		Store:   s.store,
	}
}

func (s *session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
