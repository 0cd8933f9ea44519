package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/tagrec/config"
	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pipeline"
	"github.com/rushteam/tagrec/pkg/logx"
)

func recommendCmd(opts *options) *cobra.Command {
	var (
		topN         int
		titles       bool
		pipelinePath string
	)

	cmd := &cobra.Command{
		Use:   "recommend [user...]",
		Short: "Print top-N recommendations for each user (by id or name)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("top") {
				cfg.Recommend.TopN = topN
			}
			if pipelinePath != "" {
				cfg.Recommend.Pipeline = pipelinePath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if len(args) == 0 {
				logx.Error().Msg("no users specified; provide user IDs as command line arguments")
				return nil
			}

			ctx := cmd.Context()
			s, err := openSession(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := buildPipeline(s, cfg)
			if err != nil {
				return err
			}
			return runRecommend(ctx, cmd.OutOrStdout(), s, p, args, titles)
		},
	}

	cmd.Flags().IntVarP(&topN, "top", "n", 5, "number of recommendations per user")
	cmd.Flags().BoolVar(&titles, "titles", false, "print item titles")
	cmd.Flags().StringVar(&pipelinePath, "pipeline", "", "pipeline YAML file (default: built-in)")
	return cmd
}

func buildPipeline(s *session, cfg *config.App) (*pipeline.Pipeline, error) {
	pcfg := config.DefaultPipelineConfig(cfg.Recommend.TopN)
	if cfg.Recommend.Pipeline != "" {
		var err error
		if pcfg, err = pipeline.LoadFromYAML(cfg.Recommend.Pipeline); err != nil {
			return nil, err
		}
	}
	if err := config.ValidatePipelineConfig(pcfg); err != nil {
		return nil, err
	}
	return pcfg.BuildPipeline(config.NodeFactory(s.env()))
}

// resolveUser 解析命令行中的用户：先按数字 ID，再按用户名。
func resolveUser(ctx context.Context, s *session, arg string) (int64, bool) {
	if uid, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return uid, true
	}
	if s.users != nil {
		if uid, ok := s.users.UserByName(ctx, arg); ok {
			return uid, true
		}
	}
	return 0, false
}

// runRecommend 并发为多个用户运行 pipeline，按参数顺序输出。
func runRecommend(ctx context.Context, w io.Writer, s *session, p *pipeline.Pipeline, args []string, titles bool) error {
	var uids []int64
	for _, arg := range args {
		uid, ok := resolveUser(ctx, s, arg)
		if !ok {
			logx.Error().Str("user", arg).Msg("cannot parse user")
			continue
		}
		uids = append(uids, uid)
	}

	results := make([][]*core.Item, len(uids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Recommend.Concurrency)
	for i, uid := range uids {
		g.Go(func() error {
			rctx := core.NewRecommendContext(uid)
			logx.Info().Int64("user", uid).Str("request_id", rctx.RequestID).Msg("searching for recommendations")
			items, err := p.Run(gctx, rctx, nil)
			if err != nil {
				return fmt.Errorf("recommend for user %d: %w", uid, err)
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, uid := range uids {
		recs := results[i]
		if len(recs) == 0 {
			logx.Warn().Int64("user", uid).Msg("no recommendations for user, do they exist?")
		}
		fmt.Fprintf(w, "recommendations for user %d:\n", uid)
		for _, it := range recs {
			if titles {
				title, _ := s.items.ItemTitle(ctx, it.ID)
				fmt.Fprintf(w, "  %d: %.4f %s\n", it.ID, it.Score, title)
				continue
			}
			fmt.Fprintf(w, "  %d: %.4f\n", it.ID, it.Score)
		}
	}
	return nil
}
