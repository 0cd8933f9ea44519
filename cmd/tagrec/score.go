package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/rank"
)

func scoreCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "score <user> <item...>",
		Short: "Print the TF-IDF cosine score of items for a user",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, opts.cfg, false)
			if err != nil {
				return err
			}
			defer s.Close()

			uid, ok := resolveUser(ctx, s, args[0])
			if !ok {
				return core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput, "cannot parse user "+args[0])
			}

			items := make([]int64, 0, len(args)-1)
			for _, a := range args[1:] {
				id, err := strconv.ParseInt(a, 10, 64)
				if err != nil {
					return core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput, "cannot parse item "+a)
				}
				items = append(items, id)
			}

			scores, err := rank.NewTFIDFScorer(s.model, s.ratings).Score(ctx, uid, items)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "scores for user %d:\n", uid)
			for _, id := range items {
				if v, ok := scores[id]; ok {
					fmt.Fprintf(w, "  %d: %.4f\n", id, v)
				} else {
					fmt.Fprintf(w, "  %d: no score\n", id)
				}
			}
			return nil
		},
	}
}
