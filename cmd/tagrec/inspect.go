package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rushteam/tagrec/core"
)

func inspectCmd(opts *options) *cobra.Command {
	var (
		itemID int64
		tag    string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show vocabulary size, an item's TF-IDF vector, or a tag's IDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, opts.cfg, false)
			if err != nil {
				return err
			}
			defer s.Close()

			w := cmd.OutOrStdout()
			vocab := s.model.Vocabulary()
			fmt.Fprintf(w, "items: %d\ntags: %d\n", s.model.Len(), vocab.Len())

			if cmd.Flags().Changed("item") {
				if !s.model.HasItem(itemID) {
					return core.NewDomainError(core.ModuleModel, core.ErrorCodeNotFound, fmt.Sprintf("item %d not in model", itemID))
				}
				title, _ := s.items.ItemTitle(ctx, itemID)
				fmt.Fprintf(w, "item %d: %s\n", itemID, title)
				s.model.ItemVector(itemID).Each(func(tagID int64, weight float64) {
					name, _ := vocab.Tag(tagID)
					fmt.Fprintf(w, "  %s: %.4f\n", name, weight)
				})
			}

			if tag != "" {
				id, ok := vocab.ID(tag)
				if !ok {
					return core.NewDomainError(core.ModuleModel, core.ErrorCodeNotFound, fmt.Sprintf("tag %q not in vocabulary", tag))
				}
				fmt.Fprintf(w, "tag %q: id %d, idf %.4f\n", tag, id, s.model.IDF().GetOr(id, 0))
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&itemID, "item", 0, "item id to show")
	cmd.Flags().StringVar(&tag, "tag", "", "tag to show")
	return cmd
}
