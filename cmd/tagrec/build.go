package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func buildCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Rebuild the TF-IDF model and save a snapshot to the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts.cfg, true)
			if err != nil {
				return err
			}
			defer s.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "model: %d items, %d tags (store %s, key %s)\n",
				s.model.Len(), s.model.Vocabulary().Len(), s.store.Name(), opts.cfg.Model.SnapshotKey)
			return nil
		},
	}
}
