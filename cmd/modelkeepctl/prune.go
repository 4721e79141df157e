package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modelkeep/modelkeep/pkg/modelkeep"
)

func newPruneCmd() *cobra.Command {
	var round int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete entries recording progress at or beyond a round",
		Long: `prune removes every entry whose round is at or beyond --round. Run it
before resuming a job at that round, so entries from a past life that
got further cannot shadow the rounds about to be retrained.

Individual delete failures are tolerated; rerun to retry leftovers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer sess.Close()

			before, err := sess.mgr.Versions(ctx)
			if err != nil {
				return err
			}

			if err := sess.mgr.PruneStale(ctx, round); err != nil {
				return err
			}

			after, err := sess.mgr.Versions(ctx)
			if err != nil {
				return err
			}

			stale := 0
			for _, v := range before {
				if modelkeep.DecodeVersion(v) >= round {
					stale++
				}
			}
			deleted := len(before) - len(after)
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d of %d stale entries, %d remain\n",
				deleted, stale, len(after))
			if deleted < stale {
				fmt.Fprintln(cmd.OutOrStdout(), "some deletes failed; rerun to retry")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&round, "round", 0, "the round the job will resume at")
	_ = cmd.MarkFlagRequired("round")
	return cmd
}
