package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modelkeep/modelkeep/pkg/modelkeep"
)

func newScheduleCmd() *cobra.Command {
	var frequency, rounds int

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Preview the rounds a job would checkpoint at",
		Long: `schedule prints the saving rounds a job with the given frequency and
round target would use. The schedule counts from the progress already
recorded under the root, so it shows what a resumed job would actually
do, not what a fresh one would.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer sess.Close()

			versions, err := sess.mgr.Versions(ctx)
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "progress: none (fresh job)")
			} else {
				latest := versions[0]
				for _, v := range versions[1:] {
					if v > latest {
						latest = v
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "progress: round %d (version %d)\n",
					modelkeep.DecodeVersion(latest), latest)
			}

			schedule, err := sess.mgr.SavingRounds(ctx, frequency, rounds)
			if err != nil {
				return err
			}

			parts := make([]string, len(schedule))
			for i, r := range schedule {
				parts[i] = strconv.Itoa(r)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saving rounds: %s\n", strings.Join(parts, ", "))
			return nil
		},
	}

	cmd.Flags().IntVarP(&frequency, "frequency", "f", 0, "rounds between periodic saves (0 saves only at the end)")
	cmd.Flags().IntVarP(&rounds, "rounds", "r", 0, "total rounds the job will train")
	_ = cmd.MarkFlagRequired("rounds")
	return cmd
}
