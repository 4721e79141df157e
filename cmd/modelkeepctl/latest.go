package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newLatestCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the newest checkpoint entry",
		Long: `latest loads the highest-version entry under the root and reports the
round it records. With --output the raw payload is written to a file,
or to stdout when the file is "-".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer sess.Close()

			snap, err := sess.mgr.LoadLatest(ctx)
			if err != nil {
				return err
			}
			if snap == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no checkpoint entries")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "round:   %d\n", snap.Round)
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d\n", snap.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "size:    %s\n", humanize.Bytes(uint64(len(snap.State))))

			switch output {
			case "":
			case "-":
				if _, err := cmd.OutOrStdout().Write(snap.State); err != nil {
					return err
				}
			default:
				if err := os.WriteFile(output, snap.State, 0o644); err != nil {
					return fmt.Errorf("write payload: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote payload to %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `write the raw payload to this file ("-" for stdout)`)
	return cmd
}
