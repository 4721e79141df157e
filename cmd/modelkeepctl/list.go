package main

import (
	"fmt"
	"path"
	"slices"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/modelkeep/modelkeep/pkg/modelkeep"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the checkpoint entries under the root",
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
				fmt.Fprintln(cmd.OutOrStdout(), "no checkpoint entries")
				return nil
			}
			slices.Sort(versions)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tROUND\tSIZE\tPATH")
			for _, v := range versions {
				p := path.Join(sess.mgr.Root(), modelkeep.FileName(v))
				size := "?"
				if data, err := sess.st.Read(ctx, p); err == nil {
					size = humanize.Bytes(uint64(len(data)))
				}
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", v, modelkeep.DecodeVersion(v), size, p)
			}
			return w.Flush()
		},
	}
}
