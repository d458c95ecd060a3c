package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSegmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "segments",
		Short: "List segments and their project counts",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			ds := loadDataset(cmd, e)
			for _, seg := range ds.SortedSegments() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", seg, len(ds.Projects(seg)))
			}
			return nil
		},
	}
}
