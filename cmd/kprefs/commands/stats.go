package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print store statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := wire.Store.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "directory:       %s\n", wire.Store.Dir())
			fmt.Fprintf(out, "active profile:  %s (%d keys)\n", st.ActiveProfile, st.ActiveProfileKeys)
			fmt.Fprintf(out, "global keys:     %d\n", st.GlobalKeys)
			fmt.Fprintf(out, "profiles:        %d\n", st.Profiles)
			fmt.Fprintf(out, "loads:           %d (avg %s)\n", st.Loads, st.AvgLoadTime)
			fmt.Fprintf(out, "saves:           %d (avg %s)\n", st.Saves, st.AvgSaveTime)
			return nil
		},
	}
}
