package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the namespace to a plaintext file (.json, or .yaml/.yml)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := target()
			if err != nil {
				return err
			}
			if err := ns.Export(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d keys from %s to %s\n", ns.Len(), ns.Name(), args[0])
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	var merge bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load the namespace from an exported file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := target()
			if err != nil {
				return err
			}
			if err := ns.Import(args[0], merge); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d keys\n", ns.Name(), ns.Len())
			return nil
		},
	}
	cmd.Flags().BoolVar(&merge, "merge", false, "keep existing keys that the file does not contain")
	return cmd
}
