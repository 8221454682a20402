package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func profilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"profile", "p"},
		Short:   "Manage profiles",
	}
	cmd.AddCommand(
		profilesListCmd(),
		profilesCreateCmd(),
		profilesUseCmd(),
		profilesDeleteCmd(),
		profilesRenameCmd(),
		profilesCopyCmd(),
		profilesInfoCmd(),
		profilesPurgeCmd(),
	)
	return cmd
}

func profilesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles; the active one is marked with *",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := wire.Store
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range s.ProfileInfos() {
				mark := " "
				if p.Name == s.ActiveProfile() {
					mark = "*"
				}
				fmt.Fprintf(tw, "%s %s\t%d keys\tlast used %s\n",
					mark, p.Name, s.Profile(p.Name).Len(), p.LastAccess.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
}

func profilesCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Store.CreateProfile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", args[0])
			return nil
		},
	}
}

func profilesUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Make a profile active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Store.SetActiveProfile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "active profile: %s\n", args[0])
			return nil
		},
	}
}

func profilesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a profile and its data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Store.DeleteProfile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func profilesRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Store.RenameProfile(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed %s to %s\n", args[0], args[1])
			return nil
		},
	}
}

func profilesCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <src> <dst>",
		Short: "Copy a profile and its data",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Store.CopyProfile(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %s to %s\n", args[0], args[1])
			return nil
		},
	}
}

func profilesInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [name]",
		Short: "Show details of a profile (default: the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := wire.Store
			name := s.ActiveProfile()
			if len(args) == 1 {
				name = args[0]
			}
			info, ok := s.ProfileInfo(name)
			if !ok {
				return fmt.Errorf("no such profile: %s", name)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:        %s\n", info.Name)
			fmt.Fprintf(out, "active:      %t\n", info.Name == s.ActiveProfile())
			fmt.Fprintf(out, "created:     %s\n", info.Created.Local().Format(time.DateTime))
			fmt.Fprintf(out, "last access: %s\n", info.LastAccess.Local().Format(time.DateTime))
			fmt.Fprintf(out, "keys:        %d\n", s.Profile(name).Len())
			if len(info.Metadata) > 0 {
				fmt.Fprintln(out, "metadata:")
				for _, k := range info.Metadata.Keys() {
					fmt.Fprintf(out, "  %s = %s\n", k, info.Metadata[k])
				}
			}
			return nil
		},
	}
}

func profilesPurgeCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every profile except Default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete all profiles without --yes")
			}
			deleted, err := wire.Store.DeleteAllProfiles()
			for _, name := range deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", name)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
