package commands

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value stored under key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := target()
			if err != nil {
				return err
			}
			v, ok := ns.Get(args[0])
			if !ok {
				return fmt.Errorf("%s: no key %q", ns.Name(), args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <type> <value>",
		Short: "Store a typed value",
		Long: "Store a typed value. Types: " + kindList() + ".\n" +
			"vec2, vec3 and color take comma-separated numbers; timestamp takes RFC 3339 or \"now\".",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := target()
			if err != nil {
				return err
			}
			v, err := parseValue(args[1], args[2], time.Now())
			if err != nil {
				return err
			}
			return ns.Set(args[0], v)
		},
	}
}

func delCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "del <key>...",
		Aliases: []string{"rm"},
		Short:   "Delete keys",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := target()
			if err != nil {
				return err
			}
			return ns.DeleteKeys(args...)
		},
	}
}

func keysCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List keys in sorted order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := target()
			if err != nil {
				return err
			}
			needle := strings.ToLower(search)
			for _, k := range ns.Keys() {
				if needle == "" || strings.Contains(strings.ToLower(k), needle) {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive substring filter")
	return cmd
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print every entry with its type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := target()
			if err != nil {
				return err
			}
			all := ns.All()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, k := range all.Keys() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", k, all[k].Kind(), all[k])
			}
			return tw.Flush()
		},
	}
}

func clearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every key in the namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear without --yes")
			}
			ns, err := target()
			if err != nil {
				return err
			}
			return ns.DeleteAll()
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
