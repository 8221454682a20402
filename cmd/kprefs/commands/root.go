package commands

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kairosolo/kprefs/internal/app"
	"github.com/kairosolo/kprefs/pkg/prefs"
)

var (
	dataDir    string
	configFile string
	verbose    bool

	useGlobal   bool
	profileName string

	logger *zap.Logger
	wire   *app.Wire
)

// Execute runs the CLI with os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "kprefs",
		Short:        "Inspect and edit an encrypted preference store",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(configFile)
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.Dir = dataDir
			}
			if cfg.Dir == "" {
				return errors.New("no store directory: use --dir, KPREFS_DIR or dir in kprefs.yaml")
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Verbose = verbose
			}

			logger, err = app.NewLogger(cfg.Verbose)
			if err != nil {
				return err
			}
			wire, err = app.NewWire(cfg, logger)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&dataDir, "dir", "", "store directory (default $XDG_CONFIG_HOME/kprefs)")
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./kprefs.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVarP(&useGlobal, "global", "g", false, "act on the global namespace")
	root.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "act on this profile instead of the active one")

	root.AddCommand(
		profilesCmd(),
		getCmd(), setCmd(), delCmd(), keysCmd(), dumpCmd(), clearCmd(),
		exportCmd(), importCmd(),
		statsCmd(), watchCmd(),
	)
	return root
}

// target resolves the namespace selected by --global / --profile.
func target() (*prefs.Namespace, error) {
	switch {
	case useGlobal && profileName != "":
		return nil, errors.New("--global and --profile are mutually exclusive")
	case useGlobal:
		return wire.Store.Global(), nil
	case profileName != "":
		if !wire.Store.ProfileExists(profileName) {
			return nil, errors.New("no such profile: " + profileName)
		}
		return wire.Store.Profile(profileName), nil
	default:
		return wire.Store.Active(), nil
	}
}
