package root

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"illitworld/internal/config"
	"illitworld/internal/logging"
	"illitworld/internal/ui"
)

const Version = "0.1.0"

// annotation marking commands that take over the terminal; their logs go to
// a file instead of stderr.
const annotationTUI = "tui"

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "iw",
	Short:         "ILLIT World: watch videos, level up members, unlock photo cards",
	Long:          "ILLIT World is a fan companion that turns watching ILLIT videos into member XP, levels and photo card unlocks.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		cfg = c

		logFile := cfg.Logging.File
		if logFile == "" && cmd.Annotations[annotationTUI] != "" {
			logFile = filepath.Join(cfg.DataDir, "illitworld.log")
		}
		l, err := logging.New(logging.Options{Level: cfg.Logging.Level, Verbose: verbose, File: logFile})
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		newStatusCmd(),
		newVideosCmd(),
		newWatchCmd(),
		newFavCmd(),
		newCardsCmd(),
		newSelectCmd(),
		newPlayCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newDevCmd(),
		newServeCmd(),
		newDBCmd(),
		newConfigCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
