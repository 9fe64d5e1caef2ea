package command

// root.go defines the root command for the animehub CLI and the state shared
// by every subcommand: config, logger and output mode.

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"animehub/internal/config"
	"animehub/internal/logger"
	"animehub/pkg/models"
)

var (
	cfgFile    string // TOML overlay path
	sessionURL string // overrides SESSION_API_URL
	jsonOutput bool
	verbose    bool

	cfg *config.Config
	log *logger.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "animehub",
	Short: "animehub - cross-catalog anime lookup",
	Long: `animehub looks an anime, character or person up in one catalog (MyAnimeList via
Jikan, AniList or Kitsu), finds the same entry in the others and prints one merged record.

Examples:
  animehub anime mal 5114
  animehub person anilist 95185 --json
  animehub search character kitsu "Spike Spiegel"`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, errorText(err.Error()))
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", os.Getenv("ANIMEHUB_CONFIG"), "TOML config file")
	rootCmd.PersistentFlags().StringVar(&sessionURL, "api", "", "session API URL (default from SESSION_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON even on a terminal")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log catalog traffic to stderr")

	rootCmd.AddCommand(
		newAggregateCmd(models.EntityAnime),
		newAggregateCmd(models.EntityCharacter),
		newAggregateCmd(models.EntityPerson),
	)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(authCmd)
}

func setup() error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if sessionURL != "" {
		loaded.SessionAPIURL = sessionURL
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	// Keep stderr quiet unless asked; results go to stdout.
	level := "error"
	if verbose {
		level = "debug"
	}
	l, err := logger.New(cfg.GoEnv, cfg.LogFormat, level)
	if err != nil {
		return err
	}
	log = l
	return nil
}

// out picks JSON when --json is set or stdout is not a terminal.
func out(cmd *cobra.Command) (io.Writer, bool) {
	w := cmd.OutOrStdout()
	return w, jsonOutput || !isTerminal(w)
}
