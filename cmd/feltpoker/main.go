package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/spf13/cobra"

	"github.com/feltworks/feltpoker/appconfig"
	"github.com/feltworks/feltpoker/domain/poker"
)

var (
	cfg    *appconfig.AppConfig
	logger *slog.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "feltpoker",
		Short:         "terminal poker: play, replay and inspect hand histories",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()

			var err error
			cfg, err = appconfig.LoadAppConfig()
			if err != nil {
				return err
			}

			pterm.DefaultLogger.Level = ptermLevel(cfg.SlogLevel())
			handler := pterm.NewSlogHandler(&pterm.DefaultLogger)
			logger = slog.New(handler)
			return nil
		},
	}
	root.AddCommand(newPlayCmd(), newReplayCmd(), newStatsCmd())
	return root
}

func ptermLevel(l slog.Level) pterm.LogLevel {
	switch {
	case l <= slog.LevelDebug:
		return pterm.LogLevelDebug
	case l <= slog.LevelInfo:
		return pterm.LogLevelInfo
	case l <= slog.LevelWarn:
		return pterm.LogLevelWarn
	default:
		return pterm.LogLevelError
	}
}

func renderBanner() {
	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Felt", pterm.FgGreen.ToStyle()),
		putils.LettersFromStringWithStyle("Poker", pterm.FgDarkGray.ToStyle()),
	).Render()
}

// exitCode maps an error onto the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, poker.ErrNotFound):
		return 2
	case errors.Is(err, poker.ErrCorrupt):
		return 3
	case errors.Is(err, poker.ErrVersionMismatch):
		return 4
	default:
		return 1
	}
}

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, pterm.LightRed("error: ")+err.Error())
	}
	os.Exit(exitCode(err))
}
