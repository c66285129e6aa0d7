// cmd/irfinder/main.go
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nhath/irfinder/internal/config"
	"github.com/nhath/irfinder/internal/history"
	"github.com/nhath/irfinder/internal/logging"
	"github.com/nhath/irfinder/internal/lookup"
	"github.com/nhath/irfinder/internal/ui"
)

var (
	debugFlag   bool
	profileFlag string
)

var rootCmd = &cobra.Command{
	Use:   "irfinder",
	Short: "Find investor reports for a company from the terminal",
	Long: "irfinder resolves a company name or ticker as you type, asks when the\n" +
		"name is ambiguous, and searches for the company's investor reports.",
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "profile to use (defaults to the configured default)")
	rootCmd.Flags().BoolVar(&debugFlag, "debug", false, "Enable debug logging to debug.log")
	rootCmd.AddCommand(serveCmd, resolveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newBackend(p *config.Profile) ui.Backend {
	return lookup.New(p.BaseURL)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// The alt screen owns stdout, so logs go to a file or nowhere
	if debugFlag {
		f, err := tea.LogToFile("debug.log", "debug")
		if err != nil {
			return fmt.Errorf("could not open debug log: %w", err)
		}
		defer f.Close()
		logging.Setup("debug", f)
	} else {
		logging.Setup("disabled", nil)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	profile, err := cfg.ActiveProfile(profileFlag)
	if err != nil {
		return err
	}

	ui.InitStyles(cfg.Theme)

	// A missing history store only disables the history panel
	var store ui.HistoryStore
	historyStore, err := history.NewStore(cfg.History)
	if err != nil {
		log.Warn().Err(err).Msg("History disabled")
	} else {
		defer historyStore.Close()
		store = historyStore
	}

	model := ui.NewModel(cfg, profile, newBackend(profile), store, newBackend)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
