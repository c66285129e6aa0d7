package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nhath/irfinder/internal/company"
	"github.com/nhath/irfinder/internal/config"
	"github.com/nhath/irfinder/internal/lookup"
)

var (
	maxFlag    int
	remoteFlag bool
	jsonFlag   bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <query>",
	Short: "Print the companies a name or ticker resolves to",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().IntVarP(&maxFlag, "max", "n", company.DefaultMaxResults, "maximum number of candidates")
	resolveCmd.Flags().BoolVar(&remoteFlag, "remote", false, "ask the profile's service instead of the local catalog")
	resolveCmd.Flags().BoolVar(&jsonFlag, "json", false, "print the raw resolution as JSON")
}

func runResolve(_ *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var res company.Resolution
	if remoteFlag {
		profile, err := cfg.ActiveProfile(profileFlag)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if res, err = lookup.New(profile.BaseURL).Resolve(ctx, query, maxFlag); err != nil {
			return err
		}
	} else {
		catalog, err := company.LoadCatalog(cfg.Server.CatalogFile)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		res = company.NewResolver(catalog).ResolveForAutocomplete(query, maxFlag)
	}

	if jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	fmt.Print(renderResolution(query, res))
	return nil
}

func renderResolution(query string, res company.Resolution) string {
	if res.Empty() {
		return fmt.Sprintf("No companies match %q\n", query)
	}

	rows := make([][]string, 0, len(res.Matches))
	for i, c := range res.Matches {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			c.Ticker,
			c.CompanyName,
			c.Exchange,
			c.MatchType.Label(),
			fmt.Sprintf("%.0f%% %s", c.Confidence*100, c.Tier()),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("#", "Ticker", "Company", "Exchange", "Match", "Confidence").
		Rows(rows...)

	out := t.Render() + "\n"
	if res.IsAmbiguous {
		out += fmt.Sprintf("%q is ambiguous; pass the ticker to pick one.\n", query)
	}
	return out
}
