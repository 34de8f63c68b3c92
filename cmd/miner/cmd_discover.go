package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/codemine/ruffminer/internal/adapter/discovery"
	"github.com/codemine/ruffminer/pkg/config"
)

var (
	discoverQuery string
	discoverPages int
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List candidate repository clone URLs without mining them",
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		cfg := config.Load()
		if cmd.Flags().Changed("query") {
			cfg.Query = discoverQuery
		}
		if cmd.Flags().Changed("pages") {
			cfg.MaxPages = discoverPages
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		gh := discovery.NewGitHubClient(cfg.GitHubToken)
		if _, err := gh.ValidateToken(ctx); err != nil {
			return fmt.Errorf("github token check: %w", err)
		}

		urls, err := gh.SearchRepositories(ctx, cfg.Query, cfg.MaxPages)
		if err != nil {
			return fmt.Errorf("repository discovery: %w", err)
		}
		for _, u := range urls {
			fmt.Println(u)
		}
		return nil
	},
}

func init() {
	discoverCmd.Flags().StringVarP(&discoverQuery, "query", "q", "", "GitHub search query")
	discoverCmd.Flags().IntVarP(&discoverPages, "pages", "p", 0, "Number of search result pages to fetch")
	rootCmd.AddCommand(discoverCmd)
}
