package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	_ "github.com/lib/pq"

	"github.com/codemine/ruffminer/internal/adapter/collector"
	"github.com/codemine/ruffminer/internal/adapter/discovery"
	"github.com/codemine/ruffminer/internal/adapter/runner"
	"github.com/codemine/ruffminer/internal/adapter/store"
	"github.com/codemine/ruffminer/internal/adapter/vcs"
	"github.com/codemine/ruffminer/internal/adapter/writer"
	"github.com/codemine/ruffminer/internal/port"
	"github.com/codemine/ruffminer/internal/service"
	"github.com/codemine/ruffminer/pkg/config"
)

var (
	mineQuery   string
	minePages   int
	mineLimit   int
	mineDataset string
	mineTimeout int
)

var mineCmd = &cobra.Command{
	Use:   "mine [clone-url...]",
	Short: "Mine lint violations from repository histories into the dataset",
	Long: `Mine clones each repository, walks its commits most-recent-first, runs
ruff at every commit and persists one snapshot per violating file plus one
JSON record per violation under the dataset directory.

With no arguments, repositories are discovered through the GitHub search API
using the configured query.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load() // silently ignore if .env doesn't exist
		cfg := config.Load()
		applyMineFlags(cmd, cfg)

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		urls := args
		if len(urls) == 0 {
			gh := discovery.NewGitHubClient(cfg.GitHubToken)
			login, err := gh.ValidateToken(ctx)
			if err != nil {
				return fmt.Errorf("github token check: %w", err)
			}
			slog.Info("token valid", "login", login)

			urls, err = gh.SearchRepositories(ctx, cfg.Query, cfg.MaxPages)
			if err != nil {
				return fmt.Errorf("repository discovery: %w", err)
			}
			slog.Info("repositories found", "count", len(urls), "query", cfg.Query)
		}

		execRunner := runner.NewExecRunner(cfg.CommandTimeout())
		gitPort := vcs.NewGitPort(execRunner)
		ruff := collector.NewRuffCollector(execRunner)
		datasetWriter := writer.NewDatasetWriter(cfg.DatasetDir)

		var index port.IndexStore
		if cfg.DatabaseURL != "" {
			pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
			if err != nil {
				slog.Warn("index store unavailable, mining without it", "error", err)
			} else {
				defer pgStore.Close()
				if err := pgStore.InitSchema(ctx); err != nil {
					return fmt.Errorf("init index schema: %w", err)
				}
				index = pgStore
			}
		}

		slog.Info("starting mining", "dataset_dir", cfg.DatasetDir, "repos", len(urls), "limit", cfg.RepoLimit)
		miner := service.NewMiner(gitPort, ruff, datasetWriter, index)
		miner.MineAll(ctx, urls, cfg.RepoLimit)
		slog.Info("mining finished")
		return nil
	},
}

func applyMineFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("query") {
		cfg.Query = mineQuery
	}
	if cmd.Flags().Changed("pages") {
		cfg.MaxPages = minePages
	}
	if cmd.Flags().Changed("limit") {
		cfg.RepoLimit = mineLimit
	}
	if cmd.Flags().Changed("dataset") {
		cfg.DatasetDir = mineDataset
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = mineTimeout
	}
}

func init() {
	mineCmd.Flags().StringVarP(&mineQuery, "query", "q", "", "GitHub search query for repository discovery")
	mineCmd.Flags().IntVarP(&minePages, "pages", "p", 0, "Number of search result pages to fetch")
	mineCmd.Flags().IntVarP(&mineLimit, "limit", "l", 0, "Maximum repositories to mine (0 = all)")
	mineCmd.Flags().StringVarP(&mineDataset, "dataset", "d", "", "Dataset output directory")
	mineCmd.Flags().IntVarP(&mineTimeout, "timeout", "t", 0, "External command timeout in seconds")
	rootCmd.AddCommand(mineCmd)
}
