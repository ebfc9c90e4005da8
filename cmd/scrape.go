package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KannedaVIII/books-pipeline/internal/landing"
	"github.com/KannedaVIII/books-pipeline/internal/scrape"
)

var scrapeQuery string

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape Goodreads search results into the landing layer",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		query := scrapeQuery
		if query == "" {
			query = cfg.Scrape.Query
		}

		scraper := scrape.NewGoodreads(scrape.Config{
			SearchURL:       cfg.Scrape.SearchURL,
			BookURLTemplate: cfg.Scrape.BookURLTemplate,
			UserAgent:       cfg.Scrape.UserAgent,
			MaxBooks:        cfg.Scrape.MaxBooks,
			RequestsPerSec:  cfg.Scrape.RequestsPerSec,
		})

		env, err := scraper.Run(ctx, query)
		if err != nil {
			return eris.Wrap(err, "scrape")
		}

		path, err := landing.WriteGoodreads(cfg.Paths.LandingDir, env)
		if err != nil {
			return err
		}

		zap.L().Info("scrape complete",
			zap.String("path", path),
			zap.Int("books", len(env.Books)),
		)
		fmt.Fprintf(os.Stdout, "Scraped %d books to %s\n", len(env.Books), path)
		return nil
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeQuery, "query", "", "search query (default from config)")
	rootCmd.AddCommand(scrapeCmd)
}
