package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KannedaVIII/books-pipeline/internal/enrich"
	"github.com/KannedaVIII/books-pipeline/internal/landing"
	"github.com/KannedaVIII/books-pipeline/pkg/googlebooks"
)

var enrichRateLimit float64

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich scraped books via the Google Books API",
	Long:  "Reads the Goodreads landing file, matches each book on Google Books (title+author, then title, then ISBN), and writes the enrichment CSV to the landing layer.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		grPath := filepath.Join(cfg.Paths.LandingDir, landing.GoodreadsFile)
		env, err := landing.ReadGoodreads(grPath)
		if err != nil {
			return eris.Wrap(err, "enrich: load goodreads landing file (run scrape first)")
		}
		if len(env.Books) == 0 {
			return eris.New("enrich: goodreads landing file has no books")
		}

		client := googlebooks.NewClient(cfg.GoogleBooks.Key,
			googlebooks.WithBaseURL(cfg.GoogleBooks.BaseURL),
		)

		rows, err := enrich.New(client, enrichRateLimit).Enrich(ctx, env.Books)
		if err != nil {
			return eris.Wrap(err, "enrich")
		}

		path, err := landing.WriteGoogleBooks(cfg.Paths.LandingDir, rows)
		if err != nil {
			return err
		}

		zap.L().Info("enrichment complete",
			zap.String("path", path),
			zap.Int("input", len(env.Books)),
			zap.Int("matched", len(rows)),
		)
		fmt.Fprintf(os.Stdout, "Matched %d of %d books, wrote %s\n", len(rows), len(env.Books), path)
		return nil
	},
}

func init() {
	enrichCmd.Flags().Float64Var(&enrichRateLimit, "rate-limit", 2, "Google Books requests per second")
	rootCmd.AddCommand(enrichCmd)
}
