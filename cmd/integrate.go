package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KannedaVIII/books-pipeline/internal/export"
	"github.com/KannedaVIII/books-pipeline/internal/landing"
	"github.com/KannedaVIII/books-pipeline/internal/model"
	"github.com/KannedaVIII/books-pipeline/internal/pipeline"
)

var integrateSkipStore bool

var integrateCmd = &cobra.Command{
	Use:   "integrate",
	Short: "Integrate landing files into the canonical catalog",
	Long:  "Reads both landing files, normalizes and deduplicates them, elects a winner per book, and writes dim_book, book_source_detail, quality metrics, and the schema reference to the standard layer.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := landing.ReadGoodreads(filepath.Join(cfg.Paths.LandingDir, landing.GoodreadsFile))
		if err != nil {
			return eris.Wrap(err, "integrate: load goodreads landing file (run scrape first)")
		}
		goodreads := env.RawRecords()

		googleBooks, err := landing.ReadGoogleBooks(ctx, filepath.Join(cfg.Paths.LandingDir, landing.GoogleBooksFile))
		if err != nil {
			return eris.Wrap(err, "integrate: load googlebooks landing file (run enrich first)")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "integrate: migrate store")
		}

		run, err := st.CreateRun(ctx)
		if err != nil {
			return err
		}

		priority := make([]model.Source, 0, len(cfg.Merge.SourcePriority))
		for _, s := range cfg.Merge.SourcePriority {
			priority = append(priority, model.Source(s))
		}

		result, err := pipeline.New(priority, time.Now).Run(ctx, goodreads, googleBooks)
		if err != nil {
			if failErr := st.FailRun(ctx, run.ID, err.Error()); failErr != nil {
				zap.L().Error("record run failure", zap.Error(failErr))
			}
			return eris.Wrap(err, "integrate")
		}

		outDir := cfg.Paths.StandardDir
		if _, err := export.WriteDimBook(outDir, result.Canonical); err != nil {
			return err
		}
		if _, err := export.WriteSourceDetail(outDir, result.Details); err != nil {
			return err
		}
		if _, err := export.WriteDimBookCSV(outDir, result.Canonical); err != nil {
			return err
		}
		if _, err := export.WriteQualityMetrics(outDir, result.Report); err != nil {
			return err
		}
		if _, err := export.WriteSchemaDoc(outDir, result.Canonical, result.Report.GeneratedAt); err != nil {
			return err
		}

		if !integrateSkipStore {
			if err := st.LoadCatalog(ctx, result.Canonical, result.Details); err != nil {
				return err
			}
		}

		runResult := &model.RunResult{
			GoodreadsCount:   len(goodreads),
			GoogleBooksCount: len(googleBooks),
			CanonicalCount:   len(result.Canonical),
			DetailCount:      len(result.Details),
			DuplicateGroups:  result.DuplicateGroups,
			Report:           &result.Report,
		}
		if err := st.CompleteRun(ctx, run.ID, runResult); err != nil {
			return err
		}

		zap.L().Info("integration complete",
			zap.String("run_id", run.ID),
			zap.Int("canonical", len(result.Canonical)),
			zap.Int("duplicate_groups", result.DuplicateGroups),
		)
		fmt.Fprintf(os.Stdout, "Run %s: %d canonical books from %d records (%d duplicate groups), outputs in %s\n",
			run.ID, len(result.Canonical), len(result.Details), result.DuplicateGroups, outDir)
		return nil
	},
}

func init() {
	integrateCmd.Flags().BoolVar(&integrateSkipStore, "skip-store", false, "write files only, do not load the catalog into the database")
	rootCmd.AddCommand(integrateCmd)
}
