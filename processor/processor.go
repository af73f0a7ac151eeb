// Package processor runs one upload batch end to end: per-file extraction
// (fanned out, since files share no mutable state), consolidation,
// aggregation and the final display tables.
package processor

import (
	"context"
	"runtime"
	"time"

	"vendas-report/aggregate"
	"vendas-report/consolidate"
	"vendas-report/models"
	"vendas-report/parser"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// InputFile is one uploaded capture file.
type InputFile struct {
	Name    string
	Content []byte
}

// Report is the processed outcome of a batch, kept around until export.
type Report struct {
	Dataset *models.ConsolidatedDataset
	Summary aggregate.Summary
	Ranking []aggregate.TableRank
	Config  aggregate.Config
}

// ProcessBatch extracts every .har file in the batch, consolidates and
// aggregates. Files that are not well-formed capture documents contribute
// nothing; consolidate.ErrEmptyBatch is returned when the whole batch
// yields zero events.
func ProcessBatch(ctx context.Context, files []InputFile, cfg aggregate.Config) (*Report, error) {
	startTime := time.Now()

	harFiles := make([]InputFile, 0, len(files))
	for _, f := range files {
		if models.IsHARFile(f.Name) {
			harFiles = append(harFiles, f)
		} else {
			log.Warn().Str("file", f.Name).Msg("Skipping non-har upload")
		}
	}

	// Extraction is independent per file; results keep upload order.
	perFile := make([]models.ExtractedEvents, len(harFiles))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, f := range harFiles {
		i, f := i, f
		g.Go(func() error {
			events, err := parser.ParseDocument(f.Content, f.Name)
			if err != nil {
				log.Warn().Err(err).Str("file", f.Name).Msg("Capture document contributed no events")
			}
			perFile[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dataset, err := consolidate.Consolidate(perFile)
	if err != nil {
		return nil, err
	}

	summary, err := aggregate.Summarize(dataset.Orders, cfg)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("files", len(harFiles)).
		Int("orders", len(dataset.Orders)).
		Int("registrations", len(dataset.Registrations)).
		Int("deletions", len(dataset.Deletions)).
		Float64("total_value", summary.TotalValue).
		Dur("duration", time.Since(startTime)).
		Msg("Finished processing batch")

	return &Report{
		Dataset: dataset,
		Summary: summary,
		Ranking: aggregate.Rank(dataset.Orders),
		Config:  cfg,
	}, nil
}
