package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Options controls one pipeline run.
type Options struct {
	// CalendarID is the newest period to sync; Depth periods ending at it are
	// processed in ascending order.
	CalendarID int
	Depth      int
	PageSize   int
	OutDir     string
}

// PeriodResult describes one generated script.
type PeriodResult struct {
	CalendarID int     `json:"calendarId"`
	File       string  `json:"file"`
	Inserted   int     `json:"teachingClassInserted"`
	ElapsedSec float64 `json:"elapsedSec"`
}

// Summary is the machine-readable result of a run, printed as one JSON line
// on stdout by the CLI.
type Summary struct {
	CalendarIDs []int          `json:"calendarIds"`
	Files       []PeriodResult `json:"files"`
}

// Run fetches every requested period and writes one script per period into
// opts.OutDir. Any fetch or write failure aborts the whole run; scripts
// already written stay on disk and a rerun regenerates them.
func Run(ctx context.Context, f PageFetcher, opts Options, log *zap.Logger) (*Summary, error) {
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	depth := opts.Depth
	if depth < 1 {
		depth = 1
	}

	summary := &Summary{}
	for id := opts.CalendarID - depth + 1; id <= opts.CalendarID; id++ {
		summary.CalendarIDs = append(summary.CalendarIDs, id)

		start := time.Now()
		log.Info("fetching period", zap.Int("calendarId", id))

		courses, err := FetchPeriod(ctx, f, id, opts.PageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch calendarId %d: %w", id, err)
		}

		name := fmt.Sprintf("pk-sync-%d.sql", id)
		path := filepath.Join(opts.OutDir, name)
		out, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", path, err)
		}
		inserted, err := EmitScript(out, id, courses)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}

		elapsed := time.Since(start).Seconds()
		log.Info("period done",
			zap.Int("calendarId", id),
			zap.Int("courses", len(courses)),
			zap.Int("inserted", inserted),
			zap.Float64("elapsedSec", elapsed))

		summary.Files = append(summary.Files, PeriodResult{
			CalendarID: id,
			File:       name,
			Inserted:   inserted,
			ElapsedSec: elapsed,
		})
	}
	return summary, nil
}
