// Package sync implements the course-arrangement pipeline: paged retrieval
// per calendar period, reference deduplication, and generation of the
// idempotent per-period SQL scripts.
package sync

import (
	"context"

	"github.com/liuzy0419/pksync/onesystem"
)

// PageFetcher is the capability the pipeline needs from an authenticated
// portal session. The concrete session (login, cookies) is established before
// the pipeline runs and injected here.
type PageFetcher interface {
	ArrangePage(ctx context.Context, calendarID, pageNum, pageSize int) (*onesystem.PageResult, error)
}

// FetchPeriod retrieves the full record set for one calendar period. The
// first page reports the period total; remaining pages are fetched
// sequentially so that downstream first-seen dedup stays deterministic.
//
// totalPages is total/pageSize + 1, which requests one empty trailing page
// when total is an exact multiple of pageSize; the empty page contributes
// nothing and keeping the rounding matches the upstream exporter.
func FetchPeriod(ctx context.Context, f PageFetcher, calendarID, pageSize int) ([]onesystem.Record, error) {
	first, err := f.ArrangePage(ctx, calendarID, 1, pageSize)
	if err != nil {
		return nil, err
	}

	courses := append([]onesystem.Record(nil), first.Records()...)

	totalPages := first.Total()/pageSize + 1
	for page := 2; page <= totalPages; page++ {
		next, err := f.ArrangePage(ctx, calendarID, page, pageSize)
		if err != nil {
			return nil, err
		}
		// Non-list or empty pages are skipped, not fatal.
		courses = append(courses, next.Records()...)
	}
	return courses, nil
}
