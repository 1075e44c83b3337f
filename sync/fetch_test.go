package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/liuzy0419/pksync/onesystem"
)

type fakeFetcher struct {
	pages map[int]*onesystem.PageResult
	calls []int
	err   error
}

func (f *fakeFetcher) ArrangePage(ctx context.Context, calendarID, pageNum, pageSize int) (*onesystem.PageResult, error) {
	f.calls = append(f.calls, pageNum)
	if f.err != nil {
		return nil, f.err
	}
	res, ok := f.pages[pageNum]
	if !ok {
		return nil, fmt.Errorf("unexpected page %d", pageNum)
	}
	return res, nil
}

func page(total int64, list string) *onesystem.PageResult {
	return &onesystem.PageResult{Data: &onesystem.PageData{
		Total: total,
		List:  json.RawMessage(list),
	}}
}

func TestFetchPeriodSinglePage(t *testing.T) {
	f := &fakeFetcher{pages: map[int]*onesystem.PageResult{
		1: page(2, `[{"id":1},{"id":2}]`),
	}}

	courses, err := FetchPeriod(context.Background(), f, 119, 200)
	if err != nil {
		t.Fatalf("FetchPeriod: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("got %d courses, want 2", len(courses))
	}
	// 2/200 + 1 = 1 page
	if len(f.calls) != 1 {
		t.Errorf("fetched pages %v, want just page 1", f.calls)
	}
}

func TestFetchPeriodMultiplePages(t *testing.T) {
	f := &fakeFetcher{pages: map[int]*onesystem.PageResult{
		1: page(250, `[{"id":1}]`),
		2: page(250, `[{"id":2}]`),
	}}

	courses, err := FetchPeriod(context.Background(), f, 119, 200)
	if err != nil {
		t.Fatalf("FetchPeriod: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("got %d courses, want 2", len(courses))
	}
	if len(f.calls) != 2 || f.calls[0] != 1 || f.calls[1] != 2 {
		t.Errorf("fetched pages %v, want [1 2]", f.calls)
	}
}

func TestFetchPeriodExactMultipleRequestsTrailingPage(t *testing.T) {
	// total is an exact multiple of pageSize, so the rounding asks for one
	// empty trailing page.
	f := &fakeFetcher{pages: map[int]*onesystem.PageResult{
		1: page(200, `[{"id":1}]`),
		2: page(200, `[]`),
	}}

	courses, err := FetchPeriod(context.Background(), f, 119, 200)
	if err != nil {
		t.Fatalf("FetchPeriod: %v", err)
	}
	if len(courses) != 1 {
		t.Fatalf("got %d courses, want 1", len(courses))
	}
	if len(f.calls) != 2 {
		t.Errorf("fetched pages %v, want [1 2]", f.calls)
	}
}

func TestFetchPeriodNonListPageSkipped(t *testing.T) {
	f := &fakeFetcher{pages: map[int]*onesystem.PageResult{
		1: page(250, `[{"id":1}]`),
		2: page(250, `{"unexpected":"shape"}`),
	}}

	courses, err := FetchPeriod(context.Background(), f, 119, 200)
	if err != nil {
		t.Fatalf("FetchPeriod: %v", err)
	}
	if len(courses) != 1 {
		t.Fatalf("got %d courses, want 1 (non-list page skipped)", len(courses))
	}
}

func TestFetchPeriodError(t *testing.T) {
	want := errors.New("portal down")
	f := &fakeFetcher{err: want}

	if _, err := FetchPeriod(context.Background(), f, 119, 200); !errors.Is(err, want) {
		t.Fatalf("FetchPeriod error = %v, want %v", err, want)
	}
}
