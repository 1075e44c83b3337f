// Package onesystem talks to the university course-management portal: the
// login handshake and the paged manual-arrangement query the sync pipeline
// reads from.
package onesystem

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"go.uber.org/zap"
)

const (
	arrangePath = "/api/arrangementservice/manualArrange/page?profile"
	refererPath = "/taskResultQuery"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"

	maxAttempts = 5
)

// PageData is the payload section of an arrangement page response.
type PageData struct {
	Total int64 `json:"total_"`
	// List stays raw: the portal occasionally returns a non-list here and
	// such pages must be skipped, not fail the fetch.
	List json.RawMessage `json:"list"`
}

// PageResult is one arrangement page response.
type PageResult struct {
	Data *PageData `json:"data"`
}

// Total returns the record count the portal reports for the whole period.
func (p *PageResult) Total() int {
	if p == nil || p.Data == nil {
		return 0
	}
	return int(p.Data.Total)
}

// Records decodes the page's record list. A missing, empty or non-list
// payload yields nil.
func (p *PageResult) Records() []Record {
	if p == nil || p.Data == nil || len(p.Data.List) == 0 {
		return nil
	}
	var out []Record
	if err := json.Unmarshal(p.Data.List, &out); err != nil {
		return nil
	}
	return out
}

// Client is an authenticated portal session. Authentication happens once –
// via Login or a pre-baked cookie – before the pipeline runs; fetching never
// mutates the session.
type Client struct {
	baseURL string
	http    *http.Client
	cookie  string // raw Cookie header, overrides the jar when set
	log     *zap.Logger

	// sleep is the backoff wait, replaceable in tests.
	sleep func(time.Duration)
}

// NewClient builds a portal client with a fresh cookie jar.
func NewClient(baseURL string, log *zap.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar, Timeout: 2 * time.Minute},
		log:     log,
		sleep:   time.Sleep,
	}, nil
}

// SetCookie installs a raw Cookie header, bypassing the login flow.
func (c *Client) SetCookie(raw string) {
	c.cookie = raw
}

type arrangeCondition struct {
	TrainingLevel     string `json:"trainingLevel"`
	Campus            string `json:"campus"`
	Calendar          int    `json:"calendar"`
	College           string `json:"college"`
	Course            string `json:"course"`
	IDs               []int  `json:"ids"`
	IsChineseTeaching *bool  `json:"isChineseTeaching"`
}

type arrangeRequest struct {
	Condition arrangeCondition `json:"condition"`
	PageNum   int              `json:"pageNum_"`
	PageSize  int              `json:"pageSize_"`
}

// retryable reports whether an HTTP status is worth another attempt.
func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// ArrangePage fetches one page of manual-arrangement records for a calendar
// period. Transient failures (network errors, HTTP 429/5xx) are retried up to
// five attempts with a linear backoff capped at 10s; other HTTP errors fail
// immediately.
func (c *Client) ArrangePage(ctx context.Context, calendarID, pageNum, pageSize int) (*PageResult, error) {
	payload := arrangeRequest{
		Condition: arrangeCondition{
			Calendar: calendarID,
			IDs:      []int{},
		},
		PageNum:  pageNum,
		PageSize: pageSize,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res, err := c.postArrange(ctx, body)
		if err == nil {
			return res, nil
		}
		lastErr = err

		var se *statusError
		if errors.As(err, &se) && !retryable(se.status) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt < maxAttempts {
			wait := backoff(attempt)
			c.log.Warn("arrange page failed, retrying",
				zap.Int("calendarId", calendarID),
				zap.Int("page", pageNum),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err))
			c.sleep(wait)
		}
	}
	return nil, fmt.Errorf("arrange page calendarId=%d page=%d: %w", calendarID, pageNum, lastErr)
}

// backoff returns min(10, 1 + attempt*2) seconds.
func backoff(attempt int) time.Duration {
	s := 1 + attempt*2
	if s > 10 {
		s = 10
	}
	return time.Duration(s) * time.Second
}

type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.status)
}

func (c *Client) postArrange(ctx context.Context, body []byte) (*PageResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+arrangePath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", c.baseURL+refererPath)
	req.Header.Set("User-Agent", userAgent)
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{status: resp.StatusCode}
	}

	var out PageResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode arrange page: %w", err)
	}
	return &out, nil
}
