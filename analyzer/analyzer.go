package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/seo-optimizer/metacheck/stats"
)

// Analysis is the outcome of one analysis request.
type Analysis struct {
	ID       string    `json:"id"`
	URL      string    `json:"url"`
	Tags     TagRecord `json:"tags"`
	Report   Report    `json:"report"`
	LoadTime int64     `json:"loadTime"` // milliseconds spent fetching
}

// PageFetcher retrieves the HTML of a page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Analyzer runs the fetch, extract and evaluate pipeline for a single URL.
type Analyzer struct {
	fetcher PageFetcher
	stats   *stats.Storage
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithFetcher replaces the default HTTP fetcher.
func WithFetcher(f PageFetcher) Option {
	return func(a *Analyzer) {
		a.fetcher = f
	}
}

// WithStats records every analysis into the given storage.
func WithStats(s *stats.Storage) Option {
	return func(a *Analyzer) {
		a.stats = s
	}
}

// New creates a new Analyzer instance
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	if a.fetcher == nil {
		a.fetcher = NewFetcher()
	}
	return a
}

// Analyze validates rawURL, fetches the page and scores its tags. Any
// failure matches ErrUnableToAnalyze and no partial result is returned.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (*Analysis, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		a.recordFailure(rawURL, err)
		return nil, fmt.Errorf("%w: %w", ErrUnableToAnalyze, err)
	}
	pageURL := u.String()

	start := time.Now()
	body, err := a.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		a.recordFailure(pageURL, err)
		return nil, fmt.Errorf("%w: %w", ErrUnableToAnalyze, err)
	}
	loadTime := time.Since(start)

	analysis, err := a.analyzeHTML(pageURL, body)
	if err != nil {
		return nil, err
	}
	analysis.LoadTime = loadTime.Milliseconds()
	return analysis, nil
}

// AnalyzeHTML scores already fetched HTML. pageURL is only used to resolve
// relative references and may be empty.
func (a *Analyzer) AnalyzeHTML(ctx context.Context, pageURL, html string) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnableToAnalyze, err)
	}
	return a.analyzeHTML(pageURL, html)
}

func (a *Analyzer) analyzeHTML(pageURL, html string) (*Analysis, error) {
	tags, err := Extract(html, pageURL)
	if err != nil {
		a.recordFailure(pageURL, err)
		return nil, fmt.Errorf("%w: %w", ErrUnableToAnalyze, err)
	}

	report := Evaluate(tags)
	analysis := &Analysis{
		ID:     uuid.New().String(),
		URL:    pageURL,
		Tags:   tags,
		Report: report,
	}

	if a.stats != nil {
		a.stats.RecordAnalysis(report.PassedCount, report.WarningCount, report.ErrorCount, report.OverallScore)
	}
	slog.Info("page analyzed",
		"id", analysis.ID,
		"url", pageURL,
		"score", report.OverallScore,
		"passed", report.PassedCount,
		"warnings", report.WarningCount,
		"errors", report.ErrorCount,
	)
	return analysis, nil
}

func (a *Analyzer) recordFailure(url string, err error) {
	if a.stats != nil {
		a.stats.RecordFailure()
	}
	slog.Warn("analysis failed", "url", url, "error", err)
}
