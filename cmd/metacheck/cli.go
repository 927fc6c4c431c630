package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/seo-optimizer/metacheck/analyzer"
	"github.com/seo-optimizer/metacheck/preview"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Analyze AnalyzeCmd `cmd:"" help:"Fetch a page and print its SEO report"`
	Score   ScoreCmd   `cmd:"" help:"Score a tag record stored as JSON"`
}

// AnalyzeCmd is the "analyze" subcommand.
type AnalyzeCmd struct {
	URL     string        `arg:"" help:"Page URL"`
	File    string        `short:"f" type:"existingfile" help:"Read HTML from a file instead of fetching the URL"`
	JSON    bool          `help:"Print JSON instead of a text report"`
	Timeout time.Duration `default:"15s" help:"Fetch timeout"`
	Relay   string        `env:"RELAY_URL" help:"Cross-origin relay prefix the escaped URL is appended to"`
}

// ScoreCmd is the "score" subcommand.
type ScoreCmd struct {
	File string `arg:"" type:"existingfile" help:"JSON file holding a tag record"`
	URL  string `help:"Page URL shown in previews"`
	JSON bool   `help:"Print JSON instead of a text report"`
}

type result struct {
	URL    string             `json:"url"`
	Tags   analyzer.TagRecord `json:"tags"`
	Report analyzer.Report    `json:"report"`
}

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(deps *Dependencies) error {
	fetcher := analyzer.NewFetcher(analyzer.WithTimeout(c.Timeout), analyzer.WithRelay(c.Relay))
	a := analyzer.New(analyzer.WithFetcher(fetcher))

	var (
		analysis *analyzer.Analysis
		err      error
	)
	if c.File != "" {
		var html []byte
		html, err = os.ReadFile(c.File)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", c.File, err)
		}
		analysis, err = a.AnalyzeHTML(deps.Ctx, c.URL, string(html))
	} else {
		analysis, err = a.Analyze(deps.Ctx, c.URL)
	}
	if err != nil {
		if errors.Is(err, analyzer.ErrInvalidURL) {
			return fmt.Errorf("invalid URL %q: use an http:// or https:// address", c.URL)
		}
		return fmt.Errorf("unable to analyze %s", c.URL)
	}

	return write(deps.Stdout, c.JSON, result{URL: analysis.URL, Tags: analysis.Tags, Report: analysis.Report})
}

// Run executes the score command.
func (c *ScoreCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}

	var tags analyzer.TagRecord
	if err := json.Unmarshal(data, &tags); err != nil {
		return fmt.Errorf("invalid tag record in %s: %w", c.File, err)
	}

	return write(deps.Stdout, c.JSON, result{URL: c.URL, Tags: tags, Report: analyzer.Evaluate(tags)})
}

func write(w io.Writer, asJSON bool, r result) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	return preview.WriteText(w, preview.Render(r.Report, r.Tags, r.URL))
}
