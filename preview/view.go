// Package preview turns an analysis report into display-ready data:
// score bands, category summaries and search/social preview cards.
package preview

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/seo-optimizer/metacheck/analyzer"
)

const (
	searchTitleLimit       = 60
	searchDescriptionLimit = 160
	ellipsis               = "..."
	defaultTwitterCard     = "summary"
)

var categoryNames = map[analyzer.Category]string{
	analyzer.CategoryBasicSEO:       "Basic SEO",
	analyzer.CategorySocialMedia:    "Social Media",
	analyzer.CategoryTechnicalSEO:   "Technical SEO",
	analyzer.CategoryContentQuality: "Content Quality",
}

// View is everything a presenter needs to draw a report.
type View struct {
	URL         string             `json:"url"`
	Score       int                `json:"score"`
	ScoreStatus string             `json:"scoreStatus"`
	Passed      int                `json:"passed"`
	Warnings    int                `json:"warnings"`
	Errors      int                `json:"errors"`
	Categories  []CategoryView     `json:"categories"`
	Findings    []analyzer.Finding `json:"findings"`
	Search      SearchPreview      `json:"search"`
	Facebook    SocialCard         `json:"facebook"`
	Twitter     SocialCard         `json:"twitter"`
}

// CategoryView summarises one category.
type CategoryView struct {
	Key        analyzer.Category `json:"key"`
	Name       string            `json:"name"`
	Earned     int               `json:"earned"`
	Max        int               `json:"max"`
	Percentage int               `json:"percentage"`
	Status     string            `json:"status"`
}

// SearchPreview mimics a search engine result entry.
type SearchPreview struct {
	Title       string `json:"title"`
	Breadcrumb  string `json:"breadcrumb"`
	Description string `json:"description"`
}

// SocialCard mimics a link preview on a social network.
type SocialCard struct {
	Card        string `json:"card,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Domain      string `json:"domain"`
}

// Render builds the view for a report. It does not modify its inputs.
func Render(report analyzer.Report, tags analyzer.TagRecord, pageURL string) View {
	v := View{
		URL:         pageURL,
		Score:       report.OverallScore,
		ScoreStatus: analyzer.StatusFor(report.OverallScore),
		Passed:      report.PassedCount,
		Warnings:    report.WarningCount,
		Errors:      report.ErrorCount,
		Findings:    append([]analyzer.Finding(nil), report.Findings...),
	}

	for _, c := range analyzer.Categories() {
		tally, ok := report.Categories[c]
		if !ok {
			tally = analyzer.CategoryTally{MaxPoints: analyzer.MaxPoints(c)}
		}
		v.Categories = append(v.Categories, CategoryView{
			Key:        c,
			Name:       categoryNames[c],
			Earned:     tally.EarnedPoints,
			Max:        tally.MaxPoints,
			Percentage: tally.Percentage(),
			Status:     tally.Status(),
		})
	}

	domain := hostOf(pageURL)

	v.Search = SearchPreview{
		Title:       truncate(tags.Title, searchTitleLimit),
		Breadcrumb:  breadcrumb(pageURL),
		Description: truncate(tags.Description, searchDescriptionLimit),
	}
	v.Facebook = SocialCard{
		Title:       firstNonEmpty(tags.OGTitle, tags.Title),
		Description: firstNonEmpty(tags.OGDescription, tags.Description),
		Image:       tags.OGImage,
		Domain:      strings.ToUpper(domain),
	}
	v.Twitter = SocialCard{
		Card:        firstNonEmpty(tags.TwitterCard, defaultTwitterCard),
		Title:       firstNonEmpty(tags.TwitterTitle, tags.Title),
		Description: firstNonEmpty(tags.TwitterDescription, tags.Description),
		Image:       firstNonEmpty(tags.TwitterImage, tags.OGImage),
		Domain:      domain,
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// truncate shortens s to at most limit characters, ending in an ellipsis.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit-len(ellipsis)])) + ellipsis
}

func hostOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// breadcrumb renders a URL the way search results show it: "host › a › b".
func breadcrumb(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return pageURL
	}
	parts := []string{u.Host}
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, " › ")
}
