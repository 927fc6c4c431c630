package analyzer

import (
	"fmt"
	"math"
	"unicode/utf8"
)

const maxOverallScore = 100

// Title and description length bands, inclusive on both ends.
const (
	titleMinLength       = 30
	titleMaxLength       = 60
	descriptionMinLength = 120
	descriptionMaxLength = 160
)

// rule evaluates one check and always yields exactly one finding.
type rule func(tags TagRecord) Finding

// rules is the fixed evaluation order. Consumers display findings
// positionally, so the order must not change.
var rules = []rule{
	checkTitle,
	checkDescription,
	checkOpenGraph,
	checkTwitterCard,
	checkCanonical,
	checkViewport,
	checkLanguage,
	checkStructuredData,
}

// Evaluate scores a tag record against the rubric. It is pure and safe for
// concurrent use.
func Evaluate(tags TagRecord) Report {
	return evaluate(tags, rules)
}

func evaluate(tags TagRecord, rs []rule) Report {
	report := Report{
		Findings:   make([]Finding, 0, len(rs)),
		Categories: make(map[Category]CategoryTally, len(categoryMaxPoints)),
	}
	for _, c := range Categories() {
		report.Categories[c] = CategoryTally{MaxPoints: MaxPoints(c)}
	}

	total := 0
	for _, r := range rs {
		f := r(tags)
		report.Findings = append(report.Findings, f)
		total += f.Score

		switch f.Kind {
		case KindPassed:
			report.PassedCount++
		case KindWarning:
			report.WarningCount++
		case KindError:
			report.ErrorCount++
		}

		tally := report.Categories[f.Category]
		tally.EarnedPoints += f.CategoryPoints
		report.Categories[f.Category] = tally
	}

	report.OverallScore = clampScore(total)
	return report
}

func clampScore(total int) int {
	if total > maxOverallScore {
		return maxOverallScore
	}
	return total
}

func checkTitle(tags TagRecord) Finding {
	f := Finding{Title: "Title Tag", Category: CategoryBasicSEO}
	length := utf8.RuneCountInString(tags.Title)
	switch {
	case length == 0:
		f.Kind = KindError
		f.Description = "Page is missing a title tag"
	case length >= titleMinLength && length <= titleMaxLength:
		f.Kind = KindPassed
		f.Description = fmt.Sprintf("Title length is optimal (%d characters)", length)
		f.Score, f.CategoryPoints = 15, 15
	default:
		f.Kind = KindWarning
		f.Description = fmt.Sprintf("Title should be %d-%d characters (currently %d)", titleMinLength, titleMaxLength, length)
		f.Score, f.CategoryPoints = 8, 8
	}
	return f
}

func checkDescription(tags TagRecord) Finding {
	f := Finding{Title: "Meta Description", Category: CategoryBasicSEO}
	length := utf8.RuneCountInString(tags.Description)
	switch {
	case length == 0:
		f.Kind = KindError
		f.Description = "Page is missing a meta description"
	case length >= descriptionMinLength && length <= descriptionMaxLength:
		f.Kind = KindPassed
		f.Description = fmt.Sprintf("Meta description length is optimal (%d characters)", length)
		f.Score, f.CategoryPoints = 15, 15
	default:
		f.Kind = KindWarning
		f.Description = fmt.Sprintf("Meta description should be %d-%d characters (currently %d)", descriptionMinLength, descriptionMaxLength, length)
		f.Score, f.CategoryPoints = 8, 8
	}
	return f
}

func checkOpenGraph(tags TagRecord) Finding {
	f := Finding{Title: "Open Graph Tags", Category: CategorySocialMedia}
	if tags.OGTitle != "" && tags.OGDescription != "" {
		f.Kind = KindPassed
		f.Description = "Open Graph title and description are present"
		f.Score, f.CategoryPoints = 10, 15
		return f
	}
	f.Kind = KindWarning
	f.Description = "Add og:title and og:description for better social sharing"
	return f
}

func checkTwitterCard(tags TagRecord) Finding {
	f := Finding{Title: "Twitter Card", Category: CategorySocialMedia}
	if tags.TwitterCard != "" {
		f.Kind = KindPassed
		f.Description = fmt.Sprintf("Twitter Card is configured (%s)", tags.TwitterCard)
		f.Score, f.CategoryPoints = 5, 10
		return f
	}
	f.Kind = KindWarning
	f.Description = "Add a twitter:card meta tag for better Twitter previews"
	return f
}

func checkCanonical(tags TagRecord) Finding {
	f := Finding{Title: "Canonical URL", Category: CategoryTechnicalSEO}
	if tags.Canonical != "" {
		f.Kind = KindPassed
		f.Description = "Canonical URL is set"
		f.Score, f.CategoryPoints = 10, 10
		return f
	}
	f.Kind = KindWarning
	f.Description = "Add a canonical URL to prevent duplicate content issues"
	return f
}

func checkViewport(tags TagRecord) Finding {
	f := Finding{Title: "Viewport Meta Tag", Category: CategoryTechnicalSEO}
	if tags.Viewport != "" {
		f.Kind = KindPassed
		f.Description = "Viewport is configured for mobile devices"
		f.Score, f.CategoryPoints = 5, 10
		return f
	}
	f.Kind = KindError
	f.Description = "Missing viewport meta tag; the page is not mobile-friendly"
	return f
}

func checkLanguage(tags TagRecord) Finding {
	f := Finding{Title: "Language Declaration", Category: CategoryContentQuality}
	if tags.Language != "" {
		f.Kind = KindPassed
		f.Description = fmt.Sprintf("Page language is declared (%s)", tags.Language)
		f.Score, f.CategoryPoints = 5, 5
		return f
	}
	f.Kind = KindWarning
	f.Description = "Add a lang attribute to the html element"
	return f
}

func checkStructuredData(tags TagRecord) Finding {
	f := Finding{Title: "Structured Data", Category: CategoryTechnicalSEO}
	if n := len(tags.StructuredData); n > 0 {
		f.Kind = KindPassed
		f.Description = fmt.Sprintf("Found %d structured data block(s)", n)
		f.Score, f.CategoryPoints = 10, 10
		return f
	}
	f.Kind = KindWarning
	f.Description = "Add JSON-LD structured data to enable rich results"
	return f
}

// Category status bands, evaluated top-down.
const (
	StatusExcellent = "Excellent"
	StatusGood      = "Good"
	StatusNeedsWork = "Needs Work"
	StatusPoor      = "Poor"
)

// Percentage returns the earned share of the category rounded to the
// nearest whole percent.
func (t CategoryTally) Percentage() int {
	if t.MaxPoints <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(t.EarnedPoints) / float64(t.MaxPoints)))
}

// Status returns the band label for the tally.
func (t CategoryTally) Status() string {
	return StatusFor(t.Percentage())
}

// StatusFor maps a 0-100 percentage to its band label.
func StatusFor(percentage int) string {
	switch {
	case percentage >= 90:
		return StatusExcellent
	case percentage >= 70:
		return StatusGood
	case percentage >= 50:
		return StatusNeedsWork
	default:
		return StatusPoor
	}
}
