package analyzer

// TagRecord holds the SEO-relevant tags pulled out of a single HTML page.
// An empty string means the tag was absent.
type TagRecord struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	Robots      string `json:"robots"`
	Author      string `json:"author"`
	Charset     string `json:"charset"`
	Canonical   string `json:"canonical"`
	Viewport    string `json:"viewport"`
	Language    string `json:"language"`
	Favicon     string `json:"favicon"`

	OGTitle       string `json:"ogTitle"`
	OGDescription string `json:"ogDescription"`
	OGImage       string `json:"ogImage"`
	OGURL         string `json:"ogUrl"`
	OGType        string `json:"ogType"`
	OGSiteName    string `json:"ogSiteName"`

	TwitterCard        string `json:"twitterCard"`
	TwitterTitle       string `json:"twitterTitle"`
	TwitterDescription string `json:"twitterDescription"`
	TwitterImage       string `json:"twitterImage"`
	TwitterSite        string `json:"twitterSite"`

	// StructuredData holds the successfully decoded JSON-LD blocks in document order.
	StructuredData []any `json:"structuredData"`
}

// Kind classifies a finding.
type Kind string

const (
	KindPassed  Kind = "passed"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Category groups findings into weighted sub-scores.
type Category string

const (
	CategoryBasicSEO       Category = "basicSeo"
	CategorySocialMedia    Category = "socialMedia"
	CategoryTechnicalSEO   Category = "technicalSeo"
	CategoryContentQuality Category = "contentQuality"
)

var categoryMaxPoints = map[Category]int{
	CategoryBasicSEO:       30,
	CategorySocialMedia:    25,
	CategoryTechnicalSEO:   30,
	CategoryContentQuality: 15,
}

// Categories returns the four categories in display order.
func Categories() []Category {
	return []Category{
		CategoryBasicSEO,
		CategorySocialMedia,
		CategoryTechnicalSEO,
		CategoryContentQuality,
	}
}

// MaxPoints returns the fixed point ceiling of a category.
func MaxPoints(c Category) int {
	return categoryMaxPoints[c]
}

// Finding is the outcome of a single rule.
type Finding struct {
	Kind           Kind     `json:"kind"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	CategoryPoints int      `json:"categoryPoints"`
	Category       Category `json:"category"`
	// Score is the contribution to Report.OverallScore. It differs from
	// CategoryPoints for the Open Graph and Twitter Card rules.
	Score int `json:"score"`
}

// CategoryTally sums the category points earned by a report's findings.
type CategoryTally struct {
	EarnedPoints int `json:"earnedPoints"`
	MaxPoints    int `json:"maxPoints"`
}

// Report is the result of evaluating a TagRecord.
type Report struct {
	OverallScore int                        `json:"overallScore"`
	PassedCount  int                        `json:"passedCount"`
	WarningCount int                        `json:"warningCount"`
	ErrorCount   int                        `json:"errorCount"`
	Findings     []Finding                  `json:"findings"`
	Categories   map[Category]CategoryTally `json:"categories"`
}
