package preview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/seo-optimizer/metacheck/analyzer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullTags() analyzer.TagRecord {
	return analyzer.TagRecord{
		Title:          strings.Repeat("A", 45),
		Description:    strings.Repeat("B", 140),
		OGTitle:        "OG title",
		OGDescription:  "OG description",
		OGImage:        "https://example.com/og.png",
		Canonical:      "https://example.com",
		Viewport:       "width=device-width",
		Language:       "en",
		TwitterCard:    "summary_large_image",
		StructuredData: []any{map[string]any{}},
	}
}

func TestRender(t *testing.T) {
	tags := fullTags()
	report := analyzer.Evaluate(tags)

	v := Render(report, tags, "https://www.example.com/blog/post")

	assert.Equal(t, 75, v.Score)
	assert.Equal(t, analyzer.StatusGood, v.ScoreStatus)
	assert.Equal(t, 8, v.Passed)
	assert.Equal(t, report.Findings, v.Findings)

	require.Len(t, v.Categories, 4)
	assert.Equal(t, "Basic SEO", v.Categories[0].Name)
	assert.Equal(t, analyzer.StatusExcellent, v.Categories[0].Status)
	assert.Equal(t, "Content Quality", v.Categories[3].Name)
	assert.Equal(t, 33, v.Categories[3].Percentage)
	assert.Equal(t, analyzer.StatusPoor, v.Categories[3].Status)

	assert.Equal(t, "www.example.com › blog › post", v.Search.Breadcrumb)
	assert.Equal(t, tags.Title, v.Search.Title)

	assert.Equal(t, "OG title", v.Facebook.Title)
	assert.Equal(t, "EXAMPLE.COM", v.Facebook.Domain)

	assert.Equal(t, "summary_large_image", v.Twitter.Card)
	assert.Equal(t, tags.Title, v.Twitter.Title)
	assert.Equal(t, "https://example.com/og.png", v.Twitter.Image)
	assert.Equal(t, "example.com", v.Twitter.Domain)
}

func TestRenderFallbacks(t *testing.T) {
	tags := analyzer.TagRecord{
		TwitterTitle: "Twitter only",
		TwitterImage: "https://example.com/tw.png",
	}
	v := Render(analyzer.Evaluate(tags), tags, "https://example.com")

	assert.Empty(t, v.Facebook.Title)
	assert.Empty(t, v.Facebook.Image)
	assert.Equal(t, "Twitter only", v.Twitter.Title)
	assert.Equal(t, "https://example.com/tw.png", v.Twitter.Image)
	assert.Equal(t, "summary", v.Twitter.Card)
	assert.Empty(t, v.Search.Title)
	assert.Equal(t, "example.com", v.Search.Breadcrumb)
}

func TestRenderTruncatesSearchPreview(t *testing.T) {
	tags := analyzer.TagRecord{
		Title:       strings.Repeat("t", 61),
		Description: strings.Repeat("d", 200),
	}
	v := Render(analyzer.Evaluate(tags), tags, "https://example.com")

	assert.Equal(t, 60, len([]rune(v.Search.Title)))
	assert.True(t, strings.HasSuffix(v.Search.Title, "..."))
	assert.Equal(t, 160, len([]rune(v.Search.Description)))

	assert.Equal(t, "short", truncate("short", 60))
	assert.Equal(t, strings.Repeat("x", 60), truncate(strings.Repeat("x", 60), 60))
}

func TestRenderDoesNotAliasFindings(t *testing.T) {
	report := analyzer.Evaluate(analyzer.TagRecord{})
	v := Render(report, analyzer.TagRecord{}, "https://example.com")

	v.Findings[0].Title = "changed"
	assert.Equal(t, "Title Tag", report.Findings[0].Title)
}

func TestWriteHTML(t *testing.T) {
	tags := fullTags()
	tags.OGTitle = `<script>alert("x")</script>`
	v := Render(analyzer.Evaluate(tags), tags, "https://example.com/page")

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, v))

	out := buf.String()
	assert.Contains(t, out, "75/100")
	assert.Contains(t, out, "Technical SEO")
	assert.Contains(t, out, "Structured Data")
	assert.NotContains(t, out, `<script>alert`)
}

func TestWriteText(t *testing.T) {
	tags := analyzer.TagRecord{Viewport: "w"}
	v := Render(analyzer.Evaluate(tags), tags, "https://example.com")

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, v))

	out := buf.String()
	assert.Contains(t, out, "Score: 5/100 (Poor)")
	assert.Contains(t, out, "[FAIL] Title Tag")
	assert.Contains(t, out, "[PASS] Viewport Meta Tag")
	assert.Contains(t, out, "(none)")

	first := strings.Index(out, "Title Tag")
	last := strings.Index(out, "Structured Data")
	assert.Less(t, first, last)
}
