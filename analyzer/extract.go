package analyzer

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Selectors are matched by exact tag and attribute name. When a page
// carries several tags of the same kind the first one in document order wins.
var (
	titleSel       = cascadia.MustCompile("title")
	descriptionSel = cascadia.MustCompile(`meta[name="description"]`)
	keywordsSel    = cascadia.MustCompile(`meta[name="keywords"]`)
	robotsSel      = cascadia.MustCompile(`meta[name="robots"]`)
	authorSel      = cascadia.MustCompile(`meta[name="author"]`)
	viewportSel    = cascadia.MustCompile(`meta[name="viewport"]`)
	charsetSel     = cascadia.MustCompile("meta[charset]")
	canonicalSel   = cascadia.MustCompile(`link[rel="canonical"]`)
	faviconSel     = cascadia.MustCompile(`link[rel~="icon"]`)
	languageSel    = cascadia.MustCompile("html[lang]")
	jsonLDSel      = cascadia.MustCompile(`script[type="application/ld+json"]`)

	ogTitleSel       = cascadia.MustCompile(`meta[property="og:title"]`)
	ogDescriptionSel = cascadia.MustCompile(`meta[property="og:description"]`)
	ogImageSel       = cascadia.MustCompile(`meta[property="og:image"]`)
	ogURLSel         = cascadia.MustCompile(`meta[property="og:url"]`)
	ogTypeSel        = cascadia.MustCompile(`meta[property="og:type"]`)
	ogSiteNameSel    = cascadia.MustCompile(`meta[property="og:site_name"]`)

	twitterCardSel        = cascadia.MustCompile(`meta[name="twitter:card"]`)
	twitterTitleSel       = cascadia.MustCompile(`meta[name="twitter:title"]`)
	twitterDescriptionSel = cascadia.MustCompile(`meta[name="twitter:description"]`)
	twitterImageSel       = cascadia.MustCompile(`meta[name="twitter:image"]`)
	twitterSiteSel        = cascadia.MustCompile(`meta[name="twitter:site"]`)
)

// Extract pulls the tag record out of raw HTML. pageURL is used to resolve
// relative canonical, image and favicon references; it may be empty.
// JSON-LD blocks that are not valid JSON are skipped.
func Extract(htmlText string, pageURL string) (TagRecord, error) {
	root, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		return TagRecord{}, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	var base *url.URL
	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil {
			base = u
		}
	}

	tags := TagRecord{
		Title:       strings.TrimSpace(doc.FindMatcher(titleSel).First().Text()),
		Description: attr(doc, descriptionSel, "content"),
		Keywords:    attr(doc, keywordsSel, "content"),
		Robots:      attr(doc, robotsSel, "content"),
		Author:      attr(doc, authorSel, "content"),
		Charset:     attr(doc, charsetSel, "charset"),
		Canonical:   resolve(base, attr(doc, canonicalSel, "href")),
		Viewport:    attr(doc, viewportSel, "content"),
		Language:    attr(doc, languageSel, "lang"),
		Favicon:     resolve(base, attr(doc, faviconSel, "href")),

		OGTitle:       attr(doc, ogTitleSel, "content"),
		OGDescription: attr(doc, ogDescriptionSel, "content"),
		OGImage:       resolve(base, attr(doc, ogImageSel, "content")),
		OGURL:         attr(doc, ogURLSel, "content"),
		OGType:        attr(doc, ogTypeSel, "content"),
		OGSiteName:    attr(doc, ogSiteNameSel, "content"),

		TwitterCard:        attr(doc, twitterCardSel, "content"),
		TwitterTitle:       attr(doc, twitterTitleSel, "content"),
		TwitterDescription: attr(doc, twitterDescriptionSel, "content"),
		TwitterImage:       resolve(base, attr(doc, twitterImageSel, "content")),
		TwitterSite:        attr(doc, twitterSiteSel, "content"),

		StructuredData: []any{},
	}

	doc.FindMatcher(jsonLDSel).Each(func(_ int, s *goquery.Selection) {
		var block any
		if err := json.Unmarshal([]byte(s.Text()), &block); err != nil {
			return
		}
		tags.StructuredData = append(tags.StructuredData, block)
	})

	return tags, nil
}

// attr returns the trimmed attribute of the first element matching sel.
func attr(doc *goquery.Document, sel cascadia.Selector, name string) string {
	value, _ := doc.FindMatcher(sel).First().Attr(name)
	return strings.TrimSpace(value)
}

func resolve(base *url.URL, ref string) string {
	if ref == "" || base == nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}
