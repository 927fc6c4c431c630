package preview

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
)

// TemplateName is the name of the HTML report template.
const TemplateName = "report.html.tmpl"

//go:embed templates/*.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Template returns the parsed HTML templates, for use with gin's SetHTMLTemplate.
func Template() *template.Template {
	return reportTemplate
}

// WriteHTML renders the HTML report.
func WriteHTML(w io.Writer, v View) error {
	return reportTemplate.ExecuteTemplate(w, TemplateName, v)
}

var kindMarks = map[string]string{
	"passed":  "[PASS]",
	"warning": "[WARN]",
	"error":   "[FAIL]",
}

// WriteText renders a plain-text report.
func WriteText(w io.Writer, v View) error {
	var b strings.Builder

	fmt.Fprintf(&b, "SEO report for %s\n", v.URL)
	fmt.Fprintf(&b, "Score: %d/100 (%s)\n", v.Score, v.ScoreStatus)
	fmt.Fprintf(&b, "%d passed, %d warnings, %d errors\n\n", v.Passed, v.Warnings, v.Errors)

	b.WriteString("Categories\n")
	for _, c := range v.Categories {
		fmt.Fprintf(&b, "  %-16s %2d/%-2d %3d%%  %s\n", c.Name, c.Earned, c.Max, c.Percentage, c.Status)
	}

	b.WriteString("\nFindings\n")
	for _, f := range v.Findings {
		fmt.Fprintf(&b, "  %s %s: %s\n", kindMarks[string(f.Kind)], f.Title, f.Description)
	}

	b.WriteString("\nSearch preview\n")
	fmt.Fprintf(&b, "  %s\n  %s\n  %s\n", v.Search.Breadcrumb, orNone(v.Search.Title), orNone(v.Search.Description))

	b.WriteString("\nFacebook preview\n")
	writeCard(&b, v.Facebook)

	fmt.Fprintf(&b, "\nTwitter preview (%s)\n", v.Twitter.Card)
	writeCard(&b, v.Twitter)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCard(b *strings.Builder, c SocialCard) {
	fmt.Fprintf(b, "  %s\n  %s\n  %s\n  image: %s\n", c.Domain, orNone(c.Title), orNone(c.Description), orNone(c.Image))
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
