package utils

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
)

// CleanMarkdown strips surrounding whitespace and an outer code fence, which
// text models often wrap their answer in.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)
	if !strings.HasPrefix(cleaned, "```") || !strings.HasSuffix(cleaned, "```") || len(cleaned) < 6 {
		return cleaned
	}
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimPrefix(cleaned, "```")
	// drop the info string, e.g. ```markdown
	if i := strings.IndexByte(cleaned, '\n'); i >= 0 && !strings.ContainsAny(cleaned[:i], " \t") {
		cleaned = cleaned[i+1:]
	}
	return strings.TrimSpace(cleaned)
}

// RenderMarkdown converts Markdown to HTML.
func RenderMarkdown(input string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(input), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PlainText returns the text content of an HTML fragment with runs of
// whitespace collapsed.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}
