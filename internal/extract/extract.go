// Package extract reduces HTML pages to readable text so the language
// detector sees article prose rather than navigation, scripts, and markup.
package extract

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Text extracts the main article content from an HTML document and renders
// it as Markdown. baseURL resolves relative links during readability
// extraction; nil is acceptable when the origin is unknown.
func Text(content io.Reader, baseURL *url.URL) (string, error) {
	if baseURL == nil {
		baseURL = &url.URL{}
	}

	article, err := readability.FromReader(content, baseURL)
	if err != nil {
		return "", fmt.Errorf("readability extraction failed: %w", err)
	}
	return toMarkdown(article.Content)
}

// SelectText extracts the elements matching a CSS selector and renders them
// as Markdown, bypassing readability. Useful when a page's prose lives
// outside what readability considers the main article.
func SelectText(content io.Reader, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(selector)
	if selection.Length() == 0 {
		return "", fmt.Errorf("no elements match selector %q", selector)
	}

	var parts []string
	selection.Each(func(_ int, s *goquery.Selection) {
		if outer, err := goquery.OuterHtml(s); err == nil {
			parts = append(parts, outer)
		}
	})
	if len(parts) == 0 {
		return "", fmt.Errorf("failed to render selection for %q", selector)
	}

	return toMarkdown(strings.Join(parts, "\n"))
}

// toMarkdown converts an HTML fragment to trimmed Markdown.
func toMarkdown(html string) (string, error) {
	converter := md.NewConverter("", true, nil)

	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}
	return collapseBlankLines(strings.TrimSpace(markdown)), nil
}

// collapseBlankLines squeezes runs of blank lines down to one.
func collapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}
