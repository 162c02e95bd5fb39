// Package extract locates the main content of an HTML page, strips
// boilerplate, and computes the structural signals the enricher consumes.
package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Result holds the cleaned content and structural signals for one page.
type Result struct {
	Title          string
	BodyText       string
	ParagraphCount int
	HasCodeBlocks  bool
	LinkDensity    float64
}

// boilerplateTags are removed wherever they appear in the content region.
var boilerplateTags = map[string]struct{}{
	"nav":    {},
	"footer": {},
	"aside":  {},
	"script": {},
	"style":  {},
}

// boilerplatePatterns match common boilerplate class/id naming. Substring
// match, case-insensitive.
var boilerplatePatterns = []string{
	"navbar",
	"navigation",
	"menu-",
	"sidebar",
	"side-bar",
	"footer",
	"site-footer",
	"page-footer",
	"header-nav",
	"site-header",
	"advertisement",
	"ad-",
	"cookie-",
	"popup",
	"modal",
	"banner-ad",
	"share-button",
	"social-share",
}

var (
	mainContentClass = regexp.MustCompile(`(?i)page.*content|main.*content|site.*content|container.*page`)
	mainContentID    = regexp.MustCompile(`(?i)content|main`)

	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	spacedNewline   = regexp.MustCompile(` *\n *`)
	excessNewlines  = regexp.MustCompile(`\n{3,}`)
)

// blockTags end a paragraph when their element closes.
var blockTags = map[string]struct{}{
	"p": {}, "div": {}, "section": {}, "article": {}, "main": {},
	"header": {}, "table": {}, "ul": {}, "ol": {}, "blockquote": {},
	"pre": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
}

// Title tries, in order: the document <title>, the first <h1>, the og:title
// meta content. First non-empty match wins, else "Untitled".
func Title(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	og := doc.Find(`meta[property="og:title"]`).First()
	if content, ok := og.Attr("content"); ok {
		if t := strings.TrimSpace(content); t != "" {
			return t
		}
	}
	return "Untitled"
}

// IsBoilerplate reports whether the element is page furniture: a
// boilerplate tag, or a class/id matching a boilerplate naming pattern.
func IsBoilerplate(s *goquery.Selection) bool {
	if _, ok := boilerplateTags[goquery.NodeName(s)]; ok {
		return true
	}
	class, _ := s.Attr("class")
	id, _ := s.Attr("id")
	haystack := strings.ToLower(class + " " + id)
	for _, pattern := range boilerplatePatterns {
		if strings.Contains(haystack, pattern) {
			return true
		}
	}
	return false
}

// locateMainContent prefers <main>, then a div whose class names a content
// area, then a div with a content/main id, then <body>, then the whole
// document. <article> is deliberately not used: sites frequently wrap
// sub-items in it rather than the page body.
func locateMainContent(doc *goquery.Document) *goquery.Selection {
	if m := doc.Find("main").First(); m.Length() > 0 {
		return m
	}

	var byClass *goquery.Selection
	doc.Find("div[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if mainContentClass.MatchString(class) {
			byClass = s
			return false
		}
		return true
	})
	if byClass != nil {
		return byClass
	}

	var byID *goquery.Selection
	doc.Find("div[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		if mainContentID.MatchString(id) {
			byID = s
			return false
		}
		return true
	})
	if byID != nil {
		return byID
	}

	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

// removeBoilerplate drops every boilerplate descendant from the selection.
func removeBoilerplate(sel *goquery.Selection) {
	sel.Find("*").Each(func(_ int, s *goquery.Selection) {
		if IsBoilerplate(s) {
			s.Remove()
		}
	})
}

// renderText walks the DOM emitting trimmed text nodes joined by newlines,
// with a blank line after each block-level element.
func renderText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		appendNodeText(n, &b)
	}
	return b.String()
}

func appendNodeText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			b.WriteString(t)
			b.WriteString("\n")
		}
	case html.ElementNode:
		if n.Data == "br" {
			b.WriteString("\n")
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			appendNodeText(c, b)
		}
		if _, ok := blockTags[n.Data]; ok {
			b.WriteString("\n")
		}
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			appendNodeText(c, b)
		}
	}
}

// cleanText collapses runs of horizontal whitespace to single spaces and
// runs of three or more newlines to exactly two.
func cleanText(text string) string {
	text = horizontalSpace.ReplaceAllString(text, " ")
	text = spacedNewline.ReplaceAllString(text, "\n")
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// countParagraphs splits on blank lines and counts non-empty segments.
func countParagraphs(text string) int {
	count := 0
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			count++
		}
	}
	return count
}

// ExtractAndClean runs the full extraction pipeline over raw markup.
func ExtractAndClean(markup []byte, pageURL string) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return Result{}, fmt.Errorf("parse markup for %s: %w", pageURL, err)
	}

	title := Title(doc)
	main := locateMainContent(doc)
	removeBoilerplate(main)

	bodyText := cleanText(renderText(main))

	var linkChars int
	main.Find("a").Each(func(i int, s *goquery.Selection) {
		if i > 0 {
			linkChars++ // joining space
		}
		linkChars += utf8.RuneCountInString(s.Text())
	})
	totalChars := utf8.RuneCountInString(bodyText)
	if totalChars < 1 {
		totalChars = 1
	}

	hasCode := main.Find("code, pre").Length() > 0 || strings.Contains(bodyText, "```")

	return Result{
		Title:          title,
		BodyText:       bodyText,
		ParagraphCount: countParagraphs(bodyText),
		HasCodeBlocks:  hasCode,
		LinkDensity:    float64(linkChars) / float64(totalChars),
	}, nil
}

// Links returns every <a href> in the markup resolved against the base URL.
// Normalization and eligibility filtering are the caller's concern.
func Links(markup []byte, base *url.URL) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup for links: %w", err)
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		links = append(links, base.ResolveReference(ref).String())
	})
	return links, nil
}
