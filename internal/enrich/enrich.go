// Package enrich turns extracted content into finished documents: language
// detection, content-type classification, and derived scalar metadata.
package enrich

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"

	"github.com/aidocs/harvester/internal/extract"
	"github.com/aidocs/harvester/pkg/document"
)

const (
	wordsPerMinute = 200

	// minDetectableLength is the floor under which language detection is
	// too unreliable to attempt.
	minDetectableLength = 50
)

// DefaultListPageLinkDensity is the link-density threshold above which a
// page is classified as a list page. Heuristic, tunable.
const DefaultListPageLinkDensity = 0.3

// DetectLanguage returns the ISO 639-1 code of the text's best-guess
// language, or "unknown" for short text or any detector failure.
func DetectLanguage(text string) string {
	if utf8.RuneCountInString(text) < minDetectableLength {
		return document.LanguageUnknown
	}
	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	if code == "" {
		return document.LanguageUnknown
	}
	return code
}

// classificationRule pairs a predicate with the content type it assigns.
type classificationRule struct {
	matches func(sig classifySignals) bool
	outcome document.ContentType
}

type classifySignals struct {
	url         string
	title       string
	bodyText    string
	linkDensity float64
}

func urlContains(substrings ...string) func(classifySignals) bool {
	return func(sig classifySignals) bool {
		for _, s := range substrings {
			if strings.Contains(sig.url, s) {
				return true
			}
		}
		return false
	}
}

// classificationRules are evaluated in order; the first match wins.
var classificationRules = []classificationRule{
	{urlContains("/docs/", "/documentation/"), document.ContentTypeDocPage},
	{urlContains("/blog/", "/article/", "/post/"), document.ContentTypeArticle},
	{urlContains("/product/", "catalogue"), document.ContentTypeProductPage},
	{
		func(sig classifySignals) bool { return sig.linkDensity > DefaultListPageLinkDensity },
		document.ContentTypeListPage,
	},
	{
		func(sig classifySignals) bool {
			if utf8.RuneCountInString(sig.bodyText) <= 1500 {
				return false
			}
			for _, word := range []string{"tutorial", "guide", "how to"} {
				if strings.Contains(sig.title, word) {
					return true
				}
			}
			return false
		},
		document.ContentTypeTutorial,
	},
}

// ClassifyContentType labels a page from URL patterns and content signals.
func ClassifyContentType(pageURL, title, bodyText string, linkDensity float64) document.ContentType {
	sig := classifySignals{
		url:         strings.ToLower(pageURL),
		title:       strings.ToLower(title),
		bodyText:    bodyText,
		linkDensity: linkDensity,
	}
	for _, rule := range classificationRules {
		if rule.matches(sig) {
			return rule.outcome
		}
	}
	return document.ContentTypeArticle
}

// Enrich assembles the immutable document for a fetched page: word and
// character counts, language, content type, read time, and rounded link
// density, stamped with the current UTC time.
func Enrich(extracted extract.Result, pageURL string, httpStatus, crawlDepth int) document.Document {
	wordCount := len(strings.Fields(extracted.BodyText))
	charCount := utf8.RuneCountInString(extracted.BodyText)

	return document.Document{
		URL:               pageURL,
		Title:             extracted.Title,
		BodyText:          extracted.BodyText,
		FetchedAt:         time.Now().UTC(),
		ContentType:       ClassifyContentType(pageURL, extracted.Title, extracted.BodyText, extracted.LinkDensity),
		WordCount:         wordCount,
		CharCount:         charCount,
		Language:          DetectLanguage(extracted.BodyText),
		EstimatedReadTime: round(float64(wordCount)/wordsPerMinute, 2),
		HasCodeBlocks:     extracted.HasCodeBlocks,
		LinkDensity:       round(extracted.LinkDensity, 3),
		ParagraphCount:    extracted.ParagraphCount,
		HTTPStatus:        httpStatus,
		CrawlDepth:        crawlDepth,
	}
}

func round(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
