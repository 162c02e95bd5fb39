// Package document defines the persisted document schema produced by a
// crawl run and the collection formats downstream consumers read.
package document

import "time"

// ContentType labels the kind of page a document was extracted from.
type ContentType string

// Content type values assigned by the classifier.
const (
	ContentTypeDocPage     ContentType = "doc_page"
	ContentTypeArticle     ContentType = "article"
	ContentTypeProductPage ContentType = "product_page"
	ContentTypeListPage    ContentType = "list_page"
	ContentTypeTutorial    ContentType = "tutorial"
)

// LanguageUnknown is recorded when detection is unreliable or fails.
const LanguageUnknown = "unknown"

// Document is one cleaned, metadata-enriched page. It is immutable once
// assembled and serialized with exactly these field names.
type Document struct {
	URL               string      `json:"url"`
	Title             string      `json:"title"`
	BodyText          string      `json:"body_text"`
	FetchedAt         time.Time   `json:"fetched_at"`
	ContentType       ContentType `json:"content_type"`
	WordCount         int         `json:"word_count"`
	CharCount         int         `json:"char_count"`
	Language          string      `json:"language"`
	EstimatedReadTime float64     `json:"estimated_read_time_minutes"`
	HasCodeBlocks     bool        `json:"has_code_blocks"`
	LinkDensity       float64     `json:"link_density"`
	ParagraphCount    int         `json:"paragraph_count"`
	HTTPStatus        int         `json:"http_status"`
	CrawlDepth        int         `json:"crawl_depth"`
}
