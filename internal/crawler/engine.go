package crawler

import (
	"context"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aidocs/harvester/internal/enrich"
	"github.com/aidocs/harvester/internal/extract"
	"github.com/aidocs/harvester/pkg/document"
)

// Stats accumulates run-level counters. Owned and mutated exclusively by
// the Engine.
type Stats struct {
	PagesCrawled int
	PagesSkipped int
	Errors       int
	StartTime    time.Time
	EndTime      time.Time
}

// Duration returns the wall-clock length of the run.
func (s Stats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Rate returns pages crawled per second.
func (s Stats) Rate() float64 {
	secs := s.Duration().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.PagesCrawled) / secs
}

// Engine drives the crawl loop: pop frontier, fetch, extract, enrich,
// enqueue discovered links, enforce budgets, collect stats.
type Engine struct {
	cfg     Config
	fetcher Fetcher
	logger  *zap.Logger
	pauser  pauseController

	allowedDomain string
	visited       *visitTracker
	frontier      *frontier
	docs          []document.Document
	stats         Stats
}

// NewEngine validates the configuration and constructs an Engine. A
// configuration error here is fatal: no crawl begins.
func NewEngine(cfg Config, fetcher Fetcher, logger *zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:           cfg,
		fetcher:       fetcher,
		logger:        logger,
		pauser:        &timerPauseController{},
		allowedDomain: cfg.AllowedDomain(),
		visited:       newVisitTracker(),
		frontier:      &frontier{},
	}, nil
}

// Run crawls breadth-first from the seed until the frontier empties or the
// page budget is reached. Per-page failures are counted and skipped, never
// fatal. On cancellation the loop exits between entries and the documents
// emitted so far are returned alongside the context error, so the caller
// can still flush them.
func (e *Engine) Run(ctx context.Context) ([]document.Document, error) {
	seed, err := Normalize(e.cfg.StartURL)
	if err != nil {
		return nil, err
	}
	e.frontier.push(seed, 0)

	runID := uuid.NewString()
	e.stats.StartTime = time.Now().UTC()
	e.logger.Info("starting crawl",
		zap.String("run_id", runID),
		zap.String("start_url", seed),
		zap.Int("max_pages", e.cfg.MaxPages),
		zap.Int("max_depth", e.cfg.MaxDepth),
	)

	for e.frontier.len() > 0 && len(e.docs) < e.cfg.MaxPages {
		if ctx.Err() != nil {
			e.logger.Warn("crawl canceled", zap.String("run_id", runID), zap.Int("documents", len(e.docs)))
			break
		}

		entry, ok := e.frontier.pop()
		if !ok {
			break
		}
		if e.visited.Seen(entry.url) {
			continue
		}
		if entry.depth > e.cfg.MaxDepth {
			e.stats.PagesSkipped++
			TotalSkips.Inc()
			continue
		}
		e.visited.MarkIfNew(entry.url)

		e.logger.Info("crawling page",
			zap.Int("position", len(e.docs)+1),
			zap.Int("budget", e.cfg.MaxPages),
			zap.Int("depth", entry.depth),
			zap.String("url", entry.url),
		)

		TotalRequests.Inc()
		page, err := e.fetcher.Fetch(ctx, entry.url)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			e.stats.Errors++
			TotalRequestErrors.Inc()
			e.logger.Warn("fetch failed", zap.String("url", entry.url), zap.Error(err))
			continue
		}

		e.processPage(entry, page)
		e.pauser.Pause(ctx, e.cfg.Delay)
	}

	e.stats.EndTime = time.Now().UTC()
	e.logSummary(runID)
	return e.docs, ctx.Err()
}

// processPage runs extraction and enrichment for one fetched page and
// enqueues its outbound links. Pages under the thin-content floor emit no
// document and their links are not followed.
func (e *Engine) processPage(entry frontierEntry, page Page) {
	extracted, err := extract.ExtractAndClean(page.Body, entry.url)
	if err != nil {
		e.stats.Errors++
		TotalRequestErrors.Inc()
		e.logger.Warn("extraction failed", zap.String("url", entry.url),
			zap.Error(&ExtractionError{URL: entry.url, Err: err}))
		return
	}

	if utf8.RuneCountInString(extracted.BodyText) < e.cfg.MinContentLength {
		e.stats.PagesSkipped++
		TotalSkips.Inc()
		e.logger.Debug("skipping thin page", zap.String("url", entry.url),
			zap.Int("content_length", utf8.RuneCountInString(extracted.BodyText)))
		return
	}

	doc := enrich.Enrich(extracted, entry.url, page.StatusCode, entry.depth)
	e.docs = append(e.docs, doc)
	e.stats.PagesCrawled++
	TotalDocuments.Inc()

	if entry.depth < e.cfg.MaxDepth {
		e.discoverLinks(entry, page)
	}
}

// discoverLinks normalizes and filters the page's outbound links and pushes
// the unvisited ones at depth+1.
func (e *Engine) discoverLinks(entry frontierEntry, page Page) {
	base, err := url.Parse(entry.url)
	if err != nil {
		return
	}
	links, err := extract.Links(page.Body, base)
	if err != nil {
		e.stats.Errors++
		e.logger.Warn("link extraction failed", zap.String("url", entry.url), zap.Error(err))
		return
	}
	for _, link := range links {
		normalized, err := Normalize(link)
		if err != nil {
			continue
		}
		if !IsEligible(normalized, e.allowedDomain) {
			continue
		}
		if e.visited.Seen(normalized) {
			continue
		}
		e.frontier.push(normalized, entry.depth+1)
	}
}

// Stats returns the run counters collected so far.
func (e *Engine) Stats() Stats {
	return e.stats
}

func (e *Engine) logSummary(runID string) {
	e.logger.Info("crawl finished",
		zap.String("run_id", runID),
		zap.Int("pages_crawled", e.stats.PagesCrawled),
		zap.Int("pages_skipped", e.stats.PagesSkipped),
		zap.Int("errors", e.stats.Errors),
		zap.Duration("duration", e.stats.Duration()),
		zap.Float64("pages_per_second", e.stats.Rate()),
	)
}
