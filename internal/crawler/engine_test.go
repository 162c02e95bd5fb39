package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aidocs/harvester/pkg/document"
)

// MockFetcher is a mock implementation of the Fetcher interface.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	args := m.Called(ctx, rawURL)
	return args.Get(0).(Page), args.Error(1)
}

func testConfig(startURL string) Config {
	return Config{
		StartURL:         startURL,
		MaxPages:         10,
		MaxDepth:         3,
		Delay:            0,
		RequestTimeout:   5 * time.Second,
		UserAgent:        "harvester-test/1.0",
		MinContentLength: 100,
	}
}

func wordBlock(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}
	return strings.Join(words, " ")
}

func contentPage(title, body string, links ...string) string {
	var b strings.Builder
	b.WriteString("<html><head><title>" + title + "</title></head><body>")
	b.WriteString("<p>" + body + "</p>")
	for _, l := range links {
		b.WriteString(`<a href="` + l + `">more</a>`)
	}
	b.WriteString("</body></html>")
	return b.String()
}

// testSite serves a small site and records which paths were requested.
type testSite struct {
	mu       sync.Mutex
	requests map[string]int
	pages    map[string]string
	server   *httptest.Server
}

func newTestSite(pages map[string]string) *testSite {
	site := &testSite{
		requests: make(map[string]int),
		pages:    pages,
	}
	site.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		site.mu.Lock()
		site.requests[r.URL.Path]++
		site.mu.Unlock()
		page, ok := site.pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	return site
}

func (s *testSite) requestCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

func TestEngine_Run_SinglePage(t *testing.T) {
	site := newTestSite(map[string]string{
		"/": contentPage("Home", wordBlock(150)),
	})
	defer site.server.Close()

	cfg := testConfig(site.server.URL)
	cfg.MaxPages = 1
	fetcher := NewCollyFetcher(cfg.UserAgent, cfg.RequestTimeout, zap.NewNop())
	engine, err := NewEngine(cfg, fetcher, zap.NewNop())
	require.NoError(t, err)

	docs, err := engine.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	require.Equal(t, "Home", doc.Title)
	require.Equal(t, document.ContentTypeArticle, doc.ContentType)
	require.False(t, doc.HasCodeBlocks)
	require.Equal(t, 150, doc.WordCount)
	require.Equal(t, 0, doc.CrawlDepth)
	require.Equal(t, http.StatusOK, doc.HTTPStatus)
	require.False(t, doc.FetchedAt.IsZero())
}

func TestEngine_Run_Crawl(t *testing.T) {
	site := newTestSite(map[string]string{
		"/":      contentPage("Home", wordBlock(120), "/page2", "/thin", "/login", "/missing", "https://elsewhere.example/x"),
		"/page2": contentPage("Second", wordBlock(120), "/page4", "/page2"),
		"/thin":  contentPage("Thin", "tiny", "/never"),
		"/page4": contentPage("Fourth", wordBlock(120)),
		"/never": contentPage("Never", wordBlock(120)),
	})
	defer site.server.Close()

	cfg := testConfig(site.server.URL)
	fetcher := NewCollyFetcher(cfg.UserAgent, cfg.RequestTimeout, zap.NewNop())
	engine, err := NewEngine(cfg, fetcher, zap.NewNop())
	require.NoError(t, err)

	docs, err := engine.Run(context.Background())
	require.NoError(t, err)

	var urls []string
	for _, d := range docs {
		urls = append(urls, d.URL)
	}
	require.Len(t, docs, 3, "expected documents for /, /page2, /page4, got %v", urls)

	stats := engine.Stats()
	require.Equal(t, 3, stats.PagesCrawled)
	require.Equal(t, 1, stats.PagesSkipped, "thin page should be skipped")
	require.Equal(t, 1, stats.Errors, "404 on /missing should count as an error")

	// Links on a thin page are not followed; blocked and offsite links are
	// never requested; nothing is fetched twice.
	require.Equal(t, 0, site.requestCount("/never"))
	require.Equal(t, 0, site.requestCount("/login"))
	require.Equal(t, 1, site.requestCount("/page2"))

	for _, d := range docs {
		require.LessOrEqual(t, d.CrawlDepth, cfg.MaxDepth)
	}
}

func TestEngine_Run_PageBudget(t *testing.T) {
	site := newTestSite(map[string]string{
		"/":  contentPage("Home", wordBlock(120), "/a", "/b", "/c"),
		"/a": contentPage("A", wordBlock(120)),
		"/b": contentPage("B", wordBlock(120)),
		"/c": contentPage("C", wordBlock(120)),
	})
	defer site.server.Close()

	cfg := testConfig(site.server.URL)
	cfg.MaxPages = 2
	fetcher := NewCollyFetcher(cfg.UserAgent, cfg.RequestTimeout, zap.NewNop())
	engine, err := NewEngine(cfg, fetcher, zap.NewNop())
	require.NoError(t, err)

	docs, err := engine.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
}

func TestEngine_Run_DepthBudget(t *testing.T) {
	site := newTestSite(map[string]string{
		"/":  contentPage("Home", wordBlock(120), "/a"),
		"/a": contentPage("A", wordBlock(120)),
	})
	defer site.server.Close()

	cfg := testConfig(site.server.URL)
	cfg.MaxDepth = 0
	fetcher := NewCollyFetcher(cfg.UserAgent, cfg.RequestTimeout, zap.NewNop())
	engine, err := NewEngine(cfg, fetcher, zap.NewNop())
	require.NoError(t, err)

	docs, err := engine.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, 0, site.requestCount("/a"), "links beyond max depth must not be fetched")
}

func TestEngine_Run_FetchErrorIsNonFatal(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, mock.Anything).
		Return(Page{}, &NetworkError{URL: "https://example.com", Err: fmt.Errorf("refused")})

	engine, err := NewEngine(testConfig("https://example.com"), fetcher, zap.NewNop())
	require.NoError(t, err)

	docs, err := engine.Run(context.Background())
	require.NoError(t, err)
	require.Empty(t, docs)
	require.Equal(t, 1, engine.Stats().Errors)
	fetcher.AssertExpectations(t)
}

func TestEngine_Run_Cancellation(t *testing.T) {
	fetcher := new(MockFetcher)

	engine, err := NewEngine(testConfig("https://example.com"), fetcher, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	docs, err := engine.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, docs)
	fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestEngine_New_RejectsBadConfig(t *testing.T) {
	_, err := NewEngine(testConfig("ftp://example.com"), new(MockFetcher), zap.NewNop())
	require.Error(t, err)
}
