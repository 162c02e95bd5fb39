package crawler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalRequests tracks the number of HTTP requests issued.
	TotalRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_requests_total",
		Help: "The total number of HTTP requests sent.",
	})
	// TotalRequestErrors tracks fetches that ended in a fetch error.
	TotalRequestErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_request_errors_total",
		Help: "The total number of failed HTTP requests.",
	})
	// TotalDocuments tracks the number of documents emitted.
	TotalDocuments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_documents_total",
		Help: "The total number of documents added to the collection.",
	})
	// TotalSkips tracks pages skipped by policy (depth, thin content).
	TotalSkips = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_pages_skipped_total",
		Help: "The total number of pages skipped by crawl policy.",
	})
)
