package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	JournalAppendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_appends_total",
		Help: "Records appended per journal",
	}, []string{"journal"})

	JournalRewritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_rewrites_total",
		Help: "Filtering rewrites performed per journal",
	}, []string{"journal"})

	MalformedRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journal_malformed_records_total",
		Help: "Journal lines skipped because they failed to parse",
	}, []string{"journal"})

	SettlementsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_settlements_total",
		Help: "Invoice records moved from outstanding to settled",
	})

	SettleDuplicationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_settle_duplications_total",
		Help: "Settle sequences that failed after appending to settled, leaving records in both journals",
	})
)
