package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	jobName = "eolmgr"
)

var (
	OrganizationsCounter *prometheus.CounterVec
	DevicesCounter       *prometheus.CounterVec
	ReportRowsCounter    *prometheus.CounterVec

	CatalogRecordsGauge       *prometheus.GaugeVec
	CatalogDiagnosticsCounter *prometheus.CounterVec

	DashboardQueryErrorCount *prometheus.CounterVec

	StageRunTimeSummary *prometheus.SummaryVec
)

func init() {
	OrganizationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eolmgr_organizations_processed",
			Help: "A counter metric to measure the total count of organizations processed, by outcome",
		},
		[]string{"state"}, // state is one of reported/skipped/failed
	)

	DevicesCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eolmgr_devices_fetched",
			Help: "A counter metric to measure the total count of inventory devices fetched",
		},
		[]string{"assignment"}, // assignment is assigned/unassigned
	)

	ReportRowsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eolmgr_report_units",
			Help: "A counter metric to measure the total count of deployed units matching an EOL catalog product",
		},
		[]string{"product"},
	)

	CatalogRecordsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "eolmgr_catalog_records",
			Help: "A gauge metric of the number of EOL catalog records loaded",
		},
		[]string{"source"},
	)

	CatalogDiagnosticsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eolmgr_catalog_rows_skipped",
			Help: "A counter metric to measure the total count of EOL catalog rows skipped",
		},
		[]string{"source"},
	)

	DashboardQueryErrorCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eolmgr_dashboard_query_error_count",
			Help: "A counter metric to measure the total count of errors querying the Dashboard API.",
		},
		[]string{"queryKind"},
	)

	StageRunTimeSummary = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "eolmgr_stage_duration_seconds",
			Help: "A summary metric to measure the total time spent in each report run stage",
		},
		[]string{"stage"},
	)
}

// ObserveStage records the time spent in a run stage since the given start time.
func ObserveStage(stage string, start time.Time) {
	StageRunTimeSummary.With(prometheus.Labels{"stage": stage}).Observe(time.Since(start).Seconds())
}

// Push pushes the collected metrics to the Prometheus push gateway,
// the report run is a one-shot process and so metrics are pushed instead of being scraped.
func Push(ctx context.Context, pushgatewayURL string) error {
	return push.New(pushgatewayURL, jobName).
		Gatherer(prometheus.DefaultGatherer).
		PushContext(ctx)
}
