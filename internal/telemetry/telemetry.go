// Package telemetry exposes Prometheus metrics about analyses and the learning loop.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics holds all Prometheus metrics for gitpet.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Decisions        *prometheus.CounterVec
	Overrides        *prometheus.CounterVec
	FetchFailures    *prometheus.CounterVec
	RecordedPatterns *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg.
// Every classifier category and record type is exported at zero before its first event.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		Decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gitpet_decisions_total",
				Help: "Total number of feedback decisions by category and terminal state",
			},
			[]string{"category", "state"},
		),
		Overrides: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gitpet_overrides_total",
				Help: "Total number of personalized overrides by kind",
			},
			[]string{"kind"},
		),
		FetchFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gitpet_fetch_failures_total",
				Help: "Total number of failed commit history fetches by failure kind",
			},
			[]string{"kind"},
		),
		RecordedPatterns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gitpet_recorded_patterns_total",
				Help: "Total number of interaction records appended by type and result",
			},
			[]string{"type", "result"},
		),
		AnalysisDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gitpet_analysis_duration_seconds",
				Help:    "Duration of analyses in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
			},
			[]string{"state"},
		),
	}
	for _, c := range schema.AllCategories {
		m.Decisions.WithLabelValues(string(c), string(schema.DoneState))
	}
	for _, k := range schema.AllRecordTypes {
		m.RecordedPatterns.WithLabelValues(string(k), "ok")
		m.RecordedPatterns.WithLabelValues(string(k), "rejected")
	}
	return m
}

// ObserveDecision counts a finished analysis and its latency.
func (m *Metrics) ObserveDecision(d schema.Decision) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(string(d.Category), string(d.State)).Inc()
	m.AnalysisDuration.WithLabelValues(string(d.State)).Observe(d.Duration.Seconds())
	if d.Override != nil {
		m.Overrides.WithLabelValues(string(d.Override.Kind)).Inc()
	}
}

// ObserveFetchFailure counts a failed fetch by its kind.
func (m *Metrics) ObserveFetchFailure(err error) {
	if m == nil {
		return
	}
	m.FetchFailures.WithLabelValues(contract.FetchKindLabel(err)).Inc()
}

// ObservePattern counts an append attempt of the given record type.
func (m *Metrics) ObservePattern(kind schema.RecordType, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	m.RecordedPatterns.WithLabelValues(string(kind), result).Inc()
}

// Serve exposes /metrics for gatherer on addr until ctx is done.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
