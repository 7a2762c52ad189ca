// Package metrics counts provisioning activity. A CLI run is too short-lived to
// be scraped, so the registry is written to a node-exporter textfile on exit.
package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github/chapool/testnet-tokens/internal/config"
)

const namespace = "testnet_tokens"

// Service holds the provisioner's metrics.
type Service struct {
	registry *prometheus.Registry
	path     string

	txSubmitted    *prometheus.CounterVec
	txSettled      *prometheus.CounterVec
	txWait         *prometheus.HistogramVec
	tokensDeployed *prometheus.CounterVec
	approvals      prometheus.Counter
}

// New creates and registers all metrics.
func New(cfg config.Provisioner) (*Service, error) {
	s := &Service{
		registry: prometheus.NewRegistry(),
		path:     cfg.Metrics.TextfilePath,
		txSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_submitted_total",
			Help:      "Transactions broadcast, by kind.",
		}, []string{"kind"}),
		txSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_settled_total",
			Help:      "Transactions that were included or given up on, by kind and status.",
		}, []string{"kind", "status"}),
		txWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transaction_inclusion_seconds",
			Help:      "Time from broadcast to inclusion.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}, []string{"kind"}),
		tokensDeployed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_provisioned_total",
			Help:      "Tokens deployed or attached and seeded, by implementation.",
		}, []string{"implementation"}),
		approvals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "approvals_granted_total",
			Help:      "Approvals granted by the approve command.",
		}),
	}

	for _, c := range []prometheus.Collector{s.txSubmitted, s.txSettled, s.txWait, s.tokensDeployed, s.approvals} {
		if err := s.registry.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register metric")
		}
	}

	return s, nil
}

// TxSubmitted implements chain.Observer.
func (s *Service) TxSubmitted(kind string) {
	s.txSubmitted.WithLabelValues(kind).Inc()
}

// TxSettled implements chain.Observer.
func (s *Service) TxSettled(kind string, success bool, wait time.Duration) {
	status := "success"
	if !success {
		status = "failed"
	}

	s.txSettled.WithLabelValues(kind, status).Inc()
	if success {
		s.txWait.WithLabelValues(kind).Observe(wait.Seconds())
	}
}

// TokenProvisioned counts a token that was deployed (or attached) and seeded.
func (s *Service) TokenProvisioned(implementation string) {
	s.tokensDeployed.WithLabelValues(implementation).Inc()
}

// ApprovalGranted counts a successful approve.
func (s *Service) ApprovalGranted() {
	s.approvals.Inc()
}

// Registry exposes the underlying registry, e.g. for tests.
func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}

// WriteTextfile writes all metrics to the configured textfile. It is a no-op
// if no path is configured.
func (s *Service) WriteTextfile() error {
	if s.path == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(s.path, s.registry); err != nil {
		return errors.Wrapf(err, "failed to write metrics textfile %s", s.path)
	}

	return nil
}
