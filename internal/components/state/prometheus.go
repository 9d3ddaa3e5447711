package state

import (
	"context"
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink exposes published states as gauges. Numeric states are set on
// <namespace>_credit{key}, unknown values become NaN. String states are set on
// <namespace>_credit_info{key,value} with a value of 1.
type PrometheusSink struct {
	credit *prometheus.GaugeVec
	info   *prometheus.GaugeVec
}

func NewPrometheusSink(namespace string, reg prometheus.Registerer) (*PrometheusSink, error) {
	credit := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "credit",
			Help:      "Latest numeric credit value scraped from the account page",
		},
		[]string{"key"},
	)
	info := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "credit_info",
			Help:      "Latest textual credit value scraped from the account page, always 1",
		},
		[]string{"key", "value"},
	)

	for _, collector := range []prometheus.Collector{credit, info} {
		err := reg.Register(collector)
		if err != nil {
			return nil, fmt.Errorf("register prometheus collector: %w", err)
		}
	}

	return &PrometheusSink{credit: credit, info: info}, nil
}

func (p *PrometheusSink) Publish(_ context.Context, states []State) error {
	for _, s := range states {
		switch v := s.Value.(type) {
		case nil:
			p.info.DeletePartialMatch(prometheus.Labels{"key": s.Key})
			p.credit.WithLabelValues(s.Key).Set(math.NaN())
		case int:
			p.credit.WithLabelValues(s.Key).Set(float64(v))
		case float64:
			p.credit.WithLabelValues(s.Key).Set(v)
		case string:
			p.credit.DeleteLabelValues(s.Key)
			p.info.DeletePartialMatch(prometheus.Labels{"key": s.Key})
			p.info.WithLabelValues(s.Key, v).Set(1)
		default:
			return fmt.Errorf("prometheus sink: unsupported value type %T for %s", s.Value, s.Key)
		}
	}
	return nil
}
