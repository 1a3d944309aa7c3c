package metrics

import "github.com/prometheus/client_golang/prometheus"

// Resolution outcomes recorded by ShareMetrics.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultExpired = "expired"
)

// ShareMetrics counts share link issuance and resolution outcomes.
// A nil *ShareMetrics is valid and records nothing.
type ShareMetrics struct {
	issued   prometheus.Counter
	resolved *prometheus.CounterVec
}

// NewShareMetrics creates the collectors and registers them with reg.
func NewShareMetrics(reg prometheus.Registerer) (*ShareMetrics, error) {
	m := &ShareMetrics{
		issued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "share_links_issued_total",
			Help: "Total number of share links issued.",
		}),
		resolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "share_link_resolutions_total",
				Help: "Total number of share link resolutions by outcome.",
			},
			[]string{"result"},
		),
	}

	for _, c := range []prometheus.Collector{m.issued, m.resolved} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *ShareMetrics) Issued() {
	if m == nil {
		return
	}
	m.issued.Inc()
}

func (m *ShareMetrics) Resolved(result string) {
	if m == nil {
		return
	}
	m.resolved.WithLabelValues(result).Inc()
}
