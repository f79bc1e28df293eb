package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "assessment"

// Metrics счетчики бота на отдельном реестре
type Metrics struct {
	registry *prometheus.Registry

	Sessions *prometheus.CounterVec
	Active   prometheus.Gauge
	Emails   *prometheus.CounterVec
	Updates  *prometheus.CounterVec
}

// New регистрирует коллекторы в новом реестре
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Sessions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_total",
				Help:      "Assessment sessions by outcome",
			},
			[]string{"event"}, // started, completed, cancelled, expired
		),
		Active: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory",
		}),
		Emails: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "email_deliveries_total",
				Help:      "Recommendation emails by delivery status",
			},
			[]string{"status"},
		),
		Updates: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "updates_total",
				Help:      "Telegram updates handled by command",
			},
			[]string{"command"},
		),
	}
}

// Handler отдает метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) SessionStarted()   { m.Sessions.WithLabelValues("started").Inc() }
func (m *Metrics) SessionCompleted() { m.Sessions.WithLabelValues("completed").Inc() }
func (m *Metrics) SessionCancelled() { m.Sessions.WithLabelValues("cancelled").Inc() }

func (m *Metrics) SessionsExpired(n int) {
	m.Sessions.WithLabelValues("expired").Add(float64(n))
}

func (m *Metrics) ActiveSessions(n int) {
	m.Active.Set(float64(n))
}

func (m *Metrics) EmailDelivered(ok bool) {
	status := "sent"
	if !ok {
		status = "failed"
	}
	m.Emails.WithLabelValues(status).Inc()
}

// Update учитывает обработанное обновление
func (m *Metrics) Update(command string) {
	m.Updates.WithLabelValues(command).Inc()
}
