package storefront

import (
	"github.com/prometheus/client_golang/prometheus"

	"MiniShowcase/internal/session"
)

// ViewMetrics counts presenter lifecycle events.
type ViewMetrics struct {
	Mounted     *prometheus.CounterVec
	Active      prometheus.Gauge
	Resolutions *prometheus.CounterVec
	Fallbacks   *prometheus.CounterVec
}

func NewViewMetrics(reg prometheus.Registerer) *ViewMetrics {
	m := &ViewMetrics{
		Mounted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_views_mounted_total",
			Help: "Views mounted, by kind",
		}, []string{"kind"}),
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_views_active",
			Help: "Currently mounted views",
		}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_view_resolutions_total",
			Help: "Settled catalog loads, by view kind and outcome",
		}, []string{"kind", "outcome"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_image_fallbacks_total",
			Help: "Broken images replaced by the default asset",
		}, []string{"kind"}),
	}

	if reg != nil {
		reg.MustRegister(m.Mounted, m.Active, m.Resolutions, m.Fallbacks)
	}
	return m
}

func (m *ViewMetrics) mounted(kind session.Kind) {
	m.Mounted.WithLabelValues(string(kind)).Inc()
	m.Active.Inc()
}

func (m *ViewMetrics) removed(session.Kind) {
	m.Active.Dec()
}

func (m *ViewMetrics) resolved(kind session.Kind, found bool) {
	outcome := "found"
	if !found {
		outcome = "not_found"
	}
	m.Resolutions.WithLabelValues(string(kind), outcome).Inc()
}

func (m *ViewMetrics) fallback(kind session.Kind) {
	m.Fallbacks.WithLabelValues(string(kind)).Inc()
}
