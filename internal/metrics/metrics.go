// Package metrics expone los contadores de facturación y de HTTP en Prometheus.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/invorya-gst/internal/application/billing"
	"github.com/jhoicas/invorya-gst/internal/domain"
)

// Resultados de un documento.
const (
	OutcomeOK               = "ok"
	OutcomeSignatureMissing = "signature_missing"
	OutcomeNotFound         = "not_found"
	OutcomeError            = "error"
)

// Metrics agrupa los colectores. Implementa billing.Observer.
type Metrics struct {
	invoicesCreated   prometheus.Counter
	documentsRendered *prometheus.CounterVec
	renderDuration    *prometheus.HistogramVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

var _ billing.Observer = (*Metrics)(nil)

// New crea los colectores y los registra en reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		invoicesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "invorya",
			Name:      "invoices_created_total",
			Help:      "Facturas emitidas y guardadas.",
		}),
		documentsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "invorya",
			Name:      "documents_rendered_total",
			Help:      "Documentos generados por tipo y resultado.",
		}, []string{"kind", "outcome"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "invorya",
			Name:      "document_render_duration_seconds",
			Help:      "Tiempo de generación de documentos.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "invorya",
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y código.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "invorya",
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.invoicesCreated, m.documentsRendered, m.renderDuration, m.httpRequests, m.httpDuration)
	return m
}

// InvoiceCreated suma una factura emitida.
func (m *Metrics) InvoiceCreated() {
	m.invoicesCreated.Inc()
}

// DocumentRendered registra el resultado y la duración de un documento.
func (m *Metrics) DocumentRendered(kind string, elapsed time.Duration, err error) {
	m.documentsRendered.WithLabelValues(kind, Outcome(err)).Inc()
	m.renderDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveHTTP registra una petición ya respondida. route es el patrón (/api/invoices/:number), no la URL.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Outcome clasifica un error de generación en una etiqueta de baja cardinalidad.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrSignatureMissing):
		return OutcomeSignatureMissing
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}
