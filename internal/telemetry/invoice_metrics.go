package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// InvoiceMetrics holds Prometheus metrics for the invoice lifecycle.
// A nil *InvoiceMetrics is valid and records nothing.
type InvoiceMetrics struct {
	InvoicesCreated   prometheus.Counter
	PaymentsRecorded  *prometheus.CounterVec
	StatusChanges     *prometheus.CounterVec
	ServicesActivated prometheus.Counter
	TailFailures      *prometheus.CounterVec
	EmailsDispatched  *prometheus.CounterVec
	PDFRenderSeconds  prometheus.Histogram
	PDFBytes          prometheus.Histogram
}

// NewInvoiceMetrics registers the invoice metrics on reg.
func NewInvoiceMetrics(reg prometheus.Registerer, namespace string) *InvoiceMetrics {
	if namespace == "" {
		namespace = "fatura"
	}
	factory := promauto.With(reg)
	subsystem := "invoice"

	return &InvoiceMetrics{
		InvoicesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "created_total",
			Help:      "Invoices issued",
		}),
		PaymentsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "payments_recorded_total",
			Help:      "Payment recordings, by whether the invoice was already paid",
		}, []string{"repeat"}),
		StatusChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "status_changes_total",
			Help:      "Invoice status writes by resulting status",
		}, []string{"status"}),
		ServicesActivated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "services_activated_total",
			Help:      "Services moved to active by the payment cascade",
		}),
		TailFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tail_failures_total",
			Help:      "Best-effort steps that failed after a committed state change",
		}, []string{"step"}),
		EmailsDispatched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "emails_total",
			Help:      "Notification attempts by template kind and outcome",
		}, []string{"kind", "status"}),
		PDFRenderSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pdf_render_seconds",
			Help:      "Time to assemble and render an invoice document",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
		PDFBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pdf_bytes",
			Help:      "Size of rendered invoice documents",
			Buckets:   prometheus.ExponentialBuckets(4096, 2, 8),
		}),
	}
}

func (m *InvoiceMetrics) Created() {
	if m == nil {
		return
	}
	m.InvoicesCreated.Inc()
}

func (m *InvoiceMetrics) PaymentRecorded(repeat bool) {
	if m == nil {
		return
	}
	label := "false"
	if repeat {
		label = "true"
	}
	m.PaymentsRecorded.WithLabelValues(label).Inc()
}

func (m *InvoiceMetrics) StatusChanged(status string) {
	if m == nil {
		return
	}
	m.StatusChanges.WithLabelValues(status).Inc()
}

func (m *InvoiceMetrics) Activated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ServicesActivated.Add(float64(n))
}

func (m *InvoiceMetrics) TailFailed(step string) {
	if m == nil {
		return
	}
	m.TailFailures.WithLabelValues(step).Inc()
}

func (m *InvoiceMetrics) Email(kind, status string) {
	if m == nil {
		return
	}
	m.EmailsDispatched.WithLabelValues(kind, status).Inc()
}

func (m *InvoiceMetrics) Rendered(d time.Duration, size int) {
	if m == nil {
		return
	}
	m.PDFRenderSeconds.Observe(d.Seconds())
	m.PDFBytes.Observe(float64(size))
}
