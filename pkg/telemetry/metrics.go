package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricOpts holds options for creating metrics
type MetricOpts struct {
	Name        string
	Description string
	Unit        string
}

// Counter wraps an OTel counter for easier use
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a new counter metric
func NewCounter(opts MetricOpts) (*Counter, error) {
	counter, err := GetMeter().Int64Counter(
		opts.Name,
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	)
	if err != nil {
		return nil, err
	}
	return &Counter{counter: counter}, nil
}

// Inc increments the counter by 1
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Histogram wraps an OTel histogram for easier use
type Histogram struct {
	histogram metric.Float64Histogram
}

// NewHistogram creates a new histogram metric
func NewHistogram(opts MetricOpts) (*Histogram, error) {
	histogram, err := GetMeter().Float64Histogram(
		opts.Name,
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	)
	if err != nil {
		return nil, err
	}
	return &Histogram{histogram: histogram}, nil
}

// Record records a value in the histogram
func (h *Histogram) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}

// PageMetrics groups the instruments recorded by the page handlers
type PageMetrics struct {
	Rendered   *Counter
	Redirected *Counter
	NotFound   *Counter
	Duration   *Histogram
}

// NewPageMetrics registers the page instruments on the global meter
func NewPageMetrics() (*PageMetrics, error) {
	rendered, err := NewCounter(MetricOpts{
		Name:        "dashboard.page.rendered",
		Description: "Pages rendered successfully",
		Unit:        "{page}",
	})
	if err != nil {
		return nil, err
	}
	redirected, err := NewCounter(MetricOpts{
		Name:        "dashboard.page.redirected",
		Description: "Tenant-gated pages redirected to the fallback route",
		Unit:        "{redirect}",
	})
	if err != nil {
		return nil, err
	}
	notFound, err := NewCounter(MetricOpts{
		Name:        "dashboard.page.not_found",
		Description: "Pages answered with a not-found response",
		Unit:        "{page}",
	})
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(MetricOpts{
		Name:        "dashboard.page.duration",
		Description: "Time spent loading page data",
		Unit:        "ms",
	})
	if err != nil {
		return nil, err
	}

	return &PageMetrics{
		Rendered:   rendered,
		Redirected: redirected,
		NotFound:   notFound,
		Duration:   duration,
	}, nil
}

// Common metric attribute keys
const (
	AttrPage      = "page.name"
	AttrUserID    = "user.id"
	AttrDomainID  = "domain.id"
	AttrCompanyID = "company.id"
	AttrProvider  = "payment.provider"
	AttrReason    = "redirect.reason"
)

func PageAttr(name string) attribute.KeyValue {
	return attribute.String(AttrPage, name)
}

func UserIDAttr(userID string) attribute.KeyValue {
	return attribute.String(AttrUserID, userID)
}

func DomainIDAttr(domainID string) attribute.KeyValue {
	return attribute.String(AttrDomainID, domainID)
}

func CompanyIDAttr(companyID string) attribute.KeyValue {
	return attribute.String(AttrCompanyID, companyID)
}

func ProviderAttr(provider string) attribute.KeyValue {
	return attribute.String(AttrProvider, provider)
}

func ReasonAttr(reason string) attribute.KeyValue {
	return attribute.String(AttrReason, reason)
}
