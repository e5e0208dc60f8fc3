package handler

import (
	"context"
	"time"

	"github.com/amrivadeneyra/lunari-sub002/pkg/telemetry"
)

// pageObserver records page outcomes. A nil metrics set records nothing.
type pageObserver struct {
	metrics *telemetry.PageMetrics
}

func (o pageObserver) rendered(ctx context.Context, page string) {
	if o.metrics != nil {
		o.metrics.Rendered.Inc(ctx, telemetry.PageAttr(page))
	}
}

func (o pageObserver) redirected(ctx context.Context, page, reason string) {
	if o.metrics != nil {
		o.metrics.Redirected.Inc(ctx, telemetry.PageAttr(page), telemetry.ReasonAttr(reason))
	}
}

func (o pageObserver) notFound(ctx context.Context, page string) {
	if o.metrics != nil {
		o.metrics.NotFound.Inc(ctx, telemetry.PageAttr(page))
	}
}

func (o pageObserver) observe(ctx context.Context, page string, start time.Time) {
	if o.metrics != nil {
		o.metrics.Duration.Record(ctx, float64(time.Since(start).Milliseconds()), telemetry.PageAttr(page))
	}
}
