package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ajitpratap0/reclaim/pkg/pool"
	"github.com/ajitpratap0/reclaim/pkg/poolerrors"
)

// ObserveRegistry registers observable gauges that report the spares,
// outstanding guards, acquisitions and poison state of every pool in reg.
// A nil meter uses the global meter provider. Unregister the returned
// registration to stop reporting.
func ObserveRegistry(meter metric.Meter, reg *pool.Registry) (metric.Registration, error) {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}

	spares, err := meter.Int64ObservableGauge("reclaim.pool.spares",
		metric.WithDescription("Values held by the pool storage"),
		metric.WithUnit("{value}"))
	if err != nil {
		return nil, wrapMeterErr(err, "reclaim.pool.spares")
	}
	inUse, err := meter.Int64ObservableGauge("reclaim.pool.in_use",
		metric.WithDescription("Guards not yet released"),
		metric.WithUnit("{value}"))
	if err != nil {
		return nil, wrapMeterErr(err, "reclaim.pool.in_use")
	}
	acquired, err := meter.Int64ObservableCounter("reclaim.pool.acquired",
		metric.WithDescription("Values handed out since the pool was built"),
		metric.WithUnit("{value}"))
	if err != nil {
		return nil, wrapMeterErr(err, "reclaim.pool.acquired")
	}
	poisoned, err := meter.Int64ObservableGauge("reclaim.pool.poisoned",
		metric.WithDescription("1 while the pool storage is poisoned"))
	if err != nil {
		return nil, wrapMeterErr(err, "reclaim.pool.poisoned")
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		for _, e := range reg.Snapshot() {
			attrs := metric.WithAttributes(attribute.String("pool.name", e.Name))
			o.ObserveInt64(spares, int64(e.Spares), attrs)
			o.ObserveInt64(inUse, e.Stats.InUse, attrs)
			o.ObserveInt64(acquired, e.Stats.Acquired, attrs)
			var p int64
			if e.Poisoned {
				p = 1
			}
			o.ObserveInt64(poisoned, p, attrs)
		}
		return nil
	}, spares, inUse, acquired, poisoned)
}

func wrapMeterErr(err error, instrument string) error {
	return poolerrors.Wrap(err, poolerrors.ErrorTypeInternal, "failed to create instrument").
		WithDetail("instrument", instrument)
}
