package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	recorder "github.com/kmorrow14/redis-recorder"
)

// InstrumentMetrics hooks OpenTelemetry metrics into the Store's store and
// retrieve operations: operation latency, error counts, and retrieve misses.
func InstrumentMetrics(s *recorder.Store, opts ...Option) error {
	conf := newConfig(opts...)

	operationTime, err := conf.meter.Float64Histogram("redis.recorder.operation_time",
		metric.WithDescription("Time taken to execute store and retrieve operations against Redis"),
		metric.WithUnit("s"))
	if err != nil {
		return err
	}

	operationErrors, err := conf.meter.Int64Counter("redis.recorder.operation_errors",
		metric.WithDescription("Count of errors from store and retrieve operations"))
	if err != nil {
		return err
	}

	misses, err := conf.meter.Int64Counter("redis.recorder.misses",
		metric.WithDescription("Count of retrieve operations that found no value"))
	if err != nil {
		return err
	}

	s.AddHook(&metricsHook{
		attrs:           conf.attrs,
		operationTime:   operationTime,
		operationErrors: operationErrors,
		misses:          misses,
	})
	return nil
}

type metricsHook struct {
	attrs           []attribute.KeyValue
	operationTime   metric.Float64Histogram
	operationErrors metric.Int64Counter
	misses          metric.Int64Counter
}

func (m *metricsHook) operationAttrs(operation string) metric.MeasurementOption {
	attrs := make([]attribute.KeyValue, 0, len(m.attrs)+1)
	attrs = append(attrs, m.attrs...)
	attrs = append(attrs, attribute.String("operation", operation))
	return metric.WithAttributes(attrs...)
}

func (m *metricsHook) StoreHook(next recorder.StoreFunc) recorder.StoreFunc {
	return func(ctx context.Context, key string, value any) error {
		start := time.Now()

		err := next(ctx, key, value)

		m.operationTime.Record(ctx, time.Since(start).Seconds(),
			m.operationAttrs(recorder.OperationStore))
		if err != nil {
			m.operationErrors.Add(ctx, 1, m.operationAttrs(recorder.OperationStore))
		}

		return err
	}
}

func (m *metricsHook) RetrieveHook(next recorder.RetrieveFunc) recorder.RetrieveFunc {
	return func(ctx context.Context, key string) ([]byte, bool, error) {
		start := time.Now()

		data, found, err := next(ctx, key)

		m.operationTime.Record(ctx, time.Since(start).Seconds(),
			m.operationAttrs(recorder.OperationRetrieve))
		if err == nil && !found {
			m.misses.Add(ctx, 1, metric.WithAttributes(m.attrs...))
		}
		if err != nil {
			m.operationErrors.Add(ctx, 1, m.operationAttrs(recorder.OperationRetrieve))
		}

		return data, found, err
	}
}

func (m *metricsHook) CompressHook(next recorder.CompressionHook) recorder.CompressionHook {
	return nil
}

func (m *metricsHook) DecompressHook(next recorder.CompressionHook) recorder.CompressionHook {
	return nil
}
