package prometheus

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	recorder "github.com/kmorrow14/redis-recorder"
)

var operationLabels = []string{"operation"}

const (
	operationStore      = "store"
	operationRetrieve   = "retrieve"
	operationCompress   = "compress"
	operationDecompress = "decompress"
)

// InstrumentMetrics registers Prometheus metrics for the Store and hooks them
// into its store/retrieve operations and compression pipeline: operation
// latency and error counts, cache misses on retrieve, compression latency,
// and bytes transferred to/from Redis.
func InstrumentMetrics(s *recorder.Store, opts ...Option) error {

	conf := newConfig()
	for _, opt := range opts {
		opt(conf)
	}

	operationTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   conf.namespace,
		Subsystem:   conf.subSystem,
		Name:        "operation_time",
		Help:        "Time in seconds to execute store and retrieve operations against Redis",
		ConstLabels: conf.globalLabels,
		Buckets:     conf.buckets,
	}, operationLabels)

	operationErrs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   conf.namespace,
		Subsystem:   conf.subSystem,
		Name:        "operation_errs",
		Help:        "Count of errors from store and retrieve operations",
		ConstLabels: conf.globalLabels,
	}, operationLabels)

	misses := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   conf.namespace,
		Subsystem:   conf.subSystem,
		Name:        "misses",
		Help:        "Count of retrieve operations that found no value",
		ConstLabels: conf.globalLabels,
	})

	compressionTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   conf.namespace,
		Subsystem:   conf.subSystem,
		Name:        "compression_time",
		Help:        "Time in seconds to handle compression and decompression operations",
		ConstLabels: conf.globalLabels,
		Buckets:     conf.buckets,
	}, operationLabels)

	compressionErrs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   conf.namespace,
		Subsystem:   conf.subSystem,
		Name:        "compression_errs",
		Help:        "Count of errors during compression and decompression operations",
		ConstLabels: conf.globalLabels,
	}, operationLabels)

	bytesIn := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   conf.namespace,
		Subsystem:   conf.subSystem,
		Name:        "bytes_in",
		Help:        "Bytes received from Redis prior to decompression",
		ConstLabels: conf.globalLabels,
	})

	bytesOut := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   conf.namespace,
		Subsystem:   conf.subSystem,
		Name:        "bytes_out",
		Help:        "Bytes transmitted to Redis after compression",
		ConstLabels: conf.globalLabels,
	})

	err := multierr.Combine(
		prometheus.Register(operationTime),
		prometheus.Register(operationErrs),
		prometheus.Register(misses),
		prometheus.Register(compressionTime),
		prometheus.Register(compressionErrs),
		prometheus.Register(bytesIn),
		prometheus.Register(bytesOut))

	if err != nil {
		return err
	}

	s.AddHook(&metricsHook{
		operationTime:   operationTime,
		operationErrs:   operationErrs,
		misses:          misses,
		compressionTime: compressionTime,
		compressionErrs: compressionErrs,
		bytesIn:         bytesIn,
		bytesOut:        bytesOut,
	})

	return nil
}

type metricsHook struct {
	operationTime   *prometheus.HistogramVec
	operationErrs   *prometheus.CounterVec
	misses          prometheus.Counter
	compressionTime *prometheus.HistogramVec
	compressionErrs *prometheus.CounterVec
	bytesIn         prometheus.Counter
	bytesOut        prometheus.Counter
}

func (m *metricsHook) StoreHook(next recorder.StoreFunc) recorder.StoreFunc {
	return func(ctx context.Context, key string, value any) error {
		start := time.Now()

		err := next(ctx, key, value)

		dur := time.Since(start).Seconds()

		m.operationTime.WithLabelValues(operationStore).
			Observe(dur)

		if err != nil {
			m.operationErrs.WithLabelValues(operationStore).Inc()
		}

		return err
	}
}

func (m *metricsHook) RetrieveHook(next recorder.RetrieveFunc) recorder.RetrieveFunc {
	return func(ctx context.Context, key string) ([]byte, bool, error) {
		start := time.Now()

		data, found, err := next(ctx, key)

		dur := time.Since(start).Seconds()

		m.operationTime.WithLabelValues(operationRetrieve).
			Observe(dur)

		if err == nil && !found {
			m.misses.Inc()
		}

		if err != nil {
			m.operationErrs.WithLabelValues(operationRetrieve).Inc()
		}

		return data, found, err
	}
}

func (m *metricsHook) CompressHook(next recorder.CompressionHook) recorder.CompressionHook {
	return func(data []byte) ([]byte, error) {
		start := time.Now()

		compressed, err := next(data)

		dur := time.Since(start).Seconds()

		m.compressionTime.WithLabelValues(operationCompress).
			Observe(dur)

		m.bytesOut.Add(float64(len(compressed)))

		if err != nil {
			m.compressionErrs.WithLabelValues(operationCompress).Inc()
		}

		return compressed, err
	}
}

func (m *metricsHook) DecompressHook(next recorder.CompressionHook) recorder.CompressionHook {
	return func(data []byte) ([]byte, error) {
		start := time.Now()

		uncompressed, err := next(data)

		dur := time.Since(start).Seconds()

		m.compressionTime.WithLabelValues(operationDecompress).
			Observe(dur)

		m.bytesIn.Add(float64(len(data)))

		if err != nil {
			m.compressionErrs.WithLabelValues(operationDecompress).Inc()
		}

		return uncompressed, err
	}
}
