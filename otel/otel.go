package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	recorder "github.com/kmorrow14/redis-recorder"
)

const name = "github.com/kmorrow14/redis-recorder/otel"

type config struct {
	attrs         []attribute.KeyValue
	meterProvider metric.MeterProvider
	meter         metric.Meter
}

func newConfig(opts ...Option) *config {
	conf := &config{
		attrs:         []attribute.KeyValue{},
		meterProvider: otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(conf)
	}

	if conf.meter == nil {
		conf.meter = conf.meterProvider.Meter(name,
			metric.WithInstrumentationVersion("semver:"+recorder.Version()))
	}

	return conf
}

type Option func(c *config)

// WithAttributes attaches additional attributes to every recorded metric.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(c *config) {
		c.attrs = append(c.attrs, attrs...)
	}
}

// WithMeterProvider overrides the global MeterProvider.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(c *config) {
		c.meterProvider = provider
		c.meter = provider.Meter(name,
			metric.WithInstrumentationVersion("semver:"+recorder.Version()))
	}
}
