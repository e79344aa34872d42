// Package observer provides OTEL-based build telemetry for tipbook.
//
// It configures trace and metric providers with OTLP HTTP exporters and
// exposes counters and histograms for build phases. Export targets come
// from standard OTEL env vars (OTEL_EXPORTER_OTLP_ENDPOINT, etc.), so any
// OTEL-compatible backend works without code changes.
package observer

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const scopeName = "github.com/nevindra/tipbook/observer"

// Instruments holds all OTEL instruments used during a build.
type Instruments struct {
	Meter metric.Meter

	// Counters
	EntriesLoaded metric.Int64Counter
	PagesWritten  metric.Int64Counter
	PagesSkipped  metric.Int64Counter

	// Histograms
	PhaseDuration metric.Float64Histogram
}

// Init sets up OTEL trace and metric providers with OTLP HTTP exporters.
// Returns the build instruments and a shutdown function that must be
// called before process exit to flush pending telemetry.
func Init(ctx context.Context) (*Instruments, func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName("tipbook")),
		resource.WithFromEnv(),
	)
	if err != nil {
		return nil, nil, err
	}

	traceExp, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	metricExp, err := otlpmetrichttp.New(ctx)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, nil, err
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	inst, err := newInstruments()
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, nil, err
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			tp.Shutdown(ctx),
			mp.Shutdown(ctx),
		)
	}

	return inst, shutdown, nil
}

func newInstruments() (*Instruments, error) {
	meter := otel.Meter(scopeName)

	entriesLoaded, err := meter.Int64Counter("catalog.entries.loaded",
		metric.WithDescription("Entries loaded from content sources"),
		metric.WithUnit("{entry}"))
	if err != nil {
		return nil, err
	}

	pagesWritten, err := meter.Int64Counter("build.pages.written",
		metric.WithDescription("Pages written by the renderer"),
		metric.WithUnit("{page}"))
	if err != nil {
		return nil, err
	}

	pagesSkipped, err := meter.Int64Counter("build.pages.skipped",
		metric.WithDescription("Pages skipped as unchanged"),
		metric.WithUnit("{page}"))
	if err != nil {
		return nil, err
	}

	phaseDuration, err := meter.Float64Histogram("build.phase.duration",
		metric.WithDescription("Duration of build phases (load, outline, render)"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	return &Instruments{
		Meter:         meter,
		EntriesLoaded: entriesLoaded,
		PagesWritten:  pagesWritten,
		PagesSkipped:  pagesSkipped,
		PhaseDuration: phaseDuration,
	}, nil
}
