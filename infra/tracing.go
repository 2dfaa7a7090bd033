package infra

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type TelemetryRessources struct {
	TracerProvider    trace.TracerProvider
	Tracer            trace.Tracer
	TextMapPropagator propagation.TextMapPropagator
	shutdown          func(context.Context) error
}

func (t TelemetryRessources) Shutdown(ctx context.Context) error {
	if t.shutdown == nil {
		return nil
	}
	return t.shutdown(ctx)
}

func NoopTelemetry() TelemetryRessources {
	return TelemetryRessources{
		TracerProvider:    noop.NewTracerProvider(),
		Tracer:            noop.NewTracerProvider().Tracer(""),
		TextMapPropagator: propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
	}
}

const DEFAULT_SAMPLING_RATE = 0.3

func InitTelemetry(ctx context.Context, configuration TelemetryConfiguration, apiVersion string) (TelemetryRessources, error) {
	if !configuration.Enabled {
		return NoopTelemetry(), nil
	}

	exporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return TelemetryRessources{}, fmt.Errorf("otlptracegrpc.New error: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(configuration.ApplicationName),
			semconv.ServiceVersion(apiVersion),
		),
	)
	if err != nil {
		return TelemetryRessources{}, fmt.Errorf("resource.New error: %w", err)
	}

	rate := configuration.SamplingRate
	if rate <= 0 {
		rate = DEFAULT_SAMPLING_RATE
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	propagators := propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagators)

	return TelemetryRessources{
		TracerProvider:    tp,
		Tracer:            tp.Tracer(configuration.ApplicationName),
		TextMapPropagator: propagators,
		shutdown:          tp.Shutdown,
	}, nil
}
