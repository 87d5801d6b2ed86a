// Package telemetry wires OpenTelemetry tracing into the engine runtime.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/roach88/mucore/internal/config"
	"github.com/roach88/mucore/internal/engine"
)

// TracerName is the instrumentation scope of engine spans.
const TracerName = "github.com/roach88/mucore/internal/engine"

// Setup initialises OpenTelemetry tracing from cfg.
//
// Tracing is opt-in: when cfg.OTelEndpoint is empty or cfg.OTelEnabled is
// false, Setup returns a no-op shutdown function and registers nothing.
//
// The returned shutdown function flushes pending spans and should be
// deferred by the caller.
func Setup(ctx context.Context, cfg config.Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if !cfg.TracingEnabled() {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(cfg.OTelEndpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Describe renders the parts of a snapshot that become span attributes.
// Returning "" for a field omits that attribute.
type Describe[M comparable, C comparable] struct {
	Message func(M) string
	Command func(C) string
}

// Interceptor records one span per snapshot, named "snapshot.initial" or
// "snapshot.regular". Spans are ended immediately: a snapshot is a point
// on the processing line, not an interval.
func Interceptor[M comparable, S any, C comparable](tracer trace.Tracer, engineID string, d Describe[M, C]) engine.Interceptor[M, S, C] {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	return func(ctx context.Context, snap engine.Snapshot[M, S, C]) {
		attrs := []attribute.KeyValue{
			attribute.String("mucore.engine_id", engineID),
			attribute.Int64("mucore.seq", snap.Seq),
			attribute.String("mucore.kind", snap.Kind.String()),
			attribute.Int("mucore.commands", snap.Commands.Len()),
		}
		if !snap.IsInitial() && d.Message != nil {
			if name := d.Message(snap.Message); name != "" {
				attrs = append(attrs, attribute.String("mucore.message", name))
			}
		}
		if d.Command != nil && snap.Commands.Len() > 0 {
			names := make([]string, 0, snap.Commands.Len())
			for cmd := range snap.Commands.All() {
				if name := d.Command(cmd); name != "" {
					names = append(names, name)
				}
			}
			attrs = append(attrs, attribute.StringSlice("mucore.command_names", names))
		}

		_, span := tracer.Start(ctx, "snapshot."+snap.Kind.String(), trace.WithAttributes(attrs...))
		span.End()
	}
}
