package exporters

import (
	"runtime"

	"github.com/ryos-app/ryos-server/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	defaultJaegerEndpoint = "http://localhost:14268/api/traces"
	defaultServiceName    = "ryos-server"
)

func InitJaegerExporter(cfg *config.Config) (*sdktrace.TracerProvider, error) {
	if cfg.Jaeger.ServiceName == "" {
		cfg.Jaeger.ServiceName = defaultServiceName
	}
	if cfg.Jaeger.ServiceVersion == "" {
		cfg.Jaeger.ServiceVersion = "unknown"
	}
	if cfg.Jaeger.Endpoint == "" {
		cfg.Jaeger.Endpoint = defaultJaegerEndpoint
	}

	exp, err := jaeger.New(
		jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.Jaeger.Endpoint)),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.Jaeger.ServiceName),
			semconv.ServiceVersion(cfg.Jaeger.ServiceVersion),
			attribute.String("go.version", runtime.Version()),
			attribute.String("os", runtime.GOOS),
			attribute.String("arch", runtime.GOARCH),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)

	return tp, nil
}
