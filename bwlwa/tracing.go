package bwlwa

import (
	"context"
	"net/http"
	"os"
	"slices"

	"github.com/aws-observability/aws-otel-go/exporters/xrayudp"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/detectors/aws/lambda"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"
)

const (
	exporterStdout  = "stdout"
	exporterXrayUDP = "xrayudp"
)

func newExporter(ctx context.Context, kind string) (sdktrace.SpanExporter, error) {
	switch kind {
	case exporterStdout, "":
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		return exp, errors.Wrap(err, "create stdout exporter")
	case exporterXrayUDP:
		exp, err := xrayudp.NewSpanExporter(ctx)
		return exp, errors.Wrap(err, "create xrayudp exporter")
	default:
		return nil, errors.Newf("unsupported BW_OTEL_EXPORTER: %q (supported: stdout, xrayudp)", kind)
	}
}

// newResource describes the service. In Lambda the function attributes are detected
// and merged with the service name.
func newResource(ctx context.Context, kind, serviceName string) (*resource.Resource, error) {
	base := resource.NewSchemaless(attribute.String("service.name", serviceName))
	if kind != exporterXrayUDP {
		return base, nil
	}

	detected, err := lambda.NewResourceDetector().Detect(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "detect lambda resource")
	}
	merged, err := resource.Merge(detected, base)
	if err != nil {
		return nil, errors.Wrap(err, "merge resources")
	}
	return merged, nil
}

// NewTracerProvider creates the tracer provider for the configured exporter and
// flushes it when the app stops. Setting OTEL_SDK_DISABLED=true yields a no-op
// provider.
func NewTracerProvider(lc fx.Lifecycle, env Environment) (trace.TracerProvider, error) {
	if os.Getenv("OTEL_SDK_DISABLED") == "true" {
		return noop.NewTracerProvider(), nil
	}

	ctx := context.Background()
	exporter, err := newExporter(ctx, env.otelExporter())
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx, env.otelExporter(), env.serviceName())
	if err != nil {
		return nil, err
	}

	opts := []sdktrace.TracerProviderOption{
		// Lambda may freeze the environment between invocations, spans are exported
		// before the response is returned.
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	}
	if env.otelExporter() == exporterXrayUDP {
		opts = append(opts, sdktrace.WithIDGenerator(xray.NewIDGenerator()))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	lc.Append(fx.Hook{OnStop: tp.Shutdown})

	return tp, nil
}

// NewPropagator returns the X-Ray propagator in Lambda, and W3C trace context plus
// baggage plus X-Ray everywhere else.
func NewPropagator(env Environment) propagation.TextMapPropagator {
	if env.otelExporter() == exporterXrayUDP {
		return xray.Propagator{}
	}
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
		xray.Propagator{},
	)
}

// withTracing starts a server span for every request except the excluded paths.
func withTracing(
	tp trace.TracerProvider, prop propagation.TextMapPropagator, service string, excludedPaths ...string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, service,
			otelhttp.WithTracerProvider(tp),
			otelhttp.WithPropagators(prop),
			otelhttp.WithFilter(func(r *http.Request) bool {
				return !slices.Contains(excludedPaths, r.URL.Path)
			}),
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}
}
