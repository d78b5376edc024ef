package bwlwa

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

// clientOptions holds configuration for AWS client registration.
type clientOptions struct {
	region Region
}

// ClientOption configures AWS client registration.
type ClientOption func(*clientOptions)

// ForPrimaryRegion configures the client to use the BW_PRIMARY_REGION env var.
// Use this for values that only exist in the primary deployment region, like the
// SSM parameters written by the CDK stacks.
//
//	bwlwa.WithAWSClient(func(cfg aws.Config) *ssm.Client {
//	    return ssm.NewFromConfig(cfg)
//	}, bwlwa.ForPrimaryRegion())
//
// Retrieve it with:
//
//	bwlwa.AWS[ssm.Client](ctx, bwlwa.PrimaryRegion())
func ForPrimaryRegion() ClientOption {
	return func(o *clientOptions) {
		o.region = PrimaryRegion()
	}
}

// ForRegion configures the client to use a specific fixed region.
func ForRegion(region string) ClientOption {
	return func(o *clientOptions) {
		o.region = FixedRegion(region)
	}
}

const awsConfigTimeout = 10 * time.Second

// NewAWSConfig loads the default AWS SDK v2 configuration.
func NewAWSConfig(ctx context.Context) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return cfg, errors.Wrap(err, "load AWS config")
	}
	return cfg, nil
}

// provideAWSConfig is an fx provider that loads AWS config with a timeout.
// The config is instrumented with OpenTelemetry using the injected tracer provider
// and propagator, so SDK calls show up as child spans of the request.
func provideAWSConfig(tp trace.TracerProvider, prop propagation.TextMapPropagator) (aws.Config, error) {
	ctx, cancel := context.WithTimeout(context.Background(), awsConfigTimeout)
	defer cancel()

	cfg, err := NewAWSConfig(ctx)
	if err != nil {
		return cfg, err
	}
	otelaws.AppendMiddlewares(&cfg.APIOptions,
		otelaws.WithTracerProvider(tp),
		otelaws.WithTextMapPropagator(prop),
	)
	return cfg, nil
}

// provideLocalClient makes a local-region client injectable as *T. Clients for other
// regions are only reachable through AWS so two registrations of the same type
// don't collide in the container.
func provideLocalClient[T any](f ClientFactory) fx.Option {
	return fx.Provide(func(clients awsClients) *T {
		client, _ := clients[f.clientKey()].(*T)
		return client
	})
}
