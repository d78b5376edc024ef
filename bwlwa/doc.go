// Package bwlwa runs HTTP services on AWS Lambda behind the Lambda Web Adapter
// (LWA). It wires the environment, a zap logger, OpenTelemetry tracing, AWS SDK
// clients and a bhttp mux into one fx application.
//
// The MoradorBot webhook is a typical app:
//
//	bwlwa.NewApp[Env](routing,
//	    bwlwa.WithAWSClient(func(cfg aws.Config) *dynamodb.Client {
//	        return dynamodb.NewFromConfig(cfg)
//	    }),
//	    bwlwa.WithFx(fx.Provide(NewHandler)),
//	).Run()
//
// # Environment
//
// An app's environment embeds [BaseEnvironment] and adds its own variables:
//
//	type Env struct {
//	    bwlwa.BaseEnvironment
//	    UpdatesTable string `env:"BW_UPDATES_TABLE,required"`
//	}
//
// BaseEnvironment reads:
//
//	| Variable                     | Default | Set by                         |
//	|------------------------------|---------|--------------------------------|
//	| AWS_LWA_PORT                 | -       | bwcdklwalambda                 |
//	| AWS_LWA_READINESS_CHECK_PATH | -       | bwcdklwalambda                 |
//	| AWS_REGION                   | -       | the Lambda runtime             |
//	| BW_SERVICE_NAME              | -       | bwcdklwalambda                 |
//	| BW_PRIMARY_REGION            | -       | bwcdklwalambda                 |
//	| BW_ENV                       | dev     | deployment, SSM path prefix    |
//	| BW_LOG_LEVEL                 | info    | debug, info, warn or error     |
//	| BW_OTEL_EXPORTER             | stdout  | "stdout" or "xrayudp"          |
//
// The variables without a default are required. The AWS_LWA_* names are the
// ones LWA itself reads.
//
// # Request context
//
// Handlers reach their dependencies through the request context with [Log],
// [Span], [Env], [AWS], [LWA] and [Reverse]:
//
//	func (h *Handler) Webhook(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error {
//	    bwlwa.Span(ctx).AddEvent("claiming update")
//	    bwlwa.Log(ctx).Info("update received", zap.String("env", bwlwa.Env[Env](ctx).EnvName))
//	    // ...
//	}
//
// Log lines written through [Log] carry the trace and span ids of the request.
//
// # Tracing
//
// BW_OTEL_EXPORTER selects pretty printed spans on stdout, or the X-Ray UDP
// exporter with X-Ray trace ids and propagation. OTEL_SDK_DISABLED=true turns
// tracing off. Nothing is registered globally.
//
// # AWS clients
//
// Clients registered with [WithAWSClient] are instrumented with otelaws. They
// target AWS_REGION unless registered with [ForPrimaryRegion] or [ForRegion].
// The stacks write their SSM hand-off values in the primary region:
//
//	bwlwa.WithAWSClient(func(cfg aws.Config) *ssm.Client {
//	    return ssm.NewFromConfig(cfg)
//	}, bwlwa.ForPrimaryRegion())
//
//	params := bwlwa.AWS[ssm.Client](ctx, bwlwa.PrimaryRegion())
//
// Only local region clients can be injected into fx constructors as *T.
//
// # Health
//
// AWS_LWA_READINESS_CHECK_PATH answers "ok" unless [WithHealthHandler] replaces
// it. Extra fx options are added with [WithFx].
package bwlwa
