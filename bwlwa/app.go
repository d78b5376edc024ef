package bwlwa

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// App is a bwlwa application. Create it with NewApp and start it with Run.
type App[E Environment] struct {
	fx *fx.App
}

type appOptions struct {
	fxOpts  []fx.Option
	clients []ClientFactory
	health  HealthHandler
}

// Option configures the App.
type Option func(*appOptions)

// WithAWSClient registers an AWS SDK client. The factory receives an aws.Config for
// the region selected by the options (the local region by default).
//
// Local region clients can be injected as *T into fx constructors. Every client can
// be retrieved in handlers with AWS.
func WithAWSClient[T any](factory func(aws.Config) *T, opts ...ClientOption) Option {
	f := RegisterAWSClient(factory, opts...)
	return func(o *appOptions) {
		o.clients = append(o.clients, f)
		if _, local := f.Region.(localRegion); local {
			o.fxOpts = append(o.fxOpts, provideLocalClient[T](f))
		}
	}
}

// WithFx adds raw fx options, usually fx.Provide for handler constructors.
func WithFx(opts ...fx.Option) Option {
	return func(o *appOptions) {
		o.fxOpts = append(o.fxOpts, opts...)
	}
}

// WithHealthHandler replaces the default readiness check handler.
func WithHealthHandler(h HealthHandler) Option {
	return func(o *appOptions) {
		o.health = h
	}
}

// NewApp assembles the application. The routing function is invoked by fx, so it
// can take *Mux plus any provided dependency as arguments.
func NewApp[E Environment](routing any, opts ...Option) *App[E] {
	o := &appOptions{health: defaultHealth}
	for _, opt := range opts {
		opt(o)
	}

	return &App[E]{fx: fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Provide(
			ParseEnv[E](),
			func(env E) Environment { return env },
			NewLogger,
			NewTracerProvider,
			NewPropagator,
			provideAWSConfig,
			func(cfg aws.Config, env Environment) awsClients {
				return newAWSClients(cfg, env, o.clients)
			},
			NewMux,
			NewRuntime[E],
		),
		fx.Options(o.fxOpts...),
		fx.Invoke(func(m *Mux, env Environment) { registerHealth(m, env, o.health) }),
		fx.Invoke(routing),
		fx.Invoke(registerServer),
	)}
}

// Run starts the app and blocks until SIGINT or SIGTERM. Startup errors exit the
// process.
func (a *App[E]) Run() {
	a.fx.Run()
}

// Start starts the app and blocks until ctx is done, then stops it.
func (a *App[E]) Start(ctx context.Context) error {
	if err := a.fx.Err(); err != nil {
		return errors.Wrap(err, "build app")
	}

	startCtx, cancel := context.WithTimeout(ctx, a.fx.StartTimeout())
	defer cancel()
	if err := a.fx.Start(startCtx); err != nil {
		return errors.Wrap(err, "start app")
	}

	<-ctx.Done()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), a.fx.StopTimeout())
	defer cancelStop()
	return errors.Wrap(a.fx.Stop(stopCtx), "stop app")
}

// NewLogger creates the production JSON logger at the configured level.
func NewLogger(lc fx.Lifecycle, env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())

	logger, err := cfg.Build(zap.Fields(
		zap.String("service", env.serviceName()),
		zap.String("env", env.envName()),
	))
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}

	lc.Append(fx.StopHook(func() { _ = logger.Sync() }))
	return logger, nil
}

const readHeaderTimeout = 10 * time.Second

type serverParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Env        Environment
	Mux        *Mux
	Logger     *zap.Logger
	Tracer     trace.TracerProvider
	Propagator propagation.TextMapPropagator
	Clients    awsClients
}

func registerServer(p serverParams) {
	d := &deps{
		logger:  p.Logger,
		env:     p.Env,
		mux:     p.Mux,
		clients: p.Clients,
	}

	var handler http.Handler = p.Mux
	handler = withDeps(d)(handler)
	handler = withLWAContext()(handler)
	handler = withTracing(p.Tracer, p.Propagator, p.Env.serviceName(), p.Env.readinessCheckPath())(handler)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(p.Env.port()),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var lc net.ListenConfig
			ln, err := lc.Listen(ctx, "tcp", srv.Addr)
			if err != nil {
				return errors.Wrapf(err, "listen on %s", srv.Addr)
			}

			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server stopped", zap.Error(err))
				}
			}()

			p.Logger.Info("listening", zap.String("addr", srv.Addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return errors.Wrap(srv.Shutdown(ctx), "shutdown http server")
		},
	})
}
