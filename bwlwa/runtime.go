package bwlwa

import "go.uber.org/zap"

// Runtime provides access to app-scoped dependencies.
// Inject this into handler constructors via fx instead of pulling from context:
//
//	func NewHandler(rt *bwlwa.Runtime[Env], dynamo *dynamodb.Client) *Handler {
//	    return &Handler{rt: rt, dynamo: dynamo}
//	}
type Runtime[E Environment] struct {
	env    E
	mux    *Mux
	logger *zap.Logger
}

// NewRuntime creates a new Runtime with the given dependencies.
func NewRuntime[E Environment](env E, mux *Mux, logger *zap.Logger) *Runtime[E] {
	return &Runtime[E]{
		env:    env,
		mux:    mux,
		logger: logger,
	}
}

// Env returns the environment configuration.
func (r *Runtime[E]) Env() E {
	return r.env
}

// Logger returns the app logger, without request correlation. Inside handlers use Log.
func (r *Runtime[E]) Logger() *zap.Logger {
	return r.logger
}

// Reverse returns the URL for a named route with the given parameters.
// The route must have been registered with a name using Handle/HandleFunc.
func (r *Runtime[E]) Reverse(name string, params ...string) (string, error) {
	return r.mux.Reverse(name, params...)
}
