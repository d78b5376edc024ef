package bwcdkutil

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
)

// Stacks creates component stacks for either the shared scope or a single deployment.
// Stacks created through the same Stacks value share a deployment identifier.
type Stacks struct {
	app             awscdk.App
	cfg             *Config
	deploymentIdent string
	base            []awscdk.Stack
	created         []awscdk.Stack
}

// DeploymentIdent returns the deployment identifier, or "" for the shared scope.
func (s *Stacks) DeploymentIdent() string { return s.deploymentIdent }

// Config returns the validated app configuration.
func (s *Stacks) Config() *Config { return s.cfg }

// Primary creates a stack for the given component in the primary region.
func (s *Stacks) Primary(component string) awscdk.Stack {
	return s.newStack(s.cfg.PrimaryRegion, component)
}

// Edge creates a stack for the given component in the edge region.
func (s *Stacks) Edge(component string) awscdk.Stack {
	return s.newStack(EdgeRegion, component)
}

// In creates a stack for the given component in region.
func (s *Stacks) In(region, component string) awscdk.Stack {
	return s.newStack(region, component)
}

func (s *Stacks) newStack(region, component string) awscdk.Stack {
	var stack awscdk.Stack
	if s.deploymentIdent == "" {
		stack = NewStackFromConfig(s.app, s.cfg, region, component)
	} else {
		stack = NewStackFromConfig(s.app, s.cfg, region, component, s.deploymentIdent)
	}

	for _, dep := range s.base {
		stack.AddDependency(dep, jsii.String("Shared stacks must deploy first"))
	}

	s.created = append(s.created, stack)
	return stack
}

// SharedConstructor creates the shared stacks. It returns the shared value that will be
// passed to every deployment constructor.
type SharedConstructor[S any] func(stacks *Stacks) S

// DeploymentConstructor creates the stacks of a single deployment.
type DeploymentConstructor[S any] func(stacks *Stacks, shared S)

// AppConfig configures the CDK app setup.
type AppConfig struct {
	// Prefix for context keys (e.g., "morador-" for "morador-qualifier", "morador-primary-region", etc.)
	Prefix string
	// DeployersGroup is the IAM group that can deploy to all environments.
	DeployersGroup string
	// RestrictedDeployments are deployment identifiers that require DeployersGroup membership.
	RestrictedDeployments []string
}

// SetupApp configures a CDK app with shared and per-deployment component stacks.
//
// It creates:
//  1. The shared stacks using the SharedConstructor
//  2. The stacks of every allowed deployment using the DeploymentConstructor. Each of
//     them depends on all shared stacks.
//
// The type parameter S represents the shared value returned by SharedConstructor.
// SetupApp validates all context values upfront and panics with a clear error message
// if any required values are missing or invalid.
func SetupApp[S any](
	app awscdk.App,
	cfg AppConfig,
	newShared SharedConstructor[S],
	newDeployment DeploymentConstructor[S],
) {
	config, err := NewConfig(app, cfg)
	if err != nil {
		panic(err)
	}
	StoreConfig(app, config)

	shared := &Stacks{app: app, cfg: config}
	sharedValue := newShared(shared)

	for _, deploymentIdent := range config.AllowedDeployments() {
		newDeployment(&Stacks{
			app:             app,
			cfg:             config,
			deploymentIdent: deploymentIdent,
			base:            shared.created,
		}, sharedValue)
	}
}
