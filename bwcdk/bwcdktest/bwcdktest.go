// Package bwcdktest holds helpers for synthesizing constructs in tests.
package bwcdktest

import (
	"maps"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
)

// Prefix is the context key prefix used by Context.
const Prefix = "morador-"

// DeployersGroup is the deployers group that Context grants access to all deployments.
const DeployersGroup = "morador-deployers"

// Context returns a complete, valid CDK context for tests.
func Context() map[string]any {
	return map[string]any{
		Prefix + "qualifier":                "morador",
		Prefix + "project-name":             "riowonder",
		Prefix + "primary-region":           "sa-east-1",
		Prefix + "deployments":              []any{"Dev", "Prod"},
		Prefix + "base-domain-name":         "example.com",
		Prefix + "frontend-repository":      "riowonder-app",
		Prefix + "backend-repository-owner": "riowonder",
		Prefix + "backend-repository":       "morador",
		Prefix + "deployer-groups":          DeployersGroup,
		Prefix + "dns-delegated":            true,
		// skip asset bundling, tests never build the Go Lambda binaries
		"aws:cdk:bundling-stacks": []any{},
	}
}

// AppConfig returns the AppConfig matching Context.
func AppConfig() bwcdkutil.AppConfig {
	return bwcdkutil.AppConfig{
		Prefix:                Prefix,
		DeployersGroup:        DeployersGroup,
		RestrictedDeployments: []string{"Prod"},
	}
}

// ContextWith returns Context with the given overrides applied. A nil override value
// removes the key.
func ContextWith(overrides map[string]any) map[string]any {
	ctx := Context()
	maps.Copy(ctx, overrides)
	for k, v := range overrides {
		if v == nil {
			delete(ctx, k)
		}
	}
	return ctx
}

// NewApp creates an app from ContextWith(overrides) and stores the validated config
// in it.
func NewApp(overrides map[string]any) (awscdk.App, *bwcdkutil.Config) {
	ctx := ContextWith(overrides)
	app := awscdk.NewApp(&awscdk.AppProps{Context: &ctx})

	cfg, err := bwcdkutil.NewConfig(app, AppConfig())
	if err != nil {
		panic(err)
	}
	bwcdkutil.StoreConfig(app, cfg)

	return app, cfg
}

// NewDeploymentStack creates a stack for a component of the given deployment.
func NewDeploymentStack(
	app awscdk.App, cfg *bwcdkutil.Config, region, component, deploymentIdent string,
) awscdk.Stack {
	return bwcdkutil.NewStackFromConfig(app, cfg, region, component, deploymentIdent)
}

// NewSharedStack creates a shared stack for a component.
func NewSharedStack(app awscdk.App, cfg *bwcdkutil.Config, region, component string) awscdk.Stack {
	return bwcdkutil.NewStackFromConfig(app, cfg, region, component)
}
