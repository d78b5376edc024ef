package bwcdkutil

import (
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

const deploymentIdentContextKey = "__bwcdkutil_deployment_ident"

// StoreDeploymentIdent records the deployment identifier on a stack so that every
// construct below it can read it with DeploymentIdent.
func StoreDeploymentIdent(stack awscdk.Stack, deploymentIdent string) {
	stack.Node().SetContext(jsii.String(deploymentIdentContextKey), deploymentIdent)
}

// DeploymentIdent returns the deployment identifier of the enclosing stack, or "" for
// shared stacks.
func DeploymentIdent(scope constructs.Construct) string {
	ident, _ := scope.Node().TryGetContext(jsii.String(deploymentIdentContextKey)).(string)
	return ident
}

// EnvName returns the environment namespace used for parameters and resource names:
// the lower-cased deployment identifier, or the qualifier for shared stacks.
func EnvName(scope constructs.Construct) string {
	if ident := DeploymentIdent(scope); ident != "" {
		return strings.ToLower(ident)
	}
	return Qualifier(scope)
}
