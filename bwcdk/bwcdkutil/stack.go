package bwcdkutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/iancoleman/strcase"
)

// SharedStackName returns the CloudFormation stack name for a shared component stack.
// This is the canonical function for generating shared stack names.
func SharedStackName(qualifier, regionIdent, component string) string {
	base := strcase.ToLowerCamel(fmt.Sprintf("%s-%s", qualifier, regionIdent))
	return base + "Shared" + strcase.ToCamel(component)
}

// DeploymentStackName returns the CloudFormation stack name for a deployment component stack.
// This is the canonical function for generating deployment stack names.
func DeploymentStackName(qualifier, regionIdent, deploymentIdent, component string) string {
	base := strcase.ToLowerCamel(fmt.Sprintf("%s-%s", qualifier, regionIdent))
	return base + deploymentIdent + strcase.ToCamel(component)
}

// NewStackFromConfig creates a new CDK Stack for a component using a validated Config.
// Without a deployment identifier the stack is a shared stack.
func NewStackFromConfig(
	scope constructs.Construct, cfg *Config, region, component string, deploymentIdent ...string,
) awscdk.Stack {
	qual := cfg.Qualifier
	regionAcronym := cfg.RegionIdent(region)
	baseIdent := strcase.ToLowerCamel(fmt.Sprintf("%s-%s", qual, regionAcronym))

	var stackName, description string
	switch {
	case len(deploymentIdent) > 0 && deploymentIdent[0] != "":
		dident := deploymentIdent[0]
		if strings.ToUpper(string(dident[0])) != string(dident[0]) {
			panic("deployment identifier must start with a upper-case letter, got: " + dident)
		}

		stackName = DeploymentStackName(qual, regionAcronym, dident, component)
		description = fmt.Sprintf("%s %s (project: %s, region: %s, deployment: %s)",
			baseIdent, component, cfg.ProjectName, region, dident)
	case len(deploymentIdent) > 0:
		panic("invalid deploymentIdent: " + deploymentIdent[0])
	default:
		stackName = SharedStackName(qual, regionAcronym, component)
		description = fmt.Sprintf("%s %s (project: %s, region: %s)", baseIdent, component, cfg.ProjectName, region)
	}

	env := &awscdk.Environment{Region: jsii.String(region)}
	if account := os.Getenv("CDK_DEFAULT_ACCOUNT"); account != "" {
		env.Account = jsii.String(account)
	}

	stack := awscdk.NewStack(scope, jsii.String(stackName), &awscdk.StackProps{
		Env:         env,
		Description: jsii.String(description),
		Synthesizer: awscdk.NewDefaultStackSynthesizer(&awscdk.DefaultStackSynthesizerProps{
			Qualifier: jsii.String(qual),
		}),
	})

	if len(deploymentIdent) > 0 {
		StoreDeploymentIdent(stack, deploymentIdent[0])
	}

	awscdk.Tags_Of(stack).Add(jsii.String("project"), jsii.String(cfg.ProjectName), nil)
	awscdk.Tags_Of(stack).Add(jsii.String("env"), jsii.String(EnvName(stack)), nil)

	awscdk.Annotations_Of(stack).AcknowledgeWarning(
		jsii.String("@aws-cdk/aws-lambda-go-alpha:goBuildFlagsSecurityWarning"),
		jsii.String("Build flags are controlled by bwcdkutil.ReproducibleGoBundling and are safe"),
	)

	return stack
}
