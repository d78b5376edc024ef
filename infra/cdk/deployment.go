package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
)

// Deployment holds the component stacks of a single deployment.
type Deployment struct {
	Storage          *Storage
	Network          *Network
	Security         *Security
	Kms              *Kms
	CloudTrail       *CloudTrail
	Cognito          *Cognito
	Redis            *Redis
	Notifications    *Notifications
	Waf              *Waf
	Cdn              *Cdn
	FrontendPipeline *FrontendPipeline
	BackendPipeline  *BackendPipeline
	Bot              *Bot
}

// NewDeployment creates the component stacks of a deployment. Stacks hand off values
// through SSM parameters, so the deploy order is declared with explicit dependencies.
func NewDeployment(stacks *bwcdkutil.Stacks, _ *Shared) *Deployment {
	d := &Deployment{}

	d.Storage = NewStorage(stacks.Primary("Storage"))
	d.Network = NewNetwork(stacks.Primary("Network"))
	d.Security = NewSecurity(stacks.Primary("Security"), d.Network)
	d.Kms = NewKms(stacks.Primary("Kms"))
	d.CloudTrail = NewCloudTrail(stacks.Primary("CloudTrail"))
	dependsOn(d.CloudTrail.Stack, d.Storage.Stack)
	d.Cognito = NewCognito(stacks.Primary("Cognito"))
	d.Redis = NewRedis(stacks.Primary("Redis"), d.Network, d.Security)
	d.Notifications = NewNotifications(stacks.Primary("Notifications"))

	d.Waf = NewWaf(stacks.Edge("Waf"))
	d.Cdn = NewCdn(stacks.Edge("Cdn"))
	dependsOn(d.Cdn.Stack, d.Waf.Stack, d.Storage.Stack)

	d.FrontendPipeline = NewFrontendPipeline(stacks.Primary("FrontendPipeline"))
	dependsOn(d.FrontendPipeline.Stack, d.Storage.Stack, d.Cdn.Stack, d.Notifications.Stack)
	d.BackendPipeline = NewBackendPipeline(stacks.Primary("BackendPipeline"))
	dependsOn(d.BackendPipeline.Stack, d.Storage.Stack, d.Notifications.Stack)

	d.Bot = NewBot(stacks.Primary("Bot"))
	dependsOn(d.Bot.Stack, d.Notifications.Stack)

	return d
}

func dependsOn(stack awscdk.Stack, deps ...awscdk.Stack) {
	for _, dep := range deps {
		stack.AddDependency(dep, jsii.String("Reads parameters stored by "+*dep.StackName()))
	}
}
