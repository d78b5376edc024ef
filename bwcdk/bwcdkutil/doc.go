// Package bwcdkutil provides utilities for AWS CDK applications in Go.
//
// # Quick Start
//
// Use [SetupApp] to configure a CDK application with one set of shared stacks and
// a set of component stacks for every deployment:
//
//	func main() {
//	    defer jsii.Close()
//	    app := awscdk.NewApp(nil)
//
//	    bwcdkutil.SetupApp(app, bwcdkutil.AppConfig{
//	        Prefix:                "morador-",
//	        DeployersGroup:        "morador-deployers",
//	        RestrictedDeployments: []string{"Prod"},
//	    }, NewShared, NewDeployment)
//
//	    app.Synth(nil)
//	}
//
// # CDK Context Configuration
//
// The package reads configuration from CDK context (cdk.json). With prefix "morador-":
//
//	{
//	  "morador-qualifier": "morador",
//	  "morador-project-name": "riowonder",
//	  "morador-primary-region": "sa-east-1",
//	  "morador-deployments": ["Dev", "Prod"],
//	  "morador-base-domain-name": "example.com",
//	  "morador-frontend-repository": "riowonder-app",
//	  "morador-backend-repository-owner": "riowonder",
//	  "morador-backend-repository": "morador",
//	  "morador-deployer-groups": "morador-deployers"
//	}
//
// # Stacks
//
// Every stack is created for one component (e.g. "Cdn", "Bot") in either the
// primary region or the [EdgeRegion]. Stack names follow
// "{qualifier}{RegionIdent}{Deployment|Shared}{Component}". Resources that must
// live in us-east-1 for CloudFront (certificates, CLOUDFRONT scoped WAF ACLs)
// are placed in edge stacks.
//
// # Features
//
//   - [SetupApp]: shared and per-deployment app orchestration
//   - [NewStackFromConfig]: Stack creation with qualifier and region naming
//   - [ResourceName] and [EnvName]: deployment aware naming
//   - [ReproducibleGoBundling]: Lambda bundling for identical builds
//   - [Config.AllowedDeployments]: Role-based deployment authorization
//   - [Export]: named CloudFormation exports
package bwcdkutil
