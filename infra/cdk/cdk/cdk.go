package main

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
	"github.com/basewarphq/morador/infra/cdk"
)

const projectPrefix = "morador"

func main() {
	defer jsii.Close()
	app := awscdk.NewApp(nil)

	bwcdkutil.SetupApp(app, bwcdkutil.AppConfig{
		Prefix:                projectPrefix + "-",
		DeployersGroup:        projectPrefix + "-deployers",
		RestrictedDeployments: []string{"Prod"},
	},
		cdk.NewShared,
		func(stacks *bwcdkutil.Stacks, shared *cdk.Shared) { cdk.NewDeployment(stacks, shared) },
	)

	app.Synth(nil)
}
