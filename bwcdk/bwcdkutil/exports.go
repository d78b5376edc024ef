package bwcdkutil

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// Export creates a CfnOutput with an explicit export name of the form
// "{env}-{name}", for consumers outside of this CDK app (e.g. CI scripts that
// call Fn::ImportValue).
func Export(scope constructs.Construct, id, name string, value *string) awscdk.CfnOutput {
	return awscdk.NewCfnOutput(scope, jsii.String(id), &awscdk.CfnOutputProps{
		Value:      value,
		ExportName: jsii.String(EnvName(scope) + "-" + name),
	})
}
