// Package bwcdkloggroup provides a reusable CloudWatch Log Group construct
// with standardized retention, removal policy, and CloudFormation outputs.
//
// All log groups created with this construct export their names as stack outputs,
// so they can be found with a single CLI query.
package bwcdkloggroup

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// LogGroup provides access to a CloudWatch Log Group with standardized configuration.
type LogGroup interface {
	// LogGroup returns the underlying CDK log group.
	LogGroup() awslogs.ILogGroup
}

// Props configures the LogGroup construct.
type Props struct {
	// Purpose describes what this log group is for (e.g., "Lambda function logs").
	// Used in the CfnOutput description.
	// Required.
	Purpose *string
	// Retention overrides the default retention of one week.
	// Optional.
	Retention awslogs.RetentionDays
}

type logGroup struct {
	lg awslogs.ILogGroup
}

// New creates a LogGroup construct with standardized configuration.
//
// The log group is created with:
//   - Retention: ONE_WEEK unless Props.Retention is set
//   - RemovalPolicy: DESTROY (log groups are deleted with the stack)
//
// A CfnOutput is created with:
//   - Key: "{id}LogGroup"
//   - Value: The log group name (for CLI queries)
//   - Description: "CloudWatch Log Group for {Purpose}"
func New(scope constructs.Construct, id string, props Props) LogGroup {
	scope = constructs.NewConstruct(scope, jsii.String(id))
	con := &logGroup{}

	retention := props.Retention
	if retention == "" {
		retention = awslogs.RetentionDays_ONE_WEEK
	}

	con.lg = awslogs.NewLogGroup(scope, jsii.String("LogGroup"), &awslogs.LogGroupProps{
		Retention:     retention,
		RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
	})

	awscdk.NewCfnOutput(scope, jsii.String("LogGroupOutput"), &awscdk.CfnOutputProps{
		Key:         jsii.String(id + "LogGroup"),
		Description: jsii.String("CloudWatch Log Group for " + *props.Purpose),
		Value:       con.lg.LogGroupName(),
	})

	return con
}

func (l *logGroup) LogGroup() awslogs.ILogGroup {
	return l.lg
}
