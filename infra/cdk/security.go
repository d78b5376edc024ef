package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkparams"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
)

// Security holds the security groups and the Lambda execution role of a deployment.
type Security struct {
	Stack      awscdk.Stack
	LambdaSG   awsec2.SecurityGroup
	BastionSG  awsec2.SecurityGroup
	RedisSG    awsec2.SecurityGroup
	LambdaRole awsiam.Role
}

// NewSecurity creates the security groups of the network and the Lambda role.
func NewSecurity(stack awscdk.Stack, network *Network) *Security {
	s := &Security{Stack: stack}

	s.LambdaSG = newSecurityGroup(stack, network, "LambdaSG", "lambda-sg", "SG for Lambda Functions")
	s.BastionSG = newSecurityGroup(stack, network, "BastionSG", "bastion-sg", "SG for Bastion Host")
	s.BastionSG.AddIngressRule(awsec2.Peer_AnyIpv4(), awsec2.Port_Tcp(jsii.Number(22)),
		jsii.String("SSH Access"), nil)

	s.RedisSG = newSecurityGroup(stack, network, "RedisSG", "redis-sg", "SG for Redis Cluster")
	s.RedisSG.AddIngressRule(s.LambdaSG, awsec2.Port_Tcp(jsii.Number(6379)),
		jsii.String("Access from Lambda functions"), nil)

	s.LambdaRole = awsiam.NewRole(stack, jsii.String("LambdaRole"), &awsiam.RoleProps{
		RoleName:  jsii.String(bwcdkutil.ResourceName(stack, "lambda-role", bwcdkutil.CasingKebab)),
		AssumedBy: awsiam.NewServicePrincipal(jsii.String("lambda.amazonaws.com"), nil),
		ManagedPolicies: &[]awsiam.IManagedPolicy{
			awsiam.ManagedPolicy_FromAwsManagedPolicyName(
				jsii.String("service-role/AWSLambdaVPCAccessExecutionRole")),
		},
	})
	s.LambdaRole.AddToPolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Actions:   jsii.Strings("s3:*", "rds:*"),
		Resources: jsii.Strings("*"),
	}))

	bwcdkparams.Store(stack, "LambdaSGParam", "lambda-sg", s.LambdaSG.SecurityGroupId())
	bwcdkparams.Store(stack, "RedisSGParam", "redis-sg", s.RedisSG.SecurityGroupId())
	bwcdkparams.Store(stack, "LambdaRoleArnParam", "lambda-role-arn", s.LambdaRole.RoleArn())
	bwcdkparams.Store(stack, "LambdaRoleNameParam", "lambda-role-name", s.LambdaRole.RoleName())

	return s
}

func newSecurityGroup(stack awscdk.Stack, network *Network, id, name, description string) awsec2.SecurityGroup {
	return awsec2.NewSecurityGroup(stack, jsii.String(id), &awsec2.SecurityGroupProps{
		Vpc:               network.Vpc,
		SecurityGroupName: jsii.String(name),
		Description:       jsii.String(description),
		AllowAllOutbound:  jsii.Bool(true),
	})
}
