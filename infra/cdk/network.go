package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsec2"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkparams"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
)

// Network holds the VPC of a deployment.
type Network struct {
	Stack awscdk.Stack
	Vpc   awsec2.Vpc
}

// NewNetwork creates a VPC with public subnets and isolated private subnets across two
// availability zones. There are no NAT gateways, workloads in the private subnets
// only talk to resources inside the VPC.
func NewNetwork(stack awscdk.Stack) *Network {
	n := &Network{Stack: stack}

	n.Vpc = awsec2.NewVpc(stack, jsii.String("Vpc"), &awsec2.VpcProps{
		VpcName:     jsii.String(bwcdkutil.ResourceName(stack, "vpc", bwcdkutil.CasingKebab)),
		IpAddresses: awsec2.IpAddresses_Cidr(jsii.String("10.0.0.0/16")),
		MaxAzs:      jsii.Number(2),
		NatGateways: jsii.Number(0),
		SubnetConfiguration: &[]*awsec2.SubnetConfiguration{
			{Name: jsii.String("public"), SubnetType: awsec2.SubnetType_PUBLIC, CidrMask: jsii.Number(24)},
			{Name: jsii.String("private"), SubnetType: awsec2.SubnetType_PRIVATE_ISOLATED, CidrMask: jsii.Number(24)},
		},
	})

	bwcdkparams.Store(stack, "VpcIDParam", "vpc-id", n.Vpc.VpcId())

	return n
}
