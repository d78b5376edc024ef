// Package bwcdkparams hands off plain string values between independently deployed
// stacks using AWS Systems Manager Parameter Store.
//
// A stack that creates a resource stores its identifiers with [Store]. Stacks in the
// same region read them back with [LookupLocal], which resolves at deploy time. Stacks
// in another region (e.g. CloudFront resources in us-east-1) use [Lookup], which reads
// the value through a custom resource.
//
// Deployment stacks store values under /{env}/{name}; shared stacks under
// /{qualifier}/{name}.
package bwcdkparams

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsssm"
	"github.com/aws/aws-cdk-go/awscdk/v2/customresources"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
	"github.com/basewarphq/morador/paramstore"
)

// ParameterName returns the path of a parameter in the namespace of the enclosing
// stack, e.g. /dev/zone-id.
func ParameterName(scope constructs.Construct, name string) *string {
	return jsii.String(paramstore.Path(bwcdkutil.EnvName(scope), name))
}

// SharedParameterName returns the path of a parameter stored by a shared stack.
func SharedParameterName(scope constructs.Construct, name string) *string {
	return jsii.String(paramstore.Path(bwcdkutil.Qualifier(scope), name))
}

// Store creates a parameter named ParameterName(scope, name).
func Store(scope constructs.Construct, id string, name string, value *string) awsssm.StringParameter {
	return awsssm.NewStringParameter(scope, jsii.String(id),
		&awsssm.StringParameterProps{
			ParameterName: ParameterName(scope, name),
			StringValue:   value,
		})
}

// LookupLocal retrieves a parameter from SSM Parameter Store within the same region.
// The value resolves at deploy time. For cross-region lookups, use Lookup.
func LookupLocal(scope constructs.Construct, parameterName *string) *string {
	return awsssm.StringParameter_ValueForStringParameter(scope, parameterName, nil)
}

// Lookup retrieves a parameter stored in another region using a custom resource.
func Lookup(scope constructs.Construct, id string, parameterName *string, region string) *string {
	sdkCall := &customresources.AwsSdkCall{
		Service: jsii.String("SSM"),
		Action:  jsii.String("getParameter"),
		Parameters: map[string]any{
			"Name": parameterName,
		},
		Region:             jsii.String(region),
		PhysicalResourceId: customresources.PhysicalResourceId_Of(parameterName),
	}
	// OnUpdate is required so that changes to the parameter path trigger a new SSM
	// GetParameter call. Without it, CloudFormation skips the SDK call on update and
	// the response is empty, causing "doesn't contain Parameter.Value" errors.
	lookup := customresources.NewAwsCustomResource(scope, jsii.String(id),
		&customresources.AwsCustomResourceProps{
			OnCreate: sdkCall,
			OnUpdate: sdkCall,
			Policy: customresources.AwsCustomResourcePolicy_FromSdkCalls(&customresources.SdkCallsPolicyOptions{
				Resources: customresources.AwsCustomResourcePolicy_ANY_RESOURCE(),
			}),
		})
	return lookup.GetResponseField(jsii.String("Parameter.Value"))
}

// LookupIn reads a parameter stored in region, using LookupLocal when that is the
// region of the enclosing stack and Lookup otherwise.
func LookupIn(scope constructs.Construct, id string, parameterName *string, region string) *string {
	if *awscdk.Stack_Of(scope).Region() == region {
		return LookupLocal(scope, parameterName)
	}
	return Lookup(scope, id, parameterName, region)
}
