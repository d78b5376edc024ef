package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkparams"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
)

// Storage holds the S3 buckets of a deployment.
type Storage struct {
	Stack            awscdk.Stack
	LambdaBucket     awss3.Bucket
	ArtifactsBucket  awss3.Bucket
	FrontendBucket   awss3.Bucket
	CloudTrailBucket awss3.Bucket
}

// BucketName returns the deterministic name of a deployment bucket, which lets other
// stacks import the bucket by name instead of by reference.
func BucketName(scope constructs.Construct, purpose string) *string {
	return jsii.String(*awscdk.Aws_ACCOUNT_ID() + "-" + bwcdkutil.EnvName(scope) + "-" + purpose)
}

// NewStorage creates the deployment packages, build artifacts, frontend and CloudTrail
// buckets.
func NewStorage(stack awscdk.Stack) *Storage {
	s := &Storage{Stack: stack}

	s.LambdaBucket = newPrivateBucket(stack, "LambdaBucket", "lambda-deploy-packages",
		awscdk.RemovalPolicy_RETAIN)
	bwcdkparams.Store(stack, "LambdaBucketParam", "lambda-s3-bucket", s.LambdaBucket.BucketName())

	s.ArtifactsBucket = newPrivateBucket(stack, "BuildArtifactsBucket", "build-artifacts",
		awscdk.RemovalPolicy_DESTROY)
	bwcdkutil.Export(stack, "BuildArtifactsBucketExport", "build-artifacts-bucket",
		s.ArtifactsBucket.BucketName())

	s.FrontendBucket = newPrivateBucket(stack, "FrontendBucket", "frontend", awscdk.RemovalPolicy_RETAIN)
	bwcdkutil.Export(stack, "FrontendBucketExport", "frontend-bucket", s.FrontendBucket.BucketName())

	// The distribution lives in the edge region and imports the bucket by name, so
	// the read grant for origin access control is declared here.
	s.FrontendBucket.AddToResourcePolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Actions:    jsii.Strings("s3:GetObject"),
		Resources:  jsii.Strings(*s.FrontendBucket.ArnForObjects(jsii.String("*"))),
		Principals: &[]awsiam.IPrincipal{awsiam.NewServicePrincipal(jsii.String("cloudfront.amazonaws.com"), nil)},
		Conditions: &map[string]any{
			"StringLike": map[string]any{
				"AWS:SourceArn": "arn:aws:cloudfront::" + *awscdk.Aws_ACCOUNT_ID() + ":distribution/*",
			},
		},
	}))

	s.CloudTrailBucket = newPrivateBucket(stack, "CloudTrailBucket", "cloudtrail", awscdk.RemovalPolicy_RETAIN)
	cloudtrail := awsiam.NewServicePrincipal(jsii.String("cloudtrail.amazonaws.com"), nil)
	s.CloudTrailBucket.AddToResourcePolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Actions:    jsii.Strings("s3:GetBucketAcl"),
		Resources:  jsii.Strings(*s.CloudTrailBucket.BucketArn()),
		Principals: &[]awsiam.IPrincipal{cloudtrail},
	}))
	s.CloudTrailBucket.AddToResourcePolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Actions: jsii.Strings("s3:PutObject"),
		Resources: jsii.Strings(*s.CloudTrailBucket.ArnForObjects(
			jsii.String("AWSLogs/" + *awscdk.Aws_ACCOUNT_ID() + "/*"))),
		Principals: &[]awsiam.IPrincipal{cloudtrail},
		Conditions: &map[string]any{
			"StringEquals": map[string]any{"s3:x-amz-acl": "bucket-owner-full-control"},
		},
	}))

	return s
}

func newPrivateBucket(
	stack awscdk.Stack, id, purpose string, removalPolicy awscdk.RemovalPolicy,
) awss3.Bucket {
	return awss3.NewBucket(stack, jsii.String(id), &awss3.BucketProps{
		BucketName:        BucketName(stack, purpose),
		AccessControl:     awss3.BucketAccessControl_BUCKET_OWNER_FULL_CONTROL,
		ObjectOwnership:   awss3.ObjectOwnership_BUCKET_OWNER_PREFERRED,
		Encryption:        awss3.BucketEncryption_S3_MANAGED,
		BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
		EnforceSSL:        jsii.Bool(true),
		RemovalPolicy:     removalPolicy,
	})
}
