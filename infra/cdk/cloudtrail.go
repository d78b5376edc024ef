package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudtrail"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
)

// CloudTrail holds the audit trail of a deployment.
type CloudTrail struct {
	Stack awscdk.Stack
	Trail awscloudtrail.Trail
}

// NewCloudTrail creates a trail that writes into the CloudTrail bucket of the Storage
// stack. The bucket policy that allows the delivery lives with the bucket.
func NewCloudTrail(stack awscdk.Stack) *CloudTrail {
	c := &CloudTrail{Stack: stack}

	bucket := awss3.Bucket_FromBucketName(stack, jsii.String("CloudTrailBucket"),
		BucketName(stack, "cloudtrail"))

	c.Trail = awscloudtrail.NewTrail(stack, jsii.String("Trail"), &awscloudtrail.TrailProps{
		Bucket:    bucket,
		TrailName: jsii.String(bwcdkutil.ResourceName(stack, "trail", bwcdkutil.CasingKebab)),
	})

	return c
}
