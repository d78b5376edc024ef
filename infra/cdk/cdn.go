package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfrontorigins"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53targets"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkcerts"
	"github.com/basewarphq/morador/bwcdk/bwcdkdns"
	"github.com/basewarphq/morador/bwcdk/bwcdkparams"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
)

const distributionIDParam = "app-distribution-id"

// Cdn holds the CloudFront distribution serving the frontend app.
type Cdn struct {
	Stack        awscdk.Stack
	Distribution awscloudfront.Distribution
}

// NewCdn creates the distribution over the frontend bucket. It must be created in the
// edge region. Once DNS is delegated the distribution is served on the app domain.
func NewCdn(stack awscdk.Stack) *Cdn {
	c := &Cdn{Stack: stack}
	cfg := bwcdkutil.ConfigFromScope(stack)

	bucket := awss3.Bucket_FromBucketAttributes(stack, jsii.String("FrontendBucket"), &awss3.BucketAttributes{
		BucketName: BucketName(stack, "frontend"),
		Region:     jsii.String(cfg.PrimaryRegion),
	})

	origin := awscloudfrontorigins.S3BucketOrigin_WithOriginAccessControl(bucket,
		&awscloudfrontorigins.S3BucketOriginWithOACProps{
			OriginPath: jsii.String("/build"),
		})

	var (
		domainNames *[]*string
		certificate awscertificatemanager.ICertificate
	)
	if cfg.DNSDelegated {
		domainNames = jsii.Strings(cfg.AppDomainName())
		certificate = bwcdkcerts.LookupCertificate(stack)
	}

	c.Distribution = awscloudfront.NewDistribution(stack, jsii.String("Distribution"),
		&awscloudfront.DistributionProps{
			Comment: jsii.String(bwcdkutil.ResourceName(stack, "frontend", bwcdkutil.CasingKebab)),
			DefaultBehavior: &awscloudfront.BehaviorOptions{
				Origin:               origin,
				ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
			},
			DefaultRootObject: jsii.String("index.html"),
			ErrorResponses: &[]*awscloudfront.ErrorResponse{
				spaErrorResponse(400),
				spaErrorResponse(403),
				spaErrorResponse(404),
			},
			DomainNames: domainNames,
			Certificate: certificate,
			WebAclId: bwcdkparams.LookupLocal(stack,
				bwcdkparams.ParameterName(stack, webACLArnParam)),
		})

	cdnURL := jsii.String("https://" + *c.Distribution.DistributionDomainName())
	if cfg.DNSDelegated {
		zone := bwcdkdns.Lookup(stack)
		awsroute53.NewARecord(stack, jsii.String("AppRecord"), &awsroute53.ARecordProps{
			Zone:       zone.HostedZone(),
			RecordName: jsii.String(cfg.AppDomainName()),
			Target: awsroute53.RecordTarget_FromAlias(
				awsroute53targets.NewCloudFrontTarget(c.Distribution)),
		})
		cdnURL = jsii.String("https://" + cfg.AppDomainName())
	}

	bwcdkparams.Store(stack, "DistributionIDParam", distributionIDParam, c.Distribution.DistributionId())
	bwcdkparams.Store(stack, "CdnURLParam", "app-cdn-url", cdnURL)

	return c
}

// spaErrorResponse serves the app root for the status so that client side routes
// resolve.
func spaErrorResponse(status float64) *awscloudfront.ErrorResponse {
	return &awscloudfront.ErrorResponse{
		HttpStatus:         jsii.Number(status),
		ResponseHttpStatus: jsii.Number(200),
		ResponsePagePath:   jsii.String("/"),
	}
}
