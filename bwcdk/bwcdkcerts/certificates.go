// Package bwcdkcerts provides a reusable ACM certificate construct for the base
// domain and all of its subdomains.
//
// The certificate uses DNS validation via the provided Route53 hosted zone.
// This construct should only be created after DNS delegation is complete.
package bwcdkcerts

import (
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkparams"
)

// CertificateArnParam is the name of the shared parameter holding the certificate ARN.
const CertificateArnParam = "certificate-arn"

// Certificates provides access to the certificate.
type Certificates interface {
	// WildcardCertificate returns the ACM certificate for domain.com and *.domain.com.
	// Use this for CloudFront (edge region) and API Gateway (primary region).
	WildcardCertificate() awscertificatemanager.ICertificate
}

// Props configures the Certificates construct.
type Props struct {
	// HostedZone is the Route53 hosted zone used for DNS validation.
	// Required.
	HostedZone awsroute53.IHostedZone
}

type certificates struct {
	certificate awscertificatemanager.ICertificate
}

// New creates a Certificates construct with a wildcard ACM certificate.
//
// The certificate is created for {zoneName} and *.{zoneName}. ACM certificates are
// regional, so every region that needs one creates its own and stores the ARN in
// that region's parameter store.
func New(scope constructs.Construct, props Props) Certificates {
	scope = constructs.NewConstruct(scope, jsii.String("Certificates"))
	con := &certificates{}

	zoneName := *props.HostedZone.ZoneName()
	con.certificate = awscertificatemanager.NewCertificate(scope, jsii.String("WildcardCertificate"),
		&awscertificatemanager.CertificateProps{
			DomainName:              jsii.String(zoneName),
			SubjectAlternativeNames: jsii.Strings("*." + zoneName),
			Validation:              awscertificatemanager.CertificateValidation_FromDns(props.HostedZone),
		})

	bwcdkparams.Store(scope, "CertificateArnParam", CertificateArnParam,
		con.certificate.CertificateArn())

	return con
}

// LookupCertificate retrieves the certificate of the stack's region from SSM Parameter
// Store without creating cross-stack dependencies.
func LookupCertificate(scope constructs.Construct) awscertificatemanager.ICertificate {
	certArn := bwcdkparams.LookupLocal(scope, bwcdkparams.SharedParameterName(scope, CertificateArnParam))
	return awscertificatemanager.Certificate_FromCertificateArn(scope,
		jsii.String("LookupWildcardCertificate"), certArn)
}

func (c *certificates) WildcardCertificate() awscertificatemanager.ICertificate {
	return c.certificate
}
