// Package bwcdkdns provides a reusable Route53 hosted zone construct.
//
// The DNS construct creates the hosted zone of the base domain in a shared stack of
// the primary region and stores its ID in SSM Parameter Store. Every other stack,
// in any region, uses Lookup to reference the same zone without recreating it.
package bwcdkdns

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkparams"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
)

// NameServersOutputKey is the CloudFormation output key for the hosted zone's NS records.
// Use this with `aws cloudformation describe-stacks` to retrieve the name servers.
const NameServersOutputKey = "HostedZoneNameServers"

// ZoneIDParam is the name of the shared parameter holding the hosted zone ID.
const ZoneIDParam = "zone-id"

// DNS provides access to a Route53 hosted zone.
type DNS interface {
	// HostedZone returns the Route53 hosted zone.
	HostedZone() awsroute53.IHostedZone
}

// Props configures the DNS construct.
type Props struct {
	// ZoneDomainName is the domain name for the hosted zone (e.g., "example.com").
	// If nil, uses the base domain name from config.
	ZoneDomainName *string
}

type dns struct {
	hostedZone awsroute53.IHostedZone
}

// New creates the hosted zone and stores the zone ID in SSM Parameter Store.
// It must be created in a shared stack of the primary region.
func New(scope constructs.Construct, props Props) DNS {
	if !bwcdkutil.IsPrimaryRegion(scope, *awscdk.Stack_Of(scope).Region()) {
		panic("bwcdkdns.New must be called in the primary region, use Lookup elsewhere")
	}

	scope = constructs.NewConstruct(scope, jsii.String("DNS"))
	con := &dns{}

	zoneName := props.ZoneDomainName
	if zoneName == nil {
		zoneName = bwcdkutil.BaseDomainNamePtr(scope)
	}

	hostedZone := awsroute53.NewHostedZone(scope, jsii.String("HostedZone"),
		&awsroute53.HostedZoneProps{
			ZoneName: zoneName,
		})
	con.hostedZone = hostedZone

	bwcdkparams.Store(scope, "HostedZoneIDParam", ZoneIDParam, hostedZone.HostedZoneId())

	awscdk.NewCfnOutput(awscdk.Stack_Of(scope), jsii.String(NameServersOutputKey), &awscdk.CfnOutputProps{
		Value:       awscdk.Fn_Join(jsii.String(","), hostedZone.HostedZoneNameServers()),
		Description: jsii.String("Comma-separated list of NS records for DNS delegation"),
	})

	return con
}

// Lookup references the hosted zone created by New. Outside of the primary region
// the zone ID is read through a cross-region parameter lookup.
func Lookup(scope constructs.Construct) DNS {
	scope = constructs.NewConstruct(scope, jsii.String("DNSLookup"))

	hostedZoneID := bwcdkparams.LookupIn(scope, "LookupHostedZoneID",
		bwcdkparams.SharedParameterName(scope, ZoneIDParam), bwcdkutil.PrimaryRegion(scope))

	return &dns{
		hostedZone: awsroute53.HostedZone_FromHostedZoneAttributes(scope, jsii.String("HostedZone"),
			&awsroute53.HostedZoneAttributes{
				HostedZoneId: hostedZoneID,
				ZoneName:     bwcdkutil.BaseDomainNamePtr(scope),
			}),
	}
}

func (d *dns) HostedZone() awsroute53.IHostedZone {
	return d.hostedZone
}
