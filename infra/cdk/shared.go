// Package cdk defines the component stacks of the morador infrastructure.
package cdk

import (
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkcerts"
	"github.com/basewarphq/morador/bwcdk/bwcdkdns"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
)

// Shared holds the resources shared by all deployments.
type Shared struct {
	DNS bwcdkdns.DNS
	// Certificates per region. Empty until DNS delegation is complete.
	Certificates map[string]bwcdkcerts.Certificates
}

// NewShared creates the shared stacks: the hosted zone in the primary region and,
// once the zone is delegated, a certificate in every region that needs one.
func NewShared(stacks *bwcdkutil.Stacks) *Shared {
	cfg := stacks.Config()
	shared := &Shared{Certificates: map[string]bwcdkcerts.Certificates{}}

	dnsStack := stacks.Primary("Dns")
	shared.DNS = bwcdkdns.New(dnsStack, bwcdkdns.Props{})

	if !cfg.DNSDelegated {
		// Deploy the Dns stack first, delegate the name servers from its output,
		// then set dns-delegated=true.
		return shared
	}

	for _, region := range cfg.AllRegions() {
		stack := stacks.In(region, "Certificates")
		stack.AddDependency(dnsStack, jsii.String("Certificates validate against the hosted zone"))

		zone := bwcdkdns.Lookup(stack)
		shared.Certificates[region] = bwcdkcerts.New(stack, bwcdkcerts.Props{
			HostedZone: zone.HostedZone(),
		})
	}

	return shared
}
