package bwlwa

import (
	"github.com/aws/aws-sdk-go-v2/aws"
)

// Region selects the region an AWS client targets. It is resolved against the
// environment when the app starts.
type Region interface {
	resolve(env Environment) string
	key() string
}

type localRegion struct{}

func (localRegion) resolve(env Environment) string { return env.awsRegion() }
func (localRegion) key() string                    { return "local" }

type primaryRegion struct{}

func (primaryRegion) resolve(env Environment) string { return env.primaryRegion() }
func (primaryRegion) key() string                    { return "primary" }

type fixedRegion string

func (r fixedRegion) resolve(Environment) string { return string(r) }
func (r fixedRegion) key() string                { return "fixed:" + string(r) }

// LocalRegion is the region the function runs in (AWS_REGION).
func LocalRegion() Region { return localRegion{} }

// PrimaryRegion is the primary deployment region (BW_PRIMARY_REGION).
func PrimaryRegion() Region { return primaryRegion{} }

// FixedRegion always resolves to the given region.
func FixedRegion(region string) Region { return fixedRegion(region) }

// ClientFactory is a registered AWS client constructor together with the region it targets.
type ClientFactory struct {
	Region Region

	typeKey string
	build   func(aws.Config) any
}

// RegisterAWSClient describes an AWS client without adding it to an app. Most code
// should use WithAWSClient instead.
func RegisterAWSClient[T any](factory func(aws.Config) *T, opts ...ClientOption) ClientFactory {
	options := &clientOptions{region: LocalRegion()}
	for _, opt := range opts {
		opt(options)
	}

	return ClientFactory{
		Region:  options.region,
		typeKey: typeKey[T](),
		build:   func(cfg aws.Config) any { return factory(cfg) },
	}
}

func (f ClientFactory) clientKey() string {
	return clientKey(f.typeKey, f.Region)
}

func clientKey(typ string, region Region) string {
	return typ + "@" + region.key()
}

// awsClients holds every registered client, keyed by type and region.
type awsClients map[string]any

func newAWSClients(cfg aws.Config, env Environment, factories []ClientFactory) awsClients {
	clients := make(awsClients, len(factories))
	for _, f := range factories {
		regionCfg := cfg.Copy()
		if r := f.Region.resolve(env); r != "" {
			regionCfg.Region = r
		}
		clients[f.clientKey()] = f.build(regionCfg)
	}
	return clients
}
