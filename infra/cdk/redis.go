package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awselasticache"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkparams"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
)

// RedisNodeType is the cache node type of the Redis cluster.
const RedisNodeType = "cache.t3.small"

// Redis holds the cache cluster of a deployment.
type Redis struct {
	Stack   awscdk.Stack
	Cluster awselasticache.CfnCacheCluster
}

// NewRedis creates a single node Redis cluster in the private subnets.
func NewRedis(stack awscdk.Stack, network *Network, security *Security) *Redis {
	r := &Redis{Stack: stack}

	var subnetIDs []any
	for _, subnet := range *network.Vpc.IsolatedSubnets() {
		subnetIDs = append(subnetIDs, subnet.SubnetId())
	}

	subnetGroup := awselasticache.NewCfnSubnetGroup(stack, jsii.String("SubnetGroup"),
		&awselasticache.CfnSubnetGroupProps{
			Description: jsii.String("subnet group for redis"),
			SubnetIds:   &subnetIDs,
		})

	r.Cluster = awselasticache.NewCfnCacheCluster(stack, jsii.String("Cluster"),
		&awselasticache.CfnCacheClusterProps{
			ClusterName:             jsii.String(bwcdkutil.ResourceName(stack, "redis", bwcdkutil.CasingKebab)),
			CacheNodeType:           jsii.String(RedisNodeType),
			Engine:                  jsii.String("redis"),
			NumCacheNodes:           jsii.Number(1),
			CacheSubnetGroupName:    subnetGroup.Ref(),
			VpcSecurityGroupIds:     &[]*string{security.RedisSG.SecurityGroupId()},
			AutoMinorVersionUpgrade: jsii.Bool(true),
		})
	r.Cluster.AddDependency(subnetGroup)

	bwcdkparams.Store(stack, "EndpointParam", "redis-endpoint", r.Cluster.AttrRedisEndpointAddress())
	bwcdkparams.Store(stack, "PortParam", "redis-port", r.Cluster.AttrRedisEndpointPort())

	return r
}
