package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awswafv2"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkparams"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
)

const webACLArnParam = "webacl-arn"

// Waf holds the web ACL protecting the frontend distribution.
type Waf struct {
	Stack  awscdk.Stack
	WebACL awswafv2.CfnWebACL
}

// NewWaf creates a CLOUDFRONT scoped web ACL. It must be created in the edge region.
// The AWS managed common rule set runs in count mode so that matches are only
// reported.
func NewWaf(stack awscdk.Stack) *Waf {
	w := &Waf{Stack: stack}
	name := bwcdkutil.ResourceName(stack, "webacl", bwcdkutil.CasingKebab)

	w.WebACL = awswafv2.NewCfnWebACL(stack, jsii.String("WebACL"), &awswafv2.CfnWebACLProps{
		Name:          jsii.String(name),
		Scope:         jsii.String("CLOUDFRONT"),
		DefaultAction: &awswafv2.CfnWebACL_DefaultActionProperty{Allow: map[string]any{}},
		VisibilityConfig: &awswafv2.CfnWebACL_VisibilityConfigProperty{
			CloudWatchMetricsEnabled: jsii.Bool(true),
			MetricName:               jsii.String(name),
			SampledRequestsEnabled:   jsii.Bool(true),
		},
		Rules: &[]any{
			&awswafv2.CfnWebACL_RuleProperty{
				Name:     jsii.String("AWSManagedCommonRule"),
				Priority: jsii.Number(0),
				Statement: &awswafv2.CfnWebACL_StatementProperty{
					ManagedRuleGroupStatement: &awswafv2.CfnWebACL_ManagedRuleGroupStatementProperty{
						Name:       jsii.String("AWSManagedRulesCommonRuleSet"),
						VendorName: jsii.String("AWS"),
					},
				},
				OverrideAction: &awswafv2.CfnWebACL_OverrideActionProperty{Count: map[string]any{}},
				VisibilityConfig: &awswafv2.CfnWebACL_VisibilityConfigProperty{
					CloudWatchMetricsEnabled: jsii.Bool(true),
					MetricName:               jsii.String("AWSManagedCommonRule"),
					SampledRequestsEnabled:   jsii.Bool(true),
				},
			},
		},
	})

	bwcdkparams.Store(stack, "WebACLIDParam", "webacl-id", w.WebACL.AttrId())
	bwcdkparams.Store(stack, "WebACLArnParam", webACLArnParam, w.WebACL.AttrArn())

	return w
}
