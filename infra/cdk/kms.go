package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awskms"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkparams"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
)

// Kms holds the encryption keys of a deployment.
type Kms struct {
	Stack  awscdk.Stack
	RdsKey awskms.Key
}

// NewKms creates the RDS encryption key with yearly rotation.
func NewKms(stack awscdk.Stack) *Kms {
	k := &Kms{Stack: stack}

	k.RdsKey = awskms.NewKey(stack, jsii.String("RdsKey"), &awskms.KeyProps{
		Description:       jsii.String(bwcdkutil.ProjectName(stack) + "-key-rds"),
		EnableKeyRotation: jsii.Bool(true),
	})
	k.RdsKey.AddAlias(jsii.String("alias/" + bwcdkutil.ResourceName(stack, "key-rds", bwcdkutil.CasingKebab)))

	bwcdkparams.Store(stack, "RdsKeyParam", "rds-kms-key", k.RdsKey.KeyId())

	return k
}
