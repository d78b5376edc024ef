package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscognito"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkparams"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
)

// Cognito holds the user directory of the frontend app.
type Cognito struct {
	Stack        awscdk.Stack
	UserPool     awscognito.UserPool
	Client       awscognito.UserPoolClient
	IdentityPool awscognito.CfnIdentityPool
}

// NewCognito creates a user pool with email or phone sign-in, an app client and an
// identity pool that only admits authenticated users.
func NewCognito(stack awscdk.Stack) *Cognito {
	c := &Cognito{Stack: stack}
	envName := bwcdkutil.EnvName(stack)

	c.UserPool = awscognito.NewUserPool(stack, jsii.String("UserPool"), &awscognito.UserPoolProps{
		UserPoolName:      jsii.String(bwcdkutil.ResourceName(stack, "user-pool", bwcdkutil.CasingKebab)),
		SelfSignUpEnabled: jsii.Bool(true),
		SignInAliases: &awscognito.SignInAliases{
			Email: jsii.Bool(true),
			Phone: jsii.Bool(true),
		},
		AutoVerify: &awscognito.AutoVerifiedAttrs{Email: jsii.Bool(true)},
		CustomAttributes: &map[string]awscognito.ICustomAttribute{
			"param1": awscognito.NewStringAttribute(&awscognito.StringAttributeProps{Mutable: jsii.Bool(true)}),
		},
		PasswordPolicy: &awscognito.PasswordPolicy{
			MinLength:        jsii.Number(10),
			RequireLowercase: jsii.Bool(true),
			RequireUppercase: jsii.Bool(true),
			RequireDigits:    jsii.Bool(true),
			RequireSymbols:   jsii.Bool(false),
		},
		RemovalPolicy: awscdk.RemovalPolicy_RETAIN,
	})

	c.Client = c.UserPool.AddClient(jsii.String("AppClient"), &awscognito.UserPoolClientOptions{
		UserPoolClientName: jsii.String(envName + "-app-client"),
	})

	c.IdentityPool = awscognito.NewCfnIdentityPool(stack, jsii.String("IdentityPool"),
		&awscognito.CfnIdentityPoolProps{
			IdentityPoolName:               jsii.String(bwcdkutil.ResourceName(stack, "identity-pool", bwcdkutil.CasingSnake)),
			AllowUnauthenticatedIdentities: jsii.Bool(false),
			CognitoIdentityProviders: &[]*awscognito.CfnIdentityPool_CognitoIdentityProviderProperty{
				{
					ClientId:     c.Client.UserPoolClientId(),
					ProviderName: c.UserPool.UserPoolProviderName(),
				},
			},
		})

	bwcdkparams.Store(stack, "UserPoolIDParam", "cognito-user-pool-id", c.UserPool.UserPoolId())
	bwcdkparams.Store(stack, "AppClientIDParam", "cognito-app-client-id", c.Client.UserPoolClientId())
	bwcdkparams.Store(stack, "IdentityPoolIDParam", "cognito-identity-pool-id", c.IdentityPool.Ref())

	return c
}
