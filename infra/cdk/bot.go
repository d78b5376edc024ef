package cdk

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssecretsmanager"
	"github.com/aws/jsii-runtime-go"
	"github.com/basewarphq/morador/bwcdk/bwcdkcerts"
	"github.com/basewarphq/morador/bwcdk/bwcdkdns"
	"github.com/basewarphq/morador/bwcdk/bwcdkdynamo"
	"github.com/basewarphq/morador/bwcdk/bwcdkparams"
	"github.com/basewarphq/morador/bwcdk/bwcdkrestgateway"
	"github.com/basewarphq/morador/bwcdk/bwcdkutil"
	"github.com/basewarphq/morador/morador"
)

// WebhookPath is the path Telegram posts updates to.
const WebhookPath = morador.WebhookPath

// Bot holds the Telegram webhook of a deployment.
type Bot struct {
	Stack         awscdk.Stack
	Gateway       bwcdkrestgateway.RestGateway
	Updates       bwcdkdynamo.Dynamo
	TokenSecret   awssecretsmanager.Secret
	WebhookSecret awssecretsmanager.Secret
}

// NewBot creates the webhook Lambda behind a REST gateway, the update log table and the
// bot secrets. The token secret is created with a placeholder value; the real token
// from BotFather is put into it out of band.
func NewBot(stack awscdk.Stack) *Bot {
	b := &Bot{Stack: stack}
	envName := bwcdkutil.EnvName(stack)

	b.Updates = bwcdkdynamo.New(stack, bwcdkdynamo.Props{Identifier: jsii.String("bot-updates")})

	b.TokenSecret = awssecretsmanager.NewSecret(stack, jsii.String("BotTokenSecret"),
		&awssecretsmanager.SecretProps{
			SecretName:  jsii.String(envName + "/telegram-bot-token"),
			Description: jsii.String("Telegram bot token issued by BotFather"),
		})
	b.WebhookSecret = awssecretsmanager.NewSecret(stack, jsii.String("WebhookSecret"),
		&awssecretsmanager.SecretProps{
			SecretName:  jsii.String(envName + "/telegram-webhook-secret"),
			Description: jsii.String("Secret token Telegram sends with every webhook request"),
			GenerateSecretString: &awssecretsmanager.SecretStringGenerator{
				ExcludePunctuation: jsii.Bool(true),
				PasswordLength:     jsii.Number(64),
			},
		})

	var (
		zone        awsroute53.IHostedZone
		certificate awscertificatemanager.ICertificate
	)
	if bwcdkutil.DNSDelegated(stack) {
		zone = bwcdkdns.Lookup(stack).HostedZone()
		certificate = bwcdkcerts.LookupCertificate(stack)
	}

	b.Gateway = bwcdkrestgateway.New(stack, bwcdkrestgateway.Props{
		Entry:     jsii.String("backend/cmd/webhook"),
		Routes:    []bwcdkrestgateway.Route{{Method: "POST", Path: WebhookPath}},
		Subdomain: jsii.String("bot"),
		Environment: &map[string]*string{
			"BW_UPDATES_TABLE":        b.Updates.Table().TableName(),
			"BW_BOT_TOKEN_SECRET_ARN": b.TokenSecret.SecretArn(),
			"BW_WEBHOOK_SECRET_ARN":   b.WebhookSecret.SecretArn(),
		},
		HostedZone:  zone,
		Certificate: certificate,
	})

	fn := b.Gateway.Lambda().Function()
	b.Updates.GrantReadWriteData(fn)
	b.TokenSecret.GrantRead(fn, nil)
	b.WebhookSecret.GrantRead(fn, nil)

	webhookURL := jsii.String(*b.Gateway.URL() + WebhookPath[1:])
	bwcdkparams.Store(stack, "WebhookURLParam", "bot-webhook-url", webhookURL)
	bwcdkparams.Store(stack, "WebhookSecretParam", "bot-webhook-secret-arn", b.WebhookSecret.SecretArn())
	bwcdkparams.Store(stack, "TokenSecretParam", "bot-token-secret-arn", b.TokenSecret.SecretArn())

	alarmOnFailure(stack, "WebhookErrors", "Telegram webhook Lambda reported errors",
		fn.MetricErrors(nil), lookupAlarmTopic(stack))

	return b
}
