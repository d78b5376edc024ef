// Command webhook is the Lambda function Telegram posts the bot's updates to.
package main

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/basewarphq/morador/bwlwa"
	"github.com/basewarphq/morador/morador"
	"go.uber.org/fx"
)

// Env is the configuration injected by the Bot stack.
type Env struct {
	bwlwa.BaseEnvironment
	UpdatesTable      string `env:"BW_UPDATES_TABLE,required"`
	BotTokenSecretARN string `env:"BW_BOT_TOKEN_SECRET_ARN,required"`
	WebhookSecretARN  string `env:"BW_WEBHOOK_SECRET_ARN,required"`
	BotUsername       string `env:"BW_BOT_USERNAME"`
	TelegramAPIURL    string `env:"BW_TELEGRAM_API_URL" envDefault:"https://api.telegram.org"`
}

func main() {
	bwlwa.NewApp[Env](routing,
		bwlwa.WithAWSClient(func(cfg aws.Config) *dynamodb.Client {
			return dynamodb.NewFromConfig(cfg)
		}),
		bwlwa.WithAWSClient(func(cfg aws.Config) *secretsmanager.Client {
			return secretsmanager.NewFromConfig(cfg)
		}),
		bwlwa.WithFx(fx.Provide(NewHandler)),
	).Run()
}

func routing(m *bwlwa.Mux, h *Handler) {
	m.HandleFunc("POST "+morador.WebhookPath, h.Webhook, "telegram-webhook")
}
