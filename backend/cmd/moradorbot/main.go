// Command moradorbot runs MoradorBot locally by long polling and manages the bot's
// webhook and command menu.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Globals are the flags shared by all commands.
type Globals struct {
	Token         string `help:"Bot token." env:"TELEGRAM_BOT_TOKEN"`
	TokenSecretID string `name:"token-secret-id" help:"Secrets Manager secret holding the bot token." env:"TELEGRAM_TOKEN_SECRET_ID"`
	Env           string `short:"e" help:"Deployment (e.g., Dev, Prod) whose SSM parameters are used." env:"MORADOR_ENV"`
	Region        string `help:"AWS region of the primary deployment." env:"AWS_REGION"`
	APIURL        string `name:"api-url" help:"Bot API base URL." default:"https://api.telegram.org" env:"TELEGRAM_API_URL"`
	LogLevel      string `name:"log-level" help:"Log level." default:"info" enum:"debug,info,warn,error" env:"LOG_LEVEL"`
}

type App struct {
	Globals

	Poll          PollCmd          `cmd:"" help:"Answer updates by long polling until interrupted."`
	SetWebhook    SetWebhookCmd    `cmd:"" name:"set-webhook" help:"Point Telegram at the webhook of a deployment."`
	DeleteWebhook DeleteWebhookCmd `cmd:"" name:"delete-webhook" help:"Remove the webhook."`
	SetCommands   SetCommandsCmd   `cmd:"" name:"set-commands" help:"Publish the command menu."`
	Whoami        WhoamiCmd        `cmd:"" help:"Show the bot the token belongs to."`
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "error: load .env: %v\n", err)
		os.Exit(1)
	}

	var app App
	kctx := kong.Parse(&app,
		kong.Name("moradorbot"),
		kong.Description("MoradorBot, the bot of the Rio Wonder residents group."),
		kong.UsageOnError(),
	)

	if err := run(kctx, &app); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(kctx *kong.Context, app *App) error {
	logger, err := newLogger(app.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	return kctx.Run(newRuntime(&app.Globals, logger, os.Stdout))
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger, nil
}
