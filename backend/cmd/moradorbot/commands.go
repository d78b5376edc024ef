package main

import (
	"context"
	"fmt"
	"time"

	"github.com/basewarphq/morador/morador"
	"github.com/basewarphq/morador/telegram"
	"go.uber.org/zap"
)

type PollCmd struct {
	Timeout time.Duration `help:"Long-poll timeout." default:"30s"`
}

func (c *PollCmd) Run(ctx context.Context, rt *Runtime) error {
	client, err := rt.Client(ctx)
	if err != nil {
		return err
	}

	me, err := client.GetMe(ctx)
	if err != nil {
		return err
	}

	// getUpdates is refused while a webhook is set.
	if err := client.DeleteWebhook(ctx, false); err != nil {
		return err
	}

	router := morador.NewRouter(me.Username)
	poller := telegram.NewPoller(client, func(ctx context.Context, u telegram.Update) error {
		return router.Dispatch(ctx, client, u)
	},
		telegram.WithPollTimeout(c.Timeout),
		telegram.WithAllowedUpdates("message"),
		telegram.WithPollerLogger(rt.logger),
	)

	rt.logger.Info("polling for updates", zap.String("bot", me.Username))
	if err := poller.Run(ctx); err != nil {
		return err
	}
	rt.logger.Info("stopped polling")
	return nil
}

type SetWebhookCmd struct {
	URL                string `help:"Webhook URL, defaults to the bot-webhook-url parameter of --env."`
	DropPendingUpdates bool   `name:"drop-pending-updates" help:"Discard updates that were not delivered yet."`
}

func (c *SetWebhookCmd) Run(ctx context.Context, rt *Runtime) error {
	url := c.URL
	if url == "" {
		var err error
		if url, err = rt.Param(ctx, "bot-webhook-url"); err != nil {
			return err
		}
	}

	secretARN, err := rt.Param(ctx, "bot-webhook-secret-arn")
	if err != nil {
		return err
	}
	secret, err := rt.Secret(ctx, secretARN)
	if err != nil {
		return err
	}

	client, err := rt.Client(ctx)
	if err != nil {
		return err
	}

	if err := client.SetWebhook(ctx, telegram.SetWebhookParams{
		URL:                url,
		SecretToken:        secret,
		AllowedUpdates:     []string{"message"},
		DropPendingUpdates: c.DropPendingUpdates,
	}); err != nil {
		return err
	}

	rt.logger.Info("webhook set", zap.String("url", url))
	return nil
}

type DeleteWebhookCmd struct {
	DropPendingUpdates bool `name:"drop-pending-updates" help:"Discard updates that were not delivered yet."`
}

func (c *DeleteWebhookCmd) Run(ctx context.Context, rt *Runtime) error {
	client, err := rt.Client(ctx)
	if err != nil {
		return err
	}
	if err := client.DeleteWebhook(ctx, c.DropPendingUpdates); err != nil {
		return err
	}

	rt.logger.Info("webhook deleted")
	return nil
}

type SetCommandsCmd struct{}

func (c *SetCommandsCmd) Run(ctx context.Context, rt *Runtime) error {
	client, err := rt.Client(ctx)
	if err != nil {
		return err
	}

	cmds := morador.Commands()
	if err := client.SetMyCommands(ctx, cmds); err != nil {
		return err
	}

	rt.logger.Info("command menu published", zap.Int("commands", len(cmds)))
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx context.Context, rt *Runtime) error {
	client, err := rt.Client(ctx)
	if err != nil {
		return err
	}

	me, err := client.GetMe(ctx)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(rt.out, "@%s (%s, id %d)\n", me.Username, me.FirstName, me.ID)
	return err
}
