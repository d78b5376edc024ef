package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/advdv/bhttp"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/basewarphq/morador/backend/internal/botsecrets"
	"github.com/basewarphq/morador/backend/internal/updatelog"
	"github.com/basewarphq/morador/bwlwa"
	"github.com/basewarphq/morador/morador"
	"github.com/basewarphq/morador/telegram"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// maxUpdateSize bounds the request body. Message updates are a few KiB.
const maxUpdateSize = 1 << 20

const secretsTimeout = 10 * time.Second

// Claimer claims an update for processing.
type Claimer interface {
	Claim(ctx context.Context, updateID int64) (bool, error)
}

// Handler receives the updates Telegram posts to the webhook.
type Handler struct {
	secret []byte
	claims Claimer
	router *telegram.Router
	sender telegram.Sender
	logger *zap.Logger
}

// NewHandler resolves the bot secrets and builds the handler. Without BW_BOT_USERNAME
// the username is looked up with getMe.
func NewHandler(
	rt *bwlwa.Runtime[Env], dynamo *dynamodb.Client, secrets *secretsmanager.Client,
) (*Handler, error) {
	env := rt.Env()

	ctx, cancel := context.WithTimeout(context.Background(), secretsTimeout)
	defer cancel()

	token, err := botsecrets.Get(ctx, secrets, env.BotTokenSecretARN)
	if err != nil {
		return nil, err
	}
	webhookSecret, err := botsecrets.Get(ctx, secrets, env.WebhookSecretARN)
	if err != nil {
		return nil, err
	}

	client := telegram.NewClient(token, telegram.WithBaseURL(env.TelegramAPIURL))

	username := env.BotUsername
	if username == "" {
		me, err := client.GetMe(ctx)
		if err != nil {
			return nil, err
		}
		username = me.Username
	}

	return newHandler(
		webhookSecret,
		updatelog.New(dynamo, env.UpdatesTable),
		morador.NewRouter(username),
		client,
		rt.Logger(),
	), nil
}

func newHandler(
	secret string, claims Claimer, router *telegram.Router, sender telegram.Sender, logger *zap.Logger,
) *Handler {
	return &Handler{
		secret: []byte(secret),
		claims: claims,
		router: router,
		sender: sender,
		logger: logger,
	}
}

// Webhook handles one update. Once an update is claimed the response is 200, also
// when handling it failed, so Telegram does not deliver it again.
func (h *Handler) Webhook(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error {
	log := h.logger.With(bwlwa.TraceFields(ctx)...)

	got := []byte(r.Header.Get(telegram.WebhookSecretHeader))
	if len(h.secret) == 0 || subtle.ConstantTimeCompare(got, h.secret) != 1 {
		log.Warn("rejected webhook request with invalid secret token")
		w.WriteHeader(http.StatusUnauthorized)
		return nil
	}

	var update telegram.Update
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUpdateSize)).Decode(&update); err != nil {
		log.Warn("rejected malformed update", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return nil
	}

	bwlwa.Span(ctx).SetAttributes(attribute.Int64("telegram.update_id", update.UpdateID))
	log = log.With(zap.Int64("update_id", update.UpdateID))

	first, err := h.claims.Claim(ctx, update.UpdateID)
	if err != nil {
		return err
	}
	if !first {
		log.Info("skipping redelivered update")
		w.WriteHeader(http.StatusOK)
		return nil
	}

	if err := h.router.Dispatch(ctx, h.sender, update); err != nil {
		log.Error("handling update failed", zap.Error(err))
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
