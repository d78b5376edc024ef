package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"go.uber.org/zap"
)

const botToken = "123:tok"

// fakeBot is a Bot API server for a single bot.
type fakeBot struct {
	mu     sync.Mutex
	bodies map[string][]map[string]any
	served bool
	sent   chan map[string]any
	polled chan map[string]any
}

func newFakeBot(t *testing.T) (*fakeBot, *httptest.Server) {
	t.Helper()
	bot := &fakeBot{
		bodies: map[string][]map[string]any{},
		sent:   make(chan map[string]any, 10),
		polled: make(chan map[string]any, 10),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, ok := strings.CutPrefix(r.URL.Path, "/bot"+botToken+"/")
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
			return
		}

		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)

		bot.mu.Lock()
		bot.bodies[method] = append(bot.bodies[method], body)
		firstPoll := method == "getUpdates" && !bot.served
		if firstPoll {
			bot.served = true
		}
		bot.mu.Unlock()

		var resp string
		switch method {
		case "getMe":
			resp = `{"ok":true,"result":{"id":42,"is_bot":true,"first_name":"MoradorBot","username":"morador_bot"}}`
		case "getUpdates":
			bot.polled <- body
			if !firstPoll {
				<-r.Context().Done()
				return
			}
			resp = `{"ok":true,"result":[{"update_id":900,"message":{"message_id":3,
				"chat":{"id":-7,"type":"supergroup"},"text":"/ajuda@morador_bot"}}]}`
		case "sendMessage":
			bot.sent <- body
			resp = `{"ok":true,"result":{"message_id":4,"chat":{"id":-7,"type":"supergroup"}}}`
		default:
			resp = `{"ok":true,"result":true}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)

	return bot, srv
}

func (b *fakeBot) calls(method string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[method]
}

type fakeParams map[string]string

func (f fakeParams) GetParameter(
	_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options),
) (*ssm.GetParameterOutput, error) {
	v, ok := f[*in.Name]
	if !ok {
		return nil, &ssmtypes.ParameterNotFound{Message: aws.String("not found")}
	}
	return &ssm.GetParameterOutput{Parameter: &ssmtypes.Parameter{Value: aws.String(v)}}, nil
}

type fakeSecrets map[string]string

func (f fakeSecrets) GetSecretValue(
	_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options),
) (*secretsmanager.GetSecretValueOutput, error) {
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(f[*in.SecretId])}, nil
}

var devAWS = awsAPIs{
	params: fakeParams{
		"/dev/bot-webhook-url":        "https://dev-bot.example.com/telegram/webhook",
		"/dev/bot-webhook-secret-arn": "arn:webhook-secret",
		"/dev/bot-token-secret-arn":   "arn:bot-token",
	},
	secrets: fakeSecrets{
		"arn:webhook-secret": "hook-secret",
		"arn:bot-token":      botToken,
	},
}

func runCLI(ctx context.Context, t *testing.T, args ...string) (string, error) {
	t.Helper()

	var app App
	parser, err := kong.New(&app, kong.Name("moradorbot"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%v) error = %v", args, err)
	}

	var out bytes.Buffer
	rt := newRuntime(&app.Globals, zap.NewNop(), &out)
	rt.loadAWS = func(context.Context) (awsAPIs, error) { return devAWS, nil }

	kctx.BindTo(ctx, (*context.Context)(nil))
	err = kctx.Run(rt)
	return out.String(), err
}

func TestWhoami(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	_, srv := newFakeBot(t)

	out, err := runCLI(t.Context(), t, "whoami", "--token", botToken, "--api-url", srv.URL)
	if err != nil {
		t.Fatalf("whoami error = %v", err)
	}
	if out != "@morador_bot (MoradorBot, id 42)\n" {
		t.Errorf("whoami output = %q", out)
	}
}

func TestSetWebhook_FromDeployment(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	bot, srv := newFakeBot(t)

	if _, err := runCLI(t.Context(), t, "set-webhook", "--env", "Dev", "--api-url", srv.URL); err != nil {
		t.Fatalf("set-webhook error = %v", err)
	}

	calls := bot.calls("setWebhook")
	if len(calls) != 1 {
		t.Fatalf("setWebhook called %d times, want 1", len(calls))
	}
	body := calls[0]
	if body["url"] != "https://dev-bot.example.com/telegram/webhook" || body["secret_token"] != "hook-secret" {
		t.Errorf("setWebhook body = %v", body)
	}
	if updates, _ := body["allowed_updates"].([]any); len(updates) != 1 || updates[0] != "message" {
		t.Errorf("allowed_updates = %v, want [message]", body["allowed_updates"])
	}
}

func TestSetCommandsAndDeleteWebhook(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	bot, srv := newFakeBot(t)

	if _, err := runCLI(t.Context(), t, "set-commands", "--token", botToken, "--api-url", srv.URL); err != nil {
		t.Fatalf("set-commands error = %v", err)
	}
	cmds, _ := bot.calls("setMyCommands")[0]["commands"].([]any)
	if len(cmds) != 8 {
		t.Errorf("published %d commands, want 8", len(cmds))
	}

	_, err := runCLI(t.Context(), t, "delete-webhook", "--drop-pending-updates", "--token", botToken, "--api-url", srv.URL)
	if err != nil {
		t.Fatalf("delete-webhook error = %v", err)
	}
	if got := bot.calls("deleteWebhook"); len(got) != 1 || got[0]["drop_pending_updates"] != true {
		t.Errorf("deleteWebhook calls = %v", got)
	}
}

func TestMissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_TOKEN_SECRET_ID", "")
	t.Setenv("MORADOR_ENV", "")

	_, err := runCLI(t.Context(), t, "whoami")
	if err == nil || !strings.Contains(err.Error(), "no bot token") {
		t.Errorf("whoami error = %v, want missing token", err)
	}
}

func TestPoll(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	bot, srv := newFakeBot(t)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		_, err := runCLI(ctx, t, "poll", "--env", "Dev", "--timeout", "1s", "--api-url", srv.URL)
		done <- err
	}()

	select {
	case sent := <-bot.sent:
		if !strings.Contains(sent["text"].(string), "Clique na opção desejada") || sent["reply_to_message_id"] != float64(3) {
			t.Errorf("reply = %v, want the help menu", sent)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reply to /ajuda")
	}

	var polls []map[string]any
	for len(polls) < 2 {
		select {
		case body := <-bot.polled:
			polls = append(polls, body)
		case <-time.After(5 * time.Second):
			t.Fatalf("got %d polls, want the poll after the first batch", len(polls))
		}
	}
	if _, ok := polls[0]["offset"]; ok {
		t.Errorf("first poll offset = %v, want none", polls[0]["offset"])
	}
	if polls[1]["offset"] != float64(901) {
		t.Errorf("second poll offset = %v, want 901", polls[1]["offset"])
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("poll error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("poll did not stop after cancel")
	}

	if len(bot.calls("deleteWebhook")) != 1 {
		t.Error("poll should delete the webhook before polling")
	}
}
