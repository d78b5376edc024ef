package telegram_test

import (
	"context"
	"testing"

	"github.com/basewarphq/morador/telegram"
	"github.com/cockroachdb/errors"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text                    string
		wantCmd, wantUser, args string
		wantOK                  bool
	}{
		{"/ajuda", "ajuda", "", "", true},
		{"/Planilha", "planilha", "", "", true},
		{"/ajuda@morador_bot", "ajuda", "morador_bot", "", true},
		{"/youtube agora por favor", "youtube", "", "agora por favor", true},
		{"/facebook@morador_bot\nlink", "facebook", "morador_bot", "link", true},
		{"ajuda", "", "", "", false},
		{"/", "", "", "", false},
		{"/@morador_bot", "", "", "", false},
		{"", "", "", "", false},
	}

	for _, tt := range tests {
		cmd, user, args, ok := telegram.ParseCommand(tt.text)
		if cmd != tt.wantCmd || user != tt.wantUser || args != tt.args || ok != tt.wantOK {
			t.Errorf("ParseCommand(%q) = (%q, %q, %q, %v), want (%q, %q, %q, %v)",
				tt.text, cmd, user, args, ok, tt.wantCmd, tt.wantUser, tt.args, tt.wantOK)
		}
	}
}

type recordingSender struct {
	sent []telegram.SendMessageParams
}

func (s *recordingSender) SendMessage(_ context.Context, p telegram.SendMessageParams) (*telegram.Message, error) {
	s.sent = append(s.sent, p)
	return &telegram.Message{MessageID: int64(len(s.sent)), Chat: telegram.Chat{ID: p.ChatID}, Text: p.Text}, nil
}

func newTestRouter() *telegram.Router {
	r := telegram.NewRouter("@morador_bot")
	r.Command("/ping", func(ctx context.Context, s telegram.Sender, msg *telegram.Message) error {
		_, err := s.SendMessage(ctx, telegram.SendMessageParams{ChatID: msg.Chat.ID, Text: "pong"})
		return err
	})
	r.Command("fail", func(context.Context, telegram.Sender, *telegram.Message) error {
		return errors.New("boom")
	})
	r.OnNewChatMembers(func(ctx context.Context, s telegram.Sender, msg *telegram.Message) error {
		_, err := s.SendMessage(ctx, telegram.SendMessageParams{ChatID: msg.Chat.ID, Text: "welcome " + msg.From.FirstName})
		return err
	})
	return r
}

func textUpdate(text string) telegram.Update {
	return telegram.Update{UpdateID: 1, Message: &telegram.Message{MessageID: 1, Chat: telegram.Chat{ID: 99}, Text: text}}
}

func TestRouter_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		update   telegram.Update
		wantSent []string
	}{
		{"command", textUpdate("/ping"), []string{"pong"}},
		{"upper-case command", textUpdate("/PING"), []string{"pong"}},
		{"addressed to this bot", textUpdate("/ping@Morador_Bot"), []string{"pong"}},
		{"addressed to another bot", textUpdate("/ping@other_bot"), nil},
		{"unknown command", textUpdate("/nope"), nil},
		{"plain text", textUpdate("ping"), nil},
		{"no message", telegram.Update{UpdateID: 2}, nil},
		{
			name: "new members",
			update: telegram.Update{UpdateID: 3, Message: &telegram.Message{
				Chat:           telegram.Chat{ID: 99},
				From:           &telegram.User{FirstName: "Ana"},
				NewChatMembers: []telegram.User{{FirstName: "Ana"}},
			}},
			wantSent: []string{"welcome Ana"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sender := &recordingSender{}
			if err := newTestRouter().Dispatch(t.Context(), sender, tt.update); err != nil {
				t.Fatalf("Dispatch() error = %v", err)
			}

			if len(sender.sent) != len(tt.wantSent) {
				t.Fatalf("sent %d messages, want %d", len(sender.sent), len(tt.wantSent))
			}
			for i, want := range tt.wantSent {
				if sender.sent[i].Text != want || sender.sent[i].ChatID != 99 {
					t.Errorf("sent[%d] = %+v, want text %q to chat 99", i, sender.sent[i], want)
				}
			}
		})
	}
}

func TestRouter_DispatchReturnsHandlerError(t *testing.T) {
	t.Parallel()

	err := newTestRouter().Dispatch(t.Context(), &recordingSender{}, textUpdate("/fail"))
	if err == nil || err.Error() != "boom" {
		t.Errorf("Dispatch() error = %v, want boom", err)
	}
}

func TestRouter_WithoutUsernameAcceptsAddressedCommands(t *testing.T) {
	t.Parallel()

	r := telegram.NewRouter("")
	var called bool
	r.Command("ajuda", func(context.Context, telegram.Sender, *telegram.Message) error {
		called = true
		return nil
	})

	if err := r.Dispatch(t.Context(), &recordingSender{}, textUpdate("/ajuda@whatever_bot")); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !called {
		t.Error("handler was not called")
	}
}
