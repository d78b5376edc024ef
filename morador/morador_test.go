package morador_test

import (
	"context"
	"strings"
	"testing"

	"github.com/basewarphq/morador/morador"
	"github.com/basewarphq/morador/telegram"
)

type recordingSender struct {
	sent []telegram.SendMessageParams
}

func (s *recordingSender) SendMessage(_ context.Context, p telegram.SendMessageParams) (*telegram.Message, error) {
	s.sent = append(s.sent, p)
	return &telegram.Message{}, nil
}

func command(text string) telegram.Update {
	return telegram.Update{UpdateID: 1, Message: &telegram.Message{
		MessageID: 55,
		Chat:      telegram.Chat{ID: -1001, Type: "supergroup"},
		From:      &telegram.User{ID: 1, FirstName: "Ana"},
		Text:      text,
	}}
}

func dispatch(t *testing.T, u telegram.Update) []telegram.SendMessageParams {
	t.Helper()
	sender := &recordingSender{}
	if err := morador.NewRouter("morador_bot").Dispatch(t.Context(), sender, u); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	return sender.sent
}

func TestLinkCommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		want    string
	}{
		{"/planilha", "https://docs.google.com/spreadsheets/d/1dHDLR-Z8OFkHO_pQ6NFR3IhB3IezJKmg0p4JaNqRn0Y/edit?usp=sharing"},
		{"/riowonderdecor", "https://chat.whatsapp.com/JCIaQ65tz8JJxAPmHSfCbe"},
		{"/instagram", "https://www.instagram.com/rio.wonder.compradores/"},
		{"/riowondersemfiltro", "https://chat.whatsapp.com/JvviqEADHvr6cSAt2jKf5d"},
		{"/whatsapp", "https://chat.whatsapp.com/HaVa1gkhtyx1DR4YJTjO8J"},
		{"/facebook", "https://www.facebook.com/groups/riowonderresidences"},
		{"/youtube", "https://www.youtube.com/channel/UCXM_R-BgEunXbV3yrih44dA/featured"},
		{"/youtube@morador_bot", "https://www.youtube.com/channel/UCXM_R-BgEunXbV3yrih44dA/featured"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()

			sent := dispatch(t, command(tt.command))
			if len(sent) != 1 {
				t.Fatalf("sent %d messages, want 1", len(sent))
			}
			if sent[0].Text != tt.want {
				t.Errorf("text = %q, want %q", sent[0].Text, tt.want)
			}
			if sent[0].ChatID != -1001 {
				t.Errorf("chat = %d, want -1001", sent[0].ChatID)
			}
			if sent[0].ReplyToMessageID != 0 {
				t.Error("link commands are sent to the chat, not as a reply")
			}
		})
	}
}

func TestHelp(t *testing.T) {
	t.Parallel()

	want := "\n\n❗ Clique na opção desejada:\n\n" +
		"➡ /planilha\n" +
		"➡ /riowonderdecor\n" +
		"➡ /riowondersemfiltro\n" +
		"➡ /instagram\n" +
		"➡ /whatsapp\n" +
		"➡ /facebook\n"
	if got := morador.HelpText(); got != want {
		t.Errorf("HelpText() = %q, want %q", got, want)
	}

	sent := dispatch(t, command("/ajuda"))
	if len(sent) != 1 || sent[0].Text != want {
		t.Fatalf("/ajuda sent %+v", sent)
	}
	if sent[0].ReplyToMessageID != 55 {
		t.Errorf("reply to = %d, want 55", sent[0].ReplyToMessageID)
	}
}

func TestWelcome(t *testing.T) {
	t.Parallel()

	u := command("")
	u.Message.NewChatMembers = []telegram.User{{ID: 2, FirstName: "Bruno"}}

	sent := dispatch(t, u)
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}

	text := sent[0].Text
	if text != morador.WelcomeText("Ana") {
		t.Errorf("welcome = %q, want the text for the sender Ana", text)
	}
	if !strings.HasPrefix(text, "Olá Ana tudo bom? sou o MoradorBot;") {
		t.Errorf("welcome should greet the sender, got %q", text)
	}
	for _, part := range []string{"- Nome;", "- Apartamento;", "- Fase (Formosa, Mauá, Cais);", "P.S:", "Obrigado!"} {
		if !strings.Contains(text, part) {
			t.Errorf("welcome is missing %q", part)
		}
	}
	if sent[0].ReplyToMessageID != 55 {
		t.Errorf("reply to = %d, want 55", sent[0].ReplyToMessageID)
	}
}

func TestWelcome_WithoutSender(t *testing.T) {
	t.Parallel()

	u := telegram.Update{UpdateID: 2, Message: &telegram.Message{
		MessageID:      9,
		Chat:           telegram.Chat{ID: 3},
		NewChatMembers: []telegram.User{{FirstName: "Bruno"}},
	}}

	sent := dispatch(t, u)
	if len(sent) != 1 || !strings.HasPrefix(sent[0].Text, "Olá Bruno ") {
		t.Errorf("sent %+v, want a welcome for Bruno", sent)
	}
}

func TestWelcomeText_WithoutName(t *testing.T) {
	t.Parallel()

	text := morador.WelcomeText("")
	if !strings.HasPrefix(text, "Olá tudo bom? sou o MoradorBot;") {
		t.Errorf("welcome without a name = %q", text)
	}
}

func TestIgnoredMessages(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"oi pessoal", "/desconhecido", "/planilha@outro_bot"} {
		if sent := dispatch(t, command(text)); len(sent) != 0 {
			t.Errorf("%q sent %+v, want nothing", text, sent)
		}
	}
}

func TestCommands(t *testing.T) {
	t.Parallel()

	cmds := morador.Commands()
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		if c.Description == "" {
			t.Errorf("command %q has no description", c.Command)
		}
		names = append(names, c.Command)
	}

	want := "planilha riowonderdecor riowondersemfiltro instagram whatsapp facebook youtube ajuda"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("Commands() = %q, want %q", got, want)
	}
}
