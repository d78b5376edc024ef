// Package morador is the behavior of MoradorBot, the bot of the Rio Wonder residents
// group: a set of commands that answer with the group's links, a help menu and a
// welcome message for new members.
package morador

import (
	"context"
	"strings"

	"github.com/basewarphq/morador/telegram"
)

// Link is a command that answers with a fixed link.
type Link struct {
	Command     string
	Description string
	URL         string
	// InMenu is true for the commands listed by /ajuda.
	InMenu bool
}

// Links are the link commands, in menu order.
var Links = []Link{
	{
		Command:     "planilha",
		Description: "Planilha dos moradores",
		URL:         "https://docs.google.com/spreadsheets/d/1dHDLR-Z8OFkHO_pQ6NFR3IhB3IezJKmg0p4JaNqRn0Y/edit?usp=sharing",
		InMenu:      true,
	},
	{
		Command:     "riowonderdecor",
		Description: "Grupo de decoração no WhatsApp",
		URL:         "https://chat.whatsapp.com/JCIaQ65tz8JJxAPmHSfCbe",
		InMenu:      true,
	},
	{
		Command:     "riowondersemfiltro",
		Description: "Grupo sem filtro no WhatsApp",
		URL:         "https://chat.whatsapp.com/JvviqEADHvr6cSAt2jKf5d",
		InMenu:      true,
	},
	{
		Command:     "instagram",
		Description: "Instagram dos compradores",
		URL:         "https://www.instagram.com/rio.wonder.compradores/",
		InMenu:      true,
	},
	{
		Command:     "whatsapp",
		Description: "Grupo principal no WhatsApp",
		URL:         "https://chat.whatsapp.com/HaVa1gkhtyx1DR4YJTjO8J",
		InMenu:      true,
	},
	{
		Command:     "facebook",
		Description: "Grupo no Facebook",
		URL:         "https://www.facebook.com/groups/riowonderresidences",
		InMenu:      true,
	},
	{
		Command:     "youtube",
		Description: "Canal no YouTube",
		URL:         "https://www.youtube.com/channel/UCXM_R-BgEunXbV3yrih44dA/featured",
	},
}

// WebhookPath is the path the webhook function receives updates on.
const WebhookPath = "/telegram/webhook"

// HelpCommand is the command that shows the menu.
const HelpCommand = "ajuda"

// HelpText returns the menu sent in reply to /ajuda.
func HelpText() string {
	var b strings.Builder
	b.WriteString("\n\n❗ Clique na opção desejada:\n\n")
	for _, l := range Links {
		if l.InMenu {
			b.WriteString("➡ /" + l.Command + "\n")
		}
	}
	return b.String()
}

// WelcomeText returns the greeting for a member who just joined.
func WelcomeText(firstName string) string {
	greeting := "Olá"
	if firstName != "" {
		greeting += " " + firstName
	}
	return greeting + ` tudo bom? sou o MoradorBot;
Por questões de segurança e principalmente para a socialização e identificar novos vizinhos, aqueles que entram no grupo precisam se apresentar informando:
- Nome;
- Apartamento;
- Fase (Formosa, Mauá, Cais);
Estamos no aguardo!

P.S: Quem estiver mentindo na compra do RW ou se tiver dificuldade em ler o contrato, melhor não entrar , pois ficará marcado em vermelho na planilha
Caso você já tenha se apresentado e esteja devidamente registrado(a) na planilha, favor, desconsiderar a mensagem!!
Obrigado!
`
}

// Commands is the command menu published to Telegram.
func Commands() []telegram.BotCommand {
	cmds := make([]telegram.BotCommand, 0, len(Links)+1)
	for _, l := range Links {
		cmds = append(cmds, telegram.BotCommand{Command: l.Command, Description: l.Description})
	}
	return append(cmds, telegram.BotCommand{Command: HelpCommand, Description: "Mostra as opções"})
}

// Register adds the bot's handlers to the router.
func Register(r *telegram.Router) {
	for _, l := range Links {
		r.Command(l.Command, send(l.URL))
	}
	r.Command(HelpCommand, reply(func(*telegram.Message) string { return HelpText() }))
	r.OnNewChatMembers(reply(func(msg *telegram.Message) string {
		return WelcomeText(firstName(msg))
	}))
}

// NewRouter returns a router with the bot's handlers registered.
func NewRouter(botUsername string) *telegram.Router {
	r := telegram.NewRouter(botUsername)
	Register(r)
	return r
}

// send answers in the chat without quoting the command.
func send(text string) telegram.HandlerFunc {
	return func(ctx context.Context, s telegram.Sender, msg *telegram.Message) error {
		_, err := s.SendMessage(ctx, telegram.SendMessageParams{ChatID: msg.Chat.ID, Text: text})
		return err
	}
}

// reply answers as a reply to the message.
func reply(text func(*telegram.Message) string) telegram.HandlerFunc {
	return func(ctx context.Context, s telegram.Sender, msg *telegram.Message) error {
		_, err := s.SendMessage(ctx, telegram.SendMessageParams{
			ChatID:           msg.Chat.ID,
			Text:             text(msg),
			ReplyToMessageID: msg.MessageID,
		})
		return err
	}
}

// firstName is the first name of whoever sent the join message. Telegram sends it
// from the member who joined, or from the admin who added them.
func firstName(msg *telegram.Message) string {
	if msg.From != nil {
		return msg.From.FirstName
	}
	if len(msg.NewChatMembers) > 0 {
		return msg.NewChatMembers[0].FirstName
	}
	return ""
}
