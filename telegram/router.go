package telegram

import (
	"context"
	"strings"
	"unicode"
)

// Sender sends messages. *Client implements it.
type Sender interface {
	SendMessage(ctx context.Context, params SendMessageParams) (*Message, error)
}

var _ Sender = (*Client)(nil)

// HandlerFunc handles a routed message.
type HandlerFunc func(ctx context.Context, s Sender, msg *Message) error

// Router dispatches message updates to command and join handlers.
type Router struct {
	username string
	commands map[string]HandlerFunc
	onJoin   HandlerFunc
}

// NewRouter creates a router for the bot with the given username. Commands
// addressed to any other bot ("/cmd@otherbot") are ignored. With an empty username
// every addressed command is accepted.
func NewRouter(botUsername string) *Router {
	return &Router{
		username: strings.TrimPrefix(botUsername, "@"),
		commands: map[string]HandlerFunc{},
	}
}

// Command registers the handler for "/name". Names match case-insensitively.
func (r *Router) Command(name string, h HandlerFunc) {
	r.commands[strings.ToLower(strings.TrimPrefix(name, "/"))] = h
}

// OnNewChatMembers registers the handler for messages announcing new members.
func (r *Router) OnNewChatMembers(h HandlerFunc) {
	r.onJoin = h
}

// Dispatch routes a single update. Updates without a message, unknown commands and
// plain text are ignored.
func (r *Router) Dispatch(ctx context.Context, s Sender, u Update) error {
	msg := u.Message
	if msg == nil {
		return nil
	}

	if len(msg.NewChatMembers) > 0 {
		if r.onJoin == nil {
			return nil
		}
		return r.onJoin(ctx, s, msg)
	}

	cmd, username, _, ok := ParseCommand(msg.Text)
	if !ok {
		return nil
	}
	if username != "" && r.username != "" && !strings.EqualFold(username, r.username) {
		return nil
	}

	h, ok := r.commands[cmd]
	if !ok {
		return nil
	}
	return h(ctx, s, msg)
}

// ParseCommand splits "/Cmd@bot some args" into "cmd", "bot" and "some args".
// ok is false when text is not a command.
func ParseCommand(text string) (cmd, username, args string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", "", false
	}

	head, rest := text[1:], ""
	if i := strings.IndexFunc(head, unicode.IsSpace); i >= 0 {
		head, rest = head[:i], head[i+1:]
	}

	cmd, username, _ = strings.Cut(head, "@")
	if cmd == "" {
		return "", "", "", false
	}
	return strings.ToLower(cmd), username, strings.TrimSpace(rest), true
}
