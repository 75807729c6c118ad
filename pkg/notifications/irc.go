package notifications

import (
	"fmt"

	"github.com/gimlet-io/hookcast/pkg/event"
	"github.com/gimlet-io/hookcast/pkg/irc"
	"github.com/gimlet-io/hookcast/pkg/localization"
	"github.com/gimlet-io/hookcast/pkg/message"
)

// IrcClient is the part of *irc.Client the provider uses.
type IrcClient interface {
	Privmsg(target string, text string) error
	OnPrivmsg(handler irc.PrivmsgHandler)
}

// IrcServer is one connection and the channels notifications are sent to on
// it.
type IrcServer struct {
	Name     string
	Client   IrcClient
	Channels []Channel
}

type IrcProvider struct {
	servers  []IrcServer
	palette  *Palette
	builders *Registry[*message.Message]
}

// NewIrcProvider expands the palette placeholders of catalog once, so
// rendering a notification only substitutes arguments.
func NewIrcProvider(servers []IrcServer, palette *Palette, catalog *localization.Catalog) *IrcProvider {
	return &IrcProvider{
		servers:  servers,
		palette:  palette,
		builders: ircBuilders(catalog.Transform(palette.Expand)),
	}
}

func (p *IrcProvider) Name() string {
	return "irc"
}

func (p *IrcProvider) HandlePayload(payload *event.Payload) (bool, error) {
	targets := make([][]Channel, len(p.servers))
	subscribed := false
	for i, s := range p.servers {
		targets[i] = accepting(s.Channels, payload.Type)
		subscribed = subscribed || len(targets[i]) != 0
	}
	if !subscribed {
		return false, nil
	}

	msg, ok := p.builders.Build(payload.Event)
	if !ok {
		return false, nil
	}

	line := msg.Render(message.Plain)
	return true, p.each(func(i int, s IrcServer) error {
		return deliver(p.Name()+"/"+s.Name, targets[i], func(ch Channel) error {
			return s.Client.Privmsg(ch.ID, line)
		})
	})
}

func (p *IrcProvider) SendMessage(msg *message.Message) error {
	line := msg.Render(p.palette.Convert)
	return p.each(func(i int, s IrcServer) error {
		return deliver(p.Name()+"/"+s.Name, s.Channels, func(ch Channel) error {
			return s.Client.Privmsg(ch.ID, line)
		})
	})
}

func (p *IrcProvider) each(fn func(i int, s IrcServer) error) error {
	failed := 0
	for i, s := range p.servers {
		if err := fn(i, s); err != nil {
			failed++
		}
	}
	if failed != 0 {
		return fmt.Errorf("delivery failed on %d of %d irc servers", failed, len(p.servers))
	}
	return nil
}
