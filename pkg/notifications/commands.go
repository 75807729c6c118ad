package notifications

import (
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/gimlet-io/hookcast/pkg/command"
	"github.com/gimlet-io/hookcast/pkg/message"
	"github.com/sirupsen/logrus"
)

// runCommand parses line and replies to the invoking user when the command
// cannot run. Lines without the prefix are ignored.
func runCommand(dispatcher *command.Dispatcher, prefix string, ctx command.Context, line string) {
	name, args, ok := command.Parse(prefix, line)
	if !ok {
		return
	}

	err := dispatcher.Dispatch(ctx, name, args)
	if err == nil {
		return
	}

	var reply *message.Message
	var noSuchCommand *command.NoSuchCommandError
	var paramErr *command.ParameterError
	switch {
	case errors.As(err, &noSuchCommand):
		reply = command.Unknown(ctx, noSuchCommand.Name)
	case errors.As(err, &paramErr):
		reply = command.Usage(ctx, prefix+paramErr.Usage)
	default:
		logrus.WithField("user", ctx.UserName()).
			WithField("command", name).
			Errorf("command failed: %s", err)
		reply = command.Failed(ctx)
	}

	if err := ctx.SendMessage(reply); err != nil {
		logrus.Warnf("cannot reply to %s: %s", ctx.UserName(), err)
	}
}

type discordContext struct {
	provider  *DiscordProvider
	channelID string
	author    *discordgo.User
}

func (c *discordContext) UserName() string {
	return c.author.Username
}

func (c *discordContext) UserReference() string {
	return c.author.Mention()
}

func (c *discordContext) SendMessage(msg *message.Message) error {
	return c.provider.send(c.channelID, msg)
}

// ListenCommands answers commands typed into the configured channels.
func (p *DiscordProvider) ListenCommands(dispatcher *command.Dispatcher, prefix string) {
	p.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		p.onMessage(dispatcher, prefix, m)
	})
}

func (p *DiscordProvider) onMessage(dispatcher *command.Dispatcher, prefix string, m *discordgo.MessageCreate) {
	if m.Message == nil || m.Author == nil || m.Author.Bot {
		return
	}
	if !p.configured(m.ChannelID) {
		return
	}

	ctx := &discordContext{provider: p, channelID: m.ChannelID, author: m.Author}
	runCommand(dispatcher, prefix, ctx, m.Content)
}

func (p *DiscordProvider) configured(channelID string) bool {
	for _, ch := range p.channels {
		if ch.ID == channelID {
			return true
		}
	}
	return false
}

type ircContext struct {
	client  IrcClient
	palette *Palette
	channel string
	nick    string
}

func (c *ircContext) UserName() string {
	return c.nick
}

func (c *ircContext) UserReference() string {
	return c.nick
}

func (c *ircContext) SendMessage(msg *message.Message) error {
	return c.client.Privmsg(c.channel, msg.Render(c.palette.Convert))
}

// ListenCommands answers commands typed into the configured channels of
// every server.
func (p *IrcProvider) ListenCommands(dispatcher *command.Dispatcher, prefix string) {
	for _, s := range p.servers {
		s := s
		s.Client.OnPrivmsg(func(channel string, nick string, text string) {
			if !ircConfigured(s.Channels, channel) {
				return
			}
			ctx := &ircContext{client: s.Client, palette: p.palette, channel: channel, nick: nick}
			runCommand(dispatcher, prefix, ctx, text)
		})
	}
}

// IRC channel names are case-insensitive.
func ircConfigured(channels []Channel, name string) bool {
	for _, ch := range channels {
		if strings.EqualFold(ch.ID, name) {
			return true
		}
	}
	return false
}
