package notifications

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/gimlet-io/hookcast/pkg/event"
	"github.com/gimlet-io/hookcast/pkg/localization"
	"github.com/gimlet-io/hookcast/pkg/message"
)

const (
	discordBlue  = 0x2d82cc
	discordGreen = 0x2ecc8b
	discordRed   = 0xcc2d2d
)

// DiscordSession is the part of *discordgo.Session the provider uses.
type DiscordSession interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	AddHandler(handler interface{}) func()
}

type discordMessage struct {
	Text  *message.Message
	Embed *discordgo.MessageEmbed
}

type DiscordProvider struct {
	session  DiscordSession
	channels []Channel
	colors   map[event.Type]int
	builders *Registry[*discordMessage]
}

func NewDiscordProvider(session DiscordSession, channels []Channel, catalog *localization.Catalog) *DiscordProvider {
	return &DiscordProvider{
		session:  session,
		channels: channels,
		colors:   discordColors(),
		builders: discordBuilders(catalog),
	}
}

func discordColors() map[event.Type]int {
	return map[event.Type]int{
		event.TypeCommitComment:            discordBlue,
		event.TypeCreate:                   discordGreen,
		event.TypeDelete:                   discordRed,
		event.TypeDeployment:               discordGreen,
		event.TypeDeploymentStatus:         discordBlue,
		event.TypeFork:                     discordGreen,
		event.TypeGollum:                   discordBlue,
		event.TypeIssueComment:             discordBlue,
		event.TypeIssues:                   discordRed,
		event.TypeLabel:                    discordBlue,
		event.TypeMember:                   discordBlue,
		event.TypeMembership:               discordBlue,
		event.TypeMilestone:                discordGreen,
		event.TypeOrganization:             discordBlue,
		event.TypeOrgBlock:                 discordRed,
		event.TypePageBuild:                discordGreen,
		event.TypePublic:                   discordGreen,
		event.TypePullRequest:              discordGreen,
		event.TypePullRequestReview:        discordBlue,
		event.TypePullRequestReviewComment: discordBlue,
		event.TypePush:                     discordBlue,
		event.TypeRelease:                  discordGreen,
		event.TypeRepository:               discordBlue,
		event.TypeTeam:                     discordBlue,
		event.TypeTeamAdd:                  discordGreen,
	}
}

func (p *DiscordProvider) Name() string {
	return "discord"
}

func (p *DiscordProvider) HandlePayload(payload *event.Payload) (bool, error) {
	channels := accepting(p.channels, payload.Type)
	if len(channels) == 0 {
		return false, nil
	}

	msg, ok := p.builders.Build(payload.Event)
	if !ok {
		return false, nil
	}

	msg.Embed.Title = truncate(msg.Embed.Title, discordTitleMax)
	if msg.Embed.Color == 0 {
		msg.Embed.Color = p.colors[payload.Type]
	}
	if sender := payload.Event.GetSender(); sender != nil {
		msg.Embed.Author = &discordgo.MessageEmbedAuthor{
			Name:    sender.GetLogin(),
			URL:     sender.GetHTMLURL(),
			IconURL: sender.GetAvatarURL(),
		}
	}

	send := &discordgo.MessageSend{
		Content: msg.Text.Render(message.Markdown),
		Embeds:  []*discordgo.MessageEmbed{msg.Embed},
	}
	return true, deliver(p.Name(), channels, func(ch Channel) error {
		_, err := p.session.ChannelMessageSendComplex(ch.ID, send)
		return err
	})
}

func (p *DiscordProvider) SendMessage(msg *message.Message) error {
	return deliver(p.Name(), p.channels, func(ch Channel) error {
		return p.send(ch.ID, msg)
	})
}

func (p *DiscordProvider) send(channelID string, msg *message.Message) error {
	_, err := p.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: msg.Render(message.Markdown),
	})
	if err != nil {
		return fmt.Errorf("cannot send to discord channel %s: %s", channelID, err)
	}
	return nil
}

// labelColor parses GitHub's "rrggbb" label colors.
func labelColor(hex string) (int, bool) {
	color, err := strconv.ParseInt(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil || color < 0 || color > 0xffffff {
		return 0, false
	}
	return int(color), true
}
