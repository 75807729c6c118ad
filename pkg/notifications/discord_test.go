package notifications

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/gimlet-io/hookcast/pkg/command"
	"github.com/gimlet-io/hookcast/pkg/event"
	"github.com/gimlet-io/hookcast/pkg/localization"
	"github.com/gimlet-io/hookcast/pkg/message"
	"github.com/stretchr/testify/assert"
)

type fakeSession struct {
	mu       sync.Mutex
	sent     map[string][]*discordgo.MessageSend
	failing  map[string]bool
	handlers []interface{}
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		sent:    map[string][]*discordgo.MessageSend{},
		failing: map[string]bool{},
	}
}

func (s *fakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing[channelID] {
		return nil, fmt.Errorf("HTTP 403 Forbidden")
	}
	s.sent[channelID] = append(s.sent[channelID], data)
	return &discordgo.Message{ChannelID: channelID}, nil
}

func (s *fakeSession) AddHandler(handler interface{}) func() {
	s.handlers = append(s.handlers, handler)
	return func() {}
}

func discordProvider(t *testing.T, session DiscordSession, channels ...Channel) *DiscordProvider {
	catalog, err := localization.Load("discord", "")
	assert.Nil(t, err)
	return NewDiscordProvider(session, channels, catalog)
}

func TestDiscordPush(t *testing.T) {
	session := newFakeSession()
	p := discordProvider(t, session, Channel{ID: "1"})

	sent, err := p.HandlePayload(payload(t, event.TypePush, pushBody))
	assert.True(t, sent)
	assert.Nil(t, err)
	assert.Len(t, session.sent["1"], 1)

	msg := session.sent["1"][0]
	assert.Equal(t, "New commits in **octo-org/hello**", msg.Content)
	assert.Len(t, msg.Embeds, 1)

	embed := msg.Embeds[0]
	assert.Equal(t, discordgo.EmbedTypeRich, embed.Type)
	assert.Equal(t, "main", embed.Title)
	assert.Equal(t, "https://github.com/octo-org/hello/compare/1a2b...3c4d", embed.URL)
	assert.Equal(t, " - Fix the build\n - Update README\n", embed.Description)
	assert.Equal(t, discordBlue, embed.Color)
	assert.Equal(t, "octocat", embed.Author.Name)
	assert.Equal(t, "https://avatars.githubusercontent.com/u/583231", embed.Author.IconURL)

	fields := map[string]string{}
	for _, f := range embed.Fields {
		fields[f.Name] = f.Value
	}
	assert.Equal(t, map[string]string{"Added": "1", "Modified": "3", "Removed": "1"}, fields)
}

func TestDiscordIssue(t *testing.T) {
	session := newFakeSession()
	p := discordProvider(t, session, Channel{ID: "1"})

	_, err := p.HandlePayload(payload(t, event.TypeIssues, issuesBody))
	assert.Nil(t, err)

	embed := session.sent["1"][0].Embeds[0]
	assert.Equal(t, "#7: Crash on start", embed.Title)
	assert.Equal(t, "It crashes.", embed.Description)
	assert.Equal(t, discordRed, embed.Color)
	assert.Equal(t, "Labels: bug, p1", embed.Footer.Text)
	assert.Equal(t, "Reporter", embed.Fields[0].Name)
	assert.Equal(t, "[octocat](https://github.com/octocat)", embed.Fields[0].Value)
}

func TestDiscordEmbedsStayWithinLimits(t *testing.T) {
	session := newFakeSession()
	p := discordProvider(t, session, Channel{ID: "1"})

	longTitle := strings.Repeat("a", 300)
	_, err := p.HandlePayload(payload(t, event.TypeIssues,
		`{"action": "opened", "issue": {"number": 1234, "title": "`+longTitle+`"}, `+repository+`, `+sender+`}`))
	assert.Nil(t, err)

	title := session.sent["1"][0].Embeds[0].Title
	assert.Len(t, []rune(title), discordTitleMax)
	assert.True(t, strings.HasPrefix(title, "#1234: aaa"))
	assert.True(t, strings.HasSuffix(title, "..."))

	assets := make([]string, 30)
	for i := range assets {
		assets[i] = fmt.Sprintf(`{"name": "asset-%d", "browser_download_url": "https://d/%d"}`, i, i)
	}
	_, err = p.HandlePayload(payload(t, event.TypeRelease,
		`{"action": "published", "release": {"tag_name": "v2.0.0", "tarball_url": "https://t", "assets": [`+strings.Join(assets, ",")+`]}, `+repository+`, `+sender+`}`))
	assert.Nil(t, err)

	fields := session.sent["1"][1].Embeds[0].Fields
	assert.Len(t, fields, discordFieldsMax)
	assert.Equal(t, "asset-0", fields[0].Name)
	assert.Equal(t, "asset-24", fields[24].Name)
}

func TestDiscordLabelUsesItsOwnColor(t *testing.T) {
	session := newFakeSession()
	p := discordProvider(t, session, Channel{ID: "1"})

	_, err := p.HandlePayload(payload(t, event.TypeLabel, bodies[event.TypeLabel]))
	assert.Nil(t, err)
	assert.Equal(t, 0xd73a4a, session.sent["1"][0].Embeds[0].Color)
}

func TestDiscordMasksInvitedEmail(t *testing.T) {
	session := newFakeSession()
	p := discordProvider(t, session, Channel{ID: "1"})

	body := `{"action": "member_invited", "invitation": {"email": "abcdef@example.com", "role": "direct_member"}, ` + org + `, ` + sender + `}`
	_, err := p.HandlePayload(payload(t, event.TypeOrganization, body))
	assert.Nil(t, err)

	msg := session.sent["1"][0]
	assert.Equal(t, "New member invited to **octo-org**", msg.Content)
	assert.Equal(t, "a**f@example.com", msg.Embeds[0].Title)
}

func TestDiscordSkipsWikiUpdates(t *testing.T) {
	session := newFakeSession()
	p := discordProvider(t, session, Channel{ID: "1"})

	sent, err := p.HandlePayload(payload(t, event.TypeGollum, gollumBody))
	assert.False(t, sent)
	assert.Nil(t, err)
	assert.Empty(t, session.sent)
}

func TestDiscordChannelSubscriptions(t *testing.T) {
	session := newFakeSession()
	p := discordProvider(t, session,
		Channel{ID: "everything"},
		Channel{ID: "issues", Events: []event.Type{event.TypeIssues}},
	)

	_, err := p.HandlePayload(payload(t, event.TypePush, pushBody))
	assert.Nil(t, err)
	_, err = p.HandlePayload(payload(t, event.TypeIssues, issuesBody))
	assert.Nil(t, err)

	assert.Len(t, session.sent["everything"], 2)
	assert.Len(t, session.sent["issues"], 1)
	assert.Equal(t, "#7: Crash on start", session.sent["issues"][0].Embeds[0].Title)
}

func TestDiscordWithoutSubscribersSendsNothing(t *testing.T) {
	session := newFakeSession()
	p := discordProvider(t, session, Channel{ID: "issues", Events: []event.Type{event.TypeIssues}})

	sent, err := p.HandlePayload(payload(t, event.TypePush, pushBody))
	assert.False(t, sent)
	assert.Nil(t, err)
	assert.Empty(t, session.sent)
}

func TestDiscordFailingChannelDoesNotStopOthers(t *testing.T) {
	session := newFakeSession()
	session.failing["1"] = true
	p := discordProvider(t, session, Channel{ID: "1"}, Channel{ID: "2"})

	sent, err := p.HandlePayload(payload(t, event.TypePush, pushBody))
	assert.True(t, sent)
	assert.NotNil(t, err)
	assert.Len(t, session.sent["2"], 1)
}

func TestDiscordSendMessage(t *testing.T) {
	session := newFakeSession()
	p := discordProvider(t, session, Channel{ID: "1"}, Channel{ID: "2", Events: []event.Type{event.TypeIssues}})

	msg := message.NewBuilder().Text("deployed").Style(message.StyleBold).Text("v1.0.0").Build()
	assert.Nil(t, p.SendMessage(msg))

	assert.Equal(t, "deployed **v1.0.0**", session.sent["1"][0].Content)
	assert.Equal(t, "deployed **v1.0.0**", session.sent["2"][0].Content)
}

func TestDiscordCommands(t *testing.T) {
	session := newFakeSession()
	p := discordProvider(t, session, Channel{ID: "1"})
	dispatcher, err := command.NewDefaultDispatcher("v0.1.0")
	assert.Nil(t, err)

	p.ListenCommands(dispatcher, "!")
	assert.Len(t, session.handlers, 1)

	typed := func(channelID string, author *discordgo.User, content string) {
		p.onMessage(dispatcher, "!", &discordgo.MessageCreate{Message: &discordgo.Message{
			ChannelID: channelID,
			Author:    author,
			Content:   content,
		}})
	}
	user := &discordgo.User{ID: "42", Username: "octocat"}

	typed("1", user, "!ping")
	typed("1", user, "!nope")
	typed("1", user, "!ping now")
	typed("1", user, "just chatting")
	typed("1", &discordgo.User{ID: "7", Username: "hookcast", Bot: true}, "!ping")
	typed("2", user, "!ping")

	replies := session.sent["1"]
	assert.Len(t, replies, 3)
	assert.Equal(t, "<@42>: **pong**", replies[0].Content)
	assert.Equal(t, "<@42>: unknown command **nope**", replies[1].Content)
	assert.Equal(t, "<@42>: usage *!ping*", replies[2].Content)
	assert.Empty(t, session.sent["2"])
}

func TestLabelColor(t *testing.T) {
	color, ok := labelColor("d73a4a")
	assert.True(t, ok)
	assert.Equal(t, 0xd73a4a, color)

	color, ok = labelColor("#ffffff")
	assert.True(t, ok)
	assert.Equal(t, 0xffffff, color)

	_, ok = labelColor("not a color")
	assert.False(t, ok)
}
