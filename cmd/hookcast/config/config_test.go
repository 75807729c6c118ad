package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gimlet-io/hookcast/pkg/event"
	"github.com/gimlet-io/hookcast/pkg/notifications"
	"gotest.tools/assert"
)

func TestDefaults(t *testing.T) {
	c := &Config{}
	defaults(c)

	assert.Equal(t, ":8080", c.ListenAddr)
	assert.Equal(t, ":8889", c.MetricsAddr)
	assert.Equal(t, "!", c.CommandPrefix)
	assert.Equal(t, "hookcast", c.IRC.Nick)
	assert.Equal(t, "hookcast", c.IRC.Ident)
	assert.Equal(t, time.Second, c.IRC.MessageDelay)
	assert.Equal(t, "#&+!", c.IRC.ChannelPrefixes)
}

func TestEnviron(t *testing.T) {
	os.Setenv("GITHUB_WEBHOOK_SECRET", "s3cr3t")
	os.Setenv("DEBUG", "true")
	os.Setenv("IRC_MESSAGE_DELAY", "250ms")
	os.Setenv("DISCORD_CHANNELS", "123")
	defer func() {
		os.Unsetenv("GITHUB_WEBHOOK_SECRET")
		os.Unsetenv("DEBUG")
		os.Unsetenv("IRC_MESSAGE_DELAY")
		os.Unsetenv("DISCORD_CHANNELS")
	}()

	c, err := Environ()
	assert.NilError(t, err)
	assert.Equal(t, "s3cr3t", c.Github.WebhookSecret)
	assert.Assert(t, c.Logging.Debug)
	assert.Equal(t, 250*time.Millisecond, c.IRC.MessageDelay)
	assert.Equal(t, "123", c.Discord.Channels)

	assert.Assert(t, !strings.Contains(c.String(), "s3cr3t"))
}

func TestDiscordChannels(t *testing.T) {
	d := Discord{Channels: "123; 456:push,Issues ;"}
	channels, err := d.DiscordChannels()
	assert.NilError(t, err)
	assert.DeepEqual(t, []notifications.Channel{
		{ID: "123"},
		{ID: "456", Events: []event.Type{event.TypePush, event.TypeIssues}},
	}, channels)

	d = Discord{Channels: "123:push,check_suite"}
	_, err = d.DiscordChannels()
	assert.Assert(t, err != nil)
}

func TestResolvedServersFallBackToDefaults(t *testing.T) {
	c := &Config{IRC: IRC{
		Servers:          "host=irc.libera.chat&secure=true&channels=#dev:push,issues|#ops;host=irc.oftc.net&nick=hc&messageDelay=2s&channels=+local",
		NickServPassword: "hunter2",
	}}
	defaults(c)

	servers, err := c.IRC.ResolvedServers()
	assert.NilError(t, err)
	assert.Equal(t, 2, len(servers))

	libera := servers[0]
	assert.Equal(t, "irc.libera.chat", libera.Name)
	assert.Equal(t, 6697, libera.Client.Port)
	assert.Assert(t, libera.Client.Secure)
	assert.Equal(t, "hookcast", libera.Client.Nick)
	assert.Equal(t, "hunter2", libera.Client.NickServPassword)
	assert.Equal(t, time.Second, libera.Client.MessageDelay)
	assert.DeepEqual(t, []string{"#dev", "#ops"}, libera.Client.Channels)
	assert.DeepEqual(t, []notifications.Channel{
		{ID: "#dev", Events: []event.Type{event.TypePush, event.TypeIssues}},
		{ID: "#ops"},
	}, libera.Channels)

	oftc := servers[1]
	assert.Equal(t, 6667, oftc.Client.Port)
	assert.Assert(t, !oftc.Client.Secure)
	assert.Equal(t, "hc", oftc.Client.Nick)
	assert.Equal(t, 2*time.Second, oftc.Client.MessageDelay)
	assert.DeepEqual(t, []string{"+local"}, oftc.Client.Channels)
}

func TestResolvedServersRejectInvalidEntries(t *testing.T) {
	for _, servers := range []string{
		"port=6667",
		"host=irc.libera.chat&port=ircd",
		"host=irc.libera.chat&secure=maybe",
		"host=irc.libera.chat&messageDelay=fast",
		"host=irc.libera.chat&channels=#dev:nope",
	} {
		_, err := IRC{Servers: servers}.ResolvedServers()
		assert.Assert(t, err != nil, servers)
	}
}
