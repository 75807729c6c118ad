package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gimlet-io/hookcast/pkg/event"
	"github.com/gimlet-io/hookcast/pkg/irc"
	"github.com/gimlet-io/hookcast/pkg/notifications"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Environ returns the settings from the environment.
func Environ() (*Config, error) {
	cfg := Config{}
	err := envconfig.Process("", &cfg)
	defaults(&cfg)

	return &cfg, err
}

func defaults(c *Config) {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.MetricsAddr == "" {
		c.MetricsAddr = ":8889"
	}
	if c.CommandPrefix == "" {
		c.CommandPrefix = "!"
	}
	if c.IRC.Nick == "" {
		c.IRC.Nick = "hookcast"
	}
	if c.IRC.Ident == "" {
		c.IRC.Ident = c.IRC.Nick
	}
	if c.IRC.RealName == "" {
		c.IRC.RealName = "hookcast"
	}
	if c.IRC.MessageDelay == 0 {
		c.IRC.MessageDelay = time.Second
	}
	if c.IRC.ReconnectDelay == 0 {
		c.IRC.ReconnectDelay = 5 * time.Second
	}
	if c.IRC.SocketTimeout == 0 {
		c.IRC.SocketTimeout = 5 * time.Minute
	}
	if c.IRC.ChannelPrefixes == "" {
		c.IRC.ChannelPrefixes = "#&+!"
	}
}

// String returns the configuration in string format.
func (c *Config) String() string {
	out, _ := yaml.Marshal(c)
	return string(out)
}

type Config struct {
	Logging         Logging
	ListenAddr      string `envconfig:"LISTEN_ADDR"`
	MetricsAddr     string `envconfig:"METRICS_ADDR"`
	Github          Github
	CommandPrefix   string `envconfig:"COMMAND_PREFIX"`
	LocalizationDir string `envconfig:"LOCALIZATION_DIR"`
	Discord         Discord
	IRC             IRC
}

// Logging provides the logging configuration.
type Logging struct {
	Debug  bool `envconfig:"DEBUG"`
	Trace  bool `envconfig:"TRACE"`
	Color  bool `envconfig:"LOGS_COLOR"`
	Pretty bool `envconfig:"LOGS_PRETTY"`
	Text   bool `envconfig:"LOGS_TEXT"`
}

type Github struct {
	// Deliveries are not authenticated when empty.
	WebhookSecret string `envconfig:"GITHUB_WEBHOOK_SECRET" yaml:"-"`
}

type Discord struct {
	Enabled  bool   `envconfig:"DISCORD_ENABLED"`
	Token    string `envconfig:"DISCORD_TOKEN" yaml:"-"`
	Channels string `envconfig:"DISCORD_CHANNELS"`
	Status   string `envconfig:"DISCORD_STATUS"`
}

// IRC holds the defaults every server in Servers falls back to.
type IRC struct {
	Enabled              bool          `envconfig:"IRC_ENABLED"`
	Servers              string        `envconfig:"IRC_SERVERS"`
	Nick                 string        `envconfig:"IRC_NICK"`
	Ident                string        `envconfig:"IRC_IDENT"`
	RealName             string        `envconfig:"IRC_REAL_NAME"`
	Password             string        `envconfig:"IRC_PASSWORD" yaml:"-"`
	NickServNick         string        `envconfig:"IRC_NICKSERV_NICK"`
	NickServPassword     string        `envconfig:"IRC_NICKSERV_PASSWORD" yaml:"-"`
	MessageDelay         time.Duration `envconfig:"IRC_MESSAGE_DELAY"`
	ReconnectDelay       time.Duration `envconfig:"IRC_RECONNECT_DELAY"`
	MaxReconnectAttempts int           `envconfig:"IRC_MAX_RECONNECT_ATTEMPTS"`
	SocketTimeout        time.Duration `envconfig:"IRC_SOCKET_TIMEOUT"`
	ChannelPrefixes      string        `envconfig:"IRC_CHANNEL_PREFIXES"`
}

// IRCServer is a server entry of IRC_SERVERS merged with the IRC defaults.
type IRCServer struct {
	Name     string
	Client   irc.Config
	Channels []notifications.Channel
}

// DiscordChannels parses DISCORD_CHANNELS, a ; separated list of
// <channel id>[:<event>,<event>] entries.
func (d Discord) DiscordChannels() ([]notifications.Channel, error) {
	return parseChannels(d.Channels, ";")
}

// ResolvedServers parses IRC_SERVERS, a ; separated list of URL query
// strings:
//
//	host=irc.libera.chat&port=6697&secure=true&channels=#dev:push,issues|#ops
//
// Settings missing from an entry are taken from the IRC defaults.
func (c IRC) ResolvedServers() ([]IRCServer, error) {
	var servers []IRCServer
	for _, entry := range strings.Split(c.Servers, ";") {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		server, err := c.resolve(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid IRC_SERVERS entry %q: %s", entry, err)
		}
		servers = append(servers, server)
	}
	return servers, nil
}

func (c IRC) resolve(entry string) (IRCServer, error) {
	// # and + are common in channel names. & separates the settings, it
	// has to be written as %26.
	values, err := url.ParseQuery(strings.NewReplacer("#", "%23", "+", "%2B").Replace(entry))
	if err != nil {
		return IRCServer{}, err
	}

	host := values.Get("host")
	if host == "" {
		return IRCServer{}, fmt.Errorf("missing host")
	}

	secure, err := boolOr(values, "secure", false)
	if err != nil {
		return IRCServer{}, err
	}
	defaultPort := 6667
	if secure {
		defaultPort = 6697
	}
	port, err := intOr(values, "port", defaultPort)
	if err != nil {
		return IRCServer{}, err
	}
	maxReconnectAttempts, err := intOr(values, "maxReconnectAttempts", c.MaxReconnectAttempts)
	if err != nil {
		return IRCServer{}, err
	}
	messageDelay, err := durationOr(values, "messageDelay", c.MessageDelay)
	if err != nil {
		return IRCServer{}, err
	}
	reconnectDelay, err := durationOr(values, "reconnectDelay", c.ReconnectDelay)
	if err != nil {
		return IRCServer{}, err
	}
	socketTimeout, err := durationOr(values, "socketTimeout", c.SocketTimeout)
	if err != nil {
		return IRCServer{}, err
	}

	channels, err := parseChannels(values.Get("channels"), "|")
	if err != nil {
		return IRCServer{}, err
	}
	names := make([]string, 0, len(channels))
	for _, ch := range channels {
		names = append(names, ch.ID)
	}

	name := values.Get("name")
	if name == "" {
		name = host
	}

	return IRCServer{
		Name: name,
		Client: irc.Config{
			Host:                 host,
			Port:                 port,
			Secure:               secure,
			Password:             stringOr(values, "password", c.Password),
			Nick:                 stringOr(values, "nick", c.Nick),
			Ident:                stringOr(values, "ident", c.Ident),
			RealName:             stringOr(values, "realName", c.RealName),
			Channels:             names,
			ChannelPrefixes:      stringOr(values, "channelPrefixes", c.ChannelPrefixes),
			NickServNick:         stringOr(values, "nickservNick", c.NickServNick),
			NickServPassword:     stringOr(values, "nickservPassword", c.NickServPassword),
			MessageDelay:         messageDelay,
			ReconnectDelay:       reconnectDelay,
			MaxReconnectAttempts: maxReconnectAttempts,
			SocketTimeout:        socketTimeout,
		},
		Channels: channels,
	}, nil
}

func parseChannels(value string, separator string) ([]notifications.Channel, error) {
	var channels []notifications.Channel
	for _, entry := range strings.Split(value, separator) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		id, events, _ := strings.Cut(entry, ":")
		channel := notifications.Channel{ID: id}
		if events != "" {
			types, err := event.ParseTypes(strings.Split(events, ","))
			if err != nil {
				return nil, fmt.Errorf("channel %s: %s", id, err)
			}
			channel.Events = types
		}
		channels = append(channels, channel)
	}
	return channels, nil
}

func stringOr(values url.Values, key string, fallback string) string {
	if v := values.Get(key); v != "" {
		return v
	}
	return fallback
}

func boolOr(values url.Values, key string, fallback bool) (bool, error) {
	if !values.Has(key) {
		return fallback, nil
	}
	b, err := strconv.ParseBool(values.Get(key))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", key, err)
	}
	return b, nil
}

func intOr(values url.Values, key string, fallback int) (int, error) {
	if !values.Has(key) {
		return fallback, nil
	}
	i, err := strconv.Atoi(values.Get(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, err)
	}
	return i, nil
}

func durationOr(values url.Values, key string, fallback time.Duration) (time.Duration, error) {
	if !values.Has(key) {
		return fallback, nil
	}
	d, err := time.ParseDuration(values.Get(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, err)
	}
	return d, nil
}
