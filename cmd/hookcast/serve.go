package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/cenkalti/backoff/v4"
	"github.com/gimlet-io/hookcast/cmd/hookcast/config"
	"github.com/gimlet-io/hookcast/pkg/command"
	"github.com/gimlet-io/hookcast/pkg/irc"
	"github.com/gimlet-io/hookcast/pkg/localization"
	"github.com/gimlet-io/hookcast/pkg/notifications"
	"github.com/gimlet-io/hookcast/pkg/server"
	"github.com/gimlet-io/hookcast/pkg/version"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCmd = cli.Command{
	Name:   "serve",
	Usage:  "Receives GitHub webhooks and relays them to the configured chat channels",
	Action: serve,
}

func serve(c *cli.Context) error {
	err := godotenv.Load(".env")
	if err != nil {
		logrus.Warnf("could not load .env file, relying on env vars")
	}

	config, err := config.Environ()
	if err != nil {
		logger := logrus.WithError(err)
		logger.Fatalln("main: invalid configuration")
	}

	initLogging(config)

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		fmt.Println(config.String())
	}
	if config.Github.WebhookSecret == "" {
		logrus.Warn("GITHUB_WEBHOOK_SECRET is not set, webhook deliveries are not authenticated")
	}

	dispatcher, err := command.NewDefaultDispatcher(version.String())
	if err != nil {
		logrus.WithError(err).Fatalln("main: invalid commands")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notificationsManager := notifications.NewManager(notificationsSent)

	if config.Discord.Enabled {
		session, provider, err := discordProvider(config, dispatcher)
		if err != nil {
			logrus.WithError(err).Fatalln("main: cannot set up discord")
		}
		defer session.Close()
		notificationsManager.AddProvider(provider)
		logrus.Info("discord notifications enabled")
	}

	var ircClients []*irc.Client
	var ircRunning sync.WaitGroup
	if config.IRC.Enabled {
		provider, clients, err := ircProvider(config, dispatcher)
		if err != nil {
			logrus.WithError(err).Fatalln("main: cannot set up irc")
		}
		notificationsManager.AddProvider(provider)
		ircClients = clients

		for _, client := range clients {
			ircRunning.Add(1)
			go func(client *irc.Client) {
				defer ircRunning.Done()
				if err := client.Run(ctx); err != nil {
					logrus.Errorf("gave up on irc server %s: %s", client.Config().Address(), err)
				}
			}(client)
		}
		logrus.Infof("irc notifications enabled on %d server(s)", len(clients))
	}

	metricsRouter := chi.NewRouter()
	metricsRouter.Get("/metrics", promhttp.Handler().ServeHTTP)
	metricsServer := &http.Server{Addr: config.MetricsAddr, Handler: metricsRouter}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("metrics server stopped: %s", err)
		}
	}()

	r := server.SetupRouter(config, notificationsManager, webhooksReceived, perf)
	httpServer := &http.Server{Addr: config.ListenAddr, Handler: r}
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.ListenAndServe()
	}()
	logrus.Infof("listening for webhooks on %s", config.ListenAddr)

	select {
	case <-ctx.Done():
		err = nil
	case err = <-serverErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpServer.Shutdown(shutdownCtx)
	metricsServer.Shutdown(shutdownCtx)
	for _, client := range ircClients {
		client.Quit("hookcast " + version.String() + " shutting down")
	}
	ircRunning.Wait()

	logrus.Info("Successfully cleaned up resources. Stopping.")
	return err
}

func discordProvider(config *config.Config, dispatcher *command.Dispatcher) (*discordgo.Session, *notifications.DiscordProvider, error) {
	channels, err := config.Discord.DiscordChannels()
	if err != nil {
		return nil, nil, err
	}
	if len(channels) == 0 {
		return nil, nil, fmt.Errorf("DISCORD_CHANNELS is empty")
	}
	catalog, err := localization.Load("discord", config.LocalizationDir)
	if err != nil {
		return nil, nil, err
	}

	session, err := discordgo.New("Bot " + config.Discord.Token)
	if err != nil {
		return nil, nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	provider := notifications.NewDiscordProvider(session, channels, catalog)
	provider.ListenCommands(dispatcher, config.CommandPrefix)

	err = backoff.RetryNotify(
		session.Open,
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5),
		func(err error, next time.Duration) {
			logrus.Warnf("cannot connect to discord: %s, retrying in %s", err, next)
		},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open discord session: %s", err)
	}

	if config.Discord.Status != "" {
		if err := session.UpdateGameStatus(0, config.Discord.Status); err != nil {
			logrus.Warnf("cannot set discord status: %s", err)
		}
	}
	return session, provider, nil
}

func ircProvider(config *config.Config, dispatcher *command.Dispatcher) (*notifications.IrcProvider, []*irc.Client, error) {
	servers, err := config.IRC.ResolvedServers()
	if err != nil {
		return nil, nil, err
	}
	if len(servers) == 0 {
		return nil, nil, fmt.Errorf("IRC_SERVERS is empty")
	}
	catalog, err := localization.Load("irc", config.LocalizationDir)
	if err != nil {
		return nil, nil, err
	}

	var clients []*irc.Client
	var ircServers []notifications.IrcServer
	for _, s := range servers {
		client := irc.NewClient(s.Client)
		clients = append(clients, client)
		ircServers = append(ircServers, notifications.IrcServer{
			Name:     s.Name,
			Client:   client,
			Channels: s.Channels,
		})
	}

	provider := notifications.NewIrcProvider(ircServers, notifications.NewPalette(), catalog)
	provider.ListenCommands(dispatcher, config.CommandPrefix)
	return provider, clients, nil
}

// helper function configures the logging.
func initLogging(c *config.Config) {
	if c.Logging.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if c.Logging.Trace {
		logrus.SetLevel(logrus.TraceLevel)
	}
	if c.Logging.Text {
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:   c.Logging.Color,
			DisableColors: !c.Logging.Color,
		})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{
			PrettyPrint: c.Logging.Pretty,
		})
	}
}
