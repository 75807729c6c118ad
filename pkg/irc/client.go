// Package irc is a small IRC client: registration, NickServ identification,
// channel auto-join, keepalive, rate limited PRIVMSG and reconnects.
package irc

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	rplWelcome        = "001"
	errNicknameInUse  = "433"
	sendQueueCapacity = 256
)

// Config is the fully resolved configuration of one server connection.
type Config struct {
	Host     string
	Port     int
	Secure   bool
	Password string

	Nick     string
	Ident    string
	RealName string

	Channels        []string
	ChannelPrefixes string

	NickServNick     string
	NickServPassword string

	MessageDelay         time.Duration
	ReconnectDelay       time.Duration
	MaxReconnectAttempts int
	SocketTimeout        time.Duration
}

func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// PrivmsgHandler is called for every PRIVMSG sent to a channel.
type PrivmsgHandler func(channel string, nick string, text string)

var ErrNotConnected = errors.New("not connected")

type Client struct {
	config Config

	mu       sync.Mutex
	conn     net.Conn
	nick     string
	handlers []PrivmsgHandler

	queue chan string
	quit  chan struct{}
	once  sync.Once
}

func NewClient(config Config) *Client {
	if config.ChannelPrefixes == "" {
		config.ChannelPrefixes = "#&+!"
	}
	return &Client{
		config: config,
		nick:   config.Nick,
		queue:  make(chan string, sendQueueCapacity),
		quit:   make(chan struct{}),
	}
}

func (c *Client) Config() Config {
	return c.config
}

// Nick is the nickname currently in use, which differs from the configured
// one after a collision.
func (c *Client) Nick() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nick
}

func (c *Client) OnPrivmsg(handler PrivmsgHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Privmsg queues text for target. Lines are written with the configured
// delay between them.
func (c *Client) Privmsg(target string, text string) error {
	c.mu.Lock()
	connected := c.conn != nil
	c.mu.Unlock()
	if !connected {
		return ErrNotConnected
	}

	line := (&Message{Command: "PRIVMSG", Params: []string{target, sanitize(text)}}).String()
	select {
	case c.queue <- line:
		return nil
	default:
		return fmt.Errorf("send queue of %s is full", c.config.Address())
	}
}

// Quit says goodbye and stops Run.
func (c *Client) Quit(reason string) {
	c.once.Do(func() {
		close(c.quit)
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn != nil {
			c.write(conn, (&Message{Command: "QUIT", Params: []string{reason}}).String())
			conn.Close()
		}
	})
}

// Run connects and keeps reconnecting with exponential backoff until ctx is
// done, Quit is called or the reconnect attempts are exhausted.
func (c *Client) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-c.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	exponential := backoff.NewExponentialBackOff()
	if c.config.ReconnectDelay > 0 {
		exponential.InitialInterval = c.config.ReconnectDelay
	}
	exponential.MaxElapsedTime = 0
	var policy backoff.BackOff = exponential
	if c.config.MaxReconnectAttempts > 0 {
		policy = backoff.WithMaxRetries(exponential, uint64(c.config.MaxReconnectAttempts))
	}
	policy = backoff.WithContext(policy, ctx)

	operation := func() error {
		conn, err := c.dial(ctx)
		if err != nil {
			return err
		}

		registered, err := c.serve(ctx, conn)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if registered {
			policy.Reset()
		}
		return err
	}

	err := backoff.RetryNotify(operation, policy, func(err error, next time.Duration) {
		logrus.Warnf("irc connection to %s lost: %s, reconnecting in %s", c.config.Address(), err, next)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Serve registers on an established connection and processes it until it
// fails or ctx is done.
func (c *Client) Serve(ctx context.Context, conn net.Conn) error {
	_, err := c.serve(ctx, conn)
	return err
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: c.config.SocketTimeout}
	if c.config.Secure {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: c.config.Host}}
		return tlsDialer.DialContext(ctx, "tcp", c.config.Address())
	}
	return dialer.DialContext(ctx, "tcp", c.config.Address())
}

func (c *Client) serve(ctx context.Context, conn net.Conn) (registered bool, err error) {
	c.mu.Lock()
	c.conn = conn
	c.nick = c.config.Nick
	c.mu.Unlock()

	done := make(chan struct{})
	defer func() {
		close(done)
		conn.Close()
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
	}()
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	if c.config.Password != "" {
		c.write(conn, "PASS "+c.config.Password)
	}
	c.write(conn, "NICK "+c.config.Nick)
	c.write(conn, (&Message{Command: "USER", Params: []string{c.config.Ident, "0", "*", c.config.RealName}}).String())

	go c.drain(conn, done)

	reader := bufio.NewReader(conn)
	for {
		if c.config.SocketTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(c.config.SocketTimeout))
		}
		line, err := reader.ReadString('\n')
		if err != nil {
			return registered, errors.Wrap(err, "read failed")
		}

		msg, err := ParseMessage(line)
		if err != nil {
			logrus.Debugf("ignoring irc line: %s", err)
			continue
		}

		switch msg.Command {
		case "PING":
			c.write(conn, (&Message{Command: "PONG", Params: msg.Params}).String())
		case rplWelcome:
			registered = true
			c.welcome(conn)
		case errNicknameInUse:
			if registered {
				continue
			}
			c.mu.Lock()
			c.nick = c.nick + "_"
			nick := c.nick
			c.mu.Unlock()
			c.write(conn, "NICK "+nick)
		case "PRIVMSG":
			c.privmsg(msg)
		case "ERROR":
			return registered, fmt.Errorf("server closed the connection: %s", msg.Param(0))
		}
	}
}

func (c *Client) welcome(conn net.Conn) {
	logrus.Infof("connected to %s as %s", c.config.Address(), c.Nick())

	if c.config.NickServPassword != "" {
		c.write(conn, (&Message{
			Command: "PRIVMSG",
			Params:  []string{c.config.NickServNick, "IDENTIFY " + c.config.NickServPassword},
		}).String())
	}
	if len(c.config.Channels) != 0 {
		c.write(conn, "JOIN "+strings.Join(c.config.Channels, ","))
	}
}

func (c *Client) privmsg(msg *Message) {
	target := msg.Param(0)
	if target == "" || !strings.ContainsRune(c.config.ChannelPrefixes, rune(target[0])) {
		return
	}

	c.mu.Lock()
	handlers := append([]PrivmsgHandler(nil), c.handlers...)
	c.mu.Unlock()

	for _, h := range handlers {
		h(target, msg.Nick(), msg.Param(1))
	}
}

// drain writes queued lines, pausing MessageDelay after each one.
func (c *Client) drain(conn net.Conn, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case line := <-c.queue:
			if err := c.write(conn, line); err != nil {
				logrus.Warnf("cannot write to %s: %s", c.config.Address(), err)
				return
			}
			if c.config.MessageDelay > 0 {
				select {
				case <-done:
					return
				case <-time.After(c.config.MessageDelay):
				}
			}
		}
	}
}

func (c *Client) write(conn net.Conn, line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.config.SocketTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(c.config.SocketTimeout))
	}
	_, err := conn.Write([]byte(line + "\r\n"))
	return err
}

func sanitize(text string) string {
	return strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(text)
}
