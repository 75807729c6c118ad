package notifications

import (
	"errors"
	"sync"
	"testing"

	"github.com/gimlet-io/hookcast/pkg/event"
	"github.com/gimlet-io/hookcast/pkg/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	name string
	sent bool
	err  error

	mu       sync.Mutex
	payloads []*event.Payload
	messages []*message.Message
}

func (p *fakeProvider) Name() string {
	return p.name
}

func (p *fakeProvider) HandlePayload(payload *event.Payload) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return p.sent, p.err
}

func (p *fakeProvider) SendMessage(msg *message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return p.err
}

type panickingProvider struct{}

func (panickingProvider) Name() string { return "broken" }
func (panickingProvider) HandlePayload(*event.Payload) (bool, error) {
	panic("nil map")
}
func (panickingProvider) SendMessage(*message.Message) error {
	panic("nil map")
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_notifications_total",
	}, []string{"provider", "outcome"})
}

func TestEveryProviderReceivesThePayload(t *testing.T) {
	counter := newCounter()
	m := NewManager(counter)

	discord := &fakeProvider{name: "discord", sent: true}
	irc := &fakeProvider{name: "irc", sent: true}
	m.AddProvider(discord)
	m.AddProvider(irc)

	p := payload(t, event.TypePush, pushBody)
	m.HandlePayload(p)

	assert.Equal(t, []*event.Payload{p}, discord.payloads)
	assert.Equal(t, []*event.Payload{p}, irc.payloads)
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("discord", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("irc", "sent")))
}

func TestFailingProviderDoesNotAffectOthers(t *testing.T) {
	counter := newCounter()
	m := NewManager(counter)

	failing := &fakeProvider{name: "discord", sent: true, err: errors.New("rate limited")}
	healthy := &fakeProvider{name: "irc", sent: true}
	m.AddProvider(failing)
	m.AddProvider(panickingProvider{})
	m.AddProvider(healthy)

	m.HandlePayload(payload(t, event.TypePush, pushBody))

	assert.Len(t, healthy.payloads, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("discord", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("broken", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("irc", "sent")))
}

func TestUnsubscribedPayloadsAreCountedAsSkipped(t *testing.T) {
	counter := newCounter()
	m := NewManager(counter)
	m.AddProvider(&fakeProvider{name: "discord"})

	m.HandlePayload(payload(t, event.TypeGollum, gollumBody))
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("discord", "skipped")))
}

func TestSendMessage(t *testing.T) {
	m := NewManager(nil)
	provider := &fakeProvider{name: "discord"}
	m.AddProvider(provider)

	msg := message.Text("hello")
	m.SendMessage(msg)
	m.SendMessage(nil)

	assert.Equal(t, []*message.Message{msg}, provider.messages)
}

func TestDummyManager(t *testing.T) {
	m := NewDummyManager()
	m.AddProvider(&fakeProvider{name: "discord"})
	m.HandlePayload(payload(t, event.TypePush, pushBody))
	m.SendMessage(message.Text("hello"))
}
