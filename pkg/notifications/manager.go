package notifications

import (
	"sync"

	"github.com/gimlet-io/hookcast/pkg/event"
	"github.com/gimlet-io/hookcast/pkg/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type Manager interface {
	// HandlePayload renders the payload for every provider and returns once
	// all of them finished sending.
	HandlePayload(payload *event.Payload)
	// SendMessage sends msg to every channel of every provider.
	SendMessage(msg *message.Message)
	AddProvider(provider Provider)
}

// Provider is a chat network the manager fans out to.
type Provider interface {
	Name() string
	// HandlePayload sends the rendered payload to the subscribed channels.
	// sent is false when no channel subscribed or no builder is registered
	// for the event type.
	HandlePayload(payload *event.Payload) (sent bool, err error)
	SendMessage(msg *message.Message) error
}

type ManagerImpl struct {
	provider []Provider
	counter  *prometheus.CounterVec
}

type DummyManagerImpl struct {
}

// NewManager counts deliveries in counter, labeled by provider and outcome,
// when it is not nil.
func NewManager(counter *prometheus.CounterVec) *ManagerImpl {
	return &ManagerImpl{
		provider: []Provider{},
		counter:  counter,
	}
}

func NewDummyManager() *DummyManagerImpl {
	return &DummyManagerImpl{}
}

func (m *DummyManagerImpl) HandlePayload(payload *event.Payload) {
}

func (m *DummyManagerImpl) SendMessage(msg *message.Message) {
}

func (m *DummyManagerImpl) AddProvider(provider Provider) {
}

// AddProvider must not be called concurrently with HandlePayload or SendMessage.
func (m *ManagerImpl) AddProvider(provider Provider) {
	m.provider = append(m.provider, provider)
}

func (m *ManagerImpl) HandlePayload(payload *event.Payload) {
	m.fanOut(func(p Provider) {
		sent, err := p.HandlePayload(payload)
		if err != nil {
			logrus.WithField("provider", p.Name()).
				WithField("delivery", payload.DeliveryID).
				Warnf("cannot send notification: %s ", err)
			m.count(p, "failed")
			return
		}
		if !sent {
			m.count(p, "skipped")
			return
		}
		m.count(p, "sent")
	})
}

func (m *ManagerImpl) SendMessage(msg *message.Message) {
	if msg == nil {
		return
	}
	m.fanOut(func(p Provider) {
		if err := p.SendMessage(msg); err != nil {
			logrus.WithField("provider", p.Name()).Warnf("cannot send message: %s ", err)
			m.count(p, "failed")
			return
		}
		m.count(p, "sent")
	})
}

func (m *ManagerImpl) fanOut(fn func(p Provider)) {
	var wg sync.WaitGroup
	for _, p := range m.provider {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("provider", p.Name()).Errorf("notification provider panicked: %v", r)
					m.count(p, "failed")
				}
			}()
			fn(p)
		}(p)
	}
	wg.Wait()
}

func (m *ManagerImpl) count(p Provider, outcome string) {
	if m.counter != nil {
		m.counter.WithLabelValues(p.Name(), outcome).Inc()
	}
}
