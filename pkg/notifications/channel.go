package notifications

import (
	"fmt"

	"github.com/gimlet-io/hookcast/pkg/event"
	"github.com/sirupsen/logrus"
)

// Channel is a chat destination and the event types it subscribed to. An
// empty Events list subscribes to everything.
type Channel struct {
	ID     string
	Events []event.Type
}

func (c Channel) Accepts(t event.Type) bool {
	if len(c.Events) == 0 {
		return true
	}
	for _, e := range c.Events {
		if e == t {
			return true
		}
	}
	return false
}

func accepting(channels []Channel, t event.Type) []Channel {
	var result []Channel
	for _, ch := range channels {
		if ch.Accepts(t) {
			result = append(result, ch)
		}
	}
	return result
}

// deliver calls send for every channel and keeps going past failures.
func deliver(provider string, channels []Channel, send func(ch Channel) error) error {
	failed := 0
	for _, ch := range channels {
		if err := send(ch); err != nil {
			failed++
			logrus.WithField("provider", provider).
				WithField("channel", ch.ID).
				Warnf("cannot send notification: %s", err)
		}
	}
	if failed != 0 {
		return fmt.Errorf("%d of %d %s channels failed", failed, len(channels), provider)
	}
	return nil
}
