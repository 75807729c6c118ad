package event

import (
	"github.com/google/uuid"
)

// Payload is one accepted delivery. The type tag always agrees with the
// variant of Event because it is derived from it.
type Payload struct {
	DeliveryID uuid.UUID
	Type       Type
	Event      Event
}

func NewPayload(deliveryID uuid.UUID, e Event) *Payload {
	return &Payload{
		DeliveryID: deliveryID,
		Type:       e.Type(),
		Event:      e,
	}
}
