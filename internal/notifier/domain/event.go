package domain

// Outbox event lifecycle as seen by the notifier. Events arrive published;
// a delivered event is terminal and never dispatched again.
const (
	EventStatusPending   = "pending"
	EventStatusPublished = "published"
	EventStatusDelivered = "delivered"
)

// Event types the notifier dispatches.
const (
	EventApplicationSubmitted = "application.submitted"
	EventApplicationApproved  = "application.approved"
	EventSettlementRequested  = "settlement.requested"
	EventSettlementApproved   = "settlement.approved"
)

// Event is an outbox row claimed for delivery.
type Event struct {
	EventID   string
	EventType string
	Payload   string // JSON string
}

// EventMessage is the broker message envelope.
type EventMessage struct {
	EventID     string `json:"event_id"`
	EventType   string `json:"event_type"`
	DeliveryTag uint64 `json:"-"`
}
