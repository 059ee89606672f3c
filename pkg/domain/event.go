package domain

// Event is implemented by every domain event published on the event bus.
type Event interface {
	Type() string
}
