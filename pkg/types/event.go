package types

// Event is an inbound user event. The concrete types are FollowEvent,
// LocationEvent, ImageEvent and TextEvent.
type Event interface {
	Kind() string
	Source() EventSource
}

// EventSource is common to every event.
type EventSource struct {
	UserID     string
	ReplyToken string
}

func (s EventSource) Source() EventSource { return s }

type FollowEvent struct {
	EventSource
}

type LocationEvent struct {
	EventSource
	Latitude  float64
	Longitude float64
}

type ImageEvent struct {
	EventSource
	MessageID string
}

type TextEvent struct {
	EventSource
	Text string
}

func (FollowEvent) Kind() string   { return "follow" }
func (LocationEvent) Kind() string { return "location" }
func (ImageEvent) Kind() string    { return "image" }
func (TextEvent) Kind() string     { return "text" }
