package preference

import "time"

// Signal is the direction of a feedback event.
type Signal string

const (
	SignalLike    Signal = "like"
	SignalDislike Signal = "dislike"
)

// Event is one piece of feedback about a tag.
type Event struct {
	Tag    string    `json:"tag" binding:"required,max=64"`
	Signal Signal    `json:"signal" binding:"required,oneof=like dislike"`
	At     time.Time `json:"at"`
}

// RecordRequest is the payload of the feedback endpoint.
type RecordRequest struct {
	Events []Event `json:"events" binding:"required,min=1,max=50,dive"`
}

// Config bounds the recent-event window.
type Config struct {
	// WindowSize is how many recent events are kept per user.
	WindowSize int
	// MaxTags caps each derived tag list.
	MaxTags int
}
