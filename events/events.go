// Package events publishes and consumes application events over Redis
// Streams. Event type and stream names belong to the application; this
// package only carries the envelope.
package events

import "time"

// Event is the envelope written to a stream.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}
