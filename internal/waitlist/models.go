package waitlist

import "time"

// Subscriber is one address asking to be notified at launch.
type Subscriber struct {
	ID        string
	Email     string
	CreatedAt time.Time
}
