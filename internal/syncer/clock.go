package syncer

import "time"

// Clock supplies "now" to the controller so tests never touch the system
// clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the production clock.
func SystemClock() Clock { return systemClock{} }
