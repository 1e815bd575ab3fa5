package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

var clock = clockwork.NewRealClock()

// SetClock подменяет часы (для тестов). nil возвращает реальные часы.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now возвращает текущее время в UTC
func Now() time.Time {
	return clock.Now().UTC()
}
