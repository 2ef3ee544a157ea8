package infra

import (
	"time"

	"github.com/rathamcloud/rcsetup/internal/domain"
)

// RealSleeper implements domain.Sleeper with time.Sleep.
type RealSleeper struct{}

// NewSleeper creates the real sleeper.
func NewSleeper() domain.Sleeper {
	return &RealSleeper{}
}

func (s *RealSleeper) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Ensure RealSleeper implements domain.Sleeper.
var _ domain.Sleeper = (*RealSleeper)(nil)
