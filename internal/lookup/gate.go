package lookup

import (
	"time"

	"golang.org/x/time/rate"
)

// Gate enforces the minimum spacing between calls to the external
// provider. One Gate serves the whole process: the rate budget is
// shared, not per-query. The clock and sleeper are injectable so tests
// can drive it deterministically.
type Gate struct {
	lim   *rate.Limiter
	now   func() time.Time
	sleep func(time.Duration)
}

func NewGate(spacing time.Duration) *Gate {
	return &Gate{
		lim:   rate.NewLimiter(rate.Every(spacing), 1),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Wait blocks until the spacing since the previous call is satisfied.
// The suspension is bounded by the configured spacing; it is a
// throttle, not a cancellable wait.
func (g *Gate) Wait() {
	now := g.now()
	r := g.lim.ReserveN(now, 1)
	if d := r.DelayFrom(now); d > 0 {
		g.sleep(d)
	}
}
