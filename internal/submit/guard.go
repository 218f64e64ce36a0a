package submit

import "time"

// DefaultCooldown absorbs accidental double-activation of the submit action.
const DefaultCooldown = 2 * time.Second

// Guard debounces repeated submission triggers from one producer session.
// It is owned by the session and never shared across hosts or processes.
type Guard struct {
	cooldown time.Duration
	until    time.Time
}

// NewGuard returns a guard with the given cooldown; zero or negative means
// DefaultCooldown.
func NewGuard(cooldown time.Duration) *Guard {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Guard{cooldown: cooldown}
}

// Allow reports whether a submission may start at now.
func (g *Guard) Allow(now time.Time) bool {
	return !now.Before(g.until)
}

// Record notes a successful submission, starting the cooldown window.
func (g *Guard) Record(now time.Time) {
	g.until = now.Add(g.cooldown)
}

// Remaining returns how long until the next submission is allowed.
func (g *Guard) Remaining(now time.Time) time.Duration {
	if remaining := g.until.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}
