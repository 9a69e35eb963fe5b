package meeting

import (
	"time"

	"droply/models"
)

// Phase is the coarse position of "now" relative to a session window.
type Phase string

const (
	PhaseUpcoming Phase = "upcoming"
	PhaseJoinable Phase = "joinable" // inside the early-join window or ongoing
	PhaseEnded    Phase = "ended"
)

// DefaultAllowance is how long before the scheduled start joining opens.
const DefaultAllowance = 5 * time.Minute

// HostAllowance is the wider window granted to providers so they can set
// up before the client arrives.
const HostAllowance = 15 * time.Minute

// Access is the gate's verdict for one participant at one instant.
type Access struct {
	CanJoin bool  `json:"canJoin"`
	Phase   Phase `json:"phase"`
	Ongoing bool  `json:"ongoing"`
}

// Gate decides whether a meeting is joinable at a given instant. All
// comparisons happen on UTC instants: bookings are stored in UTC and the
// caller's clock is normalized before comparing, so a naive-versus-aware
// mismatch cannot occur.
type Gate struct {
	Allowance time.Duration
}

// NewGate returns a gate with the given early-join allowance, falling back
// to DefaultAllowance when non-positive.
func NewGate(allowance time.Duration) Gate {
	if allowance <= 0 {
		allowance = DefaultAllowance
	}
	return Gate{Allowance: allowance}
}

// Classify places now relative to [start, end] with the early-join window.
// Sweeping now forward, the verdict moves upcoming -> joinable -> ended,
// and CanJoin flips false -> true -> false exactly once each.
func (g Gate) Classify(start, end, now time.Time) Access {
	start, end, now = start.UTC(), end.UTC(), now.UTC()

	opens := start.Add(-g.Allowance)
	canJoin := !now.Before(opens) && !now.After(end)
	ongoing := !now.Before(start) && !now.After(end)

	var phase Phase
	switch {
	case now.After(end):
		phase = PhaseEnded
	case canJoin:
		phase = PhaseJoinable
	default:
		phase = PhaseUpcoming
	}

	return Access{CanJoin: canJoin, Phase: phase, Ongoing: ongoing}
}

// ClassifyBooking applies the gate to a booking's session window.
func (g Gate) ClassifyBooking(b *models.Booking, now time.Time) Access {
	return g.Classify(b.Start, b.End, now)
}
