package domain

// MaxLastTickets bounds the per-home list of most recently updated tickets.
const MaxLastTickets = 10

// UnknownHome is the bucket for tickets whose home field is not set.
const UnknownHome = "unknown"

// HomeStats aggregates ticket counts for one home. The invariant
// TotalTickets == sum of the six status counters + tickets with an
// unrecognized status holds at all times.
type HomeStats struct {
	Name           string            `json:"name"`
	TotalTickets   int               `json:"total_tickets"`
	TicketsNew     int               `json:"tickets_new"`
	TicketsOpen    int               `json:"tickets_open"`
	TicketsPending int               `json:"tickets_pending"`
	TicketsHold    int               `json:"tickets_hold"`
	TicketsSolved  int               `json:"tickets_solved"`
	TicketsClosed  int               `json:"tickets_closed"`
	LastTickets    []FormattedTicket `json:"last_tickets"`
}

// NewHomeStats returns an empty aggregate for the given home.
func NewHomeStats(name string) *HomeStats {
	return &HomeStats{
		Name:        name,
		LastTickets: []FormattedTicket{},
	}
}

// Count increments the total and, when the status is one of the six known
// values, the matching status counter. It reports whether the status was
// bucketed; unrecognized statuses only raise the total.
func (h *HomeStats) Count(status TicketStatus) bool {
	h.TotalTickets++
	switch status {
	case StatusNew:
		h.TicketsNew++
	case StatusOpen:
		h.TicketsOpen++
	case StatusPending:
		h.TicketsPending++
	case StatusHold:
		h.TicketsHold++
	case StatusSolved:
		h.TicketsSolved++
	case StatusClosed:
		h.TicketsClosed++
	default:
		return false
	}
	return true
}

// StatusSum returns the sum of the six per-status counters.
func (h *HomeStats) StatusSum() int {
	return h.TicketsNew + h.TicketsOpen + h.TicketsPending +
		h.TicketsHold + h.TicketsSolved + h.TicketsClosed
}

// HomeFailure records a home that was skipped during an aggregation because
// one of its page fetches failed.
type HomeFailure struct {
	Home  string `json:"home"`
	Error string `json:"error"`
}

// HomeStatsReport is the full result of a stats aggregation: the per-home
// aggregates plus the homes that were dropped along the way. Top-level
// success with a populated Failures list is the expected degraded mode.
type HomeStatsReport struct {
	Homes    map[string]*HomeStats `json:"homes"`
	Failures []HomeFailure         `json:"failures"`
}
