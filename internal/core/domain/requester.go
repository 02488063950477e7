package domain

// RequesterCount is one requester's ticket count for a home.
type RequesterCount struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RequesterBreakdown groups a home's tickets by requester. Requesters are
// ordered by descending count; ties keep discovery order. Tickets without a
// requester id are counted in TotalTickets but appear in no group.
type RequesterBreakdown struct {
	Requesters      []RequesterCount `json:"requesters"`
	TotalRequesters int              `json:"total_requesters"`
	TotalTickets    int              `json:"total_tickets"`
}
