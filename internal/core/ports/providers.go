package ports

import (
	"context"

	"github.com/vivla-tech/vivla-middleware/internal/core/domain"
)

// TicketSearchParams describes one page of a helpdesk search. The query uses
// the upstream's conjunctive, space-separated filter syntax (custom-field id,
// creation-date lower bound, status code).
type TicketSearchParams struct {
	Query     string
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string
}

// TicketSearchResult is one page of search results. HasMore mirrors the
// upstream's next-page indicator.
type TicketSearchResult struct {
	Results []domain.Ticket
	Count   int
	HasMore bool
}

// TicketListResult is one page of a plain ticket listing.
type TicketListResult struct {
	Tickets []domain.Ticket
	HasMore bool
}

// TicketSearcher is the port for the helpdesk's ticket search and listing
// endpoints.
type TicketSearcher interface {
	Search(ctx context.Context, params TicketSearchParams) (*TicketSearchResult, error)
	ListTickets(ctx context.Context, page, perPage int) (*TicketListResult, error)
}

// FieldMetadataProvider is the port for helpdesk custom-field metadata,
// including dropdown option tables.
type FieldMetadataProvider interface {
	GetTicketField(ctx context.Context, fieldID int64) (*domain.FieldDefinition, error)
	ListTicketFields(ctx context.Context) ([]domain.FieldDefinition, error)
}

// UserLookup is the port for batch user lookups by id.
type UserLookup interface {
	GetUsersByIDs(ctx context.Context, ids []int64) ([]domain.UserRecord, error)
}

// GroupLookup is the port for batch group lookups by id.
type GroupLookup interface {
	GetGroupsByIDs(ctx context.Context, ids []int64) ([]domain.GroupRecord, error)
}

// HouseRepository is the port for the house document store.
type HouseRepository interface {
	List(ctx context.Context) ([]domain.House, error)
	GetByHID(ctx context.Context, hid string) (*domain.House, error)
}
