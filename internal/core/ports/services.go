package ports

import (
	"context"

	"github.com/vivla-tech/vivla-middleware/internal/core/domain"
)

// ReferenceCache is the port for the process-wide reference-data caches.
// Every cache is either wholly uninitialized or populated from a full
// upstream snapshot; concurrent callers during initialization share a single
// in-flight load. A failed load leaves the cache uninitialized so the next
// access retries.
type ReferenceCache interface {
	// EnsureUsers batch-loads any of the given user ids that are not yet
	// cached. The caller that triggers the load observes its error.
	EnsureUsers(ctx context.Context, ids []int64) error
	// EnsureGroups batch-loads any of the given group ids not yet cached.
	EnsureGroups(ctx context.Context, ids []int64) error

	// UserName reads the cached display name for a user id. It never
	// triggers a load.
	UserName(id int64) (string, bool)
	// GroupName reads the cached display name for a group id.
	GroupName(id int64) (string, bool)
	// StoreUserName opportunistically records a name discovered inline in
	// ticket metadata.
	StoreUserName(id int64, name string)

	// FieldOptionName resolves an enum code through the field's option
	// table, loading the table on first access. Unresolvable codes and
	// load failures fall back to the raw value.
	FieldOptionName(ctx context.Context, fieldID int64, raw string) string
	// FieldOptionNames returns the display names of the field's full
	// option set. The initiating caller observes load errors.
	FieldOptionNames(ctx context.Context, fieldID int64) ([]string, error)

	// Invalidate resets the given caches to uninitialized.
	Invalidate(kinds ...domain.CacheKind)
}

// RequesterParams is the input for a per-home requester aggregation.
// FromDate, when set, must match YYYY-MM-DD and bounds ticket creation time.
type RequesterParams struct {
	Home     string
	FromDate string
}

// HomeStatsService aggregates ticket statistics per home.
type HomeStatsService interface {
	AggregateHomeStats(ctx context.Context) (*domain.HomeStatsReport, error)
}

// RequesterService groups a home's tickets by requester.
type RequesterService interface {
	AggregateRequesters(ctx context.Context, params RequesterParams) (*domain.RequesterBreakdown, error)
}

// HouseService serves house records with reconciled helpdesk names.
type HouseService interface {
	ListHouses(ctx context.Context) ([]domain.House, error)
	GetHouseByHID(ctx context.Context, hid string) (*domain.House, error)
	FindExternalName(ctx context.Context, houseName string) (string, error)
}

// TicketService lists formatted tickets page by page.
type TicketService interface {
	ListTickets(ctx context.Context, page int) ([]domain.FormattedTicket, bool, error)
}
