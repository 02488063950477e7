package services

import (
	"context"
	"fmt"

	"github.com/vivla-tech/vivla-middleware/internal/core/domain"
	"github.com/vivla-tech/vivla-middleware/internal/core/ports"
)

// Sentinels used when an id cannot be resolved to a display name.
const (
	UnassignedName  = "Unassigned"
	NoGroupAssigned = "No group assigned"
)

// TrackedFields holds the helpdesk custom-field ids this deployment tracks.
// The ids are opaque and account-specific, so they come from configuration.
type TrackedFields struct {
	Home       int64
	Team       int64
	Area       int64
	Category   int64
	FixStatus  int64
	Payer      int64
	Approvals  int64
	CausalCode int64
}

// TicketFormatter maps a raw ticket into the normalized dashboard shape,
// resolving every opaque id through the reference caches. It reads through
// the caches but never triggers a batch preload; callers that want resolved
// user and group names call EnsureUsers/EnsureGroups first.
type TicketFormatter struct {
	cache  ports.ReferenceCache
	fields TrackedFields
}

// NewTicketFormatter creates a formatter bound to the tracked field ids.
func NewTicketFormatter(cache ports.ReferenceCache, fields TrackedFields) *TicketFormatter {
	return &TicketFormatter{cache: cache, fields: fields}
}

// Format normalizes one raw ticket.
func (f *TicketFormatter) Format(ctx context.Context, t domain.Ticket) domain.FormattedTicket {
	out := domain.FormattedTicket{
		ID:          t.ID,
		Subject:     t.Subject,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		RequesterID: t.RequesterID,
		Tags:        t.Tags,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}

	out.RequesterName = f.requesterName(t)
	out.AssigneeName = f.userDisplayName(t.AssigneeID)
	out.GroupName = f.groupDisplayName(t.GroupID)

	out.FollowerNames = make([]string, 0, len(t.FollowerIDs))
	for _, id := range t.FollowerIDs {
		if name, ok := f.cache.UserName(id); ok {
			out.FollowerNames = append(out.FollowerNames, name)
		} else {
			out.FollowerNames = append(out.FollowerNames, fmt.Sprintf("ID: %d", id))
		}
	}

	out.Home = f.HomeName(ctx, t)
	out.Team = f.trackedFieldName(ctx, f.fields.Team, t)
	out.Area = f.trackedFieldName(ctx, f.fields.Area, t)
	out.Category = f.trackedFieldName(ctx, f.fields.Category, t)
	out.FixStatus = f.trackedFieldName(ctx, f.fields.FixStatus, t)
	out.Payer = f.trackedFieldName(ctx, f.fields.Payer, t)
	out.Approvals = f.trackedFieldName(ctx, f.fields.Approvals, t)
	out.CausalCode = f.trackedFieldName(ctx, f.fields.CausalCode, t)

	return out
}

// HomeName resolves the home a ticket belongs to, defaulting to the literal
// "unknown" bucket when the home field is not set.
func (f *TicketFormatter) HomeName(ctx context.Context, t domain.Ticket) string {
	value := t.CustomFieldValue(f.fields.Home)
	if value.IsAbsent() {
		return domain.UnknownHome
	}
	return f.cache.FieldOptionName(ctx, f.fields.Home, value.Raw())
}

// requesterName prefers the inline name embedded in the ticket's channel
// metadata, then the user cache, then the sentinel. The inline name, when
// present, is written back to the cache so later tickets resolve without a
// lookup.
func (f *TicketFormatter) requesterName(t domain.Ticket) string {
	if t.Via != nil && t.Via.Source.From.Name != "" {
		if t.RequesterID != nil {
			f.cache.StoreUserName(*t.RequesterID, t.Via.Source.From.Name)
		}
		return t.Via.Source.From.Name
	}
	return f.userDisplayName(t.RequesterID)
}

func (f *TicketFormatter) userDisplayName(id *int64) string {
	if id == nil {
		return UnassignedName
	}
	if name, ok := f.cache.UserName(*id); ok {
		return name
	}
	return UnassignedName
}

// groupDisplayName falls back to a provisional "Group ID: <id>" label when
// the id exists but its name is not yet resolvable.
func (f *TicketFormatter) groupDisplayName(id *int64) string {
	if id == nil {
		return NoGroupAssigned
	}
	if name, ok := f.cache.GroupName(*id); ok {
		return name
	}
	return fmt.Sprintf("Group ID: %d", *id)
}

// trackedFieldName resolves one tracked custom field to its display label,
// passing raw values through unchanged when no option matches.
func (f *TicketFormatter) trackedFieldName(ctx context.Context, fieldID int64, t domain.Ticket) string {
	if fieldID == 0 {
		return ""
	}
	value := t.CustomFieldValue(fieldID)
	if value.IsAbsent() {
		return ""
	}
	return f.cache.FieldOptionName(ctx, fieldID, value.Raw())
}
