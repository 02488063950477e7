package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/vivla-tech/vivla-middleware/internal/core/domain"
	"github.com/vivla-tech/vivla-middleware/internal/core/ports"
)

// ensureAttempts bounds the re-check loop when a shared in-flight load was
// keyed to another caller's id set.
const ensureAttempts = 3

// ReferenceCacheService holds the process-wide reference caches: user names,
// group names and custom-field option tables. Each cache is populated lazily
// from a full upstream snapshot; concurrent callers share one in-flight load
// per cache key. A failed load stores nothing, so the next access retries.
type ReferenceCacheService struct {
	fields ports.FieldMetadataProvider
	users  ports.UserLookup
	groups ports.GroupLookup
	logger *slog.Logger

	flight singleflight.Group

	mu         sync.RWMutex
	userNames  map[int64]string
	groupNames map[int64]string
	fieldDefs  map[int64]*domain.FieldDefinition
}

var _ ports.ReferenceCache = (*ReferenceCacheService)(nil)

// NewReferenceCacheService creates the cache service with empty caches.
func NewReferenceCacheService(
	fields ports.FieldMetadataProvider,
	users ports.UserLookup,
	groups ports.GroupLookup,
	logger *slog.Logger,
) *ReferenceCacheService {
	return &ReferenceCacheService{
		fields:     fields,
		users:      users,
		groups:     groups,
		logger:     logger.With("component", "reference_cache"),
		userNames:  make(map[int64]string),
		groupNames: make(map[int64]string),
		fieldDefs:  make(map[int64]*domain.FieldDefinition),
	}
}

// EnsureUsers batch-loads any of the given user ids that are not yet cached.
// Concurrent calls share a single upstream request and its error; callers
// soft-handle failures by formatting with unresolved-name sentinels.
func (c *ReferenceCacheService) EnsureUsers(ctx context.Context, ids []int64) error {
	for attempt := 0; attempt < ensureAttempts; attempt++ {
		missing := c.missingIDs(c.userNames, ids)
		if len(missing) == 0 {
			return nil
		}

		_, err, shared := c.flight.Do(string(domain.CacheUsers), func() (interface{}, error) {
			records, err := c.users.GetUsersByIDs(ctx, missing)
			if err != nil {
				return nil, err
			}
			c.mu.Lock()
			for _, r := range records {
				c.userNames[r.ID] = r.Name
			}
			c.mu.Unlock()
			return nil, nil
		})
		if err != nil {
			return err
		}
		if !shared {
			// Our own batch ran. Ids the upstream omitted (deleted
			// users) stay unresolved rather than looped on.
			return nil
		}
		// A concurrent caller's batch ran; re-check what is still missing.
	}
	return nil
}

// EnsureGroups batch-loads any of the given group ids that are not yet cached.
func (c *ReferenceCacheService) EnsureGroups(ctx context.Context, ids []int64) error {
	for attempt := 0; attempt < ensureAttempts; attempt++ {
		missing := c.missingIDs(c.groupNames, ids)
		if len(missing) == 0 {
			return nil
		}

		_, err, shared := c.flight.Do(string(domain.CacheGroups), func() (interface{}, error) {
			records, err := c.groups.GetGroupsByIDs(ctx, missing)
			if err != nil {
				return nil, err
			}
			c.mu.Lock()
			for _, r := range records {
				c.groupNames[r.ID] = r.Name
			}
			c.mu.Unlock()
			return nil, nil
		})
		if err != nil {
			return err
		}
		if !shared {
			return nil
		}
	}
	return nil
}

// UserName reads the cached display name for a user id without triggering a
// load.
func (c *ReferenceCacheService) UserName(id int64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.userNames[id]
	return name, ok
}

// GroupName reads the cached display name for a group id.
func (c *ReferenceCacheService) GroupName(id int64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.groupNames[id]
	return name, ok
}

// StoreUserName records a name discovered inline in ticket channel metadata.
// It never triggers a load.
func (c *ReferenceCacheService) StoreUserName(id int64, name string) {
	if id == 0 || name == "" {
		return
	}
	c.mu.Lock()
	c.userNames[id] = name
	c.mu.Unlock()
}

// WarmFields preloads every custom-field definition in one listing call, so
// the first aggregation does not pay one fetch per tracked field. Fields
// missing from the snapshot are still lazy-loaded individually, and a failed
// preload stores nothing.
func (c *ReferenceCacheService) WarmFields(ctx context.Context) error {
	_, err, _ := c.flight.Do("fields:all", func() (interface{}, error) {
		defs, err := c.fields.ListTicketFields(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		for i := range defs {
			def := defs[i]
			c.fieldDefs[def.ID] = &def
		}
		c.mu.Unlock()
		return nil, nil
	})
	return err
}

// FieldOptionName resolves an enum code through the field's option table. The
// table is loaded on first access; unresolvable codes and load failures fall
// back to the raw value.
func (c *ReferenceCacheService) FieldOptionName(ctx context.Context, fieldID int64, raw string) string {
	if raw == "" {
		return raw
	}
	def, err := c.fieldDefinition(ctx, fieldID)
	if err != nil {
		c.logger.Warn("field option table unavailable, using raw value",
			"field_id", fieldID, "error", err)
		return raw
	}
	return def.OptionName(raw)
}

// FieldOptionNames returns the display names of the field's configured option
// set, in upstream order. Load errors are surfaced to the caller.
func (c *ReferenceCacheService) FieldOptionNames(ctx context.Context, fieldID int64) ([]string, error) {
	def, err := c.fieldDefinition(ctx, fieldID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(def.Options))
	for _, o := range def.Options {
		names = append(names, o.Name)
	}
	return names, nil
}

// Invalidate resets the given caches to uninitialized.
func (c *ReferenceCacheService) Invalidate(kinds ...domain.CacheKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, kind := range kinds {
		switch kind {
		case domain.CacheUsers:
			c.userNames = make(map[int64]string)
		case domain.CacheGroups:
			c.groupNames = make(map[int64]string)
		case domain.CacheFields:
			c.fieldDefs = make(map[int64]*domain.FieldDefinition)
		}
	}
}

// fieldDefinition returns the cached definition for a field, fetching it once
// on first access. Nothing is stored on failure.
func (c *ReferenceCacheService) fieldDefinition(ctx context.Context, fieldID int64) (*domain.FieldDefinition, error) {
	c.mu.RLock()
	def, ok := c.fieldDefs[fieldID]
	c.mu.RUnlock()
	if ok {
		return def, nil
	}

	v, err, _ := c.flight.Do(fmt.Sprintf("field:%d", fieldID), func() (interface{}, error) {
		loaded, err := c.fields.GetTicketField(ctx, fieldID)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.fieldDefs[fieldID] = loaded
		c.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.FieldDefinition), nil
}

// missingIDs returns the deduplicated subset of ids absent from the cache.
func (c *ReferenceCacheService) missingIDs(cache map[int64]string, ids []int64) []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := make(map[int64]struct{}, len(ids))
	var missing []int64
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := cache[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
