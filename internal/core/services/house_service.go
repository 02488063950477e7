package services

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/vivla-tech/vivla-middleware/internal/core/domain"
	apperrors "github.com/vivla-tech/vivla-middleware/internal/core/errors"
	"github.com/vivla-tech/vivla-middleware/internal/core/matching"
	"github.com/vivla-tech/vivla-middleware/internal/core/ports"
)

// HouseService serves house records from the document store and reconciles
// each house name with the helpdesk's configured home-field values. The
// candidate list is the field's full option set, fetched once through the
// reference cache, never derived from scanning tickets.
type HouseService struct {
	houses      ports.HouseRepository
	cache       ports.ReferenceCache
	homeFieldID int64
	logger      *slog.Logger

	flight singleflight.Group

	mu     sync.RWMutex
	loaded bool
	list   []domain.House
}

var _ ports.HouseService = (*HouseService)(nil)

// NewHouseService creates the service.
func NewHouseService(
	houses ports.HouseRepository,
	cache ports.ReferenceCache,
	homeFieldID int64,
	logger *slog.Logger,
) *HouseService {
	return &HouseService{
		houses:      houses,
		cache:       cache,
		homeFieldID: homeFieldID,
		logger:      logger.With("component", "houses"),
	}
}

// ListHouses returns every house with its reconciled external name. The list
// is loaded once per process; concurrent first calls share one load. A failure
// anywhere in the load, including the name reconciliation, stores nothing so
// the next call retries against a recovered upstream.
func (s *HouseService) ListHouses(ctx context.Context) ([]domain.House, error) {
	s.mu.RLock()
	if s.loaded {
		list := s.list
		s.mu.RUnlock()
		return list, nil
	}
	s.mu.RUnlock()

	v, err, _ := s.flight.Do(string(domain.CacheHouses), func() (interface{}, error) {
		list, err := s.houses.List(ctx)
		if err != nil {
			return nil, apperrors.NewUpstreamError("list houses", err)
		}
		for i := range list {
			name, err := s.FindExternalName(ctx, list[i].Name)
			if err != nil {
				// Caching a half-reconciled snapshot would pin empty
				// external names for the process lifetime.
				return nil, apperrors.NewUpstreamError("reconcile house names", err)
			}
			list[i].ExternalName = name
		}
		s.mu.Lock()
		s.list = list
		s.loaded = true
		s.mu.Unlock()
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.House), nil
}

// GetHouseByHID returns one house by its external id, with the reconciled
// helpdesk name. Unknown ids surface as a typed not-found.
func (s *HouseService) GetHouseByHID(ctx context.Context, hid string) (*domain.House, error) {
	list, err := s.ListHouses(ctx)
	if err == nil {
		for i := range list {
			if list[i].HID == hid {
				house := list[i]
				return &house, nil
			}
		}
	}

	// Cache miss or cache unavailable: ask the store directly so a house
	// created after the snapshot is still reachable.
	house, err := s.houses.GetByHID(ctx, hid)
	if err != nil {
		return nil, err
	}
	if name, err := s.FindExternalName(ctx, house.Name); err == nil {
		house.ExternalName = name
	}
	return house, nil
}

// FindExternalName fuzzy-matches a house name against the helpdesk's
// configured home names and returns the best match, or empty when no scoring
// rule applies.
func (s *HouseService) FindExternalName(ctx context.Context, houseName string) (string, error) {
	candidates, err := s.cache.FieldOptionNames(ctx, s.homeFieldID)
	if err != nil {
		return "", err
	}

	best, score := matching.BestHouseMatch(houseName, candidates)
	if score == 0 {
		s.logger.Info("no external name match for house",
			"house", houseName,
			"nearest", matching.NearestByEditDistance(houseName, candidates))
		return "", nil
	}
	return best, nil
}

// Invalidate resets the house snapshot so the next call reloads it.
func (s *HouseService) Invalidate() {
	s.mu.Lock()
	s.loaded = false
	s.list = nil
	s.mu.Unlock()
}
