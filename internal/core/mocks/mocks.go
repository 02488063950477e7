package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vivla-tech/vivla-middleware/internal/core/domain"
	"github.com/vivla-tech/vivla-middleware/internal/core/ports"
)

// MockTicketSearcher is a mock implementation of ports.TicketSearcher
type MockTicketSearcher struct {
	mock.Mock
}

func NewMockTicketSearcher() *MockTicketSearcher {
	return &MockTicketSearcher{}
}

func (m *MockTicketSearcher) Search(ctx context.Context, params ports.TicketSearchParams) (*ports.TicketSearchResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.TicketSearchResult), args.Error(1)
}

func (m *MockTicketSearcher) ListTickets(ctx context.Context, page, perPage int) (*ports.TicketListResult, error) {
	args := m.Called(ctx, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.TicketListResult), args.Error(1)
}

// MockFieldMetadataProvider is a mock implementation of ports.FieldMetadataProvider
type MockFieldMetadataProvider struct {
	mock.Mock
}

func NewMockFieldMetadataProvider() *MockFieldMetadataProvider {
	return &MockFieldMetadataProvider{}
}

func (m *MockFieldMetadataProvider) GetTicketField(ctx context.Context, fieldID int64) (*domain.FieldDefinition, error) {
	args := m.Called(ctx, fieldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FieldDefinition), args.Error(1)
}

func (m *MockFieldMetadataProvider) ListTicketFields(ctx context.Context) ([]domain.FieldDefinition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FieldDefinition), args.Error(1)
}

// MockUserLookup is a mock implementation of ports.UserLookup
type MockUserLookup struct {
	mock.Mock
}

func NewMockUserLookup() *MockUserLookup {
	return &MockUserLookup{}
}

func (m *MockUserLookup) GetUsersByIDs(ctx context.Context, ids []int64) ([]domain.UserRecord, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserRecord), args.Error(1)
}

// MockGroupLookup is a mock implementation of ports.GroupLookup
type MockGroupLookup struct {
	mock.Mock
}

func NewMockGroupLookup() *MockGroupLookup {
	return &MockGroupLookup{}
}

func (m *MockGroupLookup) GetGroupsByIDs(ctx context.Context, ids []int64) ([]domain.GroupRecord, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GroupRecord), args.Error(1)
}

// MockHouseRepository is a mock implementation of ports.HouseRepository
type MockHouseRepository struct {
	mock.Mock
}

func NewMockHouseRepository() *MockHouseRepository {
	return &MockHouseRepository{}
}

func (m *MockHouseRepository) List(ctx context.Context) ([]domain.House, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.House), args.Error(1)
}

func (m *MockHouseRepository) GetByHID(ctx context.Context, hid string) (*domain.House, error) {
	args := m.Called(ctx, hid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.House), args.Error(1)
}

// MockHomeStatsService is a mock implementation of ports.HomeStatsService
type MockHomeStatsService struct {
	mock.Mock
}

func NewMockHomeStatsService() *MockHomeStatsService {
	return &MockHomeStatsService{}
}

func (m *MockHomeStatsService) AggregateHomeStats(ctx context.Context) (*domain.HomeStatsReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HomeStatsReport), args.Error(1)
}

// MockRequesterService is a mock implementation of ports.RequesterService
type MockRequesterService struct {
	mock.Mock
}

func NewMockRequesterService() *MockRequesterService {
	return &MockRequesterService{}
}

func (m *MockRequesterService) AggregateRequesters(ctx context.Context, params ports.RequesterParams) (*domain.RequesterBreakdown, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RequesterBreakdown), args.Error(1)
}

// MockHouseService is a mock implementation of ports.HouseService
type MockHouseService struct {
	mock.Mock
}

func NewMockHouseService() *MockHouseService {
	return &MockHouseService{}
}

func (m *MockHouseService) ListHouses(ctx context.Context) ([]domain.House, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.House), args.Error(1)
}

func (m *MockHouseService) GetHouseByHID(ctx context.Context, hid string) (*domain.House, error) {
	args := m.Called(ctx, hid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.House), args.Error(1)
}

func (m *MockHouseService) FindExternalName(ctx context.Context, houseName string) (string, error) {
	args := m.Called(ctx, houseName)
	return args.String(0), args.Error(1)
}

// MockTicketService is a mock implementation of ports.TicketService
type MockTicketService struct {
	mock.Mock
}

func NewMockTicketService() *MockTicketService {
	return &MockTicketService{}
}

func (m *MockTicketService) ListTickets(ctx context.Context, page int) ([]domain.FormattedTicket, bool, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]domain.FormattedTicket), args.Bool(1), args.Error(2)
}
