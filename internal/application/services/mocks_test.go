package services_test

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dcastano/turnero/internal/domain/entities"
)

// MockStationRepository for testing
type MockStationRepository struct {
	mock.Mock
}

func (m *MockStationRepository) GetByID(ctx context.Context, id string) (*entities.Station, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Station), args.Error(1)
}

func (m *MockStationRepository) ListActive(ctx context.Context) ([]*entities.Station, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Station), args.Error(1)
}

// MockServiceRepository for testing
type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Service), args.Error(1)
}

// MockScheduleRepository for testing
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) ListForDate(ctx context.Context, stationID *string, date time.Time) ([]*entities.ScheduleEntry, error) {
	args := m.Called(ctx, stationID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ScheduleEntry), args.Error(1)
}

// MockReservationRepository for testing
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, reservation *entities.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id string) (*entities.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetByCode(ctx context.Context, code string) (*entities.Reservation, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Update(ctx context.Context, reservation *entities.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) ListByStationAndRange(ctx context.Context, stationID string, from, to time.Time) ([]*entities.Reservation, error) {
	args := m.Called(ctx, stationID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Reservation), args.Error(1)
}

// MockSettingsRepository for testing
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetInt(ctx context.Context, key string, defaultValue int) (int, error) {
	args := m.Called(ctx, key, defaultValue)
	return args.Int(0), args.Error(1)
}

// MockLoyaltyProvider for testing
type MockLoyaltyProvider struct {
	mock.Mock
}

func (m *MockLoyaltyProvider) Credit(ctx context.Context, customerAccountID string, points int, reservationID string) error {
	args := m.Called(ctx, customerAccountID, points, reservationID)
	return args.Error(0)
}

// MockEventBus for testing
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.ReservationEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ReservationEvent, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *entities.ReservationEvent), args.Error(1)
}

func (m *MockEventBus) Close() error {
	args := m.Called()
	return args.Error(0)
}

// fakeCacheProvider is an in-memory CacheProvider with glob pattern
// deletion, close enough to Redis semantics for these tests.
type fakeCacheProvider struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func newFakeCacheProvider() *fakeCacheProvider {
	return &fakeCacheProvider{data: make(map[string][]byte)}
}

func (f *fakeCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if val, ok := f.data[key]; ok {
		return val, nil
	}
	return nil, errCacheMiss
}

func (f *fakeCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeCacheProvider) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeCacheProvider) DeletePattern(ctx context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.data {
		if ok, _ := path.Match(pattern, key); ok {
			delete(f.data, key)
		}
	}
	return nil
}

func (f *fakeCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.data[key]
	return ok, nil
}

type cacheMissError struct{}

func (cacheMissError) Error() string { return "cache miss" }

var errCacheMiss = cacheMissError{}
