package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dvor-map/internal/domain"
)

// MockStoreRepository is a mock of StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) Warmup(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStoreRepository) ListBuildings(ctx context.Context) ([]domain.Building, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Building), args.Error(1)
}

func (m *MockStoreRepository) CreateBuilding(ctx context.Context, input domain.CreateBuildingInput) (*domain.Building, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Building), args.Error(1)
}

func (m *MockStoreRepository) UpdateBuildingPosition(ctx context.Context, id int64, lat, lng float64) (*domain.Building, error) {
	args := m.Called(ctx, id, lat, lng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Building), args.Error(1)
}

func (m *MockStoreRepository) ConfirmPositive(ctx context.Context, buildingID int64) error {
	args := m.Called(ctx, buildingID)
	return args.Error(0)
}

func (m *MockStoreRepository) ListReports(ctx context.Context, buildingID int64) ([]domain.Report, error) {
	args := m.Called(ctx, buildingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Report), args.Error(1)
}

func (m *MockStoreRepository) CreateReport(ctx context.Context, input domain.NewReportInput) (*domain.Report, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockStoreRepository) ConfirmProblem(ctx context.Context, reportID int64) error {
	args := m.Called(ctx, reportID)
	return args.Error(0)
}

func (m *MockStoreRepository) ConfirmResolved(ctx context.Context, reportID int64) error {
	args := m.Called(ctx, reportID)
	return args.Error(0)
}

func (m *MockStoreRepository) ListHelpRequests(ctx context.Context, buildingID *int64) ([]domain.HelpRequest, error) {
	args := m.Called(ctx, buildingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HelpRequest), args.Error(1)
}

func (m *MockStoreRepository) CreateHelpRequest(ctx context.Context, input domain.NewHelpRequestInput) (*domain.HelpRequest, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HelpRequest), args.Error(1)
}

func (m *MockStoreRepository) CloseHelpRequest(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStoreRepository) RespondToHelp(ctx context.Context, id int64, userHash string) error {
	args := m.Called(ctx, id, userHash)
	return args.Error(0)
}

func (m *MockStoreRepository) HelpResponses(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

// MockSnapshotRepository is a mock of SnapshotRepository
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Buildings(ctx context.Context) ([]domain.Building, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Building), args.Error(1)
}

func (m *MockSnapshotRepository) SaveBuildings(ctx context.Context, buildings []domain.Building) error {
	args := m.Called(ctx, buildings)
	return args.Error(0)
}

func (m *MockSnapshotRepository) WarmupAt(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockSnapshotRepository) MarkWarmup(ctx context.Context, at time.Time) error {
	args := m.Called(ctx, at)
	return args.Error(0)
}

func (m *MockSnapshotRepository) UserHash(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockSnapshotRepository) SaveUserHash(ctx context.Context, hash string) error {
	args := m.Called(ctx, hash)
	return args.Error(0)
}

func ptrInt64(v int64) *int64 {
	return &v
}
