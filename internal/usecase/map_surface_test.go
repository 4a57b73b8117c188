package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dvor-map/internal/domain"
	"github.com/dvor-map/internal/pkg/errors"
	"github.com/dvor-map/internal/usecase"
)

type surfaceFixture struct {
	store   *MockStoreRepository
	cache   *usecase.BuildingCache
	panel   *usecase.SidePanel
	surface *usecase.MapSurface
}

func newSurfaceFixture() *surfaceFixture {
	logger := zap.NewNop()
	store := &MockStoreRepository{}
	cache := usecase.NewBuildingCache(store, nil, logger, time.Minute)
	tracker := usecase.NewViewportTracker(cache.Refresh, 10*time.Millisecond, logger)
	interaction := usecase.NewInteractionStateMachine(logger)
	panel := usecase.NewSidePanel(cache, logger)
	clusterer := usecase.NewClusterRenderer(30)

	surface := usecase.NewMapSurface(
		cache, tracker, interaction, panel, clusterer,
		53.9, 27.5667, 12, logger,
	)
	return &surfaceFixture{store: store, cache: cache, panel: panel, surface: surface}
}

func (f *surfaceFixture) seed(t *testing.T, buildings []domain.Building) {
	t.Helper()
	ctx := context.Background()
	f.store.On("ListBuildings", ctx).Return(buildings, nil).Once()
	require.NoError(t, f.cache.Refresh(ctx))
}

func TestMapSurface_Selection(t *testing.T) {
	ctx := context.Background()

	t.Run("clicking a marker opens the panel", func(t *testing.T) {
		f := newSurfaceFixture()
		f.seed(t, []domain.Building{{ID: 7, Lat: 53.9, Lng: 27.56}})

		f.store.On("ListReports", ctx, int64(7)).Return([]domain.Report{}, nil).Once()
		require.NoError(t, f.surface.PrimaryClickBuilding(ctx, 7))

		selected, ok := f.panel.Selected()
		require.True(t, ok)
		assert.Equal(t, int64(7), selected.ID)
	})

	t.Run("clicking an unknown building fails", func(t *testing.T) {
		f := newSurfaceFixture()
		f.seed(t, []domain.Building{})

		err := f.surface.PrimaryClickBuilding(ctx, 99)
		assert.ErrorIs(t, err, errors.ErrBuildingNotFound)
	})

	t.Run("empty map click clears the selection", func(t *testing.T) {
		f := newSurfaceFixture()
		f.seed(t, []domain.Building{{ID: 7}})

		f.store.On("ListReports", ctx, int64(7)).Return([]domain.Report{}, nil).Once()
		require.NoError(t, f.surface.PrimaryClickBuilding(ctx, 7))

		f.surface.PrimaryClickMap(domain.Point{Lat: 53.8, Lng: 27.4})
		_, ok := f.panel.Selected()
		assert.False(t, ok)
	})
}

func TestMapSurface_Placement(t *testing.T) {
	ctx := context.Background()

	t.Run("right click then confirm creates and selects", func(t *testing.T) {
		f := newSurfaceFixture()
		f.seed(t, []domain.Building{})

		f.surface.SecondaryClick(domain.Point{Lat: 53.91, Lng: 27.57})

		created := &domain.Building{ID: 42, Lat: 53.91, Lng: 27.57}
		f.store.On("CreateBuilding", ctx, mock.MatchedBy(func(in domain.CreateBuildingInput) bool {
			return in.Lat != nil && *in.Lat == 53.91 && in.Address == nil
		})).Return(created, nil).Once()
		f.store.On("ListBuildings", ctx).Return([]domain.Building{*created}, nil).Once()
		f.store.On("ListReports", ctx, int64(42)).Return([]domain.Report{}, nil).Once()

		got, err := f.surface.ConfirmPlacement(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(42), got.ID)

		selected, ok := f.panel.Selected()
		require.True(t, ok)
		assert.Equal(t, int64(42), selected.ID)
		assert.Equal(t, domain.ModeIdle, f.surface.Render(ctx).Mode.Kind)
	})

	t.Run("confirm without a draft is rejected", func(t *testing.T) {
		f := newSurfaceFixture()

		_, err := f.surface.ConfirmPlacement(ctx)
		assert.ErrorIs(t, err, errors.ErrNoPendingCoordinates)
	})

	t.Run("store rejection comes back verbatim", func(t *testing.T) {
		f := newSurfaceFixture()
		f.surface.SecondaryClick(domain.Point{Lat: 53.91, Lng: 27.57})

		f.store.On("CreateBuilding", ctx, mock.Anything).
			Return(nil, errors.NewRejection(409, "Дом уже есть на карте")).Once()

		_, err := f.surface.ConfirmPlacement(ctx)
		require.Error(t, err)
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "Дом уже есть на карте", appErr.Message)

		// форма добавления остаётся открытой с той же точкой
		mode := f.surface.Render(ctx).Mode
		assert.Equal(t, domain.ModePlacing, mode.Kind)
		require.NotNil(t, mode.Pending)
		assert.Equal(t, 53.91, mode.Pending.Lat)
	})
}

func TestMapSurface_Relocation(t *testing.T) {
	ctx := context.Background()

	t.Run("full relocation flow applies the overlay", func(t *testing.T) {
		f := newSurfaceFixture()
		f.seed(t, []domain.Building{{ID: 7, Lat: 53.9, Lng: 27.56}})

		f.store.On("ListReports", ctx, int64(7)).Return([]domain.Report{}, nil).Once()
		require.NoError(t, f.surface.PrimaryClickBuilding(ctx, 7))
		require.NoError(t, f.surface.StartRelocation())

		// клик по карте поглощается переносом, выбор не сбрасывается
		f.surface.PrimaryClickMap(domain.Point{Lat: 53.95, Lng: 27.58})
		_, stillSelected := f.panel.Selected()
		require.True(t, stillSelected)

		updated := &domain.Building{ID: 7, Lat: 53.95, Lng: 27.58}
		f.store.On("UpdateBuildingPosition", ctx, int64(7), 53.95, 27.58).Return(updated, nil).Once()
		f.store.On("ListBuildings", ctx).Return(nil, errors.NewNetwork("store unreachable", nil)).Once()

		got, err := f.surface.ConfirmRelocation(ctx)
		require.NoError(t, err)
		assert.Equal(t, 53.95, got.Lat)

		// перезагрузка упала - карточка всё равно показывает новую позицию
		selected, _ := f.panel.Selected()
		assert.Equal(t, 53.95, selected.Lat)
	})

	t.Run("failed patch keeps relocation mode alive", func(t *testing.T) {
		f := newSurfaceFixture()
		f.seed(t, []domain.Building{{ID: 7, Lat: 53.9, Lng: 27.56}})

		f.store.On("ListReports", ctx, int64(7)).Return([]domain.Report{}, nil).Once()
		require.NoError(t, f.surface.PrimaryClickBuilding(ctx, 7))
		require.NoError(t, f.surface.StartRelocation())
		f.surface.PrimaryClickMap(domain.Point{Lat: 53.95, Lng: 27.58})

		f.store.On("UpdateBuildingPosition", ctx, int64(7), 53.95, 27.58).
			Return(nil, errors.NewNetwork("store unreachable", nil)).Once()

		_, err := f.surface.ConfirmRelocation(ctx)
		require.Error(t, err)

		mode := f.surface.Render(ctx).Mode
		assert.Equal(t, domain.ModeRelocating, mode.Kind)
		assert.Equal(t, int64(7), mode.TargetID)
		require.NotNil(t, mode.Pending)
		assert.Equal(t, 53.95, mode.Pending.Lat)
	})

	t.Run("relocation needs a selection", func(t *testing.T) {
		f := newSurfaceFixture()
		err := f.surface.StartRelocation()
		assert.ErrorIs(t, err, errors.ErrNoSelection)
	})

	t.Run("building with reports cannot enter relocation", func(t *testing.T) {
		f := newSurfaceFixture()
		f.seed(t, []domain.Building{{ID: 7}})

		f.store.On("ListReports", ctx, int64(7)).
			Return([]domain.Report{{ID: 1, BuildingID: 7}}, nil).Once()
		require.NoError(t, f.surface.PrimaryClickBuilding(ctx, 7))

		err := f.surface.StartRelocation()
		assert.ErrorIs(t, err, errors.ErrRelocationBlocked)
	})

	t.Run("selecting another building cancels relocation", func(t *testing.T) {
		f := newSurfaceFixture()
		f.seed(t, []domain.Building{{ID: 7}, {ID: 8}})

		f.store.On("ListReports", ctx, int64(7)).Return([]domain.Report{}, nil).Once()
		require.NoError(t, f.surface.PrimaryClickBuilding(ctx, 7))
		require.NoError(t, f.surface.StartRelocation())

		f.store.On("ListReports", ctx, int64(8)).Return([]domain.Report{}, nil).Once()
		require.NoError(t, f.surface.PrimaryClickBuilding(ctx, 8))

		assert.Equal(t, domain.ModeIdle, f.surface.Render(ctx).Mode.Kind)
	})
}

func TestMapSurface_Geolocate(t *testing.T) {
	t.Run("invalid coordinates are rejected", func(t *testing.T) {
		f := newSurfaceFixture()
		err := f.surface.Geolocate(120, 27.56)
		assert.ErrorIs(t, err, errors.ErrInvalidCoordinates)
	})

	t.Run("valid position recenters the map", func(t *testing.T) {
		f := newSurfaceFixture()
		f.store.On("ListBuildings", mock.Anything).Return([]domain.Building{}, nil)

		require.NoError(t, f.surface.Geolocate(53.95, 27.6))

		state := f.surface.Render(context.Background())
		assert.Equal(t, 53.95, state.Center.Lat)
		assert.Equal(t, 27.6, state.Center.Lng)
		// перелёт приближает карту со стартового зума
		assert.Equal(t, 13, state.Zoom)
	})
}

func TestMapSurface_SelectByID(t *testing.T) {
	ctx := context.Background()

	t.Run("deep link to a cached building", func(t *testing.T) {
		f := newSurfaceFixture()
		f.seed(t, []domain.Building{{ID: 7, Lat: 53.9, Lng: 27.56}})

		f.store.On("ListReports", ctx, int64(7)).Return([]domain.Report{}, nil).Once()
		got, err := f.surface.SelectByID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.ID)

		state := f.surface.Render(ctx)
		assert.Equal(t, 53.9, state.Center.Lat)
	})

	t.Run("unknown id triggers one reload before giving up", func(t *testing.T) {
		f := newSurfaceFixture()
		f.seed(t, []domain.Building{})

		f.store.On("ListBuildings", ctx).
			Return([]domain.Building{{ID: 7}}, nil).Once()
		f.store.On("ListReports", ctx, int64(7)).Return([]domain.Report{}, nil).Once()

		got, err := f.surface.SelectByID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.ID)
	})

	t.Run("building missing even after reload", func(t *testing.T) {
		f := newSurfaceFixture()
		f.seed(t, []domain.Building{})

		f.store.On("ListBuildings", ctx).Return([]domain.Building{}, nil).Once()

		_, err := f.surface.SelectByID(ctx, 99)
		assert.ErrorIs(t, err, errors.ErrBuildingNotFound)
	})
}

func TestMapSurface_Render(t *testing.T) {
	ctx := context.Background()

	t.Run("filters narrow the rendered set", func(t *testing.T) {
		f := newSurfaceFixture()
		f.seed(t, []domain.Building{
			{ID: 1, Lat: 53.90, Lng: 27.50, HighCount: 1, Status: domain.StatusRed},
			{ID: 2, Lat: 53.95, Lng: 27.70, Status: domain.StatusGreen},
		})

		state := f.surface.Render(ctx)
		assert.Len(t, state.Markers, 2)

		f.surface.SetFilters(domain.Filters{Status: "all", ProblemOnly: true})
		state = f.surface.Render(ctx)
		require.Len(t, state.Markers, 1)
		assert.Equal(t, int64(1), state.Markers[0].Building.ID)
	})

	t.Run("heat layer follows the filtered set", func(t *testing.T) {
		f := newSurfaceFixture()
		f.seed(t, []domain.Building{
			{ID: 1, Lat: 53.90, Lng: 27.50, HighCount: 2},
			{ID: 2, Lat: 53.95, Lng: 27.70},
		})

		state := f.surface.Render(ctx)
		require.Len(t, state.Heat, 1)
		assert.Equal(t, 6.0, state.Heat[0].Weight)
		assert.Equal(t, 35, state.HeatHints.Radius)
	})

	t.Run("selected building and reports ride along", func(t *testing.T) {
		f := newSurfaceFixture()
		f.seed(t, []domain.Building{{ID: 7, Lat: 53.9, Lng: 27.56}})

		f.store.On("ListReports", ctx, int64(7)).
			Return([]domain.Report{{ID: 1, BuildingID: 7}}, nil).Once()
		require.NoError(t, f.surface.PrimaryClickBuilding(ctx, 7))

		state := f.surface.Render(ctx)
		require.NotNil(t, state.Selected)
		assert.Equal(t, int64(7), state.Selected.ID)
		assert.Len(t, state.Reports, 1)
		require.Len(t, state.Markers, 1)
		assert.Equal(t, domain.GlyphSelected, state.Markers[0].Glyph.Base)
	})

	t.Run("pending point renders as a preview marker", func(t *testing.T) {
		f := newSurfaceFixture()
		f.seed(t, []domain.Building{})

		f.surface.SecondaryClick(domain.Point{Lat: 53.91, Lng: 27.57})

		state := f.surface.Render(ctx)
		require.NotNil(t, state.Preview)
		assert.Equal(t, domain.GlyphPreview, state.Preview.Glyph.Base)
		assert.Equal(t, 53.91, state.Preview.Building.Lat)
	})

	t.Run("version mirrors the cache", func(t *testing.T) {
		f := newSurfaceFixture()
		f.seed(t, []domain.Building{})
		assert.Equal(t, uint64(1), f.surface.Render(ctx).Version)
	})
}
