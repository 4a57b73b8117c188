package store_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dvor-map/internal/config"
	"github.com/dvor-map/internal/domain"
	"github.com/dvor-map/internal/infrastructure/store"
	apperrors "github.com/dvor-map/internal/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*httptest.Server, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	return server, server.Close
}

func TestStoreClient_ListBuildings(t *testing.T) {
	t.Run("decodes buildings including quoted coordinates", func(t *testing.T) {
		server, closeFn := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/buildings/", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"id": 1, "lat": 53.9, "lng": 27.56, "status": "red", "high_count": 2},
				{"id": 2, "lat": "53.95", "lng": "27.6", "status": ""}
			]`))
		}))
		defer closeFn()

		client := store.NewStoreClient(&config.StoreConfig{
			BaseURL:        server.URL,
			RequestTimeout: 2,
			ReadRetries:    3,
			RetryBackoff:   5 * time.Millisecond,
		}, zap.NewNop())

		buildings, err := client.ListBuildings(context.Background())
		require.NoError(t, err)
		require.Len(t, buildings, 2)

		assert.Equal(t, domain.StatusRed, buildings[0].Status)
		assert.Equal(t, 2, buildings[0].HighCount)
		// координаты строками - наследие старых записей
		assert.Equal(t, 53.95, buildings[1].Lat)
		assert.Equal(t, 27.6, buildings[1].Lng)
	})

	t.Run("retries transient 503 and succeeds", func(t *testing.T) {
		var attempts int32
		server, closeFn := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&attempts, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`[{"id": 1, "lat": 53.9, "lng": 27.56}]`))
		}))
		defer closeFn()

		client := store.NewStoreClient(&config.StoreConfig{
			BaseURL:        server.URL,
			RequestTimeout: 2,
			ReadRetries:    3,
			RetryBackoff:   5 * time.Millisecond,
		}, zap.NewNop())

		buildings, err := client.ListBuildings(context.Background())
		require.NoError(t, err)
		assert.Len(t, buildings, 1)
		assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	})

	t.Run("a 4xx rejection is not retried", func(t *testing.T) {
		var attempts int32
		server, closeFn := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail": "not found"}`))
		}))
		defer closeFn()

		client := store.NewStoreClient(&config.StoreConfig{
			BaseURL:        server.URL,
			RequestTimeout: 2,
			ReadRetries:    3,
			RetryBackoff:   5 * time.Millisecond,
		}, zap.NewNop())

		_, err := client.ListBuildings(context.Background())
		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, 404, appErr.StatusCode)
		assert.Equal(t, "not found", appErr.Message)
	})
}

func TestStoreClient_CreateBuilding(t *testing.T) {
	t.Run("writes are never retried", func(t *testing.T) {
		var attempts int32
		server, closeFn := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer closeFn()

		client := store.NewStoreClient(&config.StoreConfig{
			BaseURL:        server.URL,
			RequestTimeout: 2,
			ReadRetries:    3,
			RetryBackoff:   5 * time.Millisecond,
		}, zap.NewNop())

		lat, lng := 53.9, 27.56
		_, err := client.CreateBuilding(context.Background(), domain.CreateBuildingInput{Lat: &lat, Lng: &lng})
		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
	})

	t.Run("sends JSON and decodes the created record", func(t *testing.T) {
		server, closeFn := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.Write([]byte(`{"id": 42, "lat": 53.9, "lng": 27.56, "status": "green"}`))
		}))
		defer closeFn()

		client := store.NewStoreClient(&config.StoreConfig{
			BaseURL:        server.URL,
			RequestTimeout: 2,
			ReadRetries:    3,
			RetryBackoff:   5 * time.Millisecond,
		}, zap.NewNop())

		lat, lng := 53.9, 27.56
		created, err := client.CreateBuilding(context.Background(), domain.CreateBuildingInput{Lat: &lat, Lng: &lng})
		require.NoError(t, err)
		assert.Equal(t, int64(42), created.ID)
	})
}

func TestStoreClient_CreateReport(t *testing.T) {
	t.Run("sends a multipart form with the image", func(t *testing.T) {
		server, closeFn := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "7", r.FormValue("building_id"))
			assert.Equal(t, "plumbing", r.FormValue("category"))
			assert.Equal(t, "high", r.FormValue("severity"))
			assert.Equal(t, "often", r.FormValue("periodicity"))
			assert.Equal(t, "труба течёт", r.FormValue("text"))

			file, header, err := r.FormFile("image")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "leak.jpg", header.Filename)

			w.Write([]byte(`{"id": 1, "building_id": 7, "severity": "high", "status": "open",
				"created_at": "2026-08-30T12:00:00.123456"}`))
		}))
		defer closeFn()

		client := store.NewStoreClient(&config.StoreConfig{
			BaseURL:        server.URL,
			RequestTimeout: 2,
			ReadRetries:    3,
			RetryBackoff:   5 * time.Millisecond,
		}, zap.NewNop())

		created, err := client.CreateReport(context.Background(), domain.NewReportInput{
			BuildingID:  7,
			Category:    "plumbing",
			Severity:    domain.SeverityHigh,
			Periodicity: domain.PeriodicityOften,
			Text:        "труба течёт",
			Image:       &domain.ImageAttachment{Filename: "leak.jpg", Data: []byte("jpegdata")},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		// время без зоны трактуется как UTC
		assert.Equal(t, 2026, created.CreatedAt.Year())
		assert.Equal(t, time.UTC, created.CreatedAt.Location())
	})

	t.Run("rate limit detail is preserved", func(t *testing.T) {
		server, closeFn := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"detail": "Можно оставлять одну жалобу в сутки"}`))
		}))
		defer closeFn()

		client := store.NewStoreClient(&config.StoreConfig{
			BaseURL:        server.URL,
			RequestTimeout: 2,
			ReadRetries:    3,
			RetryBackoff:   5 * time.Millisecond,
		}, zap.NewNop())

		_, err := client.CreateReport(context.Background(), domain.NewReportInput{
			BuildingID: 7,
			Text:       "шум",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsRateLimited(err))
	})
}

func TestStoreClient_Help(t *testing.T) {
	t.Run("respond carries the device hash header", func(t *testing.T) {
		server, closeFn := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/help/5/respond", r.URL.Path)
			assert.Equal(t, "abc-123", r.Header.Get("X-User-Hash"))
			w.WriteHeader(http.StatusOK)
		}))
		defer closeFn()

		client := store.NewStoreClient(&config.StoreConfig{
			BaseURL:        server.URL,
			RequestTimeout: 2,
			ReadRetries:    3,
			RetryBackoff:   5 * time.Millisecond,
		}, zap.NewNop())

		require.NoError(t, client.RespondToHelp(context.Background(), 5, "abc-123"))
	})

	t.Run("list passes the building filter", func(t *testing.T) {
		server, closeFn := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "7", r.URL.Query().Get("building_id"))
			w.Write([]byte(`[{"id": 1, "building_id": 7, "category": "repair", "status": "open",
				"created_at": "2026-08-30T10:00:00"}]`))
		}))
		defer closeFn()

		client := store.NewStoreClient(&config.StoreConfig{
			BaseURL:        server.URL,
			RequestTimeout: 2,
			ReadRetries:    3,
			RetryBackoff:   5 * time.Millisecond,
		}, zap.NewNop())

		buildingID := int64(7)
		items, err := client.ListHelpRequests(context.Background(), &buildingID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, domain.HelpOpen, items[0].Status)
	})

	t.Run("responses count round-trip", func(t *testing.T) {
		server, closeFn := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/help/5/responses", r.URL.Path)
			w.Write([]byte(`{"count": 4}`))
		}))
		defer closeFn()

		client := store.NewStoreClient(&config.StoreConfig{
			BaseURL:        server.URL,
			RequestTimeout: 2,
			ReadRetries:    3,
			RetryBackoff:   5 * time.Millisecond,
		}, zap.NewNop())

		count, err := client.HelpResponses(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})
}

func TestStoreClient_NetworkFailure(t *testing.T) {
	t.Run("unreachable store yields a retryable network error", func(t *testing.T) {
		client := store.NewStoreClient(&config.StoreConfig{
			BaseURL:        "http://127.0.0.1:1",
			RequestTimeout: 1,
			ReadRetries:    1,
			RetryBackoff:   time.Millisecond,
		}, zap.NewNop())

		_, err := client.ListBuildings(context.Background())
		require.Error(t, err)
		assert.True(t, apperrors.IsRetryable(err))
	})
}
