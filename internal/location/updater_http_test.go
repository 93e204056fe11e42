package location_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/UnknownOlympus/heatmap/internal/location"
	"github.com/UnknownOlympus/heatmap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const baseURL = "https://api.example.com/v1"

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	calls  int
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.calls++
	return m.doFunc(req)
}

func TestHTTPUpdater_UpdateLocation(t *testing.T) {
	ctx := t.Context()
	logger := slog.Default()
	coords := models.GeoCoordinate{Latitude: -26.2, Longitude: 28.05}

	t.Run("successful push", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, http.MethodPost, req.Method)
				assert.Equal(t, "/v1/users/location", req.URL.Path)
				assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
				assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))

				var body map[string]float64
				assert.NoError(t, json.NewDecoder(req.Body).Decode(&body))
				assert.InEpsilon(t, -26.2, body["latitude"], 0.0001)
				assert.InEpsilon(t, 28.05, body["longitude"], 0.0001)

				return &http.Response{
					StatusCode: http.StatusNoContent,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		updater := location.NewHTTPUpdaterWithClient(mockClient, baseURL, "secret", rate.NewLimiter(rate.Inf, 0), logger)
		err := updater.UpdateLocation(ctx, coords)

		require.NoError(t, err)
		assert.Equal(t, 1, mockClient.calls)
	})

	t.Run("no token omits authorization", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Empty(t, req.Header.Get("Authorization"))
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString("{}")),
				}, nil
			},
		}

		updater := location.NewHTTPUpdaterWithClient(mockClient, baseURL, "", rate.NewLimiter(rate.Inf, 0), logger)

		require.NoError(t, updater.UpdateLocation(ctx, coords))
	})

	t.Run("invalid coordinates are rejected", func(t *testing.T) {
		mockClient := &mockHTTPClient{}

		updater := location.NewHTTPUpdaterWithClient(mockClient, baseURL, "", rate.NewLimiter(rate.Inf, 0), logger)
		err := updater.UpdateLocation(ctx, models.GeoCoordinate{Latitude: 91, Longitude: 0})

		require.ErrorIs(t, err, location.ErrInvalidCoordinates)
		assert.Zero(t, mockClient.calls)
	})

	t.Run("non-2xx status", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusBadGateway,
					Body:       io.NopCloser(bytes.NewBufferString("upstream down")),
				}, nil
			},
		}

		updater := location.NewHTTPUpdaterWithClient(mockClient, baseURL, "", rate.NewLimiter(rate.Inf, 0), logger)
		err := updater.UpdateLocation(ctx, coords)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
		assert.Contains(t, err.Error(), "upstream down")
	})

	t.Run("transport error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, assert.AnError
			},
		}

		updater := location.NewHTTPUpdaterWithClient(mockClient, baseURL, "", rate.NewLimiter(rate.Inf, 0), logger)
		err := updater.UpdateLocation(ctx, coords)

		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("throttled pushes are dropped", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		limiter := rate.NewLimiter(rate.Limit(0.0001), 1)
		updater := location.NewHTTPUpdaterWithClient(mockClient, baseURL, "", limiter, logger)

		require.NoError(t, updater.UpdateLocation(ctx, coords))
		require.NoError(t, updater.UpdateLocation(ctx, coords))
		assert.Equal(t, 1, mockClient.calls)
	})
}
