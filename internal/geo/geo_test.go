package geo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkotliar/matchmaker/internal/config"
	"github.com/vkotliar/matchmaker/internal/geo"
)

func TestDistanceKM(t *testing.T) {
	berlin := geo.Coordinates{Lat: 52.5200, Lon: 13.4050}
	hamburg := geo.Coordinates{Lat: 53.5511, Lon: 9.9937}

	d := geo.DistanceKM(berlin, hamburg)

	// Berlin-Hamburg is roughly 255 km as the crow flies.
	assert.InDelta(t, 255, d, 10)

	assert.InDelta(t, 0, geo.DistanceKM(berlin, berlin), 0.001)
}

func TestNominatimGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Berlin", r.URL.Query().Get("q"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"52.52","lon":"13.405"}]`))
	}))
	defer srv.Close()

	cfg := config.New()
	cfg.Geo.NominatimURL = srv.URL

	coords, err := geo.NewNominatimClient(cfg).Geocode(context.Background(), "Berlin")
	require.NoError(t, err)
	assert.InDelta(t, 52.52, coords.Lat, 0.001)
	assert.InDelta(t, 13.405, coords.Lon, 0.001)
}

func TestNominatimGeocode_NoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cfg := config.New()
	cfg.Geo.NominatimURL = srv.URL

	coords, err := geo.NewNominatimClient(cfg).Geocode(context.Background(), "Nowhereville")
	assert.Error(t, err)
	assert.Nil(t, coords)
}
