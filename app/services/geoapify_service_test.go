package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocodeParsesFirstResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/search", r.URL.Path)
		assert.Equal(t, "10 rue de Rivoli, Paris", r.URL.Query().Get("text"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[{"lat":48.855,"lon":2.358,"postcode":"75004","city":"Paris","state":"Ile-de-France","country":"France","rank":{"confidence":0.95}}]}`)
	}))
	defer server.Close()

	svc := NewGeoapifyService(server.URL, "test-key")
	loc, err := svc.Geocode(context.Background(), "10 rue de Rivoli, Paris")

	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.InDelta(t, 48.855, loc.Lat, 0.0001)
	assert.InDelta(t, 2.358, loc.Lon, 0.0001)
	assert.Equal(t, "Paris", loc.City)
	assert.Equal(t, "75004", loc.Postcode)
	assert.InDelta(t, 0.95, loc.Confidence, 0.0001)
}

func TestGeocodeNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer server.Close()

	svc := NewGeoapifyService(server.URL, "test-key")
	loc, err := svc.Geocode(context.Background(), "complete gibberish")

	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestGeocodeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := NewGeoapifyService(server.URL, "bad-key")
	loc, err := svc.Geocode(context.Background(), "anywhere")

	assert.Error(t, err)
	assert.Nil(t, loc)
}
