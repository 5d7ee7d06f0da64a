package services

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	return img
}

func TestSnapshotPublishUploads(t *testing.T) {
	var got snapshotRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(snapshotResponse{URL: "https://img.example/1.png"})
	}))
	defer srv.Close()

	c := NewSnapshotClient(srv.URL, time.Second, nil)
	url, err := c.Publish(context.Background(), tinyImage())
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/1.png", url)
	assert.True(t, strings.HasPrefix(got.Image, "data:image/png;base64,"))
}

func TestSnapshotPublishFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	for _, c := range []*SnapshotClient{
		NewSnapshotClient(srv.URL, time.Second, nil),
		NewSnapshotClient("", time.Second, nil),
	} {
		url, err := c.Publish(context.Background(), tinyImage())
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
	}
}

func TestVisitRecord(t *testing.T) {
	var got visitRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"total": 10, "unique": 4, "repeat": 6, "platforms": {"linux": 7, "android": 3}}`))
	}))
	defer srv.Close()

	c := NewVisitClient(srv.URL, "linux", time.Second)
	counters, err := c.Record(context.Background(), "", "anon-1")
	require.NoError(t, err)

	assert.Equal(t, "anon-1", got.AnonymousID)
	assert.Empty(t, got.UserID)
	assert.Equal(t, "linux", got.Platform)
	assert.True(t, counters.Available())
	assert.Equal(t, "visits 10 · unique 4 · repeat 6 (android 3, linux 7)", counters.Format())
}

func TestVisitFailureFormatsPlaceholders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	counters, err := NewVisitClient(srv.URL, "linux", time.Second).Record(context.Background(), "42", "")
	assert.Error(t, err)
	assert.False(t, counters.Available())
	assert.Equal(t, "visits — · unique — · repeat —", counters.Format())
}

func TestAnonymousIDIsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "anonymous_id")
	first, err := AnonymousID(path)
	require.NoError(t, err)
	assert.Len(t, first, 32)

	second, err := AnonymousID(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first+"\n", string(data))
}

func TestPricesFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"date": "2026-10-19", "prices": {
			"silver": 95.5, "gold": "7421.1", "platinum": null,
			"palladium": "n/a", "rhodium": 1}}`))
	}))
	defer srv.Close()

	prices, err := NewPriceClient(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", prices.Date)
	assert.Equal(t, []Quote{
		{Name: "gold", Value: "7421.10"},
		{Name: "palladium", Value: Placeholder},
		{Name: "platinum", Value: Placeholder},
		{Name: "rhodium", Value: "1.00"},
	}, prices.Quotes)
}

func TestPricesUnavailable(t *testing.T) {
	prices, err := NewPriceClient("http://127.0.0.1:1", 200*time.Millisecond).Fetch(context.Background())
	assert.Error(t, err)
	assert.Equal(t, Placeholder, prices.Date)
	assert.Empty(t, prices.Quotes)

	_, err = NewPriceClient("", time.Second).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrDisabled)
}
