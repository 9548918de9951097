package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhost/pkg/client"
	"stayhost/pkg/model"
)

func TestHTTPProvider_ListActive(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ActivePath, r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"slug":"villa-mare","name":"Villa Mare","capacity":"4+1 persone","active":true}]}`))
	}))
	defer server.Close()

	p := NewHTTPProvider(client.NewHttpClient(server.URL, time.Second))
	got, err := p.ListActive(context.Background(), model.AccommodationFilter{Guests: 4, Location: "mare"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "villa-mare", got[0].Slug)
	assert.Equal(t, "guests=4&location=mare", gotQuery)
}

func TestHTTPProvider_NoFilterSendsNoQuery(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	got, err := NewHTTPProvider(client.NewHttpClient(server.URL, time.Second)).
		ListActive(context.Background(), model.AccommodationFilter{})

	require.NoError(t, err)
	assert.Empty(t, gotQuery)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHTTPProvider_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error","message":"database down"}`))
	}))
	defer server.Close()

	_, err := NewHTTPProvider(client.NewHttpClient(server.URL, time.Second)).
		ListActive(context.Background(), model.AccommodationFilter{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Contains(t, err.Error(), "database down")

	server.Close()
	_, err = NewHTTPProvider(client.NewHttpClient(server.URL, time.Second)).
		ListActive(context.Background(), model.AccommodationFilter{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestStaticProvider(t *testing.T) {
	p := StaticProvider{
		{Slug: "villa-mare", Capacity: "4+1 persone", Address: "Lungomare, Cefalù", Active: true},
		{Slug: "loft-centro", Capacity: "2 persone", Address: "Centro storico", Active: true},
		{Slug: "chiusa", Capacity: "8 persone", Active: false},
	}

	all, err := p.ListActive(context.Background(), model.AccommodationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	four, _ := p.ListActive(context.Background(), model.AccommodationFilter{Guests: 4})
	require.Len(t, four, 1)
	assert.Equal(t, "villa-mare", four[0].Slug)

	centro, _ := p.ListActive(context.Background(), model.AccommodationFilter{Location: "centro"})
	require.Len(t, centro, 1)
	assert.Equal(t, "loft-centro", centro[0].Slug)
}
