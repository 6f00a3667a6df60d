package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const ebSearchBody = `{
  "events": {
    "results": [
      {
        "id": "9001",
        "name": {"text": "AI Summit 2025"},
        "description": {"text": "Two days of talks."},
        "url": "https://www.eventbrite.com/e/ai-summit-9001",
        "start_date": "2025-06-01T09:00:00",
        "end_date": "2025-06-02T18:00:00",
        "is_free": false,
        "capacity": 300,
        "ticket_availability": {"minimum_ticket_price": {"major_value": "999", "currency": "INR"}},
        "primary_venue": {"address": {"city": "Pune", "country": "IN"}},
        "organizer": {"name": "TechHub Pune"},
        "category": {"name": "Technology"},
        "logo": {"url": "https://img.evbuc.com/banner.png"}
      },
      {
        "id": "9002",
        "name": "Free Community Meetup",
        "is_free": true
      },
      {
        "id": "9003"
      }
    ]
  }
}`

func TestEventbrite_FetchEvents_SearchAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Pune", r.URL.Query().Get("destination"))
		assert.Equal(t, "technology", r.URL.Query().Get("tags"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(ebSearchBody))
	}))
	defer srv.Close()

	s := NewEventbrite(Options{Client: srv.Client(), Log: zap.NewNop()})
	s.baseURL = srv.URL

	events, err := s.FetchEvents(context.Background(), "Pune", "technology")
	require.NoError(t, err)
	require.Len(t, events, 2) // the nameless third result is dropped

	first := events[0]
	assert.Equal(t, "AI Summit 2025", first.Title)
	assert.Equal(t, "2025-06-01", first.StartDate)
	assert.Equal(t, "Pune", first.City)
	assert.Equal(t, "eventbrite", first.Platform)
	assert.Equal(t, "9001", first.SourceID)
	assert.Equal(t, "INR 999", first.Price)
	assert.False(t, first.IsFree)
	assert.Equal(t, "300", first.AttendeeCount)

	second := events[1]
	assert.Equal(t, "Free Community Meetup", second.Title)
	assert.Equal(t, "Pune", second.City) // falls back to the queried city
	assert.Equal(t, "India", second.Country)
	assert.Equal(t, "Free", second.Price)
	assert.True(t, second.IsFree)
}

func TestEventbrite_FetchEvents_FallsBackToSearchPage(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer api.Close()

	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/d/pune--india/events/", r.URL.Path)
		_, _ = w.Write([]byte(listingPage))
	}))
	defer pages.Close()

	s := NewEventbrite(Options{Client: pages.Client(), Log: zap.NewNop()})
	s.baseURL = api.URL
	s.pagesURL = pages.URL

	events, err := s.FetchEvents(context.Background(), "Pune", "")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Indie Music Night", events[0].Title)
	assert.Equal(t, "eventbrite", events[0].Platform)
	assert.Equal(t, "2025-07-12", events[0].StartDate)
}

func TestEventbrite_FetchEvents_DemoFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewEventbrite(Options{Client: srv.Client(), Fallback: FallbackDemo, Log: zap.NewNop()})
	s.baseURL = srv.URL
	s.pagesURL = srv.URL

	events, err := s.FetchEvents(context.Background(), "Pune", "technology")
	require.NoError(t, err)
	assert.NotEmpty(t, events)
	for _, e := range events {
		assert.Equal(t, "eventbrite", e.Platform)
		assert.Equal(t, "Pune", e.City)
		assert.NotEmpty(t, e.SourceID)
	}
}

func TestEventbrite_FetchEvents_NoFallbackPropagatesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewEventbrite(Options{Client: srv.Client(), Fallback: FallbackNone, Log: zap.NewNop()})
	s.baseURL = srv.URL
	s.pagesURL = srv.URL

	_, err := s.FetchEvents(context.Background(), "Pune", "")
	assert.Error(t, err)
}
