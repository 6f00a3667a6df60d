package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rajsingh66/event-scraper/internal/analytics"
	"github.com/Rajsingh66/event-scraper/internal/dedup"
	"github.com/Rajsingh66/event-scraper/internal/domain"
	"github.com/Rajsingh66/event-scraper/internal/dto"
	"github.com/Rajsingh66/event-scraper/internal/pipeline"
	"github.com/Rajsingh66/event-scraper/internal/store"
)

type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) EnsureSheets(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEventStore) LoadExisting(ctx context.Context) (*dedup.Index, error) {
	args := m.Called(ctx)
	if ix := args.Get(0); ix != nil {
		return ix.(*dedup.Index), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEventStore) LoadAll(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	if events := args.Get(0); events != nil {
		return events.([]domain.Event), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEventStore) AppendEvents(ctx context.Context, events []domain.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockEventStore) ReplaceStats(ctx context.Context, metrics []analytics.Metric) error {
	args := m.Called(ctx, metrics)
	return args.Error(0)
}

func (m *MockEventStore) LoadStats(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if stats := args.Get(0); stats != nil {
		return stats.(map[string]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEventStore) AppendRunLog(ctx context.Context, entry store.RunLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type fakeRunner struct {
	ran chan struct{}
}

func (r *fakeRunner) Run(context.Context) (pipeline.Summary, error) {
	close(r.ran)
	return pipeline.Summary{RunID: "abcd1234"}, nil
}

func storedEvents() []domain.Event {
	return []domain.Event{
		{Title: "AI Summit", City: "Pune", Platform: "eventbrite", Category: "Technology", IsFree: false, IsActive: true},
		{Title: "Indie Night", City: "Navi Mumbai", Platform: "allevents", Category: "Music", IsFree: false, IsActive: true},
		{Title: "Go Meetup", City: "Pune", Platform: "meetup", Category: "Technology", IsFree: true, IsActive: true},
		{Title: "Yoga Morning", City: "Mumbai", Platform: "meetup", Category: "Health", IsFree: true, IsActive: false},
	}
}

func newTestService(st store.EventStore, runner PipelineRunner) *EventService {
	return NewEventService(st, runner,
		[]string{"Mumbai", "Pune"}, []string{"technology", "music"},
		[]string{"eventbrite", "meetup", "allevents"}, 2, zap.NewNop())
}

func TestListEvents_NoFilters(t *testing.T) {
	st := new(MockEventStore)
	st.On("LoadAll", mock.Anything).Return(storedEvents(), nil)

	svc := newTestService(st, nil)
	resp, err := svc.ListEvents(context.Background(), &dto.ListEventsRequest{Limit: 50})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Total)
	assert.Len(t, resp.Events, 4)
	assert.Equal(t, 50, resp.Limit)
}

func TestListEvents_Filters(t *testing.T) {
	st := new(MockEventStore)
	st.On("LoadAll", mock.Anything).Return(storedEvents(), nil)
	svc := newTestService(st, nil)

	tests := []struct {
		name   string
		req    dto.ListEventsRequest
		titles []string
	}{
		{
			name:   "city substring, case insensitive",
			req:    dto.ListEventsRequest{City: "mumbai"},
			titles: []string{"Indie Night", "Yoga Morning"},
		},
		{
			name:   "platform is an exact match",
			req:    dto.ListEventsRequest{Platform: "Meetup"},
			titles: []string{"Go Meetup", "Yoga Morning"},
		},
		{
			name:   "category substring",
			req:    dto.ListEventsRequest{Category: "tech"},
			titles: []string{"AI Summit", "Go Meetup"},
		},
		{
			name:   "free only",
			req:    dto.ListEventsRequest{IsFree: "true"},
			titles: []string{"Go Meetup", "Yoga Morning"},
		},
		{
			name:   "paid only",
			req:    dto.ListEventsRequest{IsFree: "false"},
			titles: []string{"AI Summit", "Indie Night"},
		},
		{
			name:   "combined filters",
			req:    dto.ListEventsRequest{City: "Pune", IsFree: "true"},
			titles: []string{"Go Meetup"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.ListEvents(context.Background(), &tt.req)
			require.NoError(t, err)

			var got []string
			for _, e := range resp.Events {
				got = append(got, e.Title)
			}
			assert.Equal(t, tt.titles, got)
			assert.Equal(t, len(tt.titles), resp.Total)
		})
	}
}

func TestListEvents_Pagination(t *testing.T) {
	st := new(MockEventStore)
	st.On("LoadAll", mock.Anything).Return(storedEvents(), nil)
	svc := newTestService(st, nil)

	resp, err := svc.ListEvents(context.Background(), &dto.ListEventsRequest{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Total)
	require.Len(t, resp.Events, 2)
	assert.Equal(t, "Indie Night", resp.Events[0].Title)

	// offset past the end yields an empty page, not an error
	resp, err = svc.ListEvents(context.Background(), &dto.ListEventsRequest{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, resp.Events)
	assert.Equal(t, 4, resp.Total)

	// zero limit falls back to the default, oversized limits are capped
	resp, err = svc.ListEvents(context.Background(), &dto.ListEventsRequest{})
	require.NoError(t, err)
	assert.Equal(t, defaultPageSize, resp.Limit)

	resp, err = svc.ListEvents(context.Background(), &dto.ListEventsRequest{Limit: 9999})
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, resp.Limit)
}

func TestListEvents_StoreError(t *testing.T) {
	st := new(MockEventStore)
	st.On("LoadAll", mock.Anything).Return(nil, errors.New("sheet unavailable"))

	svc := newTestService(st, nil)
	_, err := svc.ListEvents(context.Background(), &dto.ListEventsRequest{})
	assert.Error(t, err)
}

func TestGetStats(t *testing.T) {
	st := new(MockEventStore)
	st.On("LoadStats", mock.Anything).Return(map[string]string{"total_events": "42"}, nil)

	svc := newTestService(st, nil)
	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "42", stats["total_events"])
}

func TestGetDashboard(t *testing.T) {
	st := new(MockEventStore)
	st.On("LoadAll", mock.Anything).Return(storedEvents(), nil)

	svc := newTestService(st, nil)
	d, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, d.KPIs.TotalEvents)
	assert.Equal(t, 3, d.KPIs.ActiveEvents)
	assert.Equal(t, 50, d.KPIs.FreePercentage)
}

func TestTriggerScrape(t *testing.T) {
	runner := &fakeRunner{ran: make(chan struct{})}
	svc := newTestService(new(MockEventStore), runner)

	resp := svc.TriggerScrape()
	assert.Equal(t, "scrape started", resp.Message)
	assert.Equal(t, []string{"Mumbai", "Pune"}, resp.Cities)

	select {
	case <-runner.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline run was not triggered")
	}
}

func TestConfig(t *testing.T) {
	svc := newTestService(new(MockEventStore), nil)

	cfg := svc.Config()
	assert.Equal(t, []string{"Mumbai", "Pune"}, cfg.Cities)
	assert.Equal(t, 2, cfg.ScrapeIntervalHours)
	assert.Equal(t, []string{"eventbrite", "meetup", "allevents"}, cfg.Platforms)
}
