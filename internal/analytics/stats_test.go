package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Rajsingh66/event-scraper/internal/domain"
)

var statsNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func sampleEvents() []domain.Event {
	return []domain.Event{
		{Title: "AI Summit", StartDate: "2025-06-20", City: "Pune", Platform: "eventbrite",
			Category: "Technology", IsFree: true, IsActive: true, ScrapedAt: "2025-06-15T09:00:00Z"},
		{Title: "Jazz Night", StartDate: "2025-06-01", City: "Mumbai", Platform: "meetup",
			Category: "Music", IsFree: false, IsActive: true, ScrapedAt: "2025-06-10T09:00:00Z"},
		{Title: "Food Fest", StartDate: "2025-07-01", City: "Pune", Platform: "allevents",
			Category: "Food", IsFree: true, IsActive: false, ScrapedAt: "2025-05-30T09:00:00Z"},
	}
}

func metricValue(t *testing.T, metrics []Metric, name string) string {
	t.Helper()
	for _, m := range metrics {
		if m.Name == name {
			return m.Value
		}
	}
	t.Fatalf("metric %q not found", name)
	return ""
}

func TestComputeStats_Empty(t *testing.T) {
	metrics := ComputeStats(nil, statsNow)

	assert.Equal(t, []Metric{{Name: "total_events", Value: "0"}}, metrics)
}

func TestComputeStats_Counts(t *testing.T) {
	metrics := ComputeStats(sampleEvents(), statsNow)

	assert.Equal(t, "3", metricValue(t, metrics, "total_events"))
	assert.Equal(t, "2", metricValue(t, metrics, "active_events"))
	assert.Equal(t, "2", metricValue(t, metrics, "free_events"))
	assert.Equal(t, "1", metricValue(t, metrics, "paid_events"))
	assert.Equal(t, "3", metricValue(t, metrics, "total_platforms"))
	assert.Equal(t, "1", metricValue(t, metrics, "added_today"))
	assert.Equal(t, "2", metricValue(t, metrics, "added_this_month"))
	// Food Fest starts in the future but is inactive; Jazz Night already
	// happened. Only AI Summit counts as upcoming.
	assert.Equal(t, "1", metricValue(t, metrics, "upcoming_events"))
}

func TestComputeStats_Breakdowns(t *testing.T) {
	metrics := ComputeStats(sampleEvents(), statsNow)

	assert.Equal(t, "1", metricValue(t, metrics, "platform_eventbrite"))
	assert.Equal(t, "2", metricValue(t, metrics, "city_Pune"))
	assert.Equal(t, "1", metricValue(t, metrics, "category_music"))
}

func TestComputeDashboard_Empty(t *testing.T) {
	d := ComputeDashboard(nil, statsNow)

	assert.Equal(t, 0, d.KPIs.TotalEvents)
	assert.Empty(t, d.PlatformBreakdown)
	assert.Empty(t, d.DailyTimeline)
}

func TestComputeDashboard(t *testing.T) {
	d := ComputeDashboard(sampleEvents(), statsNow)

	assert.Equal(t, 3, d.KPIs.TotalEvents)
	assert.Equal(t, 2, d.KPIs.ActiveEvents)
	assert.Equal(t, 3, d.KPIs.PlatformsTracked)
	assert.Equal(t, 2, d.KPIs.CitiesCovered)
	assert.Equal(t, 1, d.KPIs.AddedToday)
	assert.Equal(t, 66, d.KPIs.FreePercentage)

	assert.Equal(t, FreeVsPaid{Free: 2, Paid: 1}, d.FreeVsPaid)
	assert.Len(t, d.DailyTimeline, 30)
	assert.Equal(t, "2025-06-15", d.DailyTimeline[29].Date)
	assert.Equal(t, 1, d.DailyTimeline[29].Count)

	// Upcoming is sorted by start date and includes inactive future events.
	assert.Len(t, d.UpcomingEvents, 2)
	assert.Equal(t, "AI Summit", d.UpcomingEvents[0].Title)
	assert.Equal(t, "Food Fest", d.UpcomingEvents[1].Title)

	// Recent additions are newest first.
	assert.Equal(t, "AI Summit", d.RecentAdditions[0].Title)
}
