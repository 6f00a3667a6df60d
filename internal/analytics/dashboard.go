package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/Rajsingh66/event-scraper/internal/domain"
)

// Dashboard is the structured analytics payload behind GET /api/dashboard.
type Dashboard struct {
	KPIs              KPIs            `json:"kpis"`
	PlatformBreakdown []NamedCount    `json:"platform_breakdown"`
	CityBreakdown     []NamedCount    `json:"city_breakdown"`
	CategoryBreakdown []NamedCount    `json:"category_breakdown"`
	DailyTimeline     []TimelinePoint `json:"daily_timeline"`
	FreeVsPaid        FreeVsPaid      `json:"free_vs_paid"`
	UpcomingEvents    []domain.Event  `json:"upcoming_events"`
	RecentAdditions   []domain.Event  `json:"recent_additions"`
}

type KPIs struct {
	TotalEvents      int `json:"total_events"`
	ActiveEvents     int `json:"active_events"`
	UpcomingEvents   int `json:"upcoming_events"`
	PlatformsTracked int `json:"platforms_tracked"`
	CitiesCovered    int `json:"cities_covered"`
	AddedToday       int `json:"added_today"`
	FreePercentage   int `json:"free_percentage"`
}

type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type TimelinePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type FreeVsPaid struct {
	Free int `json:"free"`
	Paid int `json:"paid"`
}

const (
	timelineDays     = 30
	upcomingLimit    = 20
	recentLimit      = 10
	dashboardTopCity = 10
	dashboardTopCat  = 8
)

// ComputeDashboard aggregates the stored events into the dashboard payload.
func ComputeDashboard(events []domain.Event, now time.Time) *Dashboard {
	d := &Dashboard{
		PlatformBreakdown: []NamedCount{},
		CityBreakdown:     []NamedCount{},
		CategoryBreakdown: []NamedCount{},
		DailyTimeline:     []TimelinePoint{},
		UpcomingEvents:    []domain.Event{},
		RecentAdditions:   []domain.Event{},
	}
	if len(events) == 0 {
		return d
	}

	today := now.Format("2006-01-02")

	platforms := map[string]int{}
	cities := map[string]int{}
	categories := map[string]int{}
	daily := map[string]int{}

	var active, free, addedToday int
	var upcoming []domain.Event

	for _, e := range events {
		platform := e.Platform
		if platform == "" {
			platform = "unknown"
		}
		platforms[platform]++

		if e.City != "" {
			cities[e.City]++
		}

		category := e.Category
		if category == "" {
			category = "Other"
		}
		categories[category]++

		if e.ScrapedAt != "" {
			daily[truncateDay(e.ScrapedAt)]++
		}
		if strings.HasPrefix(e.ScrapedAt, today) {
			addedToday++
		}
		if e.IsActive {
			active++
		}
		if e.IsFree {
			free++
		}
		if e.StartDate >= today {
			upcoming = append(upcoming, e)
		}
	}

	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].StartDate < upcoming[j].StartDate })
	if len(upcoming) > upcomingLimit {
		upcoming = upcoming[:upcomingLimit]
	}

	recent := make([]domain.Event, len(events))
	copy(recent, events)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].ScrapedAt > recent[j].ScrapedAt })
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	for i := timelineDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		d.DailyTimeline = append(d.DailyTimeline, TimelinePoint{Date: day, Count: daily[day]})
	}

	for _, c := range sortedCounts(platforms, len(platforms)) {
		d.PlatformBreakdown = append(d.PlatformBreakdown, NamedCount{Name: c.key, Count: c.count})
	}
	for _, c := range sortedCounts(cities, dashboardTopCity) {
		d.CityBreakdown = append(d.CityBreakdown, NamedCount{Name: c.key, Count: c.count})
	}
	for _, c := range sortedCounts(categories, dashboardTopCat) {
		d.CategoryBreakdown = append(d.CategoryBreakdown, NamedCount{Name: c.key, Count: c.count})
	}

	d.KPIs = KPIs{
		TotalEvents:      len(events),
		ActiveEvents:     active,
		UpcomingEvents:   len(upcoming),
		PlatformsTracked: len(platforms),
		CitiesCovered:    len(cities),
		AddedToday:       addedToday,
		FreePercentage:   free * 100 / len(events),
	}
	d.FreeVsPaid = FreeVsPaid{Free: free, Paid: len(events) - free}
	d.UpcomingEvents = upcoming
	d.RecentAdditions = recent

	return d
}

func truncateDay(timestamp string) string {
	if len(timestamp) > 10 {
		return timestamp[:10]
	}
	return timestamp
}
