// Package analytics computes aggregate statistics over the stored event set
// for the stats worksheet and the dashboard API.
package analytics

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Rajsingh66/event-scraper/internal/domain"
)

// Metric is one row of the stats worksheet. The slice form keeps the sheet
// ordering deterministic between runs.
type Metric struct {
	Name  string
	Value string
}

const (
	topCityCount     = 10
	topCategoryCount = 10
)

// ComputeStats flattens the full event set into the metric rows written to
// the stats worksheet.
func ComputeStats(events []domain.Event, now time.Time) []Metric {
	if len(events) == 0 {
		return []Metric{{Name: "total_events", Value: "0"}}
	}

	today := now.Format("2006-01-02")
	month := today[:7]

	var active, free, addedToday, addedThisMonth, upcoming int
	platforms := map[string]int{}
	cities := map[string]int{}
	categories := map[string]int{}

	for _, e := range events {
		if e.IsActive {
			active++
		}
		if e.IsFree {
			free++
		}
		if strings.HasPrefix(e.ScrapedAt, today) {
			addedToday++
		}
		if strings.HasPrefix(e.ScrapedAt, month) {
			addedThisMonth++
		}
		if e.StartDate >= today && e.IsActive {
			upcoming++
		}

		platform := e.Platform
		if platform == "" {
			platform = "unknown"
		}
		platforms[platform]++

		if e.City != "" {
			cities[e.City]++
		}
		if e.Category != "" {
			categories[e.Category]++
		}
	}

	metrics := []Metric{
		{Name: "total_events", Value: strconv.Itoa(len(events))},
		{Name: "active_events", Value: strconv.Itoa(active)},
		{Name: "upcoming_events", Value: strconv.Itoa(upcoming)},
		{Name: "free_events", Value: strconv.Itoa(free)},
		{Name: "paid_events", Value: strconv.Itoa(len(events) - free)},
		{Name: "total_platforms", Value: strconv.Itoa(len(platforms))},
		{Name: "added_today", Value: strconv.Itoa(addedToday)},
		{Name: "added_this_month", Value: strconv.Itoa(addedThisMonth)},
		{Name: "last_updated", Value: now.Format(time.RFC3339)},
	}

	for _, c := range sortedCounts(platforms, len(platforms)) {
		metrics = append(metrics, Metric{Name: "platform_" + c.key, Value: strconv.Itoa(c.count)})
	}
	for _, c := range sortedCounts(cities, topCityCount) {
		metrics = append(metrics, Metric{Name: "city_" + c.key, Value: strconv.Itoa(c.count)})
	}
	for _, c := range sortedCounts(categories, topCategoryCount) {
		name := strings.ToLower(strings.ReplaceAll(c.key, " ", "_"))
		if len(name) > 30 {
			name = name[:30]
		}
		metrics = append(metrics, Metric{Name: "category_" + name, Value: strconv.Itoa(c.count)})
	}

	return metrics
}

type keyCount struct {
	key   string
	count int
}

// sortedCounts orders a counter map by descending count, breaking ties by key
// so results are stable, and keeps at most limit entries.
func sortedCounts(counter map[string]int, limit int) []keyCount {
	out := make([]keyCount, 0, len(counter))
	for k, v := range counter {
		out = append(out, keyCount{key: k, count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
