package scraper

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Rajsingh66/event-scraper/internal/domain"
)

// Demo listing titles per platform, templated with the city name. Serving a
// few of these keeps the rest of the pipeline exercisable while a platform
// blocks live scraping.
var demoTitles = map[string][]string{
	eventbritePlatform: {
		"TechConf %s 2025",
		"Startup Pitch Night - %s",
		"AI & Machine Learning Summit",
		"Web Dev Workshop: React & Node",
		"Digital Marketing Masterclass",
	},
	meetupPlatform: {
		"%s Tech Meetup",
		"Open Source Saturday %s",
		"Product Managers Circle",
		"Golang Developers %s",
		"Data Science Study Group",
	},
	alleventsPlatform: {
		"International Food Festival %s",
		"%s Cultural Carnival 2025",
		"Stand-Up Comedy Night - %s",
		"Weekend Photography Walk",
	},
}

var demoCategories = []string{"Technology", "Music", "Business", "Arts", "Food", "Sports"}

var demoPrices = []string{"INR 499", "INR 999", "INR 1499", "INR 2999"}

// demoEvents builds synthetic listings for one (platform, city, category)
// combination with near-future dates and platform-prefixed source ids.
func demoEvents(platform, city, category string) []domain.Event {
	titles := demoTitles[platform]
	now := time.Now()

	events := make([]domain.Event, 0, len(titles))
	for i, tmpl := range titles {
		title := tmpl
		if strings.Contains(tmpl, "%s") {
			title = fmt.Sprintf(tmpl, city)
		}

		date := now.AddDate(0, 0, 1+rand.Intn(60)).Format("2006-01-02")
		isFree := rand.Intn(2) == 0

		price := "Free"
		if !isFree {
			price = demoPrices[rand.Intn(len(demoPrices))]
		}

		eventCategory := category
		if eventCategory == "" {
			eventCategory = demoCategories[rand.Intn(len(demoCategories))]
		}

		e := domain.Event{
			Title:         title,
			Description:   fmt.Sprintf("Join us for an exciting %s event in %s.", eventCategory, city),
			StartDate:     date,
			EndDate:       date,
			City:          city,
			Country:       "India",
			SourceID:      fmt.Sprintf("%s_demo_%s_%d", platform, city, i),
			URL:           fmt.Sprintf("https://%s.example/demo-event-%d", platform, i),
			Category:      eventCategory,
			Price:         price,
			IsFree:        isFree,
			Organizer:     fmt.Sprintf("Community Hub %s", city),
			AttendeeCount: domain.FormatAttendees(50 + rand.Intn(450)),
		}
		fillDefaults(&e, platform)
		events = append(events, e)
	}

	return events
}
