// Package scraper contains the platform adapters that fetch raw event
// listings and normalize them into the common record shape.
package scraper

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Rajsingh66/event-scraper/internal/domain"
)

// Scraper fetches event listings for one platform. Implementations are
// independent; they share no mutable state and may run concurrently.
type Scraper interface {
	Platform() string
	FetchEvents(ctx context.Context, city, category string) ([]domain.Event, error)
}

// FallbackStrategy decides what an adapter returns when the live fetch fails.
type FallbackStrategy int

const (
	// FallbackNone returns no events on failure.
	FallbackNone FallbackStrategy = iota
	// FallbackDemo serves synthetic listings so downstream stages stay
	// exercisable while a platform blocks scraping.
	FallbackDemo
)

// Options configures a platform adapter. A nil Client gets a default with a
// 30 second timeout.
type Options struct {
	Client   *http.Client
	Fallback FallbackStrategy
	Log      *zap.Logger
}

const defaultTimeout = 30 * time.Second

func (o Options) httpClient() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return &http.Client{Timeout: defaultTimeout}
}

func (o Options) logger() *zap.Logger {
	if o.Log != nil {
		return o.Log
	}
	return zap.NewNop()
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
}

// browserHeaders returns request headers with a rotating browser User-Agent.
func browserHeaders() http.Header {
	h := http.Header{}
	h.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	h.Set("Accept", "application/json, text/html,*/*")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	return h
}

// politeDelay sleeps between page fetches; swapped for a no-op in tests.
var politeDelay = sleepBetweenFetches

// sleepBetweenFetches waits a random 1.5-3.5s unless the context is
// cancelled first.
func sleepBetweenFetches(ctx context.Context) {
	delay := time.Duration(1500+rand.Intn(2000)) * time.Millisecond
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}

// fillDefaults applies the common record defaults every adapter guarantees.
func fillDefaults(e *domain.Event, platform string) {
	e.Platform = platform
	if e.Title == "" {
		e.Title = "Untitled Event"
	}
	if e.Country == "" {
		e.Country = "India"
	}
	if e.Price == "" {
		e.Price = "Free"
		e.IsFree = true
	}
}
