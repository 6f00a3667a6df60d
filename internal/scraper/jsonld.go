package scraper

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ldEvent is the subset of the schema.org Event JSON-LD shape the adapters
// extract from listing pages.
type ldEvent struct {
	Type        string          `json:"@type"`
	ID          string          `json:"@id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	URL         string          `json:"url"`
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate"`
	EventType   string          `json:"eventType"`
	Image       json.RawMessage `json:"image"`
	Location    struct {
		Address json.RawMessage `json:"address"`
	} `json:"location"`
	Offers    json.RawMessage `json:"offers"`
	Organizer json.RawMessage `json:"organizer"`
}

type ldAddress struct {
	Locality string `json:"addressLocality"`
	Country  string `json:"addressCountry"`
}

type ldOffer struct {
	Price         json.RawMessage `json:"price"`
	PriceCurrency string          `json:"priceCurrency"`
}

// extractJSONLD pulls every schema.org Event out of the document's
// application/ld+json script tags. Both single objects and arrays appear in
// the wild; malformed blocks are skipped.
func extractJSONLD(doc *goquery.Document) []ldEvent {
	var events []ldEvent

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}

		var list []ldEvent
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			for _, item := range list {
				if item.Type == "Event" {
					events = append(events, item)
				}
			}
			return
		}

		var single ldEvent
		if err := json.Unmarshal([]byte(raw), &single); err == nil && single.Type == "Event" {
			events = append(events, single)
		}
	})

	return events
}

// address decodes the location address, tolerating the bare-string form some
// platforms emit instead of a PostalAddress object.
func (e ldEvent) address() ldAddress {
	var addr ldAddress
	if len(e.Location.Address) == 0 {
		return addr
	}
	if err := json.Unmarshal(e.Location.Address, &addr); err == nil {
		return addr
	}
	return ldAddress{}
}

// price decodes the offers block (object or array) into display price text
// and a free flag.
func (e ldEvent) price() (string, bool) {
	var offer ldOffer
	if len(e.Offers) > 0 {
		if err := json.Unmarshal(e.Offers, &offer); err != nil {
			var offers []ldOffer
			if err := json.Unmarshal(e.Offers, &offers); err == nil && len(offers) > 0 {
				offer = offers[0]
			}
		}
	}

	price := rawToString(offer.Price)
	switch strings.ToLower(price) {
	case "", "0", "0.0", "free":
		return "Free", true
	}

	currency := offer.PriceCurrency
	if currency == "" {
		currency = "INR"
	}
	return currency + " " + price, false
}

// organizerName decodes the organizer, tolerating both object and string
// forms.
func (e ldEvent) organizerName() string {
	if len(e.Organizer) == 0 {
		return ""
	}

	var org struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(e.Organizer, &org); err == nil && org.Name != "" {
		return org.Name
	}

	var name string
	if err := json.Unmarshal(e.Organizer, &name); err == nil {
		return name
	}
	return ""
}

// imageURL decodes the image field: plain string, array of strings, or
// ImageObject.
func (e ldEvent) imageURL() string {
	if len(e.Image) == 0 {
		return ""
	}

	var url string
	if err := json.Unmarshal(e.Image, &url); err == nil {
		return url
	}

	var urls []string
	if err := json.Unmarshal(e.Image, &urls); err == nil && len(urls) > 0 {
		return urls[0]
	}

	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(e.Image, &obj); err == nil {
		return obj.URL
	}
	return ""
}

// eventURL prefers the url field, falling back to @id.
func (e ldEvent) eventURL() string {
	if e.URL != "" {
		return e.URL
	}
	return e.ID
}

// rawToString renders a JSON scalar (string or number) as display text.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// lastPathSegment extracts the trailing path segment of a URL, the usual home
// of a platform-local listing id.
func lastPathSegment(url string) string {
	url = strings.TrimRight(url, "/")
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
