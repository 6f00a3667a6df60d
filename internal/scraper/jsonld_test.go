package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<html><head>
<script type="application/ld+json">
{
  "@type": "Event",
  "name": "Indie Music Night",
  "url": "https://allevents.in/pune/indie-music-night-123/",
  "startDate": "2025-07-12T19:00:00+05:30",
  "endDate": "2025-07-12T22:00:00+05:30",
  "description": "Live indie artists from across the city.",
  "location": {"address": {"addressLocality": "Pune", "addressCountry": "IN"}},
  "offers": {"price": "499", "priceCurrency": "INR"},
  "organizer": {"name": "Indie Collective"},
  "image": ["https://cdn.allevents.in/banner.jpg"]
}
</script>
<script type="application/ld+json">
[
  {"@type": "Event", "name": "Free Yoga Morning", "startDate": "2025-07-13",
   "offers": {"price": "0"}, "organizer": "Wellness Club"},
  {"@type": "Organization", "name": "Not An Event"}
]
</script>
<script type="application/ld+json">not json at all</script>
</head><body></body></html>`

func listingDoc(t *testing.T) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listingPage))
	require.NoError(t, err)
	return doc
}

func TestExtractJSONLD(t *testing.T) {
	events := extractJSONLD(listingDoc(t))

	require.Len(t, events, 2)
	assert.Equal(t, "Indie Music Night", events[0].Name)
	assert.Equal(t, "Free Yoga Morning", events[1].Name)
}

func TestLDEvent_Fields(t *testing.T) {
	events := extractJSONLD(listingDoc(t))
	require.Len(t, events, 2)

	paid := events[0]
	addr := paid.address()
	assert.Equal(t, "Pune", addr.Locality)
	assert.Equal(t, "IN", addr.Country)

	price, isFree := paid.price()
	assert.Equal(t, "INR 499", price)
	assert.False(t, isFree)

	assert.Equal(t, "Indie Collective", paid.organizerName())
	assert.Equal(t, "https://cdn.allevents.in/banner.jpg", paid.imageURL())
	assert.Equal(t, "indie-music-night-123", lastPathSegment(paid.eventURL()))

	free := events[1]
	price, isFree = free.price()
	assert.Equal(t, "Free", price)
	assert.True(t, isFree)
	assert.Equal(t, "Wellness Club", free.organizerName())
}

func TestRawToString(t *testing.T) {
	assert.Equal(t, "499", rawToString([]byte(`"499"`)))
	assert.Equal(t, "499", rawToString([]byte(`499`)))
	assert.Equal(t, "", rawToString(nil))
	assert.Equal(t, "", rawToString([]byte(`{"nested": true}`)))
}

func TestLastPathSegment(t *testing.T) {
	assert.Equal(t, "abc-123", lastPathSegment("https://allevents.in/pune/abc-123/"))
	assert.Equal(t, "abc-123", lastPathSegment("https://allevents.in/pune/abc-123"))
	assert.Equal(t, "plain", lastPathSegment("plain"))
	assert.Equal(t, "", lastPathSegment(""))
}
