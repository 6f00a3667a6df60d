package dto

// ListEventsRequest holds the query parameters of GET /api/events. All
// filters are optional; empty values mean "no filter".
type ListEventsRequest struct {
	City     string `form:"city"`
	Platform string `form:"platform"`
	Category string `form:"category"`
	IsFree   string `form:"is_free"`
	Limit    int    `form:"limit,default=50"`
	Offset   int    `form:"offset,default=0"`
}
