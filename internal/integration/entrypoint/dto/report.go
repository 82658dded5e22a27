package dto

// ReportQuery represents the query parameters of the report endpoints.
type ReportQuery struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// TrendQuery represents the query parameters of the trend endpoint.
type TrendQuery struct {
	StartDate   string `form:"start_date"`
	EndDate     string `form:"end_date"`
	Granularity string `form:"granularity"`
}
