package dto

// TeacherSummary is one row of the public teacher listing.
type TeacherSummary struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Headline    string  `json:"headline"`
	Subjects    string  `json:"subjects"`
	HourlyRate  float64 `json:"hourly_rate"`
	Currency    string  `json:"currency"`
	AvgRating   float64 `json:"avg_rating"`
	ReviewCount int64   `json:"review_count"`
}
