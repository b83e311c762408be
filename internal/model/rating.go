package model

// RatingStar is a row of the small lookup table of selectable star values.
type RatingStar struct {
	ID    uint64 `json:"id"`    // rating_stars.id
	Value int16  `json:"value"` // rating_stars.value
}

// Rating records the star a client address gave to a movie.  There is at
// most one row per (MovieID, IP); resubmissions overwrite StarID.
type Rating struct {
	ID      uint64 `json:"id"`       // ratings.id
	IP      string `json:"ip"`       // ratings.ip
	StarID  uint64 `json:"star_id"`  // ratings.star_id
	MovieID uint64 `json:"movie_id"` // ratings.movie_id
}

// RatingSummary aggregates the ratings of one movie.
type RatingSummary struct {
	Votes   int64   `json:"votes"`
	Average float64 `json:"average"`
}
