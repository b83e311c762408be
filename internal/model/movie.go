package model

import "time"

// Movie represents a catalog entry.  Draft movies are hidden from every
// public listing but remain reachable by their slug.
//
// Fields:
//
//	ID            – primary key identifier.
//	Title         – movie title.
//	Tagline       – short slogan, empty by default.
//	Description   – long description.
//	Poster        – reference to the stored poster image.
//	Year          – release year.
//	Country       – production country.
//	WorldPremiere – world premiere date.
//	Budget        – budget in dollars.
//	FeesInUSA     – domestic box office in dollars.
//	FeesInWorld   – worldwide box office in dollars.
//	CategoryID    – nullable reference to categories.id.
//	Slug          – unique URL slug.
//	Draft         – unpublished flag.
type Movie struct {
	ID            uint64    `json:"id"`             // movies.id
	Title         string    `json:"title"`          // movies.title
	Tagline       string    `json:"tagline"`        // movies.tagline
	Description   string    `json:"description"`    // movies.description
	Poster        string    `json:"poster"`         // movies.poster
	Year          uint16    `json:"year"`           // movies.year
	Country       string    `json:"country"`        // movies.country
	WorldPremiere time.Time `json:"world_premiere"` // movies.world_premiere
	Budget        uint64    `json:"budget"`         // movies.budget
	FeesInUSA     uint64    `json:"fees_in_usa"`    // movies.fees_in_usa
	FeesInWorld   uint64    `json:"fees_in_world"`  // movies.fees_in_world
	CategoryID    *uint64   `json:"category_id"`    // movies.category_id (nullable)
	Slug          string    `json:"url"`            // movies.url (unique)
	Draft         bool      `json:"draft"`          // movies.draft
}

// MovieCard is the reduced projection used by the JSON filter endpoint.
type MovieCard struct {
	Title   string `json:"title"`
	Tagline string `json:"tagline"`
	Slug    string `json:"url"`
	Poster  string `json:"poster"`
}
