package model

// Actor represents a person credited on a movie.  The same row is used
// for both roles: movie_actors links performers and movie_directors links
// directors.
//
// Fields:
//
//	ID          – primary key identifier.
//	Name        – display name; the public detail page is addressed by it.
//	Age         – non-negative age in years.
//	Description – free text biography.
//	Image       – reference to the stored portrait (path relative to the media root).
type Actor struct {
	ID          uint64 `json:"id"`          // actors.id
	Name        string `json:"name"`        // actors.name
	Age         uint16 `json:"age"`         // actors.age
	Description string `json:"description"` // actors.description
	Image       string `json:"image"`       // actors.image
}
