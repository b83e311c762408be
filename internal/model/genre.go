package model

// Genre is linked to movies through the movie_genres join table.
type Genre struct {
	ID          uint64 `json:"id"`          // genres.id
	Name        string `json:"name"`        // genres.name
	Description string `json:"description"` // genres.description
	Slug        string `json:"url"`         // genres.url (unique)
}
