package model

// MovieShot is a still frame attached to a movie.  Shots are removed
// together with their movie.
type MovieShot struct {
	ID          uint64 `json:"id"`          // movie_shots.id
	Title       string `json:"title"`       // movie_shots.title
	Description string `json:"description"` // movie_shots.description
	Image       string `json:"image"`       // movie_shots.image
	MovieID     uint64 `json:"movie_id"`    // movie_shots.movie_id
}
