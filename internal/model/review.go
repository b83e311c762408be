package model

// Review is a visitor comment on a movie.  ParentID threads replies; when
// the parent is deleted the reply survives with ParentID cleared.
type Review struct {
	ID       uint64  `json:"id"`        // reviews.id
	Email    string  `json:"-"`         // reviews.email (never rendered publicly)
	Name     string  `json:"name"`      // reviews.name
	Text     string  `json:"text"`      // reviews.text
	ParentID *uint64 `json:"parent_id"` // reviews.parent_id (nullable)
	MovieID  uint64  `json:"movie_id"`  // reviews.movie_id
}

// ReviewThread is a top-level review with its direct replies.
type ReviewThread struct {
	Review
	Replies []Review `json:"replies"`
}
