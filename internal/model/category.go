package model

// Category groups movies (for example "Films" or "Series").  Movies keep
// a nullable reference to their category; deleting a category leaves the
// movies in place with the reference cleared.
type Category struct {
	ID          uint64 `json:"id"`          // categories.id
	Name        string `json:"name"`        // categories.name
	Description string `json:"description"` // categories.description
	Slug        string `json:"url"`         // categories.url (unique)
}
