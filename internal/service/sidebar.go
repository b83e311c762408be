package service

import (
	"context"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// Sidebar is the genre and year navigation shown next to every listing.
type Sidebar struct {
	Genres []*model.Genre `json:"genres"`
	Years  []int          `json:"years"`
}

// BuildSidebar loads all genres and the distinct years of published movies.
func BuildSidebar(ctx context.Context, genres GenreStore, years YearStore) (Sidebar, error) {
	g, err := genres.ListAll(ctx)
	if err != nil {
		return Sidebar{}, err
	}
	y, err := years.PublishedYears(ctx)
	if err != nil {
		return Sidebar{}, err
	}
	if g == nil {
		g = []*model.Genre{}
	}
	if y == nil {
		y = []int{}
	}
	return Sidebar{Genres: g, Years: y}, nil
}
