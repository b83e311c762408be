// Package admin describes the back office: which entities it manages and
// how each is listed, searched, filtered and acted upon.  The Registry is
// built once at start-up and is read-only afterwards.
package admin

import (
	"fmt"
	"regexp"
	"strings"
)

// Bulk actions available on movies.
const (
	ActionPublish   = "publish"
	ActionUnpublish = "unpublish"
)

// Relation names a foreign key of an entity's table and the table it
// points to.  Search fields written as "<relation>__<column>" search that
// column of the referenced table.
type Relation struct {
	Column string
	Table  string
}

// Entity holds the display rules of one managed table.
type Entity struct {
	Name         string   `json:"name"`  // URL segment, e.g. "movie-shots"
	Label        string   `json:"label"` // human readable plural
	Table        string   `json:"-"`
	ListDisplay  []string `json:"list_display"`
	ListFilter   []string `json:"list_filter"`
	SearchFields []string `json:"search_fields"`
	Readonly     []string `json:"readonly_fields"`
	Actions      []string `json:"actions"`
	Creatable    bool     `json:"creatable"`

	Relations map[string]Relation `json:"-"`
}

// Registry is the set of entities exposed under /admin.
type Registry struct {
	SiteTitle  string
	SiteHeader string
	entities   []Entity
	byName     map[string]int
}

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// NewRegistry validates and indexes entities.  Table and column names are
// interpolated into SQL, so anything that is not a plain lower-case
// identifier is rejected here.
func NewRegistry(title, header string, entities ...Entity) (*Registry, error) {
	r := &Registry{SiteTitle: title, SiteHeader: header, byName: make(map[string]int, len(entities))}
	for _, e := range entities {
		if e.Name == "" {
			return nil, fmt.Errorf("admin: entity for table %q has no name", e.Table)
		}
		if _, dup := r.byName[e.Name]; dup {
			return nil, fmt.Errorf("admin: entity %q registered twice", e.Name)
		}
		if !identifier.MatchString(e.Table) {
			return nil, fmt.Errorf("admin: entity %q: invalid table %q", e.Name, e.Table)
		}
		if len(e.ListDisplay) == 0 {
			return nil, fmt.Errorf("admin: entity %q: list_display is empty", e.Name)
		}
		for _, group := range [][]string{e.ListDisplay, e.ListFilter, e.Readonly} {
			for _, col := range group {
				if !identifier.MatchString(col) {
					return nil, fmt.Errorf("admin: entity %q: invalid column %q", e.Name, col)
				}
			}
		}
		for name, rel := range e.Relations {
			if !identifier.MatchString(rel.Column) || !identifier.MatchString(rel.Table) {
				return nil, fmt.Errorf("admin: entity %q: invalid relation %q", e.Name, name)
			}
		}
		for _, field := range e.SearchFields {
			if _, _, ok := e.searchField(field); !ok {
				return nil, fmt.Errorf("admin: entity %q: invalid column %q", e.Name, field)
			}
		}
		r.byName[e.Name] = len(r.entities)
		r.entities = append(r.entities, e)
	}
	return r, nil
}

// Entities returns the entities in registration order.
func (r *Registry) Entities() []Entity {
	out := make([]Entity, len(r.entities))
	copy(out, r.entities)
	return out
}

// Lookup returns the entity registered under name.
func (r *Registry) Lookup(name string) (Entity, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Entity{}, false
	}
	return r.entities[i], true
}

// searchField resolves a search field.  A plain column gives column and a
// nil relation; "<relation>__<column>" gives the relation and the column of
// the referenced table.
func (e Entity) searchField(field string) (rel *Relation, column string, ok bool) {
	name, col, related := strings.Cut(field, "__")
	if !related {
		return nil, field, identifier.MatchString(field)
	}
	r, found := e.Relations[name]
	if !found || !identifier.MatchString(col) {
		return nil, "", false
	}
	return &r, col, true
}

// HasAction reports whether action is enabled for the entity.
func (e Entity) HasAction(action string) bool {
	for _, a := range e.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Default returns the catalog back office.
func Default() *Registry {
	r, err := NewRegistry("Movie Catalog", "Movie Catalog",
		Entity{
			Name: "categories", Label: "Categories", Table: "categories",
			ListDisplay: []string{"id", "name", "url"},
			Creatable:   true,
		},
		Entity{
			Name: "genres", Label: "Genres", Table: "genres",
			ListDisplay: []string{"id", "name", "url"},
			Creatable:   true,
		},
		Entity{
			Name: "movies", Label: "Movies", Table: "movies",
			ListDisplay:  []string{"id", "title", "category_id", "url", "draft"},
			ListFilter:   []string{"category_id", "year"},
			SearchFields: []string{"title", "category__name"},
			Relations:    map[string]Relation{"category": {Column: "category_id", Table: "categories"}},
			Readonly:     []string{"poster"},
			Actions:      []string{ActionPublish, ActionUnpublish},
			Creatable:    true,
		},
		Entity{
			Name: "actors", Label: "Actors and directors", Table: "actors",
			ListDisplay: []string{"id", "name", "age", "image"},
			Readonly:    []string{"image"},
			Creatable:   true,
		},
		Entity{
			Name: "movie-shots", Label: "Movie shots", Table: "movie_shots",
			ListDisplay: []string{"id", "title", "movie_id", "image"},
			Readonly:    []string{"image"},
			Creatable:   true,
		},
		Entity{
			Name: "rating-stars", Label: "Rating stars", Table: "rating_stars",
			ListDisplay: []string{"id", "value"},
			Creatable:   true,
		},
		Entity{
			Name: "ratings", Label: "Ratings", Table: "ratings",
			ListDisplay: []string{"id", "star_id", "movie_id", "ip"},
		},
		Entity{
			Name: "reviews", Label: "Reviews", Table: "reviews",
			ListDisplay: []string{"id", "name", "email", "parent_id", "movie_id"},
			Readonly:    []string{"name", "email"},
		},
		Entity{
			Name: "contacts", Label: "Subscriptions", Table: "contacts",
			ListDisplay: []string{"id", "email", "created_at"},
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}
