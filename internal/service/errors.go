// Package service implements the catalog use cases on top of the
// repositories: read-only queries for the public pages, review and rating
// submission, and contact subscriptions.
package service

import "errors"

var (
	// ErrNotFound reports an unknown slug, name or id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidPage reports a page number outside the result.
	ErrInvalidPage = errors.New("invalid page")
)
