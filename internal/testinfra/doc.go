// Package testinfra starts throwaway MySQL and Redis containers for the
// integration tests.  Everything in it is behind the "integration" build
// tag:
//
//	go test -tags integration ./...
//
// Tests are skipped when no Docker daemon is reachable.
package testinfra
