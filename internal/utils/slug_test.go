package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"The Dark Knight", "the-dark-knight"},
		{"  Heat  ", "heat"},
		{"Alien: Covenant", "alien-covenant"},
		{"Se7en", "se7en"},
		{"snake_case name", "snake-case-name"},
		{"a -- b", "a-b"},
		{"Amélie", "amlie"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MakeSlug(tt.in))
		})
	}
}
