package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Science Fiction", "science-fiction"},
		{"LitRPG", "litrpg"},
		{"Sci-Fi/Fantasy", "sci-fi-fantasy"},
		{"  --Self Help--  ", "self-help"},
		{"Café Noir", "cafe-noir"},
		{"أدب عربي", "ادب-عربي"},
		{"Poetry & Verse 2", "poetry-verse-2"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}
