package randx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := ConnectionID()
		assert.NotEmpty(t, id)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestPresenceColorIsDeterministic(t *testing.T) {
	first := PresenceColor("u-alice")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, PresenceColor("u-alice"))
	}
}

func TestPresenceColorComesFromPalette(t *testing.T) {
	palette := make(map[string]bool)
	for _, c := range presencePalette {
		palette[c] = true
	}

	for _, id := range []string{"", "u-1", "u-2", "some-long-user-identifier"} {
		assert.True(t, palette[PresenceColor(id)])
	}
}
