package hashid

import (
	"testing"

	"github.com/arwindpianist/showcase/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "0"},
		{"a", "2p"},
		{"ab", "2e9"},
		{"hello", "1n1e4y"},
		{"CasaLink", "1cu0di"},
		{"ys-teras-maju", "q6ku8k"},
		// hashes to math.MinInt32
		{"polygenelubricants", "zik0zk"},
		// surrogate pair
		{"😀", "11zz7"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, entity.ID(tt.expected), Hash(tt.input))
		})
	}
}

func TestHashIsStable(t *testing.T) {
	first := Hash("portfolio-site")
	for range 10 {
		assert.Equal(t, first, Hash("portfolio-site"))
	}
}

func TestHashKnownCollision(t *testing.T) {
	// Not collision resistant; callers must treat equal hashes as the same project.
	assert.Equal(t, Hash("Aa"), Hash("BB"))
}
