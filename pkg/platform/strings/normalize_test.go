package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Jo Smith  ", "jo smith"},
		{"A@X.COM", "a@x.com"},
		{"", ""},
		{"   ", ""},
		{"Acme", "acme"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.in))
	}
}

func TestDedupeAndTrim(t *testing.T) {
	t.Run("removes duplicates and empties, preserves order", func(t *testing.T) {
		got := DedupeAndTrim([]string{"  reports ", "exports", "reports", "", "  "})
		assert.Equal(t, []string{"reports", "exports"}, got)
	})

	t.Run("empty input stays empty", func(t *testing.T) {
		assert.Empty(t, DedupeAndTrim(nil))
	})
}
