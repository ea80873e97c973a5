package domain_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/felixgeelhaar/onramp/internal/organization/domain"
	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases and hyphenates", "Northlight Films", "northlight-films"},
		{"strips punctuation", "Smith & Sons, Ltd.", "smith-sons-ltd"},
		{"collapses hyphens", "A -- B", "a-b"},
		{"trims", "  Studio  ", "studio"},
		{"drops non ascii", "Café Noir", "caf-noir"},
		{"empty falls back", "!!!", "organization"},
		{"truncates", strings.Repeat("a", 60), strings.Repeat("a", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.Slugify(tt.input))
		})
	}
}

func TestRandomSuffix(t *testing.T) {
	re := regexp.MustCompile(`^[0-9a-z]{4}$`)
	for i := 0; i < 20; i++ {
		assert.Regexp(t, re, domain.RandomSuffix())
	}
	assert.Equal(t, "acme-x1y2", domain.WithSuffix("acme", "x1y2"))
}
